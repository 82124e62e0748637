package testutil

import (
	"context"
	"fmt"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	zerologadapter "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// StartCrdbServer starts a single node CockroachDB server and waits until it accepts connections.
func StartCrdbServer() (testserver.TestServer, error) {
	ts, err := testserver.NewTestServer()
	if err != nil {
		return nil, fmt.Errorf("new test server: %w", err)
	}
	if ts.PGURL() == nil {
		ts.Stop()
		return nil, fmt.Errorf("test server doesn't have the url")
	}
	if err := ts.WaitForInit(); err != nil {
		ts.Stop()
		return nil, fmt.Errorf("wait for init: %w", err)
	}
	return ts, nil
}

// NewPool connects a pgx pool to url that logs queries to logger at debug level.
func NewPool(ctx context.Context, url string, logger zerolog.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	cfg.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   zerologadapter.NewLogger(logger),
		LogLevel: tracelog.LogLevelDebug,
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect pool: %w", err)
	}
	return pool, nil
}
