//go:build integration

package testutil_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sqlext/sqlext/internal/testutil"
)

func TestStartCrdbServer(t *testing.T) {
	ts, err := testutil.StartCrdbServer()
	require.NoError(t, err)
	defer ts.Stop()

	ctx := context.Background()
	pool, err := testutil.NewPool(ctx, ts.PGURL().String(), zerolog.Nop())
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, pool.Ping(ctx))
}
