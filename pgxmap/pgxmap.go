package pgxmap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sqlext/sqlext/dbmap"
)

// Querier is something that pgxmap can query and get the pgx.Rows from.
// For example, it can be: *pgxpool.Pool, *pgx.Conn or pgx.Tx.
type Querier interface {
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
}

var (
	_ Querier = &pgxpool.Pool{}
	_ Querier = &pgx.Conn{}
	_ Querier = pgx.Tx(nil)
)

// Select is a package-level helper function that uses the DefaultAPI object.
// See APISelect for details.
func Select[T any](ctx context.Context, db Querier, query string, args ...interface{}) ([]T, error) {
	return APISelect[T](ctx, DefaultAPI, db, query, args...)
}

// Get is a package-level helper function that uses the DefaultAPI object.
// See APIGet for details.
func Get[T any](ctx context.Context, db Querier, query string, args ...interface{}) (T, error) {
	return APIGet[T](ctx, DefaultAPI, db, query, args...)
}

// MapAll is a package-level helper function that uses the DefaultAPI object.
// See APIMapAll for details.
func MapAll[T any](ctx context.Context, rows pgx.Rows) ([]T, error) {
	return APIMapAll[T](ctx, DefaultAPI, rows)
}

// MapOne is a package-level helper function that uses the DefaultAPI object.
// See APIMapOne for details.
func MapOne[T any](ctx context.Context, rows pgx.Rows) (T, error) {
	return APIMapOne[T](ctx, DefaultAPI, rows)
}

// NewRowMapper is a package-level helper function that uses the DefaultAPI object.
// See API.NewRowMapper for details.
func NewRowMapper(rows pgx.Rows) *dbmap.RowMapper {
	return DefaultAPI.NewRowMapper(rows)
}

// API is a wrapper around the dbmap.API type.
// See dbmap.API for details.
type API struct {
	dbmapAPI *dbmap.API
}

// NewAPI creates new API instance from dbmap.API instance.
func NewAPI(dbmapAPI *dbmap.API) (*API, error) {
	if dbmapAPI == nil {
		return nil, fmt.Errorf("pgxmap: dbmap API must not be nil")
	}
	api := &API{dbmapAPI: dbmapAPI}
	return api, nil
}

// DBMapAPI returns the underlying dbmap.API.
func (api *API) DBMapAPI() *dbmap.API {
	return api.dbmapAPI
}

// APISelect is a high-level function that queries rows from Querier and calls APIMapAll.
func APISelect[T any](ctx context.Context, api *API, db Querier, query string, args ...interface{}) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgxmap: query multiple result rows: %w", err)
	}
	result, err := APIMapAll[T](ctx, api, rows)
	if err != nil {
		return nil, fmt.Errorf("mapping all: %w", err)
	}
	return result, nil
}

// APIGet is a high-level function that queries rows from Querier and calls APIMapOne.
// If no rows are found it returns a pgx.ErrNoRows error.
func APIGet[T any](ctx context.Context, api *API, db Querier, query string, args ...interface{}) (T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("pgxmap: query one result row: %w", err)
	}
	result, err := APIMapOne[T](ctx, api, rows)
	if err != nil {
		return result, fmt.Errorf("mapping one: %w", err)
	}
	return result, nil
}

// APIMapAll is a wrapper around the dbmap.APIMapAllContext function.
// See dbmap.APIMapAllContext for details.
func APIMapAll[T any](ctx context.Context, api *API, rows pgx.Rows) ([]T, error) {
	return dbmap.APIMapAllContext[T](ctx, api.dbmapAPI, NewRowsAdapter(rows))
}

// APIMapOne is a wrapper around the dbmap.APIMapOneContext function.
// See dbmap.APIMapOneContext for details. If no rows are found it
// returns a pgx.ErrNoRows error.
func APIMapOne[T any](ctx context.Context, api *API, rows pgx.Rows) (T, error) {
	result, found, err := dbmap.APIMapOneContext[T](ctx, api.dbmapAPI, NewRowsAdapter(rows))
	switch {
	case err != nil:
		return result, fmt.Errorf("%w", err)
	case !found:
		return result, fmt.Errorf("%w", pgx.ErrNoRows)
	default:
		return result, nil
	}
}

// NotFound is a helper function to check if an error
// is `pgx.ErrNoRows`.
func NotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// NewRowMapper returns a new dbmap.RowMapper over rows.
func (api *API) NewRowMapper(rows pgx.Rows) *dbmap.RowMapper {
	return api.dbmapAPI.NewRowMapper(NewRowsAdapter(rows))
}

// RowsAdapter makes pgx.Rows compliant with the dbmap.Rows interface.
// See dbmap.Rows for details.
type RowsAdapter struct {
	pgx.Rows
}

// NewRowsAdapter returns a new RowsAdapter instance.
func NewRowsAdapter(rows pgx.Rows) *RowsAdapter {
	return &RowsAdapter{Rows: rows}
}

// Columns implements the dbmap.Rows.Columns method.
func (ra RowsAdapter) Columns() ([]string, error) {
	columns := make([]string, len(ra.Rows.FieldDescriptions()))
	for i, fd := range ra.Rows.FieldDescriptions() {
		columns[i] = fd.Name
	}
	return columns, nil
}

// Close implements the dbmap.Rows.Close method.
func (ra RowsAdapter) Close() error {
	ra.Rows.Close()
	return nil
}

func mustNewAPI(dbmapAPI *dbmap.API) *API {
	api, err := NewAPI(dbmapAPI)
	if err != nil {
		panic(err)
	}
	return api
}

// DefaultAPI is the default instance of API, it wraps dbmap.DefaultAPI.
var DefaultAPI = mustNewAPI(dbmap.DefaultAPI)
