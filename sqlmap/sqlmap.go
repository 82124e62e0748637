package sqlmap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sqlext/sqlext/dbmap"
)

// Querier is something that sqlmap can query and get the *sql.Rows from.
// For example, it can be: *sql.DB, *sql.Conn or *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

var (
	_ Querier = &sql.DB{}
	_ Querier = &sql.Conn{}
	_ Querier = &sql.Tx{}
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
func MapAll[T any](ctx context.Context, rows *sql.Rows) ([]T, error) {
	return APIMapAll[T](ctx, DefaultAPI, rows)
}

// MapOne is a package-level helper function that uses the DefaultAPI object.
// See APIMapOne for details.
func MapOne[T any](ctx context.Context, rows *sql.Rows) (T, error) {
	return APIMapOne[T](ctx, DefaultAPI, rows)
}

// API is a wrapper around the dbmap.API type.
// See dbmap.API for details.
type API struct {
	dbmapAPI *dbmap.API
}

// NewAPI creates new API instance from dbmap.API instance.
func NewAPI(dbmapAPI *dbmap.API) (*API, error) {
	if dbmapAPI == nil {
		return nil, fmt.Errorf("sqlmap: dbmap API must not be nil")
	}
	api := &API{dbmapAPI: dbmapAPI}
	return api, nil
}

// APISelect is a high-level function that queries rows from Querier and calls APIMapAll.
func APISelect[T any](ctx context.Context, api *API, db Querier, query string, args ...interface{}) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlmap: query multiple result rows: %w", err)
	}
	result, err := APIMapAll[T](ctx, api, rows)
	if err != nil {
		return nil, fmt.Errorf("mapping all: %w", err)
	}
	return result, nil
}

// APIGet is a high-level function that queries rows from Querier and calls APIMapOne.
// If no rows are found it returns an sql.ErrNoRows error.
func APIGet[T any](ctx context.Context, api *API, db Querier, query string, args ...interface{}) (T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("sqlmap: query one result row: %w", err)
	}
	result, err := APIMapOne[T](ctx, api, rows)
	if err != nil {
		return result, fmt.Errorf("mapping one: %w", err)
	}
	return result, nil
}

// APIMapAll is a wrapper around the dbmap.APIMapAllContext function.
// See dbmap.APIMapAllContext for details.
func APIMapAll[T any](ctx context.Context, api *API, rows *sql.Rows) ([]T, error) {
	return dbmap.APIMapAllContext[T](ctx, api.dbmapAPI, NewRowsAdapter(rows))
}

// APIMapOne is a wrapper around the dbmap.APIMapOneContext function.
// See dbmap.APIMapOneContext for details. If no rows are found it
// returns an sql.ErrNoRows error.
func APIMapOne[T any](ctx context.Context, api *API, rows *sql.Rows) (T, error) {
	result, found, err := dbmap.APIMapOneContext[T](ctx, api.dbmapAPI, NewRowsAdapter(rows))
	switch {
	case err != nil:
		return result, fmt.Errorf("%w", err)
	case !found:
		return result, fmt.Errorf("%w", sql.ErrNoRows)
	default:
		return result, nil
	}
}

// NotFound is a helper function to check if an error
// is `sql.ErrNoRows`.
func NotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// NewRowMapper returns a new dbmap.RowMapper over rows.
func (api *API) NewRowMapper(rows *sql.Rows) *dbmap.RowMapper {
	return api.dbmapAPI.NewRowMapper(NewRowsAdapter(rows))
}

// MapStrings is a wrapper around the dbmap.API.MapStrings method.
func (api *API) MapStrings(rows *sql.Rows) ([]map[string]string, error) {
	return api.dbmapAPI.MapStrings(NewRowsAdapter(rows))
}

// MapValues is a wrapper around the dbmap.API.MapValues method.
func (api *API) MapValues(rows *sql.Rows) ([]map[string]interface{}, error) {
	return api.dbmapAPI.MapValues(NewRowsAdapter(rows))
}

// RowsAdapter makes *sql.Rows compliant with the dbmap.Rows interface.
// See dbmap.Rows for details.
type RowsAdapter struct {
	*sql.Rows
	columnCount int
}

// NewRowsAdapter returns a new RowsAdapter instance.
func NewRowsAdapter(rows *sql.Rows) *RowsAdapter {
	return &RowsAdapter{Rows: rows, columnCount: -1}
}

// Values implements the dbmap.Rows.Values method.
// Each column is scanned into an interface{}, so values are the driver values,
// []byte values are copied.
func (ra *RowsAdapter) Values() ([]interface{}, error) {
	if ra.columnCount < 0 {
		columns, err := ra.Rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("sqlmap: get rows columns: %w", err)
		}
		ra.columnCount = len(columns)
	}
	values := make([]interface{}, ra.columnCount)
	scans := make([]interface{}, ra.columnCount)
	for i := range values {
		scans[i] = &values[i]
	}
	if err := ra.Rows.Scan(scans...); err != nil {
		return nil, fmt.Errorf("sqlmap: scan row values: %w", err)
	}
	return values, nil
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
