package dbmap_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/sqlext/sqlext/dbmap"
)

// fakeRows serves a fixed result set and records how it was consumed.
type fakeRows struct {
	columns    []string
	rows       [][]interface{}
	pos        int
	nextCalls  int
	closed     bool
	columnsErr error
	err        error
	onNext     func(pos int)
}

var _ dbmap.Rows = (*fakeRows)(nil)

func newRows(columns []string, rows ...[]interface{}) *fakeRows {
	return &fakeRows{columns: columns, rows: rows}
}

func (r *fakeRows) Close() error {
	r.closed = true
	return nil
}

func (r *fakeRows) Err() error { return r.err }

func (r *fakeRows) Columns() ([]string, error) {
	if r.columnsErr != nil {
		return nil, r.columnsErr
	}
	return r.columns, nil
}

func (r *fakeRows) Next() bool {
	r.nextCalls++
	if r.closed || r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	if r.onNext != nil {
		r.onNext(r.pos)
	}
	return true
}

func (r *fakeRows) Values() ([]interface{}, error) {
	if r.pos == 0 {
		return nil, errors.New("fakeRows: Values called before Next")
	}
	return r.rows[r.pos-1], nil
}

func newAPI(t *testing.T, opts ...dbmap.APIOption) *dbmap.API {
	t.Helper()
	opts = append([]dbmap.APIOption{dbmap.WithRegisterer(prometheus.NewRegistry())}, opts...)
	api, err := dbmap.NewAPI(opts...)
	require.NoError(t, err)
	return api
}

func makeStrPtr(v string) *string { return &v }

type Office struct {
	OfficeCode   string
	City         string
	Phone        string
	AddressLine1 string
	AddressLine2 *string
	State        *string
	Country      string
	PostalCode   string
	Territory    string
}

var officeColumns = []string{
	"officeCode", "city", "phone", "addressLine1", "addressLine2",
	"state", "country", "postalCode", "territory",
}

func officeRows() *fakeRows {
	return newRows(officeColumns,
		[]interface{}{"1", "San Francisco", "+1 650 219 4782", "100 Market Street", "Suite 300", "CA", "USA", "94080", "NA"},
		[]interface{}{"2", "Boston", "+1 215 837 0825", "1550 Court Place", "Suite 102", "MA", "USA", "02107", "NA"},
	)
}
