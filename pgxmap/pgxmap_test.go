package pgxmap_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlext/sqlext/dbmap"
	"github.com/sqlext/sqlext/pgxmap"
)

type testModel struct {
	Foo string
	Bar *string
}

// stubRows is a pgx.Rows serving a fixed result set.
type stubRows struct {
	fields []pgconn.FieldDescription
	values [][]interface{}
	pos    int
	closed bool
	err    error
}

var _ pgx.Rows = (*stubRows)(nil)

func newStubRows(columns []string, values ...[]interface{}) *stubRows {
	fields := make([]pgconn.FieldDescription, len(columns))
	for i, c := range columns {
		fields[i] = pgconn.FieldDescription{Name: c}
	}
	return &stubRows{fields: fields, values: values}
}

func (r *stubRows) Close()                                       { r.closed = true }
func (r *stubRows) Err() error                                   { return r.err }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *stubRows) Scan(dest ...interface{}) error               { return errors.New("stubRows: Scan is not supported") }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

func (r *stubRows) Next() bool {
	if r.closed || r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *stubRows) Values() ([]interface{}, error) {
	return r.values[r.pos-1], nil
}

type stubQuerier struct {
	rows  *stubRows
	err   error
	query string
	args  []interface{}
}

func (q *stubQuerier) Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error) {
	q.query, q.args = query, args
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func newAPI(t *testing.T) *pgxmap.API {
	t.Helper()
	dbmapAPI, err := dbmap.NewAPI(dbmap.WithRegisterer(prometheus.NewRegistry()))
	require.NoError(t, err)
	api, err := pgxmap.NewAPI(dbmapAPI)
	require.NoError(t, err)
	return api
}

func makeStrPtr(v string) *string { return &v }

func TestSelect(t *testing.T) {
	t.Parallel()
	api := newAPI(t)
	rows := newStubRows([]string{"foo", "bar"},
		[]interface{}{"foo val", "bar val"},
		[]interface{}{"foo val 2", nil},
	)
	db := &stubQuerier{rows: rows}

	got, err := pgxmap.APISelect[*testModel](context.Background(), api, db, "SELECT foo, bar FROM t WHERE x = $1", 1)
	require.NoError(t, err)
	assert.Equal(t, []*testModel{
		{Foo: "foo val", Bar: makeStrPtr("bar val")},
		{Foo: "foo val 2"},
	}, got)
	assert.Equal(t, "SELECT foo, bar FROM t WHERE x = $1", db.query)
	assert.Equal(t, []interface{}{1}, db.args)
	assert.True(t, rows.closed)
}

func TestSelect_QueryError(t *testing.T) {
	t.Parallel()
	queryErr := errors.New("connection refused")
	db := &stubQuerier{err: queryErr}

	_, err := pgxmap.APISelect[testModel](context.Background(), newAPI(t), db, "SELECT 1")
	assert.ErrorIs(t, err, queryErr)
}

func TestGet(t *testing.T) {
	t.Parallel()
	api := newAPI(t)
	rows := newStubRows([]string{"foo", "bar"},
		[]interface{}{"foo val", "bar val"},
		[]interface{}{"foo val 2", "bar val 2"},
	)

	got, err := pgxmap.APIGet[testModel](context.Background(), api, &stubQuerier{rows: rows}, "SELECT foo, bar FROM t")
	require.NoError(t, err)
	assert.Equal(t, testModel{Foo: "foo val", Bar: makeStrPtr("bar val")}, got)
	assert.Equal(t, 1, rows.pos)
	assert.True(t, rows.closed)
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()
	rows := newStubRows([]string{"foo", "bar"})

	_, err := pgxmap.APIGet[testModel](context.Background(), newAPI(t), &stubQuerier{rows: rows}, "SELECT foo, bar FROM t")
	assert.True(t, pgxmap.NotFound(err))
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMapAll_TypeMismatch(t *testing.T) {
	t.Parallel()
	type counter struct {
		Count int
	}
	rows := newStubRows([]string{"count"}, []interface{}{int64(3)})

	_, err := pgxmap.APIMapAll[counter](context.Background(), newAPI(t), rows)
	assert.ErrorIs(t, err, dbmap.ErrTypeMismatch)
	assert.False(t, pgxmap.NotFound(err))
}

func TestRowsAdapter(t *testing.T) {
	t.Parallel()
	rows := newStubRows([]string{"foo", "bar"})
	ra := pgxmap.NewRowsAdapter(rows)

	columns, err := ra.Columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar"}, columns)
	require.NoError(t, ra.Close())
	assert.True(t, rows.closed)
}

func TestNewRowMapper(t *testing.T) {
	t.Parallel()
	rows := newStubRows([]string{"foo"}, []interface{}{"a"}, []interface{}{"b"})
	rm := newAPI(t).NewRowMapper(rows)

	var got []string
	for rows.Next() {
		var dst testModel
		require.NoError(t, rm.Map(&dst))
		got = append(got, dst.Foo)
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestNamedArgs(t *testing.T) {
	t.Parallel()
	type user struct {
		ID   string `db:"user_id"`
		Name string
		Note string `db:"-"`
	}

	args, err := newAPI(t).NamedArgs(&user{ID: "1", Name: "alice", Note: "x"})
	require.NoError(t, err)
	assert.Equal(t, pgx.NamedArgs{"user_id": "1", "Name": "alice"}, args)

	_, err = newAPI(t).NamedArgs(42)
	assert.ErrorIs(t, err, dbmap.ErrInvalidShape)
}

func TestNewAPI_Nil(t *testing.T) {
	t.Parallel()
	_, err := pgxmap.NewAPI(nil)
	assert.Error(t, err)
}
