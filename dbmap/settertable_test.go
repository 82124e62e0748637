package dbmap_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlext/sqlext/dbmap"
)

func TestBuildSetterTable_Idempotent(t *testing.T) {
	t.Parallel()
	api := newAPI(t)
	officeType := reflect.TypeOf(Office{})

	first, err := api.BuildSetterTable(officeType, officeColumns)
	require.NoError(t, err)
	second, err := api.BuildSetterTable(reflect.PtrTo(officeType), officeColumns)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1.0, api.Builds("table"))
	assert.Equal(t, 1.0, api.Builds("mapper"))

	other, err := api.BuildSetterTable(officeType, []string{"city", "office_code"})
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2.0, api.Builds("table"))
	assert.Equal(t, 1.0, api.Builds("mapper"))
}

func TestBuildSetterTable_Concurrent(t *testing.T) {
	t.Parallel()
	api := newAPI(t)
	officeType := reflect.TypeOf(Office{})

	const workers = 32
	tables := make([]*dbmap.SetterTable, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			table, err := api.BuildSetterTable(officeType, officeColumns)
			assert.NoError(t, err)
			tables[i] = table
		}(i)
	}
	wg.Wait()

	for _, table := range tables {
		assert.Same(t, tables[0], table)
	}
	assert.Equal(t, 1.0, api.Builds("table"))
	assert.Equal(t, 1.0, api.Builds("mapper"))
}

func TestSetterTable_MapRow(t *testing.T) {
	t.Parallel()
	api := newAPI(t)
	type user struct {
		Name string
		Age  int
	}
	table, err := api.BuildSetterTable(reflect.TypeOf(user{}), []string{"extra", "age", "name"})
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(user{}), table.Type())
	assert.Equal(t, []string{"extra", "age", "name"}, table.Columns())
	assert.Equal(t, []string{"extra"}, table.Unmatched())

	v, err := table.MapRow([]interface{}{true, 30, "alice"})
	require.NoError(t, err)
	assert.Equal(t, &user{Name: "alice", Age: 30}, v.Interface())

	_, err = table.MapRow([]interface{}{true, 30})
	assert.Error(t, err)

	v, err = api.MapRow(reflect.TypeOf(&user{}), table, []interface{}{nil, nil, "bob"})
	require.NoError(t, err)
	assert.Equal(t, &user{Name: "bob"}, v.Interface())

	_, err = api.MapRow(reflect.TypeOf(Office{}), table, []interface{}{nil, nil, "bob"})
	assert.Error(t, err)
}

func TestBuildSetterTable_InvalidShape(t *testing.T) {
	t.Parallel()
	api := newAPI(t)
	cases := []struct {
		name string
		typ  reflect.Type
	}{
		{name: "nil", typ: nil},
		{name: "int", typ: reflect.TypeOf(0)},
		{name: "map", typ: reflect.TypeOf(map[string]interface{}{})},
		{name: "empty struct", typ: reflect.TypeOf(struct{}{})},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := api.BuildSetterTable(tc.typ, []string{"foo"})
			var shapeErr *dbmap.InvalidShapeError
			assert.ErrorAs(t, err, &shapeErr)
		})
	}
}
