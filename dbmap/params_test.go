package dbmap_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlext/sqlext/dbmap"
	"github.com/sqlext/sqlext/internal/mocks"
)

type Base struct {
	ID int64
}

type product struct {
	Base
	Name     string
	Price    *float64 `db:"unit_price"`
	Internal string   `db:"-"`
	secret   string
}

func TestAddParams(t *testing.T) {
	t.Parallel()
	api := newAPI(t)
	price := 9.5
	src := product{Base: Base{ID: 7}, Name: "widget", Price: &price, Internal: "x", secret: "y"}

	sink := mocks.NewParamSink(t)
	sink.On("AddParam", "ID", int64(7)).Once()
	sink.On("AddParam", "Name", "widget").Once()
	sink.On("AddParam", "unit_price", &price).Once()

	require.NoError(t, api.AddParams(sink, src))
	sink.AssertNumberOfCalls(t, "AddParam", 3)
}

func TestAddParams_ParamMap(t *testing.T) {
	t.Parallel()
	api := newAPI(t)
	src := &product{Base: Base{ID: 1}, Name: "gadget"}

	params := dbmap.ParamMap{}
	require.NoError(t, api.AddParams(params, src))
	assert.Equal(t, dbmap.ParamMap{
		"ID":         int64(1),
		"Name":       "gadget",
		"unit_price": (*float64)(nil),
	}, params)
}

func TestAddParams_NilEmbeddedPointer(t *testing.T) {
	t.Parallel()
	type Audit struct {
		CreatedBy string
	}
	type row struct {
		*Audit
		Name string
	}
	api := newAPI(t)

	params := dbmap.ParamMap{}
	require.NoError(t, api.AddParams(params, row{Name: "a"}))
	assert.Equal(t, dbmap.ParamMap{"Name": "a"}, params)

	params = dbmap.ParamMap{}
	require.NoError(t, api.AddParams(params, row{Audit: &Audit{CreatedBy: "root"}, Name: "a"}))
	assert.Equal(t, dbmap.ParamMap{"Name": "a", "CreatedBy": "root"}, params)
}

func TestAddParams_InvalidShape(t *testing.T) {
	t.Parallel()
	api := newAPI(t)
	cases := []struct {
		name  string
		value interface{}
	}{
		{name: "nil", value: nil},
		{name: "int", value: 5},
		{name: "no readable members", value: struct{ hidden int }{}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := api.AddParams(dbmap.ParamMap{}, tc.value)
			assert.ErrorIs(t, err, dbmap.ErrInvalidShape)
		})
	}
}

func TestBuildProjection_Idempotent(t *testing.T) {
	t.Parallel()
	api := newAPI(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := api.BuildProjection(reflect.TypeOf(&product{}))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	require.NoError(t, api.AddParams(dbmap.ParamMap{}, product{}))

	assert.Equal(t, 1.0, api.Builds("projection"))
}

func TestProjection_WrongType(t *testing.T) {
	t.Parallel()
	api := newAPI(t)
	projection, err := api.BuildProjection(reflect.TypeOf(product{}))
	require.NoError(t, err)

	assert.Error(t, projection(dbmap.ParamMap{}, Base{}))
	assert.Error(t, projection(dbmap.ParamMap{}, (*product)(nil)))
}

func TestAddPairs(t *testing.T) {
	t.Parallel()
	sink := mocks.NewParamSink(t)
	sink.On("AddParam", "id", 7).Once()
	sink.On("AddParam", "name", nil).Once()

	require.NoError(t, dbmap.AddPairs(sink, "id", 7, "name", nil))
	sink.AssertNumberOfCalls(t, "AddParam", 2)
}

func TestAddPairs_Invalid(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		pairs []interface{}
	}{
		{name: "odd count", pairs: []interface{}{"id", 1, "name"}},
		{name: "non string name", pairs: []interface{}{1, "id"}},
		{name: "empty name", pairs: []interface{}{"", 1}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			params := dbmap.ParamMap{}
			assert.Error(t, dbmap.AddPairs(params, tc.pairs...))
		})
	}
}
