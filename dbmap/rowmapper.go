package dbmap

import (
	"fmt"
	"reflect"
)

type startMapperFunc func(rm *RowMapper, structType reflect.Type) error

//go:generate mockery --name startMapperFunc --filename mock_test.go --inpackage

// RowMapper embraces Rows and exposes the Map method
// that maps the current row onto a struct.
// The first time Map is called it builds the setter table for the destination type and the rows' columns
// and reuses it for further rows.
// Due to this, every Map call must use the same destination type, any other type is rejected with an error.
// RowMapper doesn't proceed to the next row nor close them, it should be done by the client code.
//
// The main benefit of using this type directly
// is that you can instantiate a RowMapper and manually iterate over the rows
// without allocating a slice for all of them at once, as MapAll does.
type RowMapper struct {
	api     *API
	rows    Rows
	table   *SetterTable
	started bool
	start   startMapperFunc
}

// NewRowMapper is a package-level helper function that uses the DefaultAPI object.
// See API.NewRowMapper for details.
func NewRowMapper(rows Rows) *RowMapper {
	return DefaultAPI.NewRowMapper(rows)
}

// NewRowMapper returns a new instance of the RowMapper.
func (api *API) NewRowMapper(rows Rows) *RowMapper {
	return &RowMapper{
		api:   api,
		rows:  rows,
		start: startMapper,
	}
}

// Map maps the current row onto dst, which must be a non nil pointer to a struct.
// Fields with no matching column, or with a NULL value, keep their previous value.
func (rm *RowMapper) Map(dst interface{}) error {
	dstVal, err := parseDestination(dst)
	if err != nil {
		return fmt.Errorf("parsing destination: %w", err)
	}
	if err := rm.ensureStarted(dstVal.Type()); err != nil {
		return fmt.Errorf("starting: %w", err)
	}
	if dstVal.Type() != rm.table.structType {
		return fmt.Errorf("dbmap: row mapper is started for %v, got %v", rm.table.structType, dstVal.Type())
	}
	values, err := rm.rows.Values()
	if err != nil {
		return fmt.Errorf("dbmap: get row values: %w", err)
	}
	return rm.table.apply(dstVal, values)
}

// Table returns the setter table in use, or nil before the first Map call.
func (rm *RowMapper) Table() *SetterTable {
	return rm.table
}

func (rm *RowMapper) ensureStarted(structType reflect.Type) error {
	if rm.started {
		return nil
	}
	if err := rm.start(rm, structType); err != nil {
		return err
	}
	rm.started = true
	return nil
}

// mapNew maps the current row onto a newly allocated struct and returns a pointer to it.
func (rm *RowMapper) mapNew() (reflect.Value, error) {
	values, err := rm.rows.Values()
	if err != nil {
		return reflect.Value{}, fmt.Errorf("dbmap: get row values: %w", err)
	}
	return rm.table.MapRow(values)
}

func startMapper(rm *RowMapper, structType reflect.Type) error {
	columns, err := rm.rows.Columns()
	if err != nil {
		return fmt.Errorf("dbmap: get rows columns: %w", err)
	}
	table, err := rm.api.BuildSetterTable(structType, columns)
	if err != nil {
		return err
	}
	rm.table = table
	return nil
}

func parseDestination(dst interface{}) (reflect.Value, error) {
	dstVal := reflect.ValueOf(dst)

	if !dstVal.IsValid() || (dstVal.Kind() == reflect.Ptr && dstVal.IsNil()) {
		return reflect.Value{}, fmt.Errorf("dbmap: destination must be a non nil pointer")
	}
	if dstVal.Kind() != reflect.Ptr {
		return reflect.Value{}, fmt.Errorf("dbmap: destination must be a pointer, got: %v", dstVal.Type())
	}

	dstVal = dstVal.Elem()
	if dstVal.Kind() != reflect.Struct {
		return reflect.Value{}, &InvalidShapeError{Type: dstVal.Type(), Reason: "destination must point to a struct"}
	}
	return dstVal, nil
}
