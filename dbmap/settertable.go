package dbmap

import (
	"fmt"
	"reflect"
	"strings"
)

// SetterTable maps the columns of a result set onto the fields of a struct type.
// Entry i holds the setter for column i, or nothing when the column has no matching member.
// A SetterTable is immutable and safe for concurrent use.
type SetterTable struct {
	structType reflect.Type
	columns    []string
	setters    []*fieldSetter
}

type tableKey struct {
	structType reflect.Type
	columns    string
}

func (k tableKey) String() string {
	return fmt.Sprintf("%p|%s", k.structType, k.columns)
}

// BuildSetterTable is a package-level helper function that uses the DefaultAPI object.
// See API.BuildSetterTable for details.
func BuildSetterTable(dstType reflect.Type, columns []string) (*SetterTable, error) {
	return DefaultAPI.BuildSetterTable(dstType, columns)
}

// BuildSetterTable returns the setter table of dstType for columns.
// dstType is a struct or a pointer to a struct. Each column is matched by NameKey against
// the struct members, columns without a match are skipped when mapping.
// It only fails with an InvalidShapeError, when dstType is not a struct or has no writable members.
// Tables are cached per struct type and column list.
func (api *API) BuildSetterTable(dstType reflect.Type, columns []string) (*SetterTable, error) {
	structType, err := structOf(dstType)
	if err != nil {
		return nil, err
	}
	tm, err := api.getTypeMapper(structType)
	if err != nil {
		return nil, err
	}
	key := tableKey{structType: structType, columns: strings.Join(columns, "\x00")}
	return api.tables.Get(key, func() (*SetterTable, error) {
		st := &SetterTable{
			structType: structType,
			columns:    append([]string(nil), columns...),
			setters:    make([]*fieldSetter, len(columns)),
		}
		for i, column := range columns {
			st.setters[i] = tm.setters[NameKey(column)]
		}
		api.builds.WithLabelValues("table").Inc()
		api.logger.Debug().
			Str("type", structType.String()).
			Strs("columns", columns).
			Strs("unmatched", st.Unmatched()).
			Msg("setter table built")
		return st, nil
	})
}

// Type returns the struct type the table maps to.
func (st *SetterTable) Type() reflect.Type {
	return st.structType
}

// Columns returns the column names the table was built for.
func (st *SetterTable) Columns() []string {
	return append([]string(nil), st.columns...)
}

// Unmatched returns the columns that no member matches.
func (st *SetterTable) Unmatched() []string {
	var unmatched []string
	for i, s := range st.setters {
		if s == nil {
			unmatched = append(unmatched, st.columns[i])
		}
	}
	return unmatched
}

// MapRow allocates a new struct and sets its fields from values,
// which are the values of one row, in column order.
// NULL values and unmatched columns leave the field at its zero value.
// It returns a pointer to the new struct.
func (st *SetterTable) MapRow(values []interface{}) (reflect.Value, error) {
	ptr := reflect.New(st.structType)
	if err := st.apply(ptr.Elem(), values); err != nil {
		return reflect.Value{}, err
	}
	return ptr, nil
}

func (st *SetterTable) apply(structValue reflect.Value, values []interface{}) error {
	if len(values) != len(st.columns) {
		return fmt.Errorf("dbmap: row has %d values, expected %d columns", len(values), len(st.columns))
	}
	for i, setter := range st.setters {
		if setter == nil || values[i] == nil {
			continue
		}
		if err := setter.set(structValue, st.columns[i], values[i]); err != nil {
			return err
		}
	}
	return nil
}

// MapRow maps values onto a new dstType using table, see SetterTable.MapRow.
// dstType must be the type the table was built for, or a pointer to it.
func (api *API) MapRow(dstType reflect.Type, table *SetterTable, values []interface{}) (reflect.Value, error) {
	structType, err := structOf(dstType)
	if err != nil {
		return reflect.Value{}, err
	}
	if structType != table.structType {
		return reflect.Value{}, fmt.Errorf("dbmap: setter table is built for %v, got %v", table.structType, structType)
	}
	return table.MapRow(values)
}
