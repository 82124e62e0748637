package dbmap

import (
	"fmt"
	"reflect"
	"strings"
)

// member is an exported struct field reachable from the top level struct,
// either directly or promoted from an embedded struct.
type member struct {
	name  string
	path  string
	index []int
	typ   reflect.Type
}

// typeMapper holds one setter per member, keyed by NameKey of the member name.
type typeMapper struct {
	structType reflect.Type
	setters    map[string]*fieldSetter
}

type fieldSetter struct {
	member
}

func (api *API) getTypeMapper(structType reflect.Type) (*typeMapper, error) {
	return api.mappers.Get(structType, func() (*typeMapper, error) {
		tm, err := api.buildTypeMapper(structType)
		if err != nil {
			return nil, err
		}
		api.builds.WithLabelValues("mapper").Inc()
		api.logger.Debug().
			Str("type", structType.String()).
			Int("setters", len(tm.setters)).
			Msg("type mapper built")
		return tm, nil
	})
}

func (api *API) buildTypeMapper(structType reflect.Type) (*typeMapper, error) {
	members := api.members(structType)
	if len(members) == 0 {
		return nil, &InvalidShapeError{Type: structType, Reason: "no writable members"}
	}
	tm := &typeMapper{
		structType: structType,
		setters:    make(map[string]*fieldSetter, len(members)),
	}
	for _, m := range members {
		key := NameKey(m.name)
		if key == "" {
			continue
		}
		if prev, exists := tm.setters[key]; exists && api.strictNames {
			return nil, &InvalidShapeError{
				Type:   structType,
				Reason: fmt.Sprintf("members %s and %s share the name key '%s'", prev.path, m.path, key),
			}
		}
		tm.setters[key] = &fieldSetter{member: m}
	}
	return tm, nil
}

// members lists exported fields in reflect.VisibleFields order.
// Fields tagged "-", and fields under an ignored embedded struct or under an unexported embedded pointer, are left out.
func (api *API) members(structType reflect.Type) []member {
	var result []member
	for _, field := range reflect.VisibleFields(structType) {
		if !field.IsExported() {
			continue
		}
		if field.Anonymous && indirect(field.Type).Kind() == reflect.Struct {
			continue
		}
		name, ok := api.memberName(field)
		if !ok {
			continue
		}
		path, ok := api.fieldPath(structType, field.Index)
		if !ok {
			continue
		}
		result = append(result, member{
			name:  name,
			path:  path,
			index: field.Index,
			typ:   field.Type,
		})
	}
	return result
}

func (api *API) memberName(field reflect.StructField) (string, bool) {
	tag, present := field.Tag.Lookup(api.structTagKey)
	if !present {
		return field.Name, true
	}
	tag = strings.Split(tag, ",")[0]
	switch tag {
	case "-":
		return "", false
	case "":
		return field.Name, true
	default:
		return tag, true
	}
}

// fieldPath returns the dotted Go path of the field at index and whether it is reachable.
func (api *API) fieldPath(structType reflect.Type, index []int) (string, bool) {
	parts := make([]string, 0, len(index))
	t := structType
	for i, idx := range index {
		field := t.Field(idx)
		parts = append(parts, field.Name)
		if i == len(index)-1 {
			break
		}
		if tag, _ := field.Tag.Lookup(api.structTagKey); strings.Split(tag, ",")[0] == "-" {
			return "", false
		}
		t = field.Type
		if t.Kind() == reflect.Ptr {
			if !field.IsExported() {
				// Can't allocate an unexported embedded pointer.
				return "", false
			}
			t = t.Elem()
		}
	}
	return strings.Join(parts, "."), true
}

// set assigns value to the field. A value of type V is also accepted by a *V field.
func (fs *fieldSetter) set(structValue reflect.Value, column string, value interface{}) error {
	v := reflect.ValueOf(value)
	vt := v.Type()
	switch {
	case vt.AssignableTo(fs.typ):
	case fs.typ.Kind() == reflect.Ptr && vt.AssignableTo(fs.typ.Elem()):
		p := reflect.New(fs.typ.Elem())
		p.Elem().Set(v)
		v = p
	default:
		return &TypeMismatchError{Column: column, Field: fs.path, ValueType: vt, FieldType: fs.typ}
	}
	initializeNested(structValue, fs.index)
	structValue.FieldByIndex(fs.index).Set(v)
	return nil
}

// initializeNested allocates nil embedded struct pointers on the way to the field at fieldIndex.
func initializeNested(structValue reflect.Value, fieldIndex []int) {
	if len(fieldIndex) < 2 {
		return
	}
	field := structValue.Field(fieldIndex[0])
	if field.Kind() == reflect.Ptr && field.IsNil() {
		field.Set(reflect.New(field.Type().Elem()))
	}
	initializeNested(reflect.Indirect(field), fieldIndex[1:])
}

func indirect(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

// structOf returns t, or the element of a pointer t, when it is a struct type.
func structOf(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, &InvalidShapeError{Type: t, Reason: "nil type"}
	}
	st := indirect(t)
	if st.Kind() != reflect.Struct {
		return nil, &InvalidShapeError{Type: t, Reason: "not a struct or a pointer to a struct"}
	}
	return st, nil
}
