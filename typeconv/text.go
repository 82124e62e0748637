package typeconv

import (
	"database/sql/driver"
	"encoding"
	"fmt"
	"reflect"
)

// Text renders value as text, it is the conversion used for every string destination.
// nil and nil pointers render as the empty string. encoding.TextMarshaler is preferred,
// then the driver value of a driver.Valuer, then the default fmt formatting,
// which uses the String method when there is one.
func Text(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case encoding.TextMarshaler:
		if isNilPointer(value) {
			return "", nil
		}
		b, err := v.MarshalText()
		if err != nil {
			return "", fmt.Errorf("typeconv: marshal %T as text: %w", value, err)
		}
		return string(b), nil
	case fmt.Stringer:
		if isNilPointer(value) {
			return "", nil
		}
		return v.String(), nil
	case driver.Valuer:
		if isNilPointer(value) {
			return "", nil
		}
		dv, err := v.Value()
		if err != nil {
			return "", fmt.Errorf("typeconv: get driver value of %T: %w", value, err)
		}
		return Text(dv)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "", nil
		}
		return Text(rv.Elem().Interface())
	}
	return fmt.Sprint(value), nil
}

func isNilPointer(value interface{}) bool {
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
