package dbmap

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrTypeMismatch is matched by every TypeMismatchError.
	ErrTypeMismatch = errors.New("dbmap: type mismatch")
	// ErrInvalidShape is matched by every InvalidShapeError.
	ErrInvalidShape = errors.New("dbmap: invalid shape")
)

// TypeMismatchError is returned when a column value can't be assigned to the struct field it maps to.
// Values are never converted while mapping rows.
type TypeMismatchError struct {
	Column    string
	Field     string
	ValueType reflect.Type
	FieldType reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"dbmap: column '%s': value of type %v is not assignable to field %s of type %v",
		e.Column, e.ValueType, e.Field, e.FieldType,
	)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// InvalidShapeError is returned when a type can't be used as a mapping destination or a parameter source.
type InvalidShapeError struct {
	Type   reflect.Type
	Reason string
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("dbmap: invalid type %v: %s", e.Type, e.Reason)
}

func (e *InvalidShapeError) Unwrap() error {
	return ErrInvalidShape
}
