package typeconv

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrConversionNotSupported is matched by every ConversionNotSupportedError.
	ErrConversionNotSupported = errors.New("typeconv: conversion not supported")
	// ErrTypeMismatch is returned when a value does not belong to the declared source type.
	ErrTypeMismatch = errors.New("typeconv: value does not match the declared type")
	// ErrOverflow is returned by numeric conversions that would lose the integer part of a value.
	ErrOverflow = errors.New("typeconv: numeric overflow")
)

// ConversionNotSupportedError is returned when no strategy can produce a converter
// for the (From, To) pair. Value is the value that was being converted.
type ConversionNotSupportedError struct {
	From  reflect.Type
	To    reflect.Type
	Value interface{}
}

func (e *ConversionNotSupportedError) Error() string {
	return fmt.Sprintf("typeconv: no conversion from %v to %v (value: %#v)", e.From, e.To, e.Value)
}

func (e *ConversionNotSupportedError) Unwrap() error {
	return ErrConversionNotSupported
}

// TypeMismatchError reports a value whose runtime type is not assignable to Expected.
type TypeMismatchError struct {
	Expected reflect.Type
	Value    interface{}
}

func (e *TypeMismatchError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("typeconv: nil is not a valid %v", e.Expected)
	}
	return fmt.Sprintf("typeconv: value of type %T is not assignable to %v", e.Value, e.Expected)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// NotSupported returns true if err reports a missing conversion.
func NotSupported(err error) bool {
	return errors.Is(err, ErrConversionNotSupported)
}
