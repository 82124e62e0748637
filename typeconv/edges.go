package typeconv

import (
	"database/sql"
	"database/sql/driver"
	"encoding"
	"fmt"
	"math"
	"reflect"
	"time"
)

var (
	stringType          = reflect.TypeOf("")
	bytesType           = reflect.TypeOf([]byte(nil))
	anyType             = reflect.TypeOf((*interface{})(nil)).Elem()
	timeType            = reflect.TypeOf(time.Time{})
	durationType        = reflect.TypeOf(time.Duration(0))
	stringerType        = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	scannerType         = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	valuerType          = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
)

// numericTypes are the built-in types an enum is bridged to.
var numericTypes = []reflect.Type{
	reflect.TypeOf(int(0)),
	reflect.TypeOf(int8(0)),
	reflect.TypeOf(int16(0)),
	reflect.TypeOf(int32(0)),
	reflect.TypeOf(int64(0)),
	reflect.TypeOf(uint(0)),
	reflect.TypeOf(uint8(0)),
	reflect.TypeOf(uint16(0)),
	reflect.TypeOf(uint32(0)),
	reflect.TypeOf(uint64(0)),
	reflect.TypeOf(float32(0)),
	reflect.TypeOf(float64(0)),
}

type edgeKey struct {
	from reflect.Type
	to   reflect.Type
}

func (k edgeKey) String() string {
	return fmt.Sprintf("%p>%p", k.from, k.to)
}

// edgeFunc converts v into a value assignable to the edge's destination type.
// v is never the zero reflect.Value, a nil source arrives as the zero value of the source type.
// A base edge wrapped by nullable may return the zero reflect.Value to signal a null result.
type edgeFunc func(v reflect.Value) (reflect.Value, error)

func noOp(v reflect.Value) (reflect.Value, error) {
	return v, nil
}

func (g *Graph) addEdge(from, to reflect.Type, fn edgeFunc) bool {
	_, loaded := g.edges.Store(edgeKey{from: from, to: to}, fn)
	return !loaded
}

// addQuad stores base as the a -> b converter together with the three nullable forms
// a -> *b, *a -> b and *a -> *b.
func (g *Graph) addQuad(a, b reflect.Type, base edgeFunc) {
	pa, pb := reflect.PointerTo(a), reflect.PointerTo(b)
	g.addEdge(a, b, nullable(base, false, false, b))
	g.addEdge(a, pb, nullable(base, false, true, b))
	g.addEdge(pa, b, nullable(base, true, false, b))
	g.addEdge(pa, pb, nullable(base, true, true, b))
}

// addPair stores base for the requested pair. It registers the full quad when the source
// is a concrete type, and only the requested edge when the source is an interface.
func (g *Graph) addPair(from, to, fb, tb reflect.Type, base edgeFunc) {
	if fb.Kind() != reflect.Interface {
		g.addQuad(fb, tb, base)
		return
	}
	g.addEdge(from, to, nullable(base, false, to != tb, tb))
}

func nullable(base edgeFunc, fromPtr, toPtr bool, b reflect.Type) edgeFunc {
	return func(v reflect.Value) (reflect.Value, error) {
		if fromPtr {
			if v.IsNil() {
				if toPtr {
					return reflect.Zero(reflect.PointerTo(b)), nil
				}
				return reflect.Zero(b), nil
			}
			v = v.Elem()
		}
		r, err := base(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if !r.IsValid() {
			if toPtr {
				return reflect.Zero(reflect.PointerTo(b)), nil
			}
			return reflect.Zero(b), nil
		}
		if !toPtr {
			return r, nil
		}
		p := reflect.New(b)
		p.Elem().Set(r)
		return p, nil
	}
}

func inputValue(from reflect.Type, value interface{}) (reflect.Value, error) {
	if value == nil {
		if !nillable(from) {
			return reflect.Value{}, &TypeMismatchError{Expected: from}
		}
		return reflect.Zero(from), nil
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(from) {
		return reflect.Value{}, &TypeMismatchError{Expected: from, Value: value}
	}
	if from.Kind() != reflect.Interface && v.Type() != from {
		v = v.Convert(from)
	}
	return v, nil
}

// conform returns v as a value of type t when t is concrete and v only has an assignable type,
// such as a []byte for a defined slice type.
func conform(v reflect.Value, t reflect.Type) reflect.Value {
	if !v.IsValid() || t.Kind() == reflect.Interface || v.Type() == t {
		return v
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	if v.Type() != t && v.Type().AssignableTo(t) {
		return v.Convert(t)
	}
	return v
}

// assignTo is the identity converter of an assignable pair.
func assignTo(t reflect.Type) edgeFunc {
	return func(v reflect.Value) (reflect.Value, error) {
		return conform(v, t), nil
	}
}

func outputValue(v reflect.Value) interface{} {
	if !v.IsValid() {
		return nil
	}
	if v.Kind() == reflect.Interface && v.IsNil() {
		return nil
	}
	return v.Interface()
}

func valueInterface(v reflect.Value) interface{} {
	if !v.IsValid() {
		return nil
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

func deref(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

func isEnum(t reflect.Type) bool {
	return t.PkgPath() != "" && isInteger(t.Kind()) && t != durationType
}

func isInteger(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k)
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumeric(k reflect.Kind) bool {
	return isInteger(k) || isFloat(k)
}

// castNumber returns a base edge that casts numbers and bools to t.
// Fractions are truncated when casting to an integer, values out of range fail with ErrOverflow.
func castNumber(t reflect.Type) edgeFunc {
	return func(v reflect.Value) (reflect.Value, error) {
		out := reflect.New(t).Elem()
		src := v.Kind()
		dst := t.Kind()
		if dst == reflect.Bool {
			switch {
			case src == reflect.Bool:
				out.SetBool(v.Bool())
			case isSigned(src):
				out.SetBool(v.Int() != 0)
			case isUnsigned(src):
				out.SetBool(v.Uint() != 0)
			default:
				out.SetBool(v.Float() != 0)
			}
			return out, nil
		}
		if src == reflect.Bool {
			var n int64
			if v.Bool() {
				n = 1
			}
			v = reflect.ValueOf(n)
			src = reflect.Int64
		}
		switch {
		case isSigned(dst):
			n, ok := toInt64(v, src)
			if !ok || out.OverflowInt(n) {
				return reflect.Value{}, overflow(v, t)
			}
			out.SetInt(n)
		case isUnsigned(dst):
			n, ok := toUint64(v, src)
			if !ok || out.OverflowUint(n) {
				return reflect.Value{}, overflow(v, t)
			}
			out.SetUint(n)
		default:
			var f float64
			switch {
			case isSigned(src):
				f = float64(v.Int())
			case isUnsigned(src):
				f = float64(v.Uint())
			default:
				f = v.Float()
			}
			if out.OverflowFloat(f) {
				return reflect.Value{}, overflow(v, t)
			}
			out.SetFloat(f)
		}
		return out, nil
	}
}

func toInt64(v reflect.Value, src reflect.Kind) (int64, bool) {
	switch {
	case isSigned(src):
		return v.Int(), true
	case isUnsigned(src):
		u := v.Uint()
		return int64(u), u <= math.MaxInt64
	default:
		f := math.Trunc(v.Float())
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
}

func toUint64(v reflect.Value, src reflect.Kind) (uint64, bool) {
	switch {
	case isSigned(src):
		n := v.Int()
		return uint64(n), n >= 0
	case isUnsigned(src):
		return v.Uint(), true
	default:
		f := math.Trunc(v.Float())
		if math.IsNaN(f) || f < 0 || f >= math.MaxUint64 {
			return 0, false
		}
		return uint64(f), true
	}
}

func overflow(v reflect.Value, t reflect.Type) error {
	return fmt.Errorf("%v does not fit in %v: %w", v.Interface(), t, ErrOverflow)
}

func convertKind(t reflect.Type) edgeFunc {
	return func(v reflect.Value) (reflect.Value, error) {
		return v.Convert(t), nil
	}
}

// downcast returns the value held by an interface when it is assignable to t.
func downcast(t reflect.Type) edgeFunc {
	return func(v reflect.Value) (reflect.Value, error) {
		if v.Kind() == reflect.Interface {
			if v.IsNil() {
				return reflect.Zero(t), nil
			}
			v = v.Elem()
		}
		if !v.Type().AssignableTo(t) {
			return reflect.Value{}, &ConversionNotSupportedError{From: v.Type(), To: t, Value: v.Interface()}
		}
		return v, nil
	}
}

func timeOfDay(v reflect.Value) (reflect.Value, error) {
	t := v.Interface().(time.Time)
	h, m, s := t.Clock()
	d := time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
	return reflect.ValueOf(d), nil
}

func durationToTime(v reflect.Value) (reflect.Value, error) {
	d := time.Duration(v.Int())
	return reflect.ValueOf(time.Time{}.Add(d)), nil
}
