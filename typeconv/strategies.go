package typeconv

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type strategy struct {
	name  string
	apply func(g *Graph, from, to reflect.Type) bool
}

// synthesisChain is ordered from the cheapest to the most general strategy.
// apply returns true when it stored at least one converter.
func synthesisChain() []strategy {
	return []strategy{
		{name: "assignable", apply: (*Graph).applyAssignable},
		{name: "enum", apply: (*Graph).applyEnum},
		{name: "text", apply: (*Graph).applyText},
		{name: "descriptor", apply: (*Graph).applyDescriptor},
		{name: "cast", apply: (*Graph).applyCast},
		{name: "protocol", apply: (*Graph).applyProtocol},
	}
}

func (g *Graph) applyAssignable(from, to reflect.Type) bool {
	if !from.AssignableTo(to) {
		return false
	}
	g.addEdge(from, to, assignTo(to))
	return true
}

func (g *Graph) applyEnum(from, to reflect.Type) bool {
	var enum reflect.Type
	switch fb, tb := deref(from), deref(to); {
	case isEnum(fb):
		enum = fb
	case isEnum(tb):
		enum = tb
	default:
		return false
	}
	for _, n := range numericTypes {
		g.addQuad(enum, n, castNumber(n))
		g.addQuad(n, enum, castNumber(enum))
	}
	g.addEdge(enum, anyType, noOp)
	if enum.Implements(stringerType) {
		g.addEdge(enum, stringerType, noOp)
	}
	if enum.Implements(textMarshalerType) {
		g.addEdge(enum, textMarshalerType, noOp)
	}
	parse := g.parseEnum(enum)
	g.addQuad(stringType, enum, parse)
	g.addQuad(bytesType, enum, parse)
	return true
}

// parseEnum parses a registered name first, then falls back to
// encoding.TextUnmarshaler and finally to the decimal form of the value.
func (g *Graph) parseEnum(t reflect.Type) edgeFunc {
	fallback := g.textParser(t)
	return func(v reflect.Value) (reflect.Value, error) {
		s := v.String()
		if v.Kind() == reflect.Slice {
			s = string(v.Bytes())
		}
		if ev, ok := g.enumValue(t, strings.TrimSpace(s)); ok {
			return ev, nil
		}
		out, err := fallback(s)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q is not a %v value: %w", s, t, err)
		}
		return out, nil
	}
}

func (g *Graph) applyText(from, to reflect.Type) bool {
	fb, tb := deref(from), deref(to)
	if fb != stringType && fb != bytesType {
		return false
	}
	parse := g.textParser(tb)
	if parse == nil {
		return false
	}
	base := func(v reflect.Value) (reflect.Value, error) {
		if v.Kind() == reflect.Slice {
			return parse(string(v.Bytes()))
		}
		return parse(v.String())
	}
	g.addQuad(fb, tb, base)
	return true
}

func (g *Graph) applyDescriptor(from, to reflect.Type) bool {
	fb, tb := deref(from), deref(to)
	if reflect.PointerTo(tb).Implements(scannerType) {
		g.addPair(from, to, fb, tb, scanInto(tb))
		return true
	}
	switch {
	case fb.Implements(valuerType):
		g.addPair(from, to, fb, tb, g.valueOf(tb))
		return true
	case from.Implements(valuerType):
		g.addEdge(from, to, nullable(g.valueOf(tb), false, to != tb, tb))
		return true
	default:
		return false
	}
}

func scanInto(t reflect.Type) edgeFunc {
	return func(v reflect.Value) (reflect.Value, error) {
		p := reflect.New(t)
		if err := p.Interface().(sql.Scanner).Scan(valueInterface(v)); err != nil {
			return reflect.Value{}, fmt.Errorf("scan into %v: %w", t, err)
		}
		return p.Elem(), nil
	}
}

// valueOf converts the driver value of a driver.Valuer to t.
func (g *Graph) valueOf(t reflect.Type) edgeFunc {
	return func(v reflect.Value) (reflect.Value, error) {
		src := valueInterface(v)
		if src == nil || (v.Kind() == reflect.Ptr && v.IsNil()) {
			return reflect.Value{}, nil
		}
		dv, err := src.(driver.Valuer).Value()
		if err != nil {
			return reflect.Value{}, fmt.Errorf("get driver value: %w", err)
		}
		if dv == nil {
			return reflect.Value{}, nil
		}
		out, err := g.Convert(reflect.TypeOf(dv), t, dv)
		if err != nil {
			return reflect.Value{}, err
		}
		return resultValue(out, t), nil
	}
}

func (g *Graph) applyCast(from, to reflect.Type) bool {
	fb, tb := deref(from), deref(to)
	fk, tk := fb.Kind(), tb.Kind()
	switch {
	case (isNumeric(fk) || fk == reflect.Bool) && (isNumeric(tk) || tk == reflect.Bool):
		g.addQuad(fb, tb, castNumber(tb))
	case fk == tk && fk != reflect.Interface && fk != reflect.Ptr && fb.ConvertibleTo(tb):
		g.addQuad(fb, tb, convertKind(tb))
	case from.Kind() == reflect.Interface && (to.Kind() == reflect.Interface || to.Implements(from)):
		g.addEdge(from, to, downcast(to))
	default:
		return false
	}
	return true
}

type int64Valuer interface {
	Int64() (int64, error)
}

type float64Valuer interface {
	Float64() (float64, error)
}

// extractFunc reads a primitive out of a value. ok is false for a null value.
type extractFunc func(v interface{}) (x interface{}, ok bool, err error)

func (g *Graph) applyProtocol(from, to reflect.Type) bool {
	extract := protocolFor(from, deref(to))
	if extract == nil {
		return false
	}
	g.addEdge(from, to, func(v reflect.Value) (reflect.Value, error) {
		src := valueInterface(v)
		if src == nil || (v.Kind() == reflect.Ptr && v.IsNil()) {
			return reflect.Zero(to), nil
		}
		x, ok, err := extract(src)
		if err != nil {
			return reflect.Value{}, err
		}
		if !ok {
			return reflect.Zero(to), nil
		}
		out, err := g.Convert(reflect.TypeOf(x), to, x)
		if err != nil {
			return reflect.Value{}, err
		}
		return resultValue(out, to), nil
	})
	return true
}

func protocolFor(from, to reflect.Type) extractFunc {
	implements := func(iface interface{}) bool {
		return from.Implements(reflect.TypeOf(iface).Elem())
	}
	k := to.Kind()
	var candidates []extractFunc
	switch {
	case to == timeType:
		if implements((*pgtype.TimestamptzValuer)(nil)) {
			candidates = append(candidates, extractTimestamptz)
		}
	case isInteger(k):
		if implements((*int64Valuer)(nil)) {
			candidates = append(candidates, extractInt64)
		}
		if implements((*pgtype.Int64Valuer)(nil)) {
			candidates = append(candidates, extractInt8)
		}
		if implements((*float64Valuer)(nil)) {
			candidates = append(candidates, extractFloat64)
		}
		if implements((*pgtype.Float64Valuer)(nil)) {
			candidates = append(candidates, extractFloat8)
		}
	case isFloat(k):
		if implements((*float64Valuer)(nil)) {
			candidates = append(candidates, extractFloat64)
		}
		if implements((*pgtype.Float64Valuer)(nil)) {
			candidates = append(candidates, extractFloat8)
		}
		if implements((*int64Valuer)(nil)) {
			candidates = append(candidates, extractInt64)
		}
		if implements((*pgtype.Int64Valuer)(nil)) {
			candidates = append(candidates, extractInt8)
		}
	case k == reflect.Bool:
		if implements((*pgtype.BoolValuer)(nil)) {
			candidates = append(candidates, extractBool)
		}
	case k == reflect.String:
		if implements((*pgtype.TextValuer)(nil)) {
			candidates = append(candidates, extractText)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}

func extractInt64(v interface{}) (interface{}, bool, error) {
	n, err := v.(int64Valuer).Int64()
	return n, true, err
}

func extractFloat64(v interface{}) (interface{}, bool, error) {
	f, err := v.(float64Valuer).Float64()
	return f, true, err
}

func extractInt8(v interface{}) (interface{}, bool, error) {
	n, err := v.(pgtype.Int64Valuer).Int64Value()
	return n.Int64, n.Valid, err
}

func extractFloat8(v interface{}) (interface{}, bool, error) {
	f, err := v.(pgtype.Float64Valuer).Float64Value()
	return f.Float64, f.Valid, err
}

func extractBool(v interface{}) (interface{}, bool, error) {
	b, err := v.(pgtype.BoolValuer).BoolValue()
	return b.Bool, b.Valid, err
}

func extractText(v interface{}) (interface{}, bool, error) {
	s, err := v.(pgtype.TextValuer).TextValue()
	return s.String, s.Valid, err
}

func extractTimestamptz(v interface{}) (interface{}, bool, error) {
	ts, err := v.(pgtype.TimestamptzValuer).TimestamptzValue()
	return ts.Time, ts.Valid, err
}

func resultValue(out interface{}, t reflect.Type) reflect.Value {
	if out == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(out)
}

// textParser returns the parser that builds a t from text, or nil if t cannot be parsed.
func (g *Graph) textParser(t reflect.Type) func(string) (reflect.Value, error) {
	if fn, ok := g.parsers.Load(t); ok {
		parse := fn.(ParserFunc)
		return func(s string) (reflect.Value, error) {
			out, err := parse(s)
			if err != nil {
				return reflect.Value{}, err
			}
			rv := resultValue(out, t)
			if !rv.Type().AssignableTo(t) {
				return reflect.Value{}, &TypeMismatchError{Expected: t, Value: out}
			}
			return conform(rv, t), nil
		}
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return func(s string) (reflect.Value, error) {
			p := reflect.New(t)
			if err := p.Interface().(interface{ UnmarshalText([]byte) error }).UnmarshalText([]byte(s)); err != nil {
				return reflect.Value{}, err
			}
			return p.Elem(), nil
		}
	}
	if t == durationType {
		return func(s string) (reflect.Value, error) {
			d, err := time.ParseDuration(strings.TrimSpace(s))
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(d), nil
		}
	}
	k := t.Kind()
	switch {
	case k == reflect.String:
		return func(s string) (reflect.Value, error) {
			return reflect.ValueOf(s).Convert(t), nil
		}
	case k == reflect.Bool:
		return func(s string) (reflect.Value, error) {
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			if err != nil {
				return reflect.Value{}, err
			}
			out := reflect.New(t).Elem()
			out.SetBool(b)
			return out, nil
		}
	case isSigned(k):
		return func(s string) (reflect.Value, error) {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, t.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			out := reflect.New(t).Elem()
			out.SetInt(n)
			return out, nil
		}
	case isUnsigned(k):
		return func(s string) (reflect.Value, error) {
			n, err := strconv.ParseUint(strings.TrimSpace(s), 10, t.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			out := reflect.New(t).Elem()
			out.SetUint(n)
			return out, nil
		}
	case isFloat(k):
		return func(s string) (reflect.Value, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), t.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			out := reflect.New(t).Elem()
			out.SetFloat(f)
			return out, nil
		}
	case k == reflect.Complex64 || k == reflect.Complex128:
		return func(s string) (reflect.Value, error) {
			c, err := strconv.ParseComplex(strings.TrimSpace(s), t.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			out := reflect.New(t).Elem()
			out.SetComplex(c)
			return out, nil
		}
	default:
		return nil
	}
}
