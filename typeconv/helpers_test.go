package typeconv_test

import (
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/sqlext/sqlext/typeconv"
)

type TypeCode int

const (
	Empty TypeCode = iota
	Object
	DBNull
	Boolean
	Char
	SByte
	Byte
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
)

type Level uint8

const (
	Debug Level = iota + 1
	Info
	Warn
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "Debug"
	case Info:
		return "Info"
	case Warn:
		return "Warn"
	default:
		return "Unknown"
	}
}

type Animal interface {
	Sound() string
}

type Flyer interface {
	Fly() string
}

type Dog struct{ Name string }

func (d *Dog) Sound() string { return "woof" }

type Cat struct{ Name string }

func (c *Cat) Sound() string { return "meow" }

type Celsius float64

type Blob []byte

type Fahrenheit float64

// score exposes its value only through the pgtype valuer protocol.
type score struct {
	n     int64
	valid bool
}

func (s score) Int64Value() (pgtype.Int8, error) {
	return pgtype.Int8{Int64: s.n, Valid: s.valid}, nil
}

func newGraph(t *testing.T) *typeconv.Graph {
	t.Helper()
	g, err := typeconv.NewGraph(typeconv.WithRegisterer(prometheus.NewRegistry()))
	require.NoError(t, err)
	return g
}

func typeOf(v interface{}) reflect.Type {
	return reflect.TypeOf(v)
}

func ptr[T any](v T) *T { return &v }
