package typeconv

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/sqlext/sqlext/internal/buildcache"
)

// ConverterFunc converts a value of one type into a value of another type.
type ConverterFunc func(value interface{}) (interface{}, error)

// ParserFunc builds a value from its text form.
type ParserFunc func(text string) (interface{}, error)

// Graph is the core type in typeconv. It holds a directed set of converters between pairs of types
// and synthesizes missing converters on first use.
// Converters are never removed or replaced once stored, so a Graph only grows.
// A Graph is safe for concurrent use.
type Graph struct {
	logger     zerolog.Logger
	registerer prometheus.Registerer
	syntheses  *prometheus.CounterVec

	edges *buildcache.Cache[edgeKey, edgeFunc]

	parsers sync.Map // reflect.Type -> ParserFunc

	enumMu    sync.RWMutex
	enumNames map[reflect.Type]map[string]reflect.Value
}

// GraphOption is a function type that changes Graph configuration.
type GraphOption func(g *Graph)

// NewGraph creates a new Graph with provided list of options.
// The graph starts with the time of day conversions between time.Time and time.Duration.
func NewGraph(opts ...GraphOption) (*Graph, error) {
	g := &Graph{
		logger:    zerolog.Nop(),
		syntheses: newSynthesisCounter(),
		edges:     buildcache.New[edgeKey, edgeFunc](edgeKey.String),
		enumNames: make(map[reflect.Type]map[string]reflect.Value),
	}
	for _, o := range opts {
		o(g)
	}
	if g.registerer != nil {
		if err := g.registerer.Register(g.syntheses); err != nil {
			return nil, fmt.Errorf("typeconv: register metrics: %w", err)
		}
	}
	g.addQuad(timeType, durationType, timeOfDay)
	g.addQuad(durationType, timeType, durationToTime)
	return g, nil
}

// WithLogger sets the logger that receives converter synthesis events at debug level.
// By default nothing is logged.
func WithLogger(logger zerolog.Logger) GraphOption {
	return func(g *Graph) {
		g.logger = logger
	}
}

// WithRegisterer registers the graph's synthesis counter with reg.
func WithRegisterer(reg prometheus.Registerer) GraphOption {
	return func(g *Graph) {
		g.registerer = reg
	}
}

// Convert is a package-level helper function that uses the DefaultGraph object.
// See ConvertWith for details.
func Convert[TFrom, TTo any](value TFrom) (TTo, error) {
	return ConvertWith[TFrom, TTo](DefaultGraph, value)
}

// ConvertWith converts value from TFrom to TTo using g.
func ConvertWith[TFrom, TTo any](g *Graph, value TFrom) (TTo, error) {
	var zero TTo
	out, err := g.Convert(typeOf[TFrom](), typeOf[TTo](), value)
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	return out.(TTo), nil
}

// Convert converts value, declared as type from, into type to.
//
// The conversion is resolved in this order:
//
//   - if from and to are the same type the value is returned unchanged;
//   - if to is string the value is rendered as text, see Text;
//   - a stored converter for the pair is applied;
//   - otherwise the converter is synthesized, stored and applied.
//
// Synthesis tries the strategies below in order until the requested pair has a converter.
// Converters a strategy stores for other pairs along the way are kept.
//
//  1. assignable: to is assignable from from, the value passes through.
//  2. enum: from or to is an enum, a defined integer type other than time.Duration.
//     Converters between the enum and every numeric type are stored, plus text parsing by name.
//  3. text: from is string or []byte and to can be parsed from text.
//  4. descriptor: *to implements sql.Scanner, or from implements driver.Valuer.
//  5. cast: a numeric or bool cast, a conversion between defined types of the same kind,
//     or a checked downcast from an interface.
//  6. protocol: from exposes its value through Int64, Float64 or one of the pgtype valuer interfaces.
//
// Pointer types are the nullable form of their element type. Strategies 2 to 5 store
// converters for all four combinations of a pair at once, a nil source yields the zero value
// for a non pointer destination and nil for a pointer one.
//
// If no strategy applies a *ConversionNotSupportedError is returned.
func (g *Graph) Convert(from, to reflect.Type, value interface{}) (interface{}, error) {
	if from == nil || to == nil {
		return nil, fmt.Errorf("typeconv: both source and destination types are required, got %v and %v", from, to)
	}
	in, err := inputValue(from, value)
	if err != nil {
		return nil, err
	}
	if from == to {
		return value, nil
	}
	if to == stringType {
		return Text(value)
	}
	fn, ok := g.edge(from, to)
	if !ok {
		return nil, &ConversionNotSupportedError{From: from, To: to, Value: value}
	}
	out, err := fn(in)
	if err != nil {
		return nil, fmt.Errorf("typeconv: convert %v to %v: %w", from, to, err)
	}
	return outputValue(conform(out, to)), nil
}

// Converter returns the converter for the (from, to) pair, synthesizing it if needed.
func (g *Graph) Converter(from, to reflect.Type) (ConverterFunc, error) {
	fn, ok := g.edge(from, to)
	if !ok {
		return nil, &ConversionNotSupportedError{From: from, To: to}
	}
	return func(value interface{}) (interface{}, error) {
		in, err := inputValue(from, value)
		if err != nil {
			return nil, err
		}
		out, err := fn(in)
		if err != nil {
			return nil, fmt.Errorf("typeconv: convert %v to %v: %w", from, to, err)
		}
		return outputValue(conform(out, to)), nil
	}, nil
}

// HasConverter reports whether a converter for the pair is already stored.
// It never synthesizes.
func (g *Graph) HasConverter(from, to reflect.Type) bool {
	_, ok := g.edges.Load(edgeKey{from: from, to: to})
	return ok
}

// AddConverter stores fn as the converter from one type to another.
// It returns false and keeps the existing converter if the pair already has one.
func (g *Graph) AddConverter(from, to reflect.Type, fn ConverterFunc) bool {
	return g.addEdge(from, to, func(v reflect.Value) (reflect.Value, error) {
		out, err := fn(valueInterface(v))
		if err != nil {
			return reflect.Value{}, err
		}
		if out == nil {
			return reflect.Zero(to), nil
		}
		rv := reflect.ValueOf(out)
		if !rv.Type().AssignableTo(to) {
			return reflect.Value{}, &TypeMismatchError{Expected: to, Value: out}
		}
		return conform(rv, to), nil
	})
}

// AddConverterFunc is a typed version of Graph.AddConverter.
func AddConverterFunc[TFrom, TTo any](g *Graph, fn func(TFrom) (TTo, error)) bool {
	return g.AddConverter(typeOf[TFrom](), typeOf[TTo](), func(value interface{}) (interface{}, error) {
		var in TFrom
		if value != nil {
			in = value.(TFrom)
		}
		return fn(in)
	})
}

// RegisterParser sets the text parser used for t.
// It takes precedence over encoding.TextUnmarshaler and the built-in parsers,
// but only for pairs that have not been synthesized yet.
func (g *Graph) RegisterParser(t reflect.Type, fn ParserFunc) {
	g.parsers.Store(t, fn)
}

// RegisterEnum records the names of enum values, so text converts to E by name.
// A value's name is its text form, usually the result of its String method.
func RegisterEnum[E any](g *Graph, values ...E) error {
	t := typeOf[E]()
	if !isEnum(t) {
		return fmt.Errorf("typeconv: %v is not an enum type", t)
	}
	g.enumMu.Lock()
	defer g.enumMu.Unlock()
	names := make(map[string]reflect.Value, len(g.enumNames[t])+len(values))
	for name, v := range g.enumNames[t] {
		names[name] = v
	}
	for _, v := range values {
		names[fmt.Sprint(v)] = reflect.ValueOf(v)
	}
	g.enumNames[t] = names
	return nil
}

func (g *Graph) enumValue(t reflect.Type, name string) (reflect.Value, bool) {
	g.enumMu.RLock()
	defer g.enumMu.RUnlock()
	names := g.enumNames[t]
	if v, ok := names[name]; ok {
		return v, true
	}
	for n, v := range names {
		if strings.EqualFold(n, name) {
			return v, true
		}
	}
	return reflect.Value{}, false
}

func (g *Graph) edge(from, to reflect.Type) (edgeFunc, bool) {
	key := edgeKey{from: from, to: to}
	if fn, ok := g.edges.Load(key); ok {
		return fn, true
	}
	_ = g.edges.Do(key, func() error {
		g.synthesize(from, to)
		return nil
	})
	return g.edges.Load(key)
}

func (g *Graph) synthesize(from, to reflect.Type) {
	key := edgeKey{from: from, to: to}
	if _, ok := g.edges.Load(key); ok {
		return
	}
	for _, s := range synthesisChain() {
		if !s.apply(g, from, to) {
			continue
		}
		g.syntheses.WithLabelValues(s.name).Inc()
		_, done := g.edges.Load(key)
		g.logger.Debug().
			Str("from", from.String()).
			Str("to", to.String()).
			Str("strategy", s.name).
			Bool("resolved", done).
			Msg("converter synthesized")
		if done {
			return
		}
	}
	g.logger.Debug().
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("no converter strategy applies")
}

func newSynthesisCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sqlext",
		Subsystem: "typeconv",
		Name:      "syntheses_total",
		Help:      "Number of converter syntheses, by the strategy that produced them.",
	}, []string{"strategy"})
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func mustNewGraph(opts ...GraphOption) *Graph {
	g, err := NewGraph(opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// DefaultGraph is the default instance of Graph with all configuration settings set to default.
var DefaultGraph = mustNewGraph()
