package dbmap

import (
	"context"
	"fmt"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/sqlext/sqlext/internal/buildcache"
	"github.com/sqlext/sqlext/typeconv"
)

// Rows is an abstract database rows that dbmap can iterate over and get the data from.
// This interface is used to decouple from any particular database library.
// Values returns the native values of the current row, a nil value stands for NULL.
type Rows interface {
	Close() error
	Err() error
	Next() bool
	Columns() ([]string, error)
	Values() ([]interface{}, error)
}

// API is the core type in dbmap. It implements all the logic and exposes functionality available in the package.
// With API type users can create a custom API instance and override default settings hence configure dbmap.
// API owns the caches of the reflection work, create one API and share it.
type API struct {
	structTagKey string
	strictNames  bool
	logger       zerolog.Logger
	registerer   prometheus.Registerer
	converter    *typeconv.Graph
	builds       *prometheus.CounterVec

	mappers     *buildcache.Cache[reflect.Type, *typeMapper]
	tables      *buildcache.Cache[tableKey, *SetterTable]
	projections *buildcache.Cache[reflect.Type, Projection]
}

// APIOption is a function type that changes API configuration.
type APIOption func(api *API)

// NewAPI creates a new API object with provided list of options.
func NewAPI(opts ...APIOption) (*API, error) {
	api := &API{
		structTagKey: "db",
		logger:       zerolog.Nop(),
		converter:    typeconv.DefaultGraph,
		builds:       newBuildCounter(),
		mappers:      buildcache.New[reflect.Type, *typeMapper](typeKey),
		tables:       buildcache.New[tableKey, *SetterTable](tableKey.String),
		projections:  buildcache.New[reflect.Type, Projection](typeKey),
	}
	for _, o := range opts {
		o(api)
	}
	if api.converter == nil {
		return nil, fmt.Errorf("dbmap: converter must not be nil")
	}
	if api.registerer != nil {
		if err := api.registerer.Register(api.builds); err != nil {
			return nil, fmt.Errorf("dbmap: register metrics: %w", err)
		}
	}
	return api, nil
}

// WithStructTagKey allows to use a custom struct tag key.
// The default tag key is `db`.
func WithStructTagKey(tagKey string) APIOption {
	return func(api *API) {
		api.structTagKey = tagKey
	}
}

// WithStrictNames makes struct types whose members share a name key invalid.
// By default the member that comes last in field order wins.
func WithStrictNames(strict bool) APIOption {
	return func(api *API) {
		api.strictNames = strict
	}
}

// WithLogger sets the logger that receives cache build events at debug level.
func WithLogger(logger zerolog.Logger) APIOption {
	return func(api *API) {
		api.logger = logger
	}
}

// WithRegisterer registers the API's build counter with reg.
func WithRegisterer(reg prometheus.Registerer) APIOption {
	return func(api *API) {
		api.registerer = reg
	}
}

// WithConverter sets the conversion graph used to render values as text in MapStrings.
// The default is typeconv.DefaultGraph.
func WithConverter(g *typeconv.Graph) APIOption {
	return func(api *API) {
		api.converter = g
	}
}

// MapAll is a package-level helper function that uses the DefaultAPI object.
// See APIMapAllContext for details.
func MapAll[T any](rows Rows) ([]T, error) {
	return APIMapAllContext[T](context.Background(), DefaultAPI, rows)
}

// MapOne is a package-level helper function that uses the DefaultAPI object.
// See APIMapOneContext for details.
func MapOne[T any](rows Rows) (T, bool, error) {
	return APIMapOneContext[T](context.Background(), DefaultAPI, rows)
}

// MapAllContext is a package-level helper function that uses the DefaultAPI object.
// See APIMapAllContext for details.
func MapAllContext[T any](ctx context.Context, rows Rows) ([]T, error) {
	return APIMapAllContext[T](ctx, DefaultAPI, rows)
}

// MapOneContext is a package-level helper function that uses the DefaultAPI object.
// See APIMapOneContext for details.
func MapOneContext[T any](ctx context.Context, rows Rows) (T, bool, error) {
	return APIMapOneContext[T](ctx, DefaultAPI, rows)
}

// APIMapAll maps every row with api. See APIMapAllContext for details.
func APIMapAll[T any](api *API, rows Rows) ([]T, error) {
	return APIMapAllContext[T](context.Background(), api, rows)
}

// APIMapOne maps the first row with api. See APIMapOneContext for details.
func APIMapOne[T any](api *API, rows Rows) (T, bool, error) {
	return APIMapOneContext[T](context.Background(), api, rows)
}

// APIMapAllContext iterates all rows to the end and maps each of them to a new T.
// After iterating it closes the rows, and propagates any errors that could pop up.
// T is a struct or a pointer to a struct, for example:
//
//	type Office struct {
//	    OfficeCode string
//	    City       string
//	}
//
//	offices, err := dbmap.APIMapAllContext[Office](ctx, api, rows)
//	officesByPtr, err := dbmap.APIMapAllContext[*Office](ctx, api, rows)
//
// The setter table for the rows' columns is built before the first row is read.
// If there are no rows the result is an empty, non nil slice.
// ctx is checked before each row, so a canceled context stops the iteration at the next row boundary.
func APIMapAllContext[T any](ctx context.Context, api *API, rows Rows) ([]T, error) {
	defer rows.Close() //nolint: errcheck
	structType, byPtr := elementType[T]()
	rm := api.NewRowMapper(rows)
	if err := rm.ensureStarted(structType); err != nil {
		return nil, fmt.Errorf("starting: %w", err)
	}
	results := make([]T, 0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !rows.Next() {
			break
		}
		v, err := rm.mapNew()
		if err != nil {
			return nil, fmt.Errorf("mapping: %w", err)
		}
		results = append(results, elementValue[T](v, byPtr))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dbmap: rows final error: %w", err)
	}

	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("dbmap: close rows after processing: %w", err)
	}
	return results, nil
}

// APIMapOneContext maps the first row to a new T and closes the rows without reading any further.
// If there are no rows it returns false and the zero T.
// See APIMapAllContext for the supported types of T.
func APIMapOneContext[T any](ctx context.Context, api *API, rows Rows) (T, bool, error) {
	defer rows.Close() //nolint: errcheck
	var zero T
	structType, byPtr := elementType[T]()
	rm := api.NewRowMapper(rows)
	if err := rm.ensureStarted(structType); err != nil {
		return zero, false, fmt.Errorf("starting: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	var (
		result T
		found  bool
	)
	if rows.Next() {
		v, err := rm.mapNew()
		if err != nil {
			return zero, false, fmt.Errorf("mapping: %w", err)
		}
		result, found = elementValue[T](v, byPtr), true
	}

	if err := rows.Close(); err != nil {
		return zero, false, fmt.Errorf("dbmap: close rows after processing: %w", err)
	}

	if err := rows.Err(); err != nil {
		return zero, false, fmt.Errorf("dbmap: rows final error: %w", err)
	}
	return result, found, nil
}

func elementType[T any]() (reflect.Type, bool) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct {
		return t.Elem(), true
	}
	return t, false
}

// elementValue turns a pointer to a freshly mapped struct into a T.
func elementValue[T any](ptr reflect.Value, byPtr bool) T {
	if byPtr {
		return ptr.Interface().(T)
	}
	return ptr.Elem().Interface().(T)
}

func newBuildCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sqlext",
		Subsystem: "dbmap",
		Name:      "builds_total",
		Help:      "Number of reflection builds, by cache.",
	}, []string{"cache"})
}

func typeKey(t reflect.Type) string {
	return fmt.Sprintf("%p", t)
}

func mustNewAPI(opts ...APIOption) *API {
	api, err := NewAPI(opts...)
	if err != nil {
		panic(err)
	}
	return api
}

// DefaultAPI is the default instance of API with all configuration settings set to default.
var DefaultAPI = mustNewAPI()
