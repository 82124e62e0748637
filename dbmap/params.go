package dbmap

import (
	"fmt"
	"reflect"
)

// ParamSink receives named query parameters, typically a command or an argument list of a database library.
type ParamSink interface {
	AddParam(name string, value interface{})
}

// Projection adds one parameter per readable member of value to sink.
// value must be of the type the projection was built for, or a pointer to it.
type Projection func(sink ParamSink, value interface{}) error

// ParamMap is a ParamSink that collects parameters into a map.
type ParamMap map[string]interface{}

// AddParam implements ParamSink.
func (m ParamMap) AddParam(name string, value interface{}) {
	m[name] = value
}

// BuildProjection is a package-level helper function that uses the DefaultAPI object.
// See API.BuildProjection for details.
func BuildProjection(srcType reflect.Type) (Projection, error) {
	return DefaultAPI.BuildProjection(srcType)
}

// AddParams is a package-level helper function that uses the DefaultAPI object.
// See API.AddParams for details.
func AddParams(sink ParamSink, value interface{}) error {
	return DefaultAPI.AddParams(sink, value)
}

// BuildProjection returns the parameter projection of srcType, a struct or a pointer to a struct.
// Every exported member that is not ignored with the `db:"-"` tag becomes one parameter,
// named after the member or its tag name, with its value forwarded as is.
// Members reached through a nil embedded pointer are skipped.
// Projections are cached per struct type.
func (api *API) BuildProjection(srcType reflect.Type) (Projection, error) {
	structType, err := structOf(srcType)
	if err != nil {
		return nil, err
	}
	return api.projections.Get(structType, func() (Projection, error) {
		members := api.members(structType)
		if len(members) == 0 {
			return nil, &InvalidShapeError{Type: structType, Reason: "no readable members"}
		}
		api.builds.WithLabelValues("projection").Inc()
		api.logger.Debug().
			Str("type", structType.String()).
			Int("params", len(members)).
			Msg("param projection built")
		return newProjection(structType, members), nil
	})
}

func newProjection(structType reflect.Type, members []member) Projection {
	return func(sink ParamSink, value interface{}) error {
		v := reflect.Indirect(reflect.ValueOf(value))
		if !v.IsValid() {
			return fmt.Errorf("dbmap: can't project parameters from a nil %v", structType)
		}
		if v.Type() != structType {
			return fmt.Errorf("dbmap: projection is built for %v, got %v", structType, v.Type())
		}
		for _, m := range members {
			fv, err := v.FieldByIndexErr(m.index)
			if err != nil {
				continue
			}
			sink.AddParam(m.name, fv.Interface())
		}
		return nil
	}
}

// AddParams adds the members of value, a struct or a pointer to a struct, to sink as parameters.
// See BuildProjection for the naming rules.
func (api *API) AddParams(sink ParamSink, value interface{}) error {
	if value == nil {
		return &InvalidShapeError{Reason: "nil parameter source"}
	}
	projection, err := api.BuildProjection(reflect.TypeOf(value))
	if err != nil {
		return err
	}
	return projection(sink, value)
}

// AddPairs adds parameters given as alternating names and values to sink,
// for example AddPairs(sink, "id", 7, "name", "bob").
func AddPairs(sink ParamSink, pairs ...interface{}) error {
	if len(pairs)%2 != 0 {
		return fmt.Errorf("dbmap: parameter pairs need an even number of arguments, got %d", len(pairs))
	}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok || name == "" {
			return fmt.Errorf("dbmap: parameter name at position %d must be a non empty string, got %#v", i, pairs[i])
		}
		sink.AddParam(name, pairs[i+1])
	}
	return nil
}
