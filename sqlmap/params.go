package sqlmap

import (
	"database/sql"

	"github.com/sqlext/sqlext/dbmap"
)

type namedArgsSink struct {
	args []interface{}
}

func (s *namedArgsSink) AddParam(name string, value interface{}) {
	s.args = append(s.args, sql.Named(name, value))
}

var _ dbmap.ParamSink = (*namedArgsSink)(nil)

// Args is a package-level helper function that uses the DefaultAPI object.
// See API.Args for details.
func Args(src interface{}) ([]interface{}, error) {
	return DefaultAPI.Args(src)
}

// Args projects the members of src, a struct or a pointer to a struct,
// into sql.NamedArg values in field order, ready to be passed as query arguments.
// See dbmap.API.BuildProjection for the naming rules.
func (api *API) Args(src interface{}) ([]interface{}, error) {
	sink := &namedArgsSink{}
	if err := api.dbmapAPI.AddParams(sink, src); err != nil {
		return nil, err
	}
	return sink.args, nil
}
