package pgxmap

import (
	"github.com/jackc/pgx/v5"

	"github.com/sqlext/sqlext/dbmap"
)

type namedArgsSink pgx.NamedArgs

func (s namedArgsSink) AddParam(name string, value interface{}) {
	s[name] = value
}

// NamedArgs is a package-level helper function that uses the DefaultAPI object.
// See API.NamedArgs for details.
func NamedArgs(src interface{}) (pgx.NamedArgs, error) {
	return DefaultAPI.NamedArgs(src)
}

// NamedArgs projects the members of src, a struct or a pointer to a struct,
// into pgx.NamedArgs, so they can be referenced as @name in the query.
// See dbmap.API.BuildProjection for the naming rules.
func (api *API) NamedArgs(src interface{}) (pgx.NamedArgs, error) {
	args := pgx.NamedArgs{}
	if err := api.dbmapAPI.AddParams(namedArgsSink(args), src); err != nil {
		return nil, err
	}
	return args, nil
}

var _ dbmap.ParamSink = namedArgsSink(nil)
