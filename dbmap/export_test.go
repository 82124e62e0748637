package dbmap

import (
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Builds reports how many entries were built for the cache: "mapper", "table" or "projection".
func (api *API) Builds(cache string) float64 {
	return testutil.ToFloat64(api.builds.WithLabelValues(cache))
}
