package typeconv

import (
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Syntheses reports how many times the strategy produced converters in g.
func (g *Graph) Syntheses(strategy string) float64 {
	return testutil.ToFloat64(g.syntheses.WithLabelValues(strategy))
}
