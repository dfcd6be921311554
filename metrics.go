/*
Copyright © 2024 the chemeq authors.
This file is part of chemeq.

chemeq is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

chemeq is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with chemeq.  If not, see <http://www.gnu.org/licenses/>.
*/

package chemeq

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records equilibrium solver activity.
type Metrics struct {
	// Solves counts solves by mode and outcome
	// ("converged", "not_converged", "numerical", or "error").
	Solves *prometheus.CounterVec

	// Iterations records the Newton iterations used per solve.
	Iterations *prometheus.HistogramVec
}

// NewMetrics creates solver metrics and registers them with reg, if reg
// is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chemeq",
			Name:      "solves_total",
			Help:      "Number of equilibrium solves by mode and outcome.",
		}, []string{"mode", "outcome"}),
		Iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chemeq",
			Name:      "solve_iterations",
			Help:      "Newton iterations per equilibrium solve.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 9),
		}, []string{"mode"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.Solves, m.Iterations} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(mode Mode, st *EquilibriumState, err error) {
	if m == nil {
		return
	}
	outcome := "converged"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotConverged):
		outcome = "not_converged"
	case errors.Is(err, ErrNumerical):
		outcome = "numerical"
	default:
		outcome = "error"
	}
	m.Solves.WithLabelValues(mode.String(), outcome).Inc()
	if st != nil {
		m.Iterations.WithLabelValues(mode.String()).Observe(float64(st.Iterations))
	}
}
