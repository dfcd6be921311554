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
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	o := quietOptions()
	o.Metrics = m
	tbl := co2Table(t)
	if _, err := Solve(tbl, 1, FixedT(2500), nil, o); err != nil {
		t.Fatal(err)
	}
	if _, err := Solve(tbl, 1, FixedT(2500), nil, o); err != nil {
		t.Fatal(err)
	}
	o.MaxIter = 1
	if _, err := Solve(tbl, 1, TargetH(-2000, 1500), nil, o); !errors.Is(err, ErrNotConverged) {
		t.Fatalf("want not converged, have %v", err)
	}

	want := `
# HELP chemeq_solves_total Number of equilibrium solves by mode and outcome.
# TYPE chemeq_solves_total counter
chemeq_solves_total{mode="HP",outcome="not_converged"} 1
chemeq_solves_total{mode="TP",outcome="converged"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "chemeq_solves_total"); err != nil {
		t.Error(err)
	}
	if n := testutil.CollectAndCount(m.Iterations); n != 2 {
		t.Errorf("have %d iteration histograms, want 2", n)
	}
}

func TestMetricsRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewMetrics(reg); err != nil {
		t.Fatal(err)
	}
	if _, err := NewMetrics(reg); err == nil {
		t.Error("expected a duplicate registration error")
	}
	if _, err := NewMetrics(nil); err != nil {
		t.Error(err)
	}
}

func TestMetricsNil(t *testing.T) {
	var m *Metrics
	m.observe(TP, nil, ErrNumerical)
}
