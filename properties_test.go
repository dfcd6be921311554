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
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// For a single non-reacting species the equilibrium and frozen
// properties coincide: dlnV/dlnT = 1, dlnV/dlnP = -1, and Cv = Cp - R.
func TestDeriveSingleSpecies(t *testing.T) {
	tbl, err := Build(subsetLibrary(t, "N2"), map[string]float64{"N2": 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	n := []float64{1 / 28.0134}
	for _, T := range []float64{300, 1200, 3000} {
		p, err := Derive(tbl, T, 2, n, n[0], tbl.B0, DefaultPRef)
		if err != nil {
			t.Fatal(err)
		}
		cp0 := tbl.Cp0(T)[0]
		check := func(what string, have, want float64) {
			if !scalar.EqualWithinAbsOrRel(have, want, 1e-10, 1e-9) {
				t.Errorf("T=%g %s: have %g, want %g", T, what, have, want)
			}
		}
		check("dlnVdlnT", p.DlnVdlnT, 1)
		check("dlnVdlnP", p.DlnVdlnP, -1)
		check("Cp", p.Cp, RUnivEng*n[0]*cp0)
		check("Cv", p.Cv, RUnivEng*n[0]*(cp0-1))
		check("gamma", p.Gamma, cp0/(cp0-1))
		check("h", p.H, RUnivEng*T*n[0]*tbl.H0(T)[0])
		check("R", p.R, RUnivSI/28.0134)
		check("rho", p.Rho, 2e5/(RUnivSI/28.0134*T)/1000)
	}
}

func TestDeriveCO2Reference(t *testing.T) {
	tbl := co2Table(t)
	o := quietOptions()
	for _, c := range []struct {
		T, gamma float64
	}{
		{T: 4000, gamma: 1.19054697},
		{T: 1500, gamma: 1.16379233},
	} {
		st, err := Solve(tbl, 1.034210, FixedT(c.T), nil, o)
		if err != nil {
			t.Fatal(err)
		}
		p, err := Derive(tbl, st.T, 1.034210, st.N, st.NMoles, tbl.B0, o.PRef)
		if err != nil {
			t.Fatal(err)
		}
		if !scalar.EqualWithinAbsOrRel(p.Gamma, c.gamma, 1e-4, 1e-4) {
			t.Errorf("T=%g gamma: have %.8f, want %.8f", c.T, p.Gamma, c.gamma)
		}
		if !(p.Cp > p.Cv) || !(p.Cv > 0) {
			t.Errorf("T=%g: Cp=%g Cv=%g", c.T, p.Cp, p.Cv)
		}
	}
}

// The equilibrium heat capacity must equal the temperature derivative of
// the equilibrium enthalpy.
func TestDeriveCpFiniteDifference(t *testing.T) {
	tbl := airTable(t)
	o := quietOptions()
	const P, h = 1., 0.5
	props := func(T float64) Properties {
		st, err := Solve(tbl, P, FixedT(T), nil, o)
		if err != nil {
			t.Fatal(err)
		}
		p, err := Derive(tbl, T, P, st.N, st.NMoles, tbl.B0, o.PRef)
		if err != nil {
			t.Fatal(err)
		}
		return p
	}
	for _, T := range []float64{1500, 2500, 3500} {
		p := props(T)
		fd := (props(T+h).H - props(T-h).H) / (2 * h)
		if !scalar.EqualWithinAbsOrRel(p.Cp, fd, 1e-6, 1e-3) {
			t.Errorf("T=%g: Cp=%g, dh/dT=%g", T, p.Cp, fd)
		}
	}
}

func TestDeriveErrors(t *testing.T) {
	tbl := co2Table(t)
	n := []float64{0.01, 0.01, 0.01}
	for name, c := range map[string]struct {
		n      []float64
		nMoles float64
		b0     []float64
		T, P   float64
	}{
		"length":   {n: n[:2], nMoles: 0.03, b0: tbl.B0, T: 1000, P: 1},
		"b0":       {n: n, nMoles: 0.03, b0: tbl.B0[:1], T: 1000, P: 1},
		"zero":     {n: []float64{0, 0.01, 0.01}, nMoles: 0.02, b0: tbl.B0, T: 1000, P: 1},
		"NaN":      {n: []float64{math.NaN(), 0.01, 0.01}, nMoles: 0.02, b0: tbl.B0, T: 1000, P: 1},
		"pressure": {n: n, nMoles: 0.03, b0: tbl.B0, T: 1000, P: 0},
		"moles":    {n: n, nMoles: 0, b0: tbl.B0, T: 1000, P: 1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Derive(tbl, c.T, c.P, c.n, c.nMoles, c.b0, DefaultPRef)
			if !errors.Is(err, ErrNumerical) {
				t.Errorf("want numerical error, have %v", err)
			}
		})
	}
}

func TestDeriveDegenerate(t *testing.T) {
	tbl, err := Build(subsetLibrary(t, "N2"), map[string]float64{"N2": 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	n := []float64{1 / 28.0134}
	t.Run("singular", func(t *testing.T) {
		// With no element abundance the bordered matrix has a zero row.
		_, err := Derive(tbl, 1000, 1, n, n[0], []float64{0}, DefaultPRef)
		if !errors.Is(err, ErrNumerical) {
			t.Errorf("want numerical error, have %v", err)
		}
	})
	t.Run("incompressible", func(t *testing.T) {
		// For one species dlnV/dlnP = -a²·n·nMoles/b0², which vanishes
		// as nMoles goes to zero.
		_, err := Derive(tbl, 1000, 1, n, 1e-20, tbl.B0, DefaultPRef)
		if !errors.Is(err, ErrNumerical) || !strings.Contains(err.Error(), "degenerate") {
			t.Errorf("want degenerate dlnV/dlnP error, have %v", err)
		}
	})
}
