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
	"testing"

	"github.com/ctessum/unit"
)

func TestSI(t *testing.T) {
	p := Properties{H: 100, S: 2, Cp: 0.3, Cv: 0.25, Gamma: 1.2, Rho: 1e-3, R: 287}
	si := p.SI()
	for _, c := range []struct {
		name string
		u    *unit.Unit
		v    float64
		d    unit.Dimensions
	}{
		{"H", si.H, 418400, JoulePerKilogram},
		{"S", si.S, 8368, JoulePerKilogramKelvin},
		{"Cp", si.Cp, 1255.2, JoulePerKilogramKelvin},
		{"Cv", si.Cv, 1046, JoulePerKilogramKelvin},
		{"Rho", si.Rho, 1, unit.KilogramPerMeter3},
		{"R", si.R, 287, JoulePerKilogramKelvin},
	} {
		if d := c.u.Value() - c.v; d > 1e-9 || d < -1e-9 {
			t.Errorf("%s: have %g, want %g", c.name, c.u.Value(), c.v)
		}
		if err := c.u.Check(c.d); err != nil {
			t.Errorf("%s: %v", c.name, err)
		}
	}
	if si.Gamma != 1.2 {
		t.Errorf("gamma: have %g", si.Gamma)
	}
}
