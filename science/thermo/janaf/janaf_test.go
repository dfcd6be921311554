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


package janaf

import (
	"math"
	"testing"

	"github.com/spatialmodel/chemeq"
)

func TestLibrary(t *testing.T) {
	lib, err := Library()
	if err != nil {
		t.Fatal(err)
	}
	wantSpecies := []string{"Ar", "CO", "CO2", "H", "H2", "H2O", "N", "N2", "NO", "O", "O2", "OH"}
	got := lib.SpeciesNames()
	if len(got) != len(wantSpecies) {
		t.Fatalf("species: have %v, want %v", got, wantSpecies)
	}
	for i, s := range wantSpecies {
		if got[i] != s {
			t.Errorf("species %d: have %s, want %s", i, got[i], s)
		}
	}
	for _, r := range []string{"AIR", "CO2", "H2O", "JP-7", "Jet-A(g)", "CH4", "H2"} {
		if _, ok := lib.Reactants[r]; !ok {
			t.Errorf("missing reactant %s", r)
		}
	}
	lib2, err := Library()
	if err != nil {
		t.Fatal(err)
	}
	if lib != lib2 {
		t.Error("library should only be loaded once")
	}
}

func TestReactantWeight(t *testing.T) {
	lib, err := Library()
	if err != nil {
		t.Fatal(err)
	}
	for r, want := range map[string]float64{
		"CO2": 44.0095,
		"H2O": 18.01528,
		"CH4": 16.04246,
	} {
		have, err := lib.ReactantWeight(r)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(have-want) > 1e-4 {
			t.Errorf("%s: have %g, want %g", r, have, want)
		}
	}
}

// The enthalpy of formation of CO2 at 298.15 K is -393.51 kJ/mol.
func TestCO2Formation(t *testing.T) {
	lib, err := Library()
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := chemeq.Build(lib, map[string]float64{"CO2": 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	const T = 298.15
	h0 := tbl.H0(T)
	var i int
	for j, p := range tbl.Products {
		if p == "CO2" {
			i = j
		}
	}
	have := h0[i] * T * 8.314462618 / 1000 // kJ/mol
	if math.Abs(have-(-393.51)) > 0.1 {
		t.Errorf("CO2 enthalpy of formation: have %g kJ/mol, want -393.51", have)
	}
}

func TestData(t *testing.T) {
	d := Data()
	if len(d) == 0 {
		t.Fatal("no data")
	}
	d[0] = 0
	if Data()[0] == 0 {
		t.Error("Data should return a copy")
	}
}
