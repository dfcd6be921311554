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
	"reflect"
	"strings"
	"testing"
)

func TestLibraryNames(t *testing.T) {
	lib := loadLibrary(t)
	species := lib.SpeciesNames()
	want := []string{"Ar", "CO", "CO2", "H", "H2", "H2O", "N", "N2", "NO", "O", "O2", "OH"}
	if !reflect.DeepEqual(species, want) {
		t.Errorf("species: have %v, want %v", species, want)
	}
	reactants := lib.ReactantNames()
	if len(reactants) == 0 || reactants[0] != "AIR" {
		t.Errorf("reactants: %v", reactants)
	}
	for _, name := range species {
		if lib.Species[name].Name != name {
			t.Errorf("species %s has name %q", name, lib.Species[name].Name)
		}
	}
}

func TestReactantWeight(t *testing.T) {
	lib := loadLibrary(t)
	wt, err := lib.ReactantWeight("N2")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(wt-28.0134) > 1e-9 {
		t.Errorf("N2 weight: have %g, want 28.0134", wt)
	}
	if _, err := lib.ReactantWeight("unobtainium"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("unknown reactant: %v", err)
	}

	lib.Reactants["nothing"] = &Reactant{Name: "nothing", Elements: map[string]float64{"C": 0}}
	if _, err := lib.ReactantWeight("nothing"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("massless reactant: %v", err)
	}
}

func TestLoadLibraryDecodeError(t *testing.T) {
	_, err := LoadLibrary(strings.NewReader("[species\n"))
	if err == nil || !strings.Contains(err.Error(), "decoding species library") {
		t.Errorf("have %v", err)
	}
}
