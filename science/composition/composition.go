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


// Package composition builds initial reactant mixtures for equilibrium
// calculations: dry and humid air, fuel-air mixtures, and presets.
package composition

import (
	"fmt"
	"math"
	"sort"

	"github.com/spatialmodel/chemeq"
)

// Water is the name of the reactant added by WetAir.
const Water = "H2O"

// Mixture holds the number of moles of each reactant in a mixture, keyed
// by reactant name.
type Mixture map[string]float64

// Air returns one mole of dry air.
func Air() Mixture { return Mixture{"AIR": 1} }

// CO2 returns one mole of carbon dioxide.
func CO2() Mixture { return Mixture{"CO2": 1} }

// Copy returns a copy of m.
func (m Mixture) Copy() Mixture {
	o := make(Mixture, len(m))
	for k, v := range m {
		o[k] = v
	}
	return o
}

// Mass returns the mass of m [g].
func (m Mixture) Mass(lib *chemeq.Library) (float64, error) {
	var mass float64
	for _, name := range m.names() {
		n := m[name]
		if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			return math.NaN(), fmt.Errorf("composition: invalid amount %g of %s: %w", n, name, chemeq.ErrConfiguration)
		}
		wt, err := lib.ReactantWeight(name)
		if err != nil {
			return math.NaN(), fmt.Errorf("composition: %w", err)
		}
		mass += n * wt
	}
	return mass, nil
}

// MassFractions returns the mass fraction of each reactant in m.
func (m Mixture) MassFractions(lib *chemeq.Library) (map[string]float64, error) {
	total, err := m.Mass(lib)
	if err != nil {
		return nil, err
	}
	if total <= 0 {
		return nil, fmt.Errorf("composition: mixture %v has no mass: %w", m, chemeq.ErrConfiguration)
	}
	o := make(map[string]float64, len(m))
	for name, n := range m {
		wt, _ := lib.ReactantWeight(name)
		o[name] = n * wt / total
	}
	return o, nil
}

func (m Mixture) names() []string {
	o := make([]string, 0, len(m))
	for k := range m {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}

// WetAir returns dry with water vapor added so that the water makes up
// the mass fraction war of the result, i.e. war units of water mass for
// every 1-war units of dry mass. war must be in [0, 1).
func WetAir(lib *chemeq.Library, dry Mixture, war float64) (Mixture, error) {
	if math.IsNaN(war) || war < 0 || war >= 1 {
		return nil, fmt.Errorf("composition: water-to-air ratio must be in [0, 1), but is %g: %w", war, chemeq.ErrConfiguration)
	}
	return addByMass(lib, dry, Water, war/(1-war))
}

// FuelAir returns air with the named fuel added at fuel-to-air mass
// ratio far, which must not be negative.
func FuelAir(lib *chemeq.Library, air Mixture, fuel string, far float64) (Mixture, error) {
	if math.IsNaN(far) || math.IsInf(far, 0) || far < 0 {
		return nil, fmt.Errorf("composition: fuel-to-air ratio must be a non-negative number, but is %g: %w", far, chemeq.ErrConfiguration)
	}
	return addByMass(lib, air, fuel, far)
}

// addByMass returns m with reactant r added at ratio units of mass per
// unit mass of m.
func addByMass(lib *chemeq.Library, m Mixture, r string, ratio float64) (Mixture, error) {
	mass, err := m.Mass(lib)
	if err != nil {
		return nil, err
	}
	wt, err := lib.ReactantWeight(r)
	if err != nil {
		return nil, fmt.Errorf("composition: %w", err)
	}
	o := m.Copy()
	if ratio > 0 {
		o[r] += ratio * mass / wt
	}
	return o, nil
}

// Fuels returns the names of the reactants in lib that are made only of
// carbon and hydrogen, sorted.
func Fuels(lib *chemeq.Library) []string {
	var o []string
	for _, name := range lib.ReactantNames() {
		fuel := len(lib.Reactants[name].Elements) > 0
		for e := range lib.Reactants[name].Elements {
			if e != "C" && e != "H" {
				fuel = false
				break
			}
		}
		if fuel {
			o = append(o, name)
		}
	}
	return o
}
