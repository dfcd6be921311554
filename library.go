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
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/BurntSushi/toml"
)

// Species holds the NASA polynomial fit for one chemical species.
type Species struct {
	Name string `toml:"-"`

	// Elements gives the number of atoms of each element in one molecule.
	Elements map[string]float64 `toml:"elements"`

	// Weight is the molar weight [g/mol].
	Weight float64 `toml:"weight"`

	// Ranges holds the temperature breakpoints [K] of the fit, in
	// ascending order. Coefficients[k] is valid between Ranges[k] and
	// Ranges[k+1].
	Ranges []float64 `toml:"ranges"`

	// Coefficients holds one row per temperature range: a0 through a6
	// followed by the enthalpy (b1) and entropy (b2) integration constants.
	Coefficients [][]float64 `toml:"coefficients"`
}

// Reactant is a named elemental formula that can be used to specify the
// initial composition of a mixture.
type Reactant struct {
	Name string `toml:"-"`

	// Elements gives the moles of each element in one mole of reactant.
	Elements map[string]float64 `toml:"elements"`
}

// Library is a collection of species thermodynamic data. It must not be
// modified after it is loaded.
type Library struct {
	// Elements holds the atomic weight [g/mol] of each known element.
	Elements map[string]float64 `toml:"elements"`

	Species   map[string]*Species  `toml:"species"`
	Reactants map[string]*Reactant `toml:"reactants"`
}

const (
	minCoefficients = 9
	maxCoefficients = 10
)

// LoadLibrary reads a species library in TOML format from r.
func LoadLibrary(r io.Reader) (*Library, error) {
	lib := new(Library)
	if _, err := toml.NewDecoder(r).Decode(lib); err != nil {
		return nil, fmt.Errorf("chemeq: decoding species library: %w", err)
	}
	for name, s := range lib.Species {
		s.Name = name
	}
	for name, r := range lib.Reactants {
		r.Name = name
	}
	if err := lib.validate(); err != nil {
		return nil, err
	}
	return lib, nil
}

func (lib *Library) validate() error {
	for e, wt := range lib.Elements {
		if !(wt > 0) {
			return fmt.Errorf("chemeq: element %s has invalid weight %g: %w", e, wt, ErrConfiguration)
		}
	}
	for _, name := range lib.SpeciesNames() {
		s := lib.Species[name]
		if !(s.Weight > 0) {
			return fmt.Errorf("chemeq: species %s has invalid weight %g: %w", name, s.Weight, ErrConfiguration)
		}
		if len(s.Elements) == 0 {
			return fmt.Errorf("chemeq: species %s has no elements: %w", name, ErrConfiguration)
		}
		for e, n := range s.Elements {
			if _, ok := lib.Elements[e]; !ok {
				return fmt.Errorf("chemeq: species %s contains unknown element %s: %w", name, e, ErrConfiguration)
			}
			if !(n > 0) {
				return fmt.Errorf("chemeq: species %s has invalid count %g for element %s: %w", name, n, e, ErrConfiguration)
			}
		}
		if len(s.Ranges) < 2 {
			return fmt.Errorf("chemeq: species %s needs at least two temperature breakpoints: %w", name, ErrConfiguration)
		}
		if !sort.Float64sAreSorted(s.Ranges) {
			return fmt.Errorf("chemeq: species %s temperature breakpoints are not sorted: %w", name, ErrConfiguration)
		}
		if len(s.Coefficients) != len(s.Ranges)-1 {
			return fmt.Errorf("chemeq: species %s has %d coefficient rows for %d temperature ranges: %w",
				name, len(s.Coefficients), len(s.Ranges)-1, ErrConfiguration)
		}
		for k, row := range s.Coefficients {
			if len(row) < minCoefficients || len(row) > maxCoefficients {
				return fmt.Errorf("chemeq: species %s range %d has %d coefficients, need %d to %d: %w",
					name, k, len(row), minCoefficients, maxCoefficients, ErrConfiguration)
			}
			for _, a := range row {
				if math.IsNaN(a) || math.IsInf(a, 0) {
					return fmt.Errorf("chemeq: species %s range %d has a non-finite coefficient: %w", name, k, ErrConfiguration)
				}
			}
		}
	}
	for _, name := range lib.ReactantNames() {
		for e, n := range lib.Reactants[name].Elements {
			if _, ok := lib.Elements[e]; !ok {
				return fmt.Errorf("chemeq: reactant %s contains unknown element %s: %w", name, e, ErrConfiguration)
			}
			if n < 0 {
				return fmt.Errorf("chemeq: reactant %s has negative amount of element %s: %w", name, e, ErrConfiguration)
			}
		}
	}
	return nil
}

// SpeciesNames returns the names of the species in the library, sorted.
func (lib *Library) SpeciesNames() []string {
	o := make([]string, 0, len(lib.Species))
	for name := range lib.Species {
		o = append(o, name)
	}
	sort.Strings(o)
	return o
}

// ReactantNames returns the names of the reactants in the library, sorted.
func (lib *Library) ReactantNames() []string {
	o := make([]string, 0, len(lib.Reactants))
	for name := range lib.Reactants {
		o = append(o, name)
	}
	sort.Strings(o)
	return o
}

// ReactantWeight returns the molar weight [g/mol] of the named reactant.
func (lib *Library) ReactantWeight(name string) (float64, error) {
	r, ok := lib.Reactants[name]
	if !ok {
		return math.NaN(), fmt.Errorf("chemeq: unknown reactant %s: %w", name, ErrConfiguration)
	}
	var wt float64
	for e, n := range r.Elements {
		wt += n * lib.Elements[e]
	}
	if !(wt > 0) {
		return math.NaN(), fmt.Errorf("chemeq: reactant %s has no mass: %w", name, ErrConfiguration)
	}
	return wt, nil
}

// hasElement reports whether any species in the library contains
// element e.
func (lib *Library) hasElement(e string) bool {
	for _, s := range lib.Species {
		if _, ok := s.Elements[e]; ok {
			return true
		}
	}
	return false
}
