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
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Table holds the species thermodynamic data, stoichiometry, and initial
// element abundances for one mixture. The coefficient cache inside a
// Table is not safe for concurrent use; use Clone to give each goroutine
// its own Table.
type Table struct {
	// Elements holds the chemically relevant elements, sorted.
	Elements []string

	// Products holds the names of the species that can form from
	// Elements, sorted.
	Products []string

	// Aij is the NumElement×NumProd stoichiometry matrix: the number of
	// atoms of element i in one molecule of species j.
	Aij *mat.Dense

	// ElementWt holds the atomic weight of each element [g/mol].
	ElementWt []float64

	// WtMole holds the molar weight of each species [g/mol].
	WtMole []float64

	// B0 holds the initial abundance of each element [kmol/kg],
	// normalized so that the sum of B0·ElementWt is one.
	B0 []float64

	species []*Species
	cache   coefCache
}

// coefCache memoizes the coefficient row of every species for the
// temperature interval [lo, hi) on which none of them changes.
type coefCache struct {
	valid  bool
	lo, hi float64
	rows   [][]float64
}

// Build creates a Table for the given initial reactant amounts [mol]
// (keyed by reactant name in lib). If elements is empty, the element set
// is every element with a nonzero initial abundance. Otherwise every
// element in it must be recognized by lib, elements with zero abundance
// are dropped, and the reactants may not contain any other element.
func Build(lib *Library, reactants map[string]float64, elements []string) (*Table, error) {
	abundance := make(map[string]float64)
	names := make([]string, 0, len(reactants))
	for name := range reactants {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		amt := reactants[name]
		r, ok := lib.Reactants[name]
		if !ok {
			return nil, fmt.Errorf("chemeq: unknown reactant %s: %w", name, ErrConfiguration)
		}
		if amt < 0 || math.IsNaN(amt) || math.IsInf(amt, 0) {
			return nil, fmt.Errorf("chemeq: invalid amount %g for reactant %s: %w", amt, name, ErrConfiguration)
		}
		for e, n := range r.Elements {
			abundance[e] += n * amt
		}
	}

	var elems []string
	if len(elements) == 0 {
		for e, a := range abundance {
			if a > 0 {
				elems = append(elems, e)
			}
		}
	} else {
		requested := make(map[string]bool)
		for _, e := range elements {
			requested[e] = true
			if abundance[e] > 0 {
				elems = append(elems, e)
			}
		}
		for e, a := range abundance {
			if a > 0 && !requested[e] {
				return nil, fmt.Errorf("chemeq: reactants contain element %s, which is not in the requested element set %v: %w",
					e, elements, ErrConfiguration)
			}
		}
		for _, e := range elements {
			if err := checkElement(lib, e); err != nil {
				return nil, err
			}
		}
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("chemeq: reactants %v have no element abundance: %w", reactants, ErrConfiguration)
	}
	sort.Strings(elems)
	for _, e := range elems {
		if err := checkElement(lib, e); err != nil {
			return nil, err
		}
	}

	inSet := make(map[string]bool)
	for _, e := range elems {
		inSet[e] = true
	}
	t := &Table{Elements: elems}
	for _, name := range lib.SpeciesNames() {
		s := lib.Species[name]
		ok := true
		for e := range s.Elements {
			if !inSet[e] {
				ok = false
				break
			}
		}
		if ok {
			t.species = append(t.species, s)
			t.Products = append(t.Products, name)
			t.WtMole = append(t.WtMole, s.Weight)
		}
	}
	if len(t.species) == 0 {
		return nil, fmt.Errorf("chemeq: no species can form from elements %v: %w", elems, ErrConfiguration)
	}

	ne, np := len(elems), len(t.species)
	t.Aij = mat.NewDense(ne, np, nil)
	for i, e := range elems {
		var found bool
		for j, s := range t.species {
			if n, ok := s.Elements[e]; ok {
				t.Aij.Set(i, j, n)
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("chemeq: no product species contains element %s: %w", e, ErrConfiguration)
		}
	}

	t.ElementWt = make([]float64, ne)
	t.B0 = make([]float64, ne)
	var mass float64
	for i, e := range elems {
		t.ElementWt[i] = lib.Elements[e]
		t.B0[i] = abundance[e] * t.ElementWt[i]
		mass += t.B0[i]
	}
	for i := range t.B0 {
		t.B0[i] /= mass
		t.B0[i] /= t.ElementWt[i]
	}
	return t, nil
}

func checkElement(lib *Library, e string) error {
	if _, ok := lib.Elements[e]; !ok {
		return fmt.Errorf("chemeq: unrecognized element %s: %w", e, ErrConfiguration)
	}
	if !lib.hasElement(e) {
		return fmt.Errorf("chemeq: element %s is not present in any species: %w", e, ErrConfiguration)
	}
	return nil
}

// NumElement returns the number of elements in the table.
func (t *Table) NumElement() int { return len(t.Elements) }

// NumProd returns the number of product species in the table.
func (t *Table) NumProd() int { return len(t.species) }

// Clone returns a copy of t that shares its immutable data but has its
// own coefficient cache.
func (t *Table) Clone() *Table {
	t2 := *t
	t2.cache = coefCache{}
	return &t2
}

// String returns a short description of the table.
func (t *Table) String() string {
	return fmt.Sprintf("Table{elements: [%s], products: [%s]}",
		strings.Join(t.Elements, " "), strings.Join(t.Products, " "))
}

// coefficients returns the coefficient row of each species that is valid
// at temperature T. Outside the tabulated range the first or last row is
// used.
func (t *Table) coefficients(T float64) [][]float64 {
	c := &t.cache
	if c.valid && T >= c.lo && T < c.hi {
		return c.rows
	}
	if c.rows == nil {
		c.rows = make([][]float64, len(t.species))
	}
	c.lo, c.hi = math.Inf(-1), math.Inf(1)
	for j, s := range t.species {
		k, lo, hi := rangeIndex(s.Ranges, T)
		c.rows[j] = s.Coefficients[k]
		c.lo = math.Max(c.lo, lo)
		c.hi = math.Min(c.hi, hi)
	}
	c.valid = true
	return c.rows
}

// rangeIndex returns the index of the temperature range of breakpoints b
// that contains T along with the bounds of that range. The first and
// last ranges extend to -Inf and +Inf.
func rangeIndex(b []float64, T float64) (k int, lo, hi float64) {
	m := len(b) - 1 // number of ranges
	k = sort.Search(m-1, func(i int) bool { return T < b[i+1] })
	lo, hi = math.Inf(-1), math.Inf(1)
	if k > 0 {
		lo = b[k]
	}
	if k < m-1 {
		hi = b[k+1]
	}
	return k, lo, hi
}
