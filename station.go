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
	"time"

	"github.com/cenkalti/backoff"
)

// Station computes equilibrium states of a single mixture the way a
// cycle flow station does: it solves for the composition and then derives
// the bulk properties. A Station owns its Table and is not safe for
// concurrent use.
type Station struct {
	Table   *Table
	Options Options

	// WarmStart specifies whether each solve starts from the result of
	// the previous successful solve.
	WarmStart bool

	last *EquilibriumState
}

// NewStation returns a Station for the mixture in t.
func NewStation(t *Table, o Options) *Station {
	return &Station{Table: t, Options: o}
}

// Result holds a converged equilibrium state and its properties.
type Result struct {
	Species    []string  // product species names
	N          []float64 // species amounts [kmol/kg]
	NMoles     float64   // total moles [kmol/kg]
	T          float64   // temperature [K]
	P          float64   // pressure [bar]
	Iterations int       // Newton iterations of the final solve

	Properties
}

// MoleFractions returns the mole fraction of each species, in the same
// order as Species.
func (r *Result) MoleFractions() []float64 {
	o := make([]float64, len(r.N))
	for j, n := range r.N {
		o[j] = n / r.NMoles
	}
	return o
}

// Composition returns the mole fractions keyed by species name.
func (r *Result) Composition() map[string]float64 {
	o := make(map[string]float64, len(r.N))
	for j, x := range r.MoleFractions() {
		o[r.Species[j]] = x
	}
	return o
}

// TP returns the equilibrium state at temperature T [K] and pressure P [bar].
func (s *Station) TP(T, P float64) (*Result, error) {
	return s.Solve(FixedT(T), P)
}

// HP returns the equilibrium state with enthalpy h [cal/g] at pressure
// P [bar], starting the temperature iteration at tGuess [K].
func (s *Station) HP(h, P, tGuess float64) (*Result, error) {
	return s.Solve(TargetH(h, tGuess), P)
}

// SP returns the equilibrium state with entropy S [cal/(g K)] at pressure
// P [bar], starting the temperature iteration at tGuess [K].
func (s *Station) SP(S, P, tGuess float64) (*Result, error) {
	return s.Solve(TargetS(S, tGuess), P)
}

// Solve returns the equilibrium state for target at pressure P [bar]. A
// solve that does not converge is retried from the default initial guess
// up to Options.Retries times.
func (s *Station) Solve(target Target, P float64) (*Result, error) {
	o := s.Options.withDefaults()
	if err := o.Validate(); err != nil {
		return nil, err
	}
	var guess *EquilibriumState
	if s.WarmStart {
		guess = s.last
	}
	var st *EquilibriumState
	op := func() error {
		var err error
		st, err = Solve(s.Table, P, target, guess, o)
		if errors.Is(err, ErrNotConverged) {
			guess = nil
			return err
		} else if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}
	err := backoff.RetryNotify(op,
		backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(o.Retries)),
		func(err error, _ time.Duration) {
			o.Log.WithError(err).Warn("chemeq: retrying from the default initial guess")
		},
	)
	if err != nil {
		return nil, err
	}
	props, err := Derive(s.Table, st.T, P, st.N, st.NMoles, s.Table.B0, o.PRef)
	if err != nil {
		return nil, err
	}
	if s.WarmStart {
		s.last = st.Copy()
	}
	return &Result{
		Species:    append([]string(nil), s.Table.Products...),
		N:          append([]float64(nil), st.N...),
		NMoles:     st.NMoles,
		T:          st.T,
		P:          P,
		Iterations: st.Iterations,
		Properties: props,
	}, nil
}

// Reset discards the warm-start state.
func (s *Station) Reset() { s.last = nil }
