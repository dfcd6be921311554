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

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// freezeGate is the residual norm below which species at the trace
	// floor start being frozen.
	freezeGate = 1e-4

	// warmStartTol is the largest composition residual norm for which a
	// warm-start guess is used.
	warmStartTol = 1e3

	// maxLogStep limits the change in ln(n) or ln(T) in one iteration.
	maxLogStep = 10.

	// significant is the mole fraction below which a decreasing species
	// no longer limits the relaxation factor.
	significant = 1e-8

	// weightSlope sets how quickly the Gibbs residual of a species fades
	// as its amount approaches zero.
	weightSlope = 1e5

	relaxEps = 1e-12

	// svdRcond is the relative singular value below which directions
	// of the Newton matrix are treated as undetermined.
	svdRcond = 1e-13
)

// system holds the fixed data of one equilibrium problem.
type system struct {
	t      *Table
	target Target
	b0     []float64
	lnP    float64 // ln(P/PRef)
	floor  float64
	np, ne int
	size   int
}

func newSystem(t *Table, P float64, target Target, o Options) *system {
	s := &system{
		t:      t,
		target: target,
		b0:     t.B0,
		lnP:    math.Log(P / o.PRef),
		floor:  o.TraceFloor,
		np:     t.NumProd(),
		ne:     t.NumElement(),
	}
	s.size = s.np + s.ne
	if target.Mode.solvesT() {
		s.size++
	}
	return s
}

// evaluation holds the residual of the system at a trial state.
type evaluation struct {
	r      []float64 // weighted residual
	g      []float64 // Gibbs stationarity of each species
	w      []float64 // Gibbs residual weight of each species
	h0, s0 []float64
	norm   float64
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// scaledNorm returns the 2-norm of r divided by the square root of the
// number of species.
func (sys *system) scaledNorm(r []float64) float64 {
	return floats.Norm(r, 2) / math.Sqrt(float64(sys.np))
}

// evaluate calculates the residual at state st.
func (sys *system) evaluate(st *EquilibriumState) *evaluation {
	np, ne := sys.np, sys.ne
	ev := &evaluation{
		r:  make([]float64, sys.size),
		g:  make([]float64, np),
		w:  make([]float64, np),
		h0: sys.t.H0(st.T),
		s0: sys.t.S0(st.T),
	}
	st.NMoles = floats.Sum(st.N)
	lnN := math.Log(st.NMoles)
	for j := 0; j < np; j++ {
		mu := ev.h0[j] - ev.s0[j] + math.Log(st.N[j]) + sys.lnP - lnN
		for i := 0; i < ne; i++ {
			mu -= st.Pi[i] * sys.t.Aij.At(i, j)
		}
		ev.g[j] = mu
		ev.w[j] = 2 * (sigmoid(weightSlope*st.N[j]*st.NMoles) - 0.5)
		if !st.Frozen[j] {
			ev.r[j] = ev.w[j] * mu
		}
	}
	for i := 0; i < ne; i++ {
		sum := -sys.b0[i]
		for j := 0; j < np; j++ {
			sum += sys.t.Aij.At(i, j) * st.N[j]
		}
		ev.r[np+i] = sum
	}
	switch sys.target.Mode {
	case HP:
		ev.r[np+ne] = sys.target.H - RUnivEng*st.T*floats.Dot(st.N, ev.h0)
	case SP:
		var sum float64
		for j := 0; j < np; j++ {
			sum += st.N[j] * (ev.s0[j] - math.Log(st.N[j]) + lnN - sys.lnP)
		}
		ev.r[np+ne] = sys.target.S - RUnivEng*sum
	}
	ev.norm = sys.scaledNorm(ev.r)
	return ev
}

// updateFrozen recomputes which species are frozen at the trace floor.
// Freezing only starts once the residual is below freezeGate, and only
// species whose chemical potential is above equilibrium are frozen.
func (sys *system) updateFrozen(st *EquilibriumState, ev *evaluation) {
	gated := ev.norm < freezeGate
	changed := false
	for j := 0; j < sys.np; j++ {
		f := gated && sys.atFloor(st.N[j]) && ev.g[j] > 0
		if f == st.Frozen[j] {
			continue
		}
		st.Frozen[j] = f
		changed = true
		if f {
			ev.r[j] = 0
		} else {
			ev.r[j] = ev.w[j] * ev.g[j]
		}
	}
	if changed {
		ev.norm = sys.scaledNorm(ev.r)
	}
}

// jacobian returns the derivative of the residual with respect to
// ln(n), pi, and (in HP and SP modes) ln(T). The derivative of the
// Gibbs residual weights is left out; it vanishes at the solution.
// Species marked in pinned get an identity row and no column.
func (sys *system) jacobian(st *EquilibriumState, ev *evaluation, pinned []bool) *mat.Dense {
	np, ne := sys.np, sys.ne
	aij := sys.t.Aij
	J := mat.NewDense(sys.size, sys.size, nil)
	for j := 0; j < np; j++ {
		if pinned[j] {
			J.Set(j, j, -1)
			continue
		}
		w := ev.w[j]
		for k := 0; k < np; k++ {
			if pinned[k] {
				continue
			}
			v := -st.N[k] / st.NMoles
			if k == j {
				v++
			}
			J.Set(j, k, w*v)
		}
		for i := 0; i < ne; i++ {
			J.Set(j, np+i, -w*aij.At(i, j))
		}
		if sys.target.Mode.solvesT() {
			J.Set(j, np+ne, -w*ev.h0[j])
		}
	}
	for i := 0; i < ne; i++ {
		for k := 0; k < np; k++ {
			if pinned[k] {
				continue
			}
			J.Set(np+i, k, aij.At(i, k)*st.N[k])
		}
	}
	if !sys.target.Mode.solvesT() {
		return J
	}
	row := np + ne
	cp0 := sys.t.Cp0(st.T)
	switch sys.target.Mode {
	case HP:
		for k := 0; k < np; k++ {
			if !pinned[k] {
				J.Set(row, k, -RUnivEng*st.T*st.N[k]*ev.h0[k])
			}
		}
		J.Set(row, row, -RUnivEng*st.T*floats.Dot(st.N, cp0))
	case SP:
		lnN := math.Log(st.NMoles)
		for k := 0; k < np; k++ {
			if !pinned[k] {
				J.Set(row, k, -RUnivEng*st.N[k]*(ev.s0[k]-math.Log(st.N[k])+lnN-sys.lnP))
			}
		}
		J.Set(row, row, -RUnivEng*floats.Dot(st.N, cp0))
	}
	return J
}

// newtonStep solves for the Newton update at st and applies it with
// under-relaxation. It returns the scaled norm of the full Newton step
// and the relaxation factor that was used.
//
// Species at the trace floor that the step would drive further down are
// pinned and the step is solved again, because the floor clamp would
// undo their change and the linear model would no longer match the
// update. This repeats until no new species are pinned.
func (sys *system) newtonStep(st *EquilibriumState, ev *evaluation) (stepNorm, lambda float64, err error) {
	np, ne := sys.np, sys.ne
	pinned := append([]bool(nil), st.Frozen...)
	var d []float64
	for {
		d, err = sys.solveStep(st, ev, pinned)
		if err != nil {
			return math.NaN(), math.NaN(), err
		}
		more := false
		for j := 0; j < np; j++ {
			if !pinned[j] && d[j] < 0 && sys.atFloor(st.N[j]) {
				pinned[j] = true
				more = true
			}
		}
		if !more {
			break
		}
	}
	stepNorm = sys.scaledNorm(d)

	var maxDn, dlnT float64
	for j := 0; j < np; j++ {
		if pinned[j] {
			continue
		}
		if d[j] < 0 && st.N[j]/st.NMoles < significant {
			continue
		}
		maxDn = math.Max(maxDn, math.Abs(d[j]))
	}
	if sys.target.Mode.solvesT() {
		dlnT = math.Abs(d[np+ne])
	}
	lambda = math.Min(1, 2/(5*dlnT+maxDn+relaxEps))

	for j := 0; j < np; j++ {
		if pinned[j] {
			continue
		}
		st.N[j] *= math.Exp(clamp(lambda*d[j], -maxLogStep, maxLogStep))
		if st.N[j] < sys.floor {
			st.N[j] = sys.floor
		}
	}
	for i := 0; i < ne; i++ {
		st.Pi[i] += lambda * d[np+i]
	}
	if sys.target.Mode.solvesT() {
		st.T *= math.Exp(clamp(lambda*d[np+ne], -maxLogStep, maxLogStep))
	}
	st.NMoles = floats.Sum(st.N)
	return stepNorm, lambda, nil
}

// solveStep returns the full Newton step at st with the species in
// pinned held fixed.
func (sys *system) solveStep(st *EquilibriumState, ev *evaluation, pinned []bool) ([]float64, error) {
	J := sys.jacobian(st, ev, pinned)
	rhs := mat.NewVecDense(sys.size, nil)
	anyPinned := false
	for i, v := range ev.r {
		if i < sys.np && pinned[i] {
			anyPinned = true
			continue
		}
		rhs.SetVec(i, -v)
	}
	var dy mat.VecDense
	if anyPinned {
		// Pinned species can leave the element potentials underdetermined,
		// so take the minimum-norm step.
		var svd mat.SVD
		if !svd.Factorize(J, mat.SVDThin) {
			return nil, fmt.Errorf("chemeq: factorizing Newton matrix: %w", ErrNumerical)
		}
		svd.SolveVecTo(&dy, rhs, svd.Rank(svdRcond))
	} else {
		var lu mat.LU
		lu.Factorize(J)
		if err := lu.SolveVecTo(&dy, false, rhs); err != nil {
			return nil, fmt.Errorf("chemeq: solving for Newton step: %v: %w", err, ErrNumerical)
		}
	}
	d := make([]float64, sys.size)
	for i := range d {
		d[i] = dy.AtVec(i)
		if math.IsNaN(d[i]) || math.IsInf(d[i], 0) {
			return nil, fmt.Errorf("chemeq: non-finite Newton step: %w", ErrNumerical)
		}
	}
	return d, nil
}

// atFloor reports whether amount n is at the trace floor.
func (sys *system) atFloor(n float64) bool { return n <= sys.floor*(1+1e-9) }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// uniformState returns the default initial guess.
func (sys *system) uniformState(T float64) *EquilibriumState {
	st := &EquilibriumState{
		N:      make([]float64, sys.np),
		Pi:     make([]float64, sys.ne),
		Frozen: make([]bool, sys.np),
		T:      T,
	}
	for j := range st.N {
		st.N[j] = 1 / (10 * float64(sys.np))
	}
	st.NMoles = floats.Sum(st.N)
	return st
}

// warmState returns a copy of guess prepared for use as the initial
// state, or nil if guess does not fit the system.
func (sys *system) warmState(guess *EquilibriumState, T float64) *EquilibriumState {
	if guess == nil || len(guess.N) != sys.np || len(guess.Pi) != sys.ne {
		return nil
	}
	st := &EquilibriumState{
		N:      make([]float64, sys.np),
		Pi:     make([]float64, sys.ne),
		Frozen: make([]bool, sys.np),
		T:      T,
	}
	for j, n := range guess.N {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
		st.N[j] = math.Max(n, sys.floor)
	}
	for i, p := range guess.Pi {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil
		}
		st.Pi[i] = p
	}
	st.NMoles = floats.Sum(st.N)
	return st
}

// Solve finds the equilibrium composition of the mixture in t at
// pressure P [bar] and the state given by target. If guess is not nil it
// is used as the starting point, unless its residual shows it to be
// unusable, in which case the default uniform guess is used. guess is
// not modified.
func Solve(t *Table, P float64, target Target, guess *EquilibriumState, o Options) (*EquilibriumState, error) {
	o = o.withDefaults()
	st, err := solve(t, P, target, guess, o)
	o.Metrics.observe(target.Mode, st, err)
	return st, err
}

func solve(t *Table, P float64, target Target, guess *EquilibriumState, o Options) (*EquilibriumState, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if !(P > 0) || math.IsInf(P, 0) {
		return nil, fmt.Errorf("chemeq: invalid pressure %g bar", P)
	}
	T := target.T
	switch target.Mode {
	case TP:
		if !(T > 0) || math.IsInf(T, 0) {
			return nil, fmt.Errorf("chemeq: invalid temperature %g K", T)
		}
	case HP, SP:
		if !(T > 0) || math.IsInf(T, 0) {
			if guess != nil && guess.T > 0 {
				T = guess.T
			} else {
				T = defaultTGuess
			}
		}
	default:
		return nil, fmt.Errorf("chemeq: invalid mode %v", target.Mode)
	}
	sys := newSystem(t, P, target, o)
	log := o.Log.WithFields(logrus.Fields{"mode": target.Mode, "P": P})

	var st *EquilibriumState
	var ev *evaluation
	if st = sys.warmState(guess, T); st != nil {
		ev = sys.evaluate(st)
		if r := sys.scaledNorm(ev.r[:sys.np+sys.ne]); !(r < warmStartTol) {
			log.WithField("residual", r).Warn("chemeq: discarding unusable warm-start guess")
			st = nil
		}
	}
	if st == nil {
		st = sys.uniformState(T)
		ev = sys.evaluate(st)
	}

	for {
		sys.updateFrozen(st, ev)
		st.Residual = ev.norm
		if math.IsNaN(ev.norm) || math.IsInf(ev.norm, 0) {
			return st, fmt.Errorf("chemeq: non-finite residual at iteration %d: %w", st.Iterations, ErrNumerical)
		}
		if ev.norm <= o.FTol {
			break
		}
		if st.Iterations >= o.MaxIter {
			return st, fmt.Errorf("chemeq: %v solve after %d iterations has residual %g > %g: %w",
				target.Mode, st.Iterations, ev.norm, o.FTol, ErrNotConverged)
		}
		stepNorm, lambda, err := sys.newtonStep(st, ev)
		if err != nil {
			return st, err
		}
		st.Iterations++
		ev = sys.evaluate(st)
		log.WithFields(logrus.Fields{
			"iteration": st.Iterations,
			"residual":  ev.norm,
			"step":      stepNorm,
			"lambda":    lambda,
			"T":         st.T,
		}).Debug("chemeq: Newton iteration")
		if stepNorm <= o.XTol {
			sys.updateFrozen(st, ev)
			st.Residual = ev.norm
			break
		}
	}
	return st, nil
}
