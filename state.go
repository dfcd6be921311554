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

import "fmt"

// Mode specifies which pair of state variables is held fixed.
type Mode int

// Available modes.
const (
	// TP holds temperature and pressure fixed.
	TP Mode = iota
	// HP holds enthalpy and pressure fixed; temperature is solved for.
	HP
	// SP holds entropy and pressure fixed; temperature is solved for.
	SP
)

func (m Mode) String() string {
	switch m {
	case TP:
		return "TP"
	case HP:
		return "HP"
	case SP:
		return "SP"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// solvesT reports whether temperature is an unknown in mode m.
func (m Mode) solvesT() bool { return m == HP || m == SP }

// defaultTGuess is the starting temperature [K] for HP and SP solves
// when none is given.
const defaultTGuess = 1000.

// Target specifies the fixed state for an equilibrium solve.
type Target struct {
	Mode Mode

	// T is the fixed temperature in TP mode and the initial temperature
	// guess in HP and SP modes [K].
	T float64

	// H is the target mass-specific enthalpy in HP mode [cal/g].
	H float64

	// S is the target mass-specific entropy in SP mode [cal/(g K)].
	S float64
}

// FixedT returns a target with fixed temperature T [K].
func FixedT(T float64) Target { return Target{Mode: TP, T: T} }

// TargetH returns a target with fixed enthalpy h [cal/g], starting the
// temperature iteration at tGuess [K].
func TargetH(h, tGuess float64) Target { return Target{Mode: HP, H: h, T: tGuess} }

// TargetS returns a target with fixed entropy s [cal/(g K)], starting the
// temperature iteration at tGuess [K].
func TargetS(s, tGuess float64) Target { return Target{Mode: SP, S: s, T: tGuess} }

// EquilibriumState holds the working variables of an equilibrium solve.
type EquilibriumState struct {
	// N holds the amount of each product species [kmol/kg].
	N []float64

	// Pi holds the element Lagrange multipliers.
	Pi []float64

	// NMoles is the sum of N.
	NMoles float64

	// T is the temperature [K].
	T float64

	// Frozen marks species at the trace floor whose equations are pinned.
	Frozen []bool

	// Iterations is the number of Newton iterations taken.
	Iterations int

	// Residual is the final scaled residual norm.
	Residual float64
}

// Copy returns a deep copy of s.
func (s *EquilibriumState) Copy() *EquilibriumState {
	s2 := *s
	s2.N = append([]float64(nil), s.N...)
	s2.Pi = append([]float64(nil), s.Pi...)
	s2.Frozen = append([]bool(nil), s.Frozen...)
	return &s2
}
