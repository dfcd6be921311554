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

// Package chemeq computes the chemical equilibrium composition and
// thermodynamic state of reacting ideal-gas mixtures.
//
// A Table is built from a species Library and an initial reactant
// mixture. Solve finds the equilibrium mole numbers by Gibbs free
// energy minimization for a fixed temperature, enthalpy, or entropy at a
// given pressure, and Derive turns the converged state into bulk
// properties (h, S, Cp, Cv, gamma, rho, R). Station wraps both steps the
// way a cycle flow station uses them.
//
// Temperatures are in K, pressures in bar, and species amounts in kmol
// per kg of mixture.
package chemeq

import "errors"

// Version gives the version number.
const Version = "1.0.0"

// Universal gas constants.
const (
	// RUnivEng is the universal gas constant [cal/(mol K)].
	RUnivEng = 1.9872035
	// RUnivSI is the universal gas constant [J/(kmol K)].
	RUnivSI = 8314.4598
)

// calPerGToJPerKg converts [cal/g] to [J/kg] (thermochemical calorie).
const calPerGToJPerKg = 4184.

var (
	// ErrConfiguration is returned when a Table cannot be built from the
	// requested elements and reactants. Retrying will not help.
	ErrConfiguration = errors.New("configuration error")

	// ErrNotConverged is returned when the Newton iteration runs out of
	// iterations before meeting its tolerances. Callers may retry with a
	// different initial guess.
	ErrNotConverged = errors.New("equilibrium not converged")

	// ErrNumerical is returned for singular linear systems and
	// non-finite intermediate values.
	ErrNumerical = errors.New("numerical error")
)
