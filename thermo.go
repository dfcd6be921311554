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

import "math"

// The functions below evaluate the NASA 9-coefficient polynomials for
// every product species at temperature T [K]. Enthalpy is returned as
// H/(R·T), entropy as S/R, and heat capacity as Cp/R, all dimensionless.

// H0 returns the dimensionless standard-state enthalpy H/(R·T) of each
// species.
func (t *Table) H0(T float64) []float64 {
	rows := t.coefficients(T)
	o := make([]float64, len(rows))
	lnT := math.Log(T)
	T2, T3, T4 := T*T, T*T*T, T*T*T*T
	for j, a := range rows {
		o[j] = -a[0]/T2 + a[1]*lnT/T + a[2] + a[3]*T/2 + a[4]*T2/3 +
			a[5]*T3/4 + a[6]*T4/5 + a[7]/T
	}
	return o
}

// S0 returns the dimensionless standard-state entropy S/R of each
// species.
func (t *Table) S0(T float64) []float64 {
	rows := t.coefficients(T)
	o := make([]float64, len(rows))
	lnT := math.Log(T)
	T2, T3, T4 := T*T, T*T*T, T*T*T*T
	for j, a := range rows {
		o[j] = -a[0]/(2*T2) - a[1]/T + a[2]*lnT + a[3]*T + a[4]*T2/2 +
			a[5]*T3/3 + a[6]*T4/4 + a[8]
	}
	return o
}

// Cp0 returns the dimensionless standard-state heat capacity Cp/R of
// each species.
func (t *Table) Cp0(T float64) []float64 {
	rows := t.coefficients(T)
	o := make([]float64, len(rows))
	T2, T3, T4 := T*T, T*T*T, T*T*T*T
	for j, a := range rows {
		o[j] = a[0]/T2 + a[1]/T + a[2] + a[3]*T + a[4]*T2 + a[5]*T3 + a[6]*T4
	}
	return o
}

// DH0 returns the temperature derivative of H0 [1/K].
func (t *Table) DH0(T float64) []float64 {
	rows := t.coefficients(T)
	o := make([]float64, len(rows))
	lnT := math.Log(T)
	T2, T3 := T*T, T*T*T
	for j, a := range rows {
		o[j] = 2*a[0]/T3 + a[1]*(1-lnT)/T2 + a[3]/2 + 2*a[4]*T/3 +
			3*a[5]*T2/4 + 4*a[6]*T3/5 - a[7]/T2
	}
	return o
}

// DS0 returns the temperature derivative of S0 [1/K].
func (t *Table) DS0(T float64) []float64 {
	rows := t.coefficients(T)
	o := make([]float64, len(rows))
	T2, T3 := T*T, T*T*T
	for j, a := range rows {
		o[j] = a[0]/T3 + a[1]/T2 + a[2]/T + a[3] + a[4]*T + a[5]*T2 + a[6]*T3
	}
	return o
}

// DCp0 returns the temperature derivative of Cp0 [1/K].
func (t *Table) DCp0(T float64) []float64 {
	rows := t.coefficients(T)
	o := make([]float64, len(rows))
	T2, T3 := T*T, T*T*T
	for j, a := range rows {
		o[j] = -2*a[0]/T3 - a[1]/T2 + a[3] + 2*a[4]*T + 3*a[5]*T2 + 4*a[6]*T3
	}
	return o
}
