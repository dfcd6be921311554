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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Properties holds the bulk thermodynamic properties of an equilibrium
// mixture.
type Properties struct {
	H     float64 // enthalpy [cal/g]
	S     float64 // entropy [cal/(g K)]
	Cp    float64 // equilibrium specific heat at constant pressure [cal/(g K)]
	Cv    float64 // equilibrium specific heat at constant volume [cal/(g K)]
	Gamma float64 // ratio of specific heats
	Rho   float64 // density [g/cm³]
	R     float64 // mixture gas constant [J/(kg K)]

	DlnVdlnT float64 // (∂lnV/∂lnT) at constant P
	DlnVdlnP float64 // (∂lnV/∂lnP) at constant T
}

// minDlnVdlnP is the smallest magnitude of dlnV/dlnP that is not treated
// as an incompressible degeneracy.
const minDlnVdlnP = 1e-12

// Derive calculates the properties of the converged equilibrium mixture
// with species amounts n [kmol/kg] summing to nMoles at temperature T [K]
// and pressure P [bar]. b0 holds the element abundances the state was
// solved for and pRef is the reference pressure [bar]. Derive does not
// iterate; n must come from a converged solve.
func Derive(t *Table, T, P float64, n []float64, nMoles float64, b0 []float64, pRef float64) (Properties, error) {
	np, ne := t.NumProd(), t.NumElement()
	if len(n) != np {
		return Properties{}, fmt.Errorf("chemeq: %d species amounts for %d species: %w", len(n), np, ErrNumerical)
	}
	if len(b0) != ne {
		return Properties{}, fmt.Errorf("chemeq: %d element abundances for %d elements: %w", len(b0), ne, ErrNumerical)
	}
	for j, v := range n {
		if !(v > 0) || math.IsInf(v, 0) {
			return Properties{}, fmt.Errorf("chemeq: invalid amount %g of species %s: %w", v, t.Products[j], ErrNumerical)
		}
	}
	if !(nMoles > 0) || !(T > 0) || !(P > 0) || !(pRef > 0) {
		return Properties{}, fmt.Errorf("chemeq: invalid state nMoles=%g T=%g P=%g PRef=%g: %w", nMoles, T, P, pRef, ErrNumerical)
	}

	h0 := t.H0(T)
	s0 := t.S0(T)
	cp0 := t.Cp0(T)
	aij := t.Aij

	lhs := mat.NewDense(ne+1, ne+1, nil)
	rhsT := mat.NewVecDense(ne+1, nil)
	rhsP := mat.NewVecDense(ne+1, nil)
	for i := 0; i < ne; i++ {
		for k := 0; k < ne; k++ {
			var sum float64
			for j := 0; j < np; j++ {
				sum += aij.At(i, j) * aij.At(k, j) * n[j]
			}
			lhs.Set(i, k, sum)
		}
		lhs.Set(i, ne, b0[i])
		lhs.Set(ne, i, b0[i])

		var sumH float64
		for j := 0; j < np; j++ {
			sumH += aij.At(i, j) * n[j] * h0[j]
		}
		rhsT.SetVec(i, sumH)
		rhsP.SetVec(i, b0[i])
	}
	sumNH0 := floats.Dot(n, h0)
	rhsT.SetVec(ne, sumNH0)
	rhsP.SetVec(ne, nMoles)

	var lu mat.LU
	lu.Factorize(lhs)
	var xT, xP mat.VecDense
	if err := lu.SolveVecTo(&xT, false, rhsT); err != nil {
		return Properties{}, fmt.Errorf("chemeq: solving temperature derivatives: %v: %w", err, ErrNumerical)
	}
	if err := lu.SolveVecTo(&xP, false, rhsP); err != nil {
		return Properties{}, fmt.Errorf("chemeq: solving pressure derivatives: %v: %w", err, ErrNumerical)
	}

	p := Properties{
		DlnVdlnT: 1 - xT.AtVec(ne),
		DlnVdlnP: -1 + xP.AtVec(ne),
	}
	if math.Abs(p.DlnVdlnP) < minDlnVdlnP {
		return Properties{}, fmt.Errorf("chemeq: dlnV/dlnP = %g is degenerate: %w", p.DlnVdlnP, ErrNumerical)
	}

	lnP := math.Log(P / pRef)
	var sumS, sumNH02 float64
	for j := 0; j < np; j++ {
		sumS += n[j] * (s0[j] + math.Log(nMoles/n[j]) - lnP)
		sumNH02 += n[j] * h0[j] * h0[j]
	}
	p.H = RUnivEng * T * sumNH0
	p.S = RUnivEng * sumS

	cpf := floats.Dot(n, cp0)
	cpe := sumNH02 - sumNH0*xT.AtVec(ne)
	for i := 0; i < ne; i++ {
		cpe -= rhsT.AtVec(i) * xT.AtVec(i)
	}
	p.Cp = RUnivEng * (cpf + cpe)
	p.Cv = p.Cp + nMoles*RUnivEng*p.DlnVdlnT*p.DlnVdlnT/p.DlnVdlnP
	p.Gamma = -p.Cp / (p.Cv * p.DlnVdlnP)
	p.Rho = P / (nMoles * RUnivSI * T) * 100
	p.R = RUnivSI * nMoles

	for _, v := range []float64{p.H, p.S, p.Cp, p.Cv, p.Gamma, p.Rho, p.R} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Properties{}, fmt.Errorf("chemeq: non-finite property in %+v: %w", p, ErrNumerical)
		}
	}
	return p, nil
}
