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

import "github.com/ctessum/unit"

// Dimensions of the SI property values.
var (
	// JoulePerKilogram is the dimension of specific enthalpy.
	JoulePerKilogram = unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -2}

	// JoulePerKilogramKelvin is the dimension of specific entropy, heat
	// capacity, and the mixture gas constant.
	JoulePerKilogramKelvin = unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -2, unit.TemperatureDim: -1}
)

// SIProperties holds bulk properties as dimensioned SI values.
type SIProperties struct {
	H, S, Cp, Cv, Rho, R *unit.Unit
	Gamma               float64
}

// SI returns p converted to SI units: J/kg for enthalpy, J/(kg K) for
// entropy, specific heats, and the gas constant, and kg/m³ for density.
func (p Properties) SI() SIProperties {
	return SIProperties{
		H:     unit.New(p.H*calPerGToJPerKg, JoulePerKilogram),
		S:     unit.New(p.S*calPerGToJPerKg, JoulePerKilogramKelvin),
		Cp:    unit.New(p.Cp*calPerGToJPerKg, JoulePerKilogramKelvin),
		Cv:    unit.New(p.Cv*calPerGToJPerKg, JoulePerKilogramKelvin),
		Rho:   unit.New(p.Rho*1000, unit.KilogramPerMeter3),
		R:     unit.New(p.R, JoulePerKilogramKelvin),
		Gamma: p.Gamma,
	}
}
