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


package chemequtil

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/spatialmodel/chemeq"
	"gopkg.in/yaml.v3"
)

// Report is the serialized form of an equilibrium result.
type Report struct {
	Mode       string  `json:"mode" yaml:"mode"`
	T          float64 `json:"T" yaml:"T"`
	P          float64 `json:"P" yaml:"P"`
	H          float64 `json:"h" yaml:"h"`
	S          float64 `json:"S" yaml:"S"`
	Cp         float64 `json:"Cp" yaml:"Cp"`
	Cv         float64 `json:"Cv" yaml:"Cv"`
	Gamma      float64 `json:"gamma" yaml:"gamma"`
	Rho        float64 `json:"rho" yaml:"rho"`
	R          float64 `json:"R" yaml:"R"`
	NMoles     float64 `json:"n_moles" yaml:"n_moles"`
	Iterations int     `json:"iterations" yaml:"iterations"`

	// Composition holds the mole fraction of each species.
	Composition map[string]float64 `json:"composition" yaml:"composition"`

	SI SIReport `json:"SI" yaml:"SI"`
}

// SIReport holds the bulk properties in SI units.
type SIReport struct {
	H   float64 `json:"h" yaml:"h"`     // J/kg
	S   float64 `json:"S" yaml:"S"`     // J/(kg K)
	Cp  float64 `json:"Cp" yaml:"Cp"`   // J/(kg K)
	Cv  float64 `json:"Cv" yaml:"Cv"`   // J/(kg K)
	Rho float64 `json:"rho" yaml:"rho"` // kg/m³
}

// NewReport creates a Report from an equilibrium result.
func NewReport(mode chemeq.Mode, r *chemeq.Result) Report {
	si := r.Properties.SI()
	return Report{
		Mode:        mode.String(),
		T:           r.T,
		P:           r.P,
		H:           r.H,
		S:           r.S,
		Cp:          r.Cp,
		Cv:          r.Cv,
		Gamma:       r.Gamma,
		Rho:         r.Rho,
		R:           r.R,
		NMoles:      r.NMoles,
		Iterations:  r.Iterations,
		Composition: r.Composition(),
		SI: SIReport{
			H:   si.H.Value(),
			S:   si.S.Value(),
			Cp:  si.Cp.Value(),
			Cv:  si.Cv.Value(),
			Rho: si.Rho.Value(),
		},
	}
}

// writeResults writes results to w in the given format.
func writeResults(w io.Writer, format string, mode chemeq.Mode, results []*chemeq.Result) error {
	reports := make([]Report, len(results))
	for i, r := range results {
		reports[i] = NewReport(mode, r)
	}
	var v interface{} = reports
	if len(reports) == 1 {
		v = reports[0]
	}
	switch format {
	case formatJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(v)
	case formatYAML:
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	default:
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(tw)
			}
			writeReportText(tw, r)
		}
		return tw.Flush()
	}
}

func writeReportText(w io.Writer, r Report) {
	fmt.Fprintf(w, "mode\t%s\t\n", r.Mode)
	fmt.Fprintf(w, "T\t%.6g\tK\n", r.T)
	fmt.Fprintf(w, "P\t%.6g\tbar\n", r.P)
	fmt.Fprintf(w, "h\t%.6g\tcal/g\n", r.H)
	fmt.Fprintf(w, "S\t%.6g\tcal/(g K)\n", r.S)
	fmt.Fprintf(w, "Cp\t%.6g\tcal/(g K)\n", r.Cp)
	fmt.Fprintf(w, "Cv\t%.6g\tcal/(g K)\n", r.Cv)
	fmt.Fprintf(w, "gamma\t%.6g\t\n", r.Gamma)
	fmt.Fprintf(w, "rho\t%.6g\tg/cm³\n", r.Rho)
	fmt.Fprintf(w, "R\t%.6g\tJ/(kg K)\n", r.R)
	fmt.Fprintf(w, "n_moles\t%.6g\tkmol/kg\n", r.NMoles)
	fmt.Fprintf(w, "iterations\t%d\t\n", r.Iterations)
	fmt.Fprintln(w, "species\tmole fraction\t")
	for _, name := range sortedKeys(r.Composition) {
		fmt.Fprintf(w, "%s\t%.8g\t\n", name, r.Composition[name])
	}
}

// speciesReport is the serialized form of a library species.
type speciesReport struct {
	Name     string             `json:"name" yaml:"name"`
	Weight   float64            `json:"weight" yaml:"weight"`
	Elements map[string]float64 `json:"elements" yaml:"elements"`
	TMin     float64            `json:"Tmin" yaml:"Tmin"`
	TMax     float64            `json:"Tmax" yaml:"Tmax"`
}

type reactantReport struct {
	Name     string             `json:"name" yaml:"name"`
	Weight   float64            `json:"weight" yaml:"weight"`
	Elements map[string]float64 `json:"elements" yaml:"elements"`
}

type libraryReport struct {
	Species   []speciesReport  `json:"species" yaml:"species"`
	Reactants []reactantReport `json:"reactants" yaml:"reactants"`
}

// writeLibrary writes the contents of lib to w in the given format.
func writeLibrary(w io.Writer, format string, lib *chemeq.Library) error {
	var lr libraryReport
	for _, name := range lib.SpeciesNames() {
		s := lib.Species[name]
		lr.Species = append(lr.Species, speciesReport{
			Name:     name,
			Weight:   s.Weight,
			Elements: s.Elements,
			TMin:     s.Ranges[0],
			TMax:     s.Ranges[len(s.Ranges)-1],
		})
	}
	for _, name := range lib.ReactantNames() {
		wt, err := lib.ReactantWeight(name)
		if err != nil {
			return err
		}
		lr.Reactants = append(lr.Reactants, reactantReport{
			Name:     name,
			Weight:   wt,
			Elements: lib.Reactants[name].Elements,
		})
	}
	switch format {
	case formatJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(lr)
	case formatYAML:
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(lr)
	default:
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "species\tweight [g/mol]\tT range [K]\telements\t")
		for _, s := range lr.Species {
			fmt.Fprintf(tw, "%s\t%g\t%g-%g\t%s\t\n", s.Name, s.Weight, s.TMin, s.TMax, formula(s.Elements))
		}
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "reactant\tweight [g/mol]\telements\t")
		for _, r := range lr.Reactants {
			fmt.Fprintf(tw, "%s\t%.6g\t%s\t\n", r.Name, r.Weight, formula(r.Elements))
		}
		return tw.Flush()
	}
}

// formula returns a chemical formula like "C1 O2".
func formula(elements map[string]float64) string {
	var s string
	for i, e := range sortedKeys(elements) {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s%g", e, elements[e])
	}
	return s
}

func sortedKeys(m map[string]float64) []string {
	o := make([]string, 0, len(m))
	for k := range m {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}
