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
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/spatialmodel/chemeq"
	"github.com/tealeg/xlsx"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Sweep calculates the equilibrium state of the mixture in t at pressure
// P [bar] for n evenly spaced temperatures between tMin and tMax [K].
// The calculations are split among all available processors, each with
// its own copy of t.
func Sweep(t *chemeq.Table, o chemeq.Options, P, tMin, tMax float64, n int) ([]*chemeq.Result, error) {
	if n < 1 {
		return nil, fmt.Errorf("chemeq: sweep needs at least one point, but NumPoints is %d", n)
	}
	if !(tMin > 0) || !(tMax >= tMin) || math.IsInf(tMax, 0) {
		return nil, fmt.Errorf("chemeq: invalid sweep temperature range [%g, %g]", tMin, tMax)
	}
	temps := make([]float64, n)
	for i := range temps {
		if n == 1 {
			temps[i] = tMin
			continue
		}
		temps[i] = tMin + (tMax-tMin)*float64(i)/float64(n-1)
	}

	results := make([]*chemeq.Result, n)
	errs := make([]error, n)
	nprocs := runtime.GOMAXPROCS(0) // number of processors
	if nprocs > n {
		nprocs = n
	}
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			s := chemeq.NewStation(t.Clone(), o)
			s.WarmStart = true
			for ii := pp; ii < n; ii += nprocs {
				results[ii], errs[ii] = s.TP(temps[ii], P)
				if errs[ii] != nil {
					s.Reset()
				}
			}
		}(pp)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("chemeq: sweep at T=%g K: %w", temps[i], err)
		}
	}
	return results, nil
}

// SaveSweep writes sweep results to filename. The format is chosen by the
// file extension: ".csv" and ".xlsx" give a table with one row per
// temperature, and ".png" gives a plot of the species mole fractions.
func SaveSweep(filename string, results []*chemeq.Result) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return saveCSV(filename, results)
	case ".xlsx":
		return saveXLSX(filename, results)
	case ".png":
		return savePlot(filename, results)
	default:
		return fmt.Errorf("chemeq: unsupported sweep output file type `%s`", filename)
	}
}

// sweepTable returns the column names and rows of the sweep results.
func sweepTable(results []*chemeq.Result) ([]string, [][]float64) {
	header := []string{"T [K]", "P [bar]", "h [cal/g]", "S [cal/(g K)]", "Cp [cal/(g K)]",
		"Cv [cal/(g K)]", "gamma", "rho [g/cm3]", "R [J/(kg K)]", "n_moles [kmol/kg]"}
	if len(results) == 0 {
		return header, nil
	}
	for _, s := range results[0].Species {
		header = append(header, "X_"+s)
	}
	rows := make([][]float64, len(results))
	for i, r := range results {
		row := []float64{r.T, r.P, r.H, r.S, r.Cp, r.Cv, r.Gamma, r.Rho, r.R, r.NMoles}
		rows[i] = append(row, r.MoleFractions()...)
	}
	return header, rows
}

func saveCSV(filename string, results []*chemeq.Result) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("chemeq: creating sweep output file: %v", err)
	}
	w := csv.NewWriter(f)
	header, rows := sweepTable(results)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	for _, row := range rows {
		line := make([]string, len(row))
		for i, v := range row {
			line[i] = strconv.FormatFloat(v, 'g', 10, 64)
		}
		if err := w.Write(line); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func saveXLSX(filename string, results []*chemeq.Result) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("sweep")
	if err != nil {
		return fmt.Errorf("chemeq: creating sweep spreadsheet: %v", err)
	}
	header, rows := sweepTable(results)
	row := sheet.AddRow()
	for _, h := range header {
		row.AddCell().SetString(h)
	}
	for _, r := range rows {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().SetFloat(v)
		}
	}
	if err := file.Save(filename); err != nil {
		return fmt.Errorf("chemeq: saving sweep spreadsheet: %v", err)
	}
	return nil
}

// minPlotFraction is the smallest peak mole fraction of a species that
// is included in the sweep plot.
const minPlotFraction = 1e-4

func savePlot(filename string, results []*chemeq.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("chemeq: no sweep results to plot")
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Equilibrium composition at %g bar", results[0].P)
	p.X.Label.Text = "Temperature (K)"
	p.Y.Label.Text = "Mole fraction"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{}

	var lines []interface{}
	for j, s := range results[0].Species {
		xy := make(plotter.XYs, len(results))
		var peak float64
		for i, r := range results {
			xy[i].X = r.T
			xy[i].Y = r.N[j] / r.NMoles
			peak = math.Max(peak, xy[i].Y)
		}
		if peak < minPlotFraction {
			continue
		}
		for i := range xy {
			xy[i].Y = math.Max(xy[i].Y, minPlotFraction/10)
		}
		lines = append(lines, s, xy)
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return fmt.Errorf("chemeq: plotting sweep: %v", err)
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("chemeq: saving sweep plot: %v", err)
	}
	return nil
}
