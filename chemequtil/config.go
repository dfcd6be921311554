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
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/lnashier/viper"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/chemeq"
	"github.com/spatialmodel/chemeq/internal/hash"
	"github.com/spatialmodel/chemeq/science/composition"
	"github.com/spatialmodel/chemeq/science/thermo/janaf"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// checkFormat ensures that an acceptable output format was specified.
func checkFormat(f string) (string, error) {
	f = strings.ToLower(strings.TrimSpace(f))
	switch f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	default:
		return f, fmt.Errorf("chemeq: the format variable needs to be set to text, json, or yaml, but is currently set to `%s`", f)
	}
}

// checkOutputFile expands any environment variables in f and makes sure
// that its directory exists and its extension is supported. An empty f
// is allowed.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", nil
	}
	f = os.ExpandEnv(f)
	switch strings.ToLower(filepath.Ext(f)) {
	case ".csv", ".xlsx", ".png":
	default:
		return f, fmt.Errorf("chemeq: Sweep.OutputFile must end in .csv, .xlsx, or .png, but is `%s`", f)
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("chemeq: the Sweep.OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// GetStringMapFloat64 returns a map[string]float64 from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapFloat64(varName string, cfg *viper.Viper) (map[string]float64, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case map[string]float64:
		return v, nil
	case map[string]interface{}:
		o := make(map[string]float64, len(v))
		for k, vv := range v {
			f, err := cast.ToFloat64E(vv)
			if err != nil {
				return nil, fmt.Errorf("chemeq: reading %s[%s]: %v", varName, k, err)
			}
			o[k] = f
		}
		return o, nil
	case string:
		o := make(map[string]float64)
		if strings.TrimSpace(v) == "" {
			return o, nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("chemeq: reading %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("chemeq: invalid type for %s: %#v", varName, i)
	}
}

// libraries holds the species libraries loaded from files, keyed by the
// hash of the file contents.
var (
	libraries     = make(map[string]*chemeq.Library)
	librariesLock sync.Mutex
)

// library returns the species library specified by the Library option.
func library() (*chemeq.Library, error) {
	path := os.ExpandEnv(Cfg.GetString("Library"))
	if path == "" {
		return janaf.Library()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chemeq: reading species library: %v", err)
	}
	key := hash.Hash(data)
	librariesLock.Lock()
	defer librariesLock.Unlock()
	if lib, ok := libraries[key]; ok {
		return lib, nil
	}
	lib, err := chemeq.LoadLibrary(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	libraries[key] = lib
	return lib, nil
}

// tableCaches holds a TableCache for each library so that repeated
// calculations for the same mixture do not rebuild the Table.
var (
	tableCaches     = make(map[*chemeq.Library]*chemeq.TableCache)
	tableCachesLock sync.Mutex
)

const tableCacheSize = 100

func tableCache(lib *chemeq.Library) *chemeq.TableCache {
	tableCachesLock.Lock()
	defer tableCachesLock.Unlock()
	c, ok := tableCaches[lib]
	if !ok {
		c = chemeq.NewTableCache(lib, tableCacheSize)
		tableCaches[lib] = c
	}
	return c
}

// Mixture returns the initial reactant mixture specified by the
// Reactants, WAR, FAR, and Fuel options.
func Mixture(lib *chemeq.Library, cfg *viper.Viper) (composition.Mixture, error) {
	r, err := GetStringMapFloat64("Reactants", cfg)
	if err != nil {
		return nil, err
	}
	if len(r) == 0 {
		return nil, fmt.Errorf("chemeq: no reactants specified. Please fill in the Reactants configuration and try again: %w",
			chemeq.ErrConfiguration)
	}
	m := composition.Mixture(r)
	if war := cfg.GetFloat64("WAR"); war != 0 {
		if m, err = composition.WetAir(lib, m, war); err != nil {
			return nil, err
		}
	}
	if far := cfg.GetFloat64("FAR"); far != 0 {
		if m, err = composition.FuelAir(lib, m, cfg.GetString("Fuel"), far); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SolverOptions returns the solver options specified in cfg.
func SolverOptions(cfg *viper.Viper) (chemeq.Options, error) {
	o := chemeq.DefaultOptions()
	o.FTol = cfg.GetFloat64("Solver.FTol")
	o.XTol = cfg.GetFloat64("Solver.XTol")
	o.PRef = cfg.GetFloat64("Solver.PRef")
	o.TraceFloor = cfg.GetFloat64("Solver.TraceFloor")
	var err error
	if o.MaxIter, err = cast.ToIntE(cfg.Get("Solver.MaxIter")); err != nil {
		return o, fmt.Errorf("chemeq: reading Solver.MaxIter: %v", err)
	}
	if o.Retries, err = cast.ToIntE(cfg.Get("Solver.Retries")); err != nil {
		return o, fmt.Errorf("chemeq: reading Solver.Retries: %v", err)
	}
	if err := o.Validate(); err != nil {
		return o, err
	}
	o.Metrics = metrics
	return o, nil
}

// tableAndOptions returns the Table and solver options specified by the
// configuration.
func tableAndOptions(cmd *cobra.Command) (*chemeq.Table, chemeq.Options, error) {
	o, err := SolverOptions(Cfg)
	if err != nil {
		return nil, o, err
	}
	lib, err := library()
	if err != nil {
		return nil, o, err
	}
	m, err := Mixture(lib, Cfg)
	if err != nil {
		return nil, o, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	elements := Cfg.GetStringSlice("Elements")
	t, err := tableCache(lib).Table(ctx, m, elements)
	if err != nil {
		return nil, o, err
	}
	o.Log.WithFields(logrus.Fields{
		"elements": t.Elements,
		"products": t.Products,
	}).Debug("chemeq: built species table")
	return t, o, nil
}

// metrics and registry are set up by resetMetrics at the start of each
// command when the metrics option is true.
var (
	metrics  *chemeq.Metrics
	registry *prometheus.Registry
)

func resetMetrics(enabled bool) error {
	metrics, registry = nil, nil
	if !enabled {
		return nil
	}
	registry = prometheus.NewRegistry()
	m, err := chemeq.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("chemeq: setting up metrics: %v", err)
	}
	metrics = m
	return nil
}

// writeMetrics writes the collected metrics to w in the Prometheus text
// format, if metrics are enabled.
func writeMetrics(w io.Writer) error {
	if registry == nil {
		return nil
	}
	mfs, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("chemeq: gathering metrics: %v", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("chemeq: writing metrics: %v", err)
		}
	}
	return nil
}
