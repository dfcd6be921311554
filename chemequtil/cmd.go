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


// Package chemequtil contains the chemeq command-line interface.
package chemequtil

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/chemeq"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	solveSets := []*pflag.FlagSet{tpCmd.Flags(), hpCmd.Flags(), spCmd.Flags(), sweepCmd.Flags()}

	// Options are the configuration options available to chemeq.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "loglevel",
			usage: `
              loglevel specifies the minimum level of log messages to print.
              Valid options are "panic", "fatal", "error", "warn", "info",
              "debug", and "trace".`,
			defaultVal: "warn",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "format",
			usage: `
              format specifies the output format. Valid options are "text",
              "json", and "yaml".`,
			shorthand:  "f",
			defaultVal: "text",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Library",
			usage: `
              Library is the path to a species thermodynamic library file in TOML
              format. If it is empty, the built-in library is used. It can
              include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Reactants",
			usage: `
              Reactants gives the initial mixture as a map of reactant names
              to amounts in moles.`,
			defaultVal: map[string]float64{"AIR": 1},
			flagsets:   solveSets,
		},
		{
			name: "Elements",
			usage: `
              Elements is the list of elements to include in the calculation.
              If it is empty, every element present in the reactants is used.`,
			defaultVal: []string{},
			flagsets:   solveSets,
		},
		{
			name: "WAR",
			usage: `
              WAR is the water-to-air ratio: the mass fraction of water vapor
              added to the reactants. It must be in [0, 1).`,
			defaultVal: 0.0,
			flagsets:   solveSets,
		},
		{
			name: "FAR",
			usage: `
              FAR is the fuel-to-air mass ratio of the fuel added to the
              reactants.`,
			defaultVal: 0.0,
			flagsets:   solveSets,
		},
		{
			name: "Fuel",
			usage: `
              Fuel is the name of the reactant added at fuel-to-air ratio FAR.`,
			defaultVal: "Jet-A(g)",
			flagsets:   solveSets,
		},
		{
			name: "T",
			usage: `
              T is the temperature [K].`,
			defaultVal: 1500.0,
			flagsets:   []*pflag.FlagSet{tpCmd.Flags()},
		},
		{
			name: "P",
			usage: `
              P is the pressure [bar].`,
			defaultVal: chemeq.DefaultPRef,
			flagsets:   solveSets,
		},
		{
			name: "h",
			usage: `
              h is the target mass-specific enthalpy [cal/g].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{hpCmd.Flags()},
		},
		{
			name: "S",
			usage: `
              S is the target mass-specific entropy [cal/(g K)].`,
			defaultVal: 1.8,
			flagsets:   []*pflag.FlagSet{spCmd.Flags()},
		},
		{
			name: "Tguess",
			usage: `
              Tguess is the starting temperature [K] for enthalpy- and
              entropy-constrained calculations.`,
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{hpCmd.Flags(), spCmd.Flags()},
		},
		{
			name: "Solver.FTol",
			usage: `
              Solver.FTol is the convergence tolerance on the scaled residual norm.`,
			defaultVal: chemeq.DefaultFTol,
			flagsets:   solveSets,
		},
		{
			name: "Solver.XTol",
			usage: `
              Solver.XTol is the convergence tolerance on the scaled Newton step norm.`,
			defaultVal: chemeq.DefaultXTol,
			flagsets:   solveSets,
		},
		{
			name: "Solver.MaxIter",
			usage: `
              Solver.MaxIter is the maximum number of Newton iterations per solve.`,
			defaultVal: chemeq.DefaultMaxIter,
			flagsets:   solveSets,
		},
		{
			name: "Solver.PRef",
			usage: `
              Solver.PRef is the reference pressure of the species data [bar].`,
			defaultVal: chemeq.DefaultPRef,
			flagsets:   solveSets,
		},
		{
			name: "Solver.TraceFloor",
			usage: `
              Solver.TraceFloor is the smallest species amount [kmol/kg].
              Species at the floor are treated as absent.`,
			defaultVal: chemeq.DefaultTraceFloor,
			flagsets:   solveSets,
		},
		{
			name: "Solver.Retries",
			usage: `
              Solver.Retries is the number of times a solve that does not
              converge is restarted from the default initial guess.`,
			defaultVal: chemeq.DefaultRetries,
			flagsets:   solveSets,
		},
		{
			name: "Sweep.TMin",
			usage: `
              Sweep.TMin is the lowest temperature of the sweep [K].`,
			defaultVal: 500.0,
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
		{
			name: "Sweep.TMax",
			usage: `
              Sweep.TMax is the highest temperature of the sweep [K].`,
			defaultVal: 4000.0,
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
		{
			name: "Sweep.NumPoints",
			usage: `
              Sweep.NumPoints is the number of temperatures in the sweep.`,
			defaultVal: 36,
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
		{
			name: "Sweep.OutputFile",
			usage: `
              Sweep.OutputFile is the path where the sweep results should be saved.
              The format is chosen by the file extension: ".csv", ".xlsx", or ".png".
              If it is empty, the results are written to standard output. It can
              include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
		{
			name: "metrics",
			usage: `
              metrics specifies whether to print solver metrics in the Prometheus
              text format after the calculation.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CHEMEQ")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
			case bool:
				set.Bool(option.name, option.defaultVal.(bool), option.usage)
			case int:
				set.Int(option.name, option.defaultVal.(int), option.usage)
			case float64:
				set.Float64(option.name, option.defaultVal.(float64), option.usage)
			case map[string]float64:
				b := bytes.NewBuffer(nil)
				if err := json.NewEncoder(b).Encode(option.defaultVal); err != nil {
					panic(err)
				}
				set.String(option.name, strings.TrimSpace(b.String()), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(speciesCmd)
	Root.AddCommand(tpCmd)
	Root.AddCommand(hpCmd)
	Root.AddCommand(spCmd)
	Root.AddCommand(sweepCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("chemeq: problem reading configuration file: %v", err)
		}
	}
	lvl, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return fmt.Errorf("chemeq: %v", err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	if _, err := checkFormat(Cfg.GetString("format")); err != nil {
		return err
	}
	return resetMetrics(Cfg.GetBool("metrics"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "chemeq",
	Short: "A chemical equilibrium calculator.",
	Long: `chemeq calculates the chemical equilibrium composition and thermodynamic
properties of reacting ideal-gas mixtures at fixed temperature, enthalpy,
or entropy and fixed pressure.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CHEMEQ_var' where 'var' is the
name of the variable to be set, with '.' replaced by '_'.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of chemeq.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("chemeq v%s\n", chemeq.Version)
	},
	DisableAutoGenTag: true,
}

var speciesCmd = &cobra.Command{
	Use:   "species",
	Short: "List the available species and reactants",
	Long: `species lists the species in the thermodynamic library along with
their elements and temperature ranges, and the reactants that can be used
to specify initial mixtures.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := library()
		if err != nil {
			return err
		}
		format, _ := checkFormat(Cfg.GetString("format"))
		return writeLibrary(cmd.OutOrStdout(), format, lib)
	},
	DisableAutoGenTag: true,
}

var tpCmd = &cobra.Command{
	Use:   "tp",
	Short: "Equilibrium at fixed temperature and pressure",
	Long: `tp calculates the equilibrium composition and properties of the mixture
at temperature T and pressure P.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSolve(cmd, func(s *chemeq.Station) (*chemeq.Result, error) {
			return s.TP(Cfg.GetFloat64("T"), Cfg.GetFloat64("P"))
		}, chemeq.TP)
	},
	DisableAutoGenTag: true,
}

var hpCmd = &cobra.Command{
	Use:   "hp",
	Short: "Equilibrium at fixed enthalpy and pressure",
	Long: `hp calculates the equilibrium composition, temperature, and properties
of the mixture with enthalpy h at pressure P.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSolve(cmd, func(s *chemeq.Station) (*chemeq.Result, error) {
			return s.HP(Cfg.GetFloat64("h"), Cfg.GetFloat64("P"), Cfg.GetFloat64("Tguess"))
		}, chemeq.HP)
	},
	DisableAutoGenTag: true,
}

var spCmd = &cobra.Command{
	Use:   "sp",
	Short: "Equilibrium at fixed entropy and pressure",
	Long: `sp calculates the equilibrium composition, temperature, and properties
of the mixture with entropy S at pressure P.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSolve(cmd, func(s *chemeq.Station) (*chemeq.Result, error) {
			return s.SP(Cfg.GetFloat64("S"), Cfg.GetFloat64("P"), Cfg.GetFloat64("Tguess"))
		}, chemeq.SP)
	},
	DisableAutoGenTag: true,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Equilibrium over a range of temperatures",
	Long: `sweep calculates the equilibrium composition and properties of the mixture
at pressure P for Sweep.NumPoints evenly spaced temperatures between
Sweep.TMin and Sweep.TMax, using all available processors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, o, err := tableAndOptions(cmd)
		if err != nil {
			return err
		}
		n, err := cast.ToIntE(Cfg.Get("Sweep.NumPoints"))
		if err != nil {
			return fmt.Errorf("chemeq: reading Sweep.NumPoints: %v", err)
		}
		results, err := Sweep(t, o, Cfg.GetFloat64("P"),
			Cfg.GetFloat64("Sweep.TMin"), Cfg.GetFloat64("Sweep.TMax"), n)
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("Sweep.OutputFile"))
		if err != nil {
			return err
		}
		if outputFile != "" {
			if err := SaveSweep(outputFile, results); err != nil {
				return err
			}
			o.Log.WithField("file", outputFile).Info("chemeq: saved sweep results")
		} else {
			format, _ := checkFormat(Cfg.GetString("format"))
			if err := writeResults(cmd.OutOrStdout(), format, chemeq.TP, results); err != nil {
				return err
			}
		}
		return writeMetrics(cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

// runSolve sets up a Station from the configuration, runs f on it, and
// writes the result.
func runSolve(cmd *cobra.Command, f func(*chemeq.Station) (*chemeq.Result, error), mode chemeq.Mode) error {
	t, o, err := tableAndOptions(cmd)
	if err != nil {
		return err
	}
	r, err := f(chemeq.NewStation(t, o))
	if err != nil {
		return err
	}
	o.Log.WithFields(logrus.Fields{
		"mode":       mode,
		"T":          r.T,
		"iterations": r.Iterations,
	}).Info("chemeq: converged")
	format, _ := checkFormat(Cfg.GetString("format"))
	if err := writeResults(cmd.OutOrStdout(), format, mode, []*chemeq.Result{r}); err != nil {
		return err
	}
	return writeMetrics(cmd.OutOrStdout())
}
