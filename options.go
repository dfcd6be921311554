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
)

// Options holds the solver configuration.
type Options struct {
	// FTol is the convergence tolerance on the residual norm divided by
	// the square root of the number of species.
	FTol float64

	// XTol is the convergence tolerance on the Newton step norm divided
	// by the square root of the number of species.
	XTol float64

	// MaxIter is the maximum number of Newton iterations.
	MaxIter int

	// PRef is the reference pressure for species activities [bar].
	PRef float64

	// TraceFloor is the minimum species amount [kmol/kg]. Species at
	// the floor are treated as absent.
	TraceFloor float64

	// Retries is the number of times Station retries a solve that did
	// not converge, starting over from the default initial guess.
	Retries int

	// Log receives solver progress messages.
	Log logrus.FieldLogger

	// Metrics, if not nil, records solve counts and iterations.
	Metrics *Metrics
}

// Default option values.
const (
	DefaultFTol       = 1e-8
	DefaultXTol       = 1e-12
	DefaultMaxIter    = 200
	DefaultPRef       = 1.01325
	DefaultTraceFloor = 1e-10
	DefaultRetries    = 1
)

// DefaultOptions returns the default solver configuration.
func DefaultOptions() Options {
	return Options{
		FTol:       DefaultFTol,
		XTol:       DefaultXTol,
		MaxIter:    DefaultMaxIter,
		PRef:       DefaultPRef,
		TraceFloor: DefaultTraceFloor,
		Retries:    DefaultRetries,
		Log:        logrus.StandardLogger(),
	}
}

// withDefaults fills in unset fields with default values.
func (o Options) withDefaults() Options {
	if o.FTol <= 0 {
		o.FTol = DefaultFTol
	}
	if o.XTol <= 0 {
		o.XTol = DefaultXTol
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultMaxIter
	}
	if o.PRef <= 0 {
		o.PRef = DefaultPRef
	}
	if o.TraceFloor <= 0 {
		o.TraceFloor = DefaultTraceFloor
	}
	if o.Log == nil {
		o.Log = logrus.StandardLogger()
	}
	return o
}

// Validate checks that o contains usable values.
func (o Options) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{{"FTol", o.FTol}, {"XTol", o.XTol}, {"PRef", o.PRef}, {"TraceFloor", o.TraceFloor}} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return fmt.Errorf("chemeq: %s must be finite, but is %g: %w", v.name, v.val, ErrConfiguration)
		}
	}
	switch {
	case o.FTol < 0:
		return fmt.Errorf("chemeq: FTol must not be negative, but is %g: %w", o.FTol, ErrConfiguration)
	case o.XTol < 0:
		return fmt.Errorf("chemeq: XTol must not be negative, but is %g: %w", o.XTol, ErrConfiguration)
	case o.MaxIter < 0:
		return fmt.Errorf("chemeq: MaxIter must not be negative, but is %d: %w", o.MaxIter, ErrConfiguration)
	case o.PRef < 0:
		return fmt.Errorf("chemeq: PRef must not be negative, but is %g: %w", o.PRef, ErrConfiguration)
	case o.TraceFloor < 0 || o.TraceFloor >= 1:
		return fmt.Errorf("chemeq: TraceFloor must be in [0, 1), but is %g: %w", o.TraceFloor, ErrConfiguration)
	case o.Retries < 0:
		return fmt.Errorf("chemeq: Retries must not be negative, but is %d: %w", o.Retries, ErrConfiguration)
	}
	return nil
}
