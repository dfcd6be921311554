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
	"errors"
	"testing"

	"github.com/spatialmodel/chemeq"
	"github.com/spatialmodel/chemeq/science/composition"
	"github.com/spatialmodel/chemeq/science/thermo/janaf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func airTable(t *testing.T) *chemeq.Table {
	lib, err := janaf.Library()
	require.NoError(t, err)
	tbl, err := chemeq.Build(lib, composition.Air(), nil)
	require.NoError(t, err)
	return tbl
}

func TestSweepFunc(t *testing.T) {
	tbl := airTable(t)
	o := chemeq.DefaultOptions()

	results, err := Sweep(tbl, o, 1, 1000, 1000, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1000., results[0].T)

	results, err = Sweep(tbl, o, 1, 1000, 4000, 13)
	require.NoError(t, err)
	require.Len(t, results, 13)
	for i, r := range results {
		assert.InDelta(t, 1000+250*float64(i), r.T, 1e-9)
		if i > 0 {
			// Dissociation increases the number of moles with temperature.
			assert.GreaterOrEqual(t, r.NMoles, results[i-1].NMoles*(1-1e-9))
		}
	}

	for _, c := range []struct{ tMin, tMax float64 }{{0, 1000}, {2000, 1000}, {-1, 100}} {
		_, err := Sweep(tbl, o, 1, c.tMin, c.tMax, 5)
		assert.Error(t, err, "%v", c)
	}
	_, err = Sweep(tbl, o, 1, 1000, 2000, 0)
	assert.Error(t, err)
}

func TestSweepNotConverged(t *testing.T) {
	tbl := airTable(t)
	o := chemeq.DefaultOptions()
	o.MaxIter = 1
	o.Retries = 0
	_, err := Sweep(tbl, o, 1, 2000, 3000, 3)
	assert.True(t, errors.Is(err, chemeq.ErrNotConverged), "%v", err)
}

func TestSaveSweepExtension(t *testing.T) {
	err := SaveSweep(t.TempDir()+"/out.txt", nil)
	assert.Error(t, err)
}
