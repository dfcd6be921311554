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
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/ctessum/requestcache"
)

// TableCache memoizes Table construction for repeated mixtures. It is
// safe for concurrent use; every Table it returns is a separate Clone.
// Failed builds are not cached.
type TableCache struct {
	lib   *Library
	cache *requestcache.Cache
}

type tableRequest struct {
	reactants map[string]float64
	elements  []string
}

// NewTableCache returns a cache holding up to size Tables built from lib.
func NewTableCache(lib *Library, size int) *TableCache {
	c := &TableCache{lib: lib}
	c.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
		r := request.(tableRequest)
		return Build(c.lib, r.reactants, r.elements)
	}, runtime.GOMAXPROCS(-1), requestcache.Memory(size))
	return c
}

// Table returns a Table for the given reactants and elements, as
// specified for Build.
func (c *TableCache) Table(ctx context.Context, reactants map[string]float64, elements []string) (*Table, error) {
	req := c.cache.NewRequest(ctx, tableRequest{reactants: reactants, elements: elements},
		tableKey(reactants, elements))
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	return result.(*Table).Clone(), nil
}

// tableKey returns a unique key for a Build request.
func tableKey(reactants map[string]float64, elements []string) string {
	names := make([]string, 0, len(reactants))
	for name := range reactants {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s=%g;", name, reactants[name])
	}
	elems := append([]string(nil), elements...)
	sort.Strings(elems)
	b.WriteString("|")
	b.WriteString(strings.Join(elems, ","))
	return b.String()
}
