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


// Package janaf provides an embedded library of NASA 9-coefficient
// thermodynamic fits for common combustion and air species.
package janaf

import (
	"bytes"
	_ "embed"
	"sync"

	"github.com/spatialmodel/chemeq"
)

//go:embed janaf.toml
var data []byte

var (
	once sync.Once
	lib  *chemeq.Library
	err  error
)

// Library returns the embedded species library. It is parsed the first
// time it is requested; the returned value is shared and must not be
// modified.
func Library() (*chemeq.Library, error) {
	once.Do(func() {
		lib, err = chemeq.LoadLibrary(bytes.NewReader(data))
	})
	return lib, err
}

// Data returns the raw TOML text of the embedded library.
func Data() []byte {
	o := make([]byte, len(data))
	copy(o, data)
	return o
}
