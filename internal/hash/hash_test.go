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


package hash

import "testing"

func TestHash(t *testing.T) {
	a := Hash([]byte("[elements]\nO = 15.9994\n"))
	b := Hash([]byte("[elements]\nO = 15.9994\n"))
	c := Hash([]byte("[elements]\nO = 16\n"))
	if a != b {
		t.Errorf("equal contents give different keys: %s != %s", a, b)
	}
	if a == c {
		t.Errorf("different contents share key %s", a)
	}
	if len(a) != 32 {
		t.Errorf("key %s has length %d", a, len(a))
	}
}

func TestHashUnencodable(t *testing.T) {
	type private struct{ x int }
	a := Hash(private{x: 1})
	b := Hash(private{x: 2})
	if a == b {
		t.Errorf("different values share key %s", a)
	}
}
