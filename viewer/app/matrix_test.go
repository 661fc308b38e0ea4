// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatrix(t *testing.T) {
	run := mustParse(t, `Running 'bench' in ring
test x ... bench: 3 ns/iter (+/- 0)
test x ... bench: 4 ns/iter (+/- 0)
test b ... bench: 5 ns/iter (+/- 0)
Running 'bench' in openssl
test a ... bench: 1 ns/iter (+/- 0)
Running 'bench' in fastpbkdf2
`)
	m := newMatrix(run)
	if diff := cmp.Diff([]string{"fastpbkdf2", "openssl", "ring"}, m.suites); diff != "" {
		t.Errorf("suites (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "x"}, m.names); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	want := [][]int32{
		{-1, 1, -1},
		{-1, -1, 5},
		{-1, -1, 3}, // first x in ring
	}
	for i, row := range m.cells {
		for j, it := range row {
			have := int32(-1)
			if it != nil {
				have = it.AverageNS
			}
			if have != want[i][j] {
				t.Errorf("cell[%s][%s] = %d, want %d", m.names[i], m.suites[j], have, want[i][j])
			}
		}
	}
}

func TestMatrixEmpty(t *testing.T) {
	m := newMatrix(mustParse(t, ""))
	if len(m.suites) != 0 || len(m.names) != 0 || len(m.cells) != 0 {
		t.Errorf("newMatrix(empty) = %+v, want empty", m)
	}
}
