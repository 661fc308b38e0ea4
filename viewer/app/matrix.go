// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"sort"

	"github.com/cryptobench/benchviewer/benchlog"
)

// A matrix arranges a run as items by suites. Suites are sorted by
// name and item names are sorted with duplicates removed.
type matrix struct {
	suites []string
	names  []string
	cells  [][]*benchlog.Item // [name][suite], nil if the suite has no such item
}

func newMatrix(run *benchlog.Run) *matrix {
	suites := make([]*benchlog.Suite, len(run.Suites))
	for i := range run.Suites {
		suites[i] = &run.Suites[i]
	}
	sort.SliceStable(suites, func(i, j int) bool { return suites[i].Name < suites[j].Name })

	m := &matrix{}
	row := make(map[string]int)
	for _, s := range suites {
		m.suites = append(m.suites, s.Name)
		for _, it := range s.Items {
			if _, ok := row[it.Name]; !ok {
				row[it.Name] = 0
				m.names = append(m.names, it.Name)
			}
		}
	}
	sort.Strings(m.names)
	for i, name := range m.names {
		row[name] = i
	}

	m.cells = make([][]*benchlog.Item, len(m.names))
	for i := range m.cells {
		m.cells[i] = make([]*benchlog.Item, len(suites))
	}
	for j, s := range suites {
		for k := range s.Items {
			it := &s.Items[k]
			// The first item with a given name wins.
			if i := row[it.Name]; m.cells[i][j] == nil {
				m.cells[i][j] = it
			}
		}
	}
	return m
}
