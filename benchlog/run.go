// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchlog reads and writes the text that Rust's libtest
// prints for "cargo bench" runs and turns it into a Run.
//
// A log is a sequence of lines. Suite lines of the form
//
//	Running 'bench' in ring
//
// open a new Suite, and measurement lines of the form
//
//	test digest::sha1::_1000 ... bench:   2,175 ns/iter (+/- 186) = 459 MB/s
//
// append an Item to the most recently opened Suite. Every other line
// is ignored.
//
// Parsing is whole-or-nothing: Parse either returns a complete Run or
// the first error it encountered, never a partial Run.
package benchlog

// Architecture is the value of Run.Architecture. The log does not
// record the machine it ran on, so this is a fixed placeholder until
// something upstream supplies it.
const Architecture = "TODO"

// An Item is a single measured benchmark.
type Item struct {
	Name        string `json:"name" yaml:"name"`
	AverageNS   int32  `json:"average_ns" yaml:"average_ns"`
	DeviationNS int32  `json:"deviation_ns" yaml:"deviation_ns"`

	// ThroughputMBps is nil if the benchmark did not report a rate.
	ThroughputMBps *int32 `json:"throughput_mbps,omitempty" yaml:"throughput_mbps,omitempty"`
}

// Throughput returns the reported rate in MB/s and whether there was
// one.
func (it Item) Throughput() (int32, bool) {
	if it.ThroughputMBps == nil {
		return 0, false
	}
	return *it.ThroughputMBps, true
}

// A Suite is the set of benchmarks run for one crate, in the order
// they appeared in the log.
type Suite struct {
	Name  string `json:"name" yaml:"name"`
	Items []Item `json:"items" yaml:"items"`
}

// A Run is every Suite in a log, in the order they appeared.
type Run struct {
	Architecture string  `json:"architecture" yaml:"architecture"`
	Suites       []Suite `json:"suites" yaml:"suites"`
}

// newRun returns an empty Run whose slices marshal as [] rather than
// null.
func newRun() *Run {
	return &Run{Architecture: Architecture, Suites: []Suite{}}
}

// Clone makes a copy of r that shares no state with r.
func (r *Run) Clone() *Run {
	r2 := &Run{
		Architecture: r.Architecture,
		Suites:       make([]Suite, len(r.Suites)),
	}
	for i, s := range r.Suites {
		items := make([]Item, len(s.Items))
		for j, it := range s.Items {
			if it.ThroughputMBps != nil {
				tp := *it.ThroughputMBps
				it.ThroughputMBps = &tp
			}
			items[j] = it
		}
		r2.Suites[i] = Suite{Name: s.Name, Items: items}
	}
	return r2
}

// NumItems returns the total number of Items across all Suites.
func (r *Run) NumItems() int {
	n := 0
	for _, s := range r.Suites {
		n += len(s.Items)
	}
	return n
}
