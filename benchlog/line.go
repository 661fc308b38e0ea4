// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchlog

import "regexp"

// A Line is the classification of one line of a log. It is one of
// SuiteStart, Measurement or Unrecognized.
type Line interface {
	isLine()
}

// SuiteStart is a line that opens a new Suite.
type SuiteStart struct {
	Name string
}

// Measurement is a benchmark result line. The numeric fields hold the
// text as it appeared in the log, grouping separators included; the
// Builder normalizes them.
type Measurement struct {
	Name      string
	Average   string
	Deviation string

	// Throughput is only meaningful if HasThroughput is set.
	Throughput    string
	HasThroughput bool
}

// Unrecognized is any line that is neither a suite header nor a
// measurement: blank lines, "running N tests", result summaries and
// so on.
type Unrecognized struct{}

func (SuiteStart) isLine()   {}
func (Measurement) isLine()  {}
func (Unrecognized) isLine() {}

var (
	// test digest::sha1::_1000       ... bench:       2,188 ns/iter (+/- 205) = 457 MB/s
	//
	// libtest hard-codes "ns/iter" and "MB/s", so the units are
	// matched literally. Anything after the measurement, separated by
	// whitespace, is ignored.
	measurementRE = regexp.MustCompile(`^test (\S+)\s*\.\.\. bench:\s*(\S+) ns/iter \(\+/- (\S+)\)(?: = (\S+) MB/s)?(?:\s|$)`)

	// Running 'bench' in ring
	suiteRE = regexp.MustCompile(`^Running 'bench' in (?:'([^']*)'|([^']*))$`)
)

// Classify reports what kind of line line is. line should not include
// the trailing newline. Measurements are checked first.
func Classify(line string) Line {
	if m := measurementRE.FindStringSubmatch(line); m != nil {
		return Measurement{
			Name:          m[1],
			Average:       m[2],
			Deviation:     m[3],
			Throughput:    m[4],
			HasThroughput: m[4] != "",
		}
	}
	if m := suiteRE.FindStringSubmatch(line); m != nil {
		if m[1] != "" {
			return SuiteStart{Name: m[1]}
		}
		return SuiteStart{Name: m[2]}
	}
	return Unrecognized{}
}
