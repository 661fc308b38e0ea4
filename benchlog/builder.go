// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchlog

import (
	"errors"
	"fmt"
)

// ErrItemWithoutSuite is returned when a measurement appears before
// any suite line.
var ErrItemWithoutSuite = errors.New("measurement before any suite line")

// A Builder accumulates classified lines into a Run.
//
// A Builder is single use: once Finish has been called it must not be
// used again.
type Builder struct {
	run *Run
}

// NewBuilder returns a Builder holding an empty Run.
func NewBuilder() *Builder {
	return &Builder{run: newRun()}
}

// Observe adds line to the Run. Only Measurement lines can fail, in
// which case the Run is left as it was.
func (b *Builder) Observe(line Line) error {
	if b.run == nil {
		panic("benchlog: Builder.Observe called after Finish")
	}
	switch line := line.(type) {
	case SuiteStart:
		b.run.Suites = append(b.run.Suites, Suite{Name: line.Name, Items: []Item{}})
	case Measurement:
		return b.addItem(line)
	case Unrecognized:
		// Nothing to do.
	default:
		panic(fmt.Sprintf("benchlog: unknown Line type %T", line))
	}
	return nil
}

func (b *Builder) addItem(m Measurement) error {
	if len(b.run.Suites) == 0 {
		return ErrItemWithoutSuite
	}
	item := Item{Name: m.Name}
	var err error
	if item.AverageNS, err = ParseNumber(m.Average); err != nil {
		return err
	}
	if item.DeviationNS, err = ParseNumber(m.Deviation); err != nil {
		return err
	}
	if m.HasThroughput {
		tp, err := ParseNumber(m.Throughput)
		if err != nil {
			return err
		}
		item.ThroughputMBps = &tp
	}
	suite := &b.run.Suites[len(b.run.Suites)-1]
	suite.Items = append(suite.Items, item)
	return nil
}

// Finish returns the accumulated Run. The Builder cannot be used
// afterwards.
func (b *Builder) Finish() *Run {
	if b.run == nil {
		panic("benchlog: Builder.Finish called twice")
	}
	run := b.run
	b.run = nil
	return run
}
