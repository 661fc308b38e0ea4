// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchlog

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// A Writer writes Runs back out in the libtest format, so that
// reading the output with Parse reproduces the Run.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer

	first bool
}

// NewWriter returns a writer that writes Runs to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, first: true}
}

// Write writes every Suite of run to w.
func (w *Writer) Write(run *Run) error {
	for i := range run.Suites {
		w.writeSuite(&run.Suites[i])
	}

	// Flush the buffer out to the io.Writer. Write to the buffer
	// can't fail, so we only have to check if this fails.
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

func (w *Writer) writeSuite(s *Suite) {
	if !w.first {
		w.buf.WriteByte('\n')
	}
	w.first = false
	// The suite line has no way to escape a quote.
	fmt.Fprintf(&w.buf, "Running 'bench' in %s\n", strings.ReplaceAll(s.Name, "'", ""))

	// libtest pads names to the longest in the suite.
	width := 0
	for _, it := range s.Items {
		if len(it.Name) > width {
			width = len(it.Name)
		}
	}
	for _, it := range s.Items {
		fmt.Fprintf(&w.buf, "test %-*s ... bench: %11s ns/iter (+/- %s)", width, it.Name, FormatNumber(it.AverageNS), FormatNumber(it.DeviationNS))
		if tp, ok := it.Throughput(); ok {
			fmt.Fprintf(&w.buf, " = %s MB/s", FormatNumber(tp))
		}
		w.buf.WriteByte('\n')
	}
}
