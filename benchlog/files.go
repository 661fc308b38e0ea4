// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchlog

import (
	"io"
	"os"
)

// A Files parses a sequence of log files, each into its own Run.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// AllowStdin indicates that the path "-" should be treated as
	// stdin and if the file list is empty, it should be treated
	// as consisting of stdin.
	//
	// This is generally the desired behavior when the file list
	// comes from command-line flags.
	AllowStdin bool

	// inputs is the sequence of remaining inputs, or nil if this
	// Files has not started yet. Note that this distinguishes nil
	// from length 0.
	inputs []string

	path string
	run  *Run
	err  error
}

// init does first-use initialization of f.
func (f *Files) init() {
	f.inputs = []string{}
	if f.AllowStdin && len(f.Paths) == 0 {
		f.inputs = append(f.inputs, "-")
	}
	f.inputs = append(f.inputs, f.Paths...)
}

// Scan parses the next file in the sequence and reports whether it
// succeeded. If Scan reaches the end of the sequence, or a file cannot
// be read or parsed, it returns false and the caller should check Err.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	if f.inputs == nil {
		f.init()
	}
	f.run = nil
	if len(f.inputs) == 0 {
		// We're out of inputs.
		return false
	}
	f.path, f.inputs = f.inputs[0], f.inputs[1:]

	var r io.Reader
	if f.AllowStdin && f.path == "-" {
		r = os.Stdin
	} else {
		file, err := os.Open(f.path)
		if err != nil {
			f.err = err
			return false
		}
		defer file.Close()
		r = file
	}
	f.run, f.err = Parse(r, f.path)
	return f.err == nil
}

// Run returns the Run parsed by the last successful call to Scan.
func (f *Files) Run() *Run {
	return f.run
}

// Path returns the path of the file most recently read by Scan.
func (f *Files) Path() string {
	return f.path
}

// Err returns the error that stopped Scan, if any.
// If Scan stopped because it parsed every file,
// or if Scan has not yet returned false, Err returns nil.
func (f *Files) Err() error {
	return f.err
}
