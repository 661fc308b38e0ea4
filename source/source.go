// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package source provides the places a benchmark log can be read from.
package source

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
)

// A Source supplies the raw text of a benchmark log.
type Source interface {
	// Name identifies the source in logs and error messages.
	Name() string
	// ReadLog returns the full current contents of the log.
	// Failures are reported as *Error.
	ReadLog(ctx context.Context) ([]byte, error)
}

// ErrUnavailable is matched by every *Error.
var ErrUnavailable = errors.New("benchmark log unavailable")

// Op values for Error.
const (
	OpOpen = "open" // the log could not be located or opened
	OpRead = "read" // the log was found but could not be read
)

// An Error reports that a Source could not produce its log.
type Error struct {
	Source string
	Op     string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrUnavailable }

// File reads the log from a path on the local file system on every
// call, so a log that is still being written is always current.
type File struct {
	Path string
}

func (f *File) Name() string { return f.Path }

func (f *File) ReadLog(ctx context.Context) ([]byte, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, &Error{f.Path, OpOpen, err}
	}
	defer file.Close()
	st, err := file.Stat()
	if err != nil {
		return nil, &Error{f.Path, OpRead, err}
	}
	if st.IsDir() {
		return nil, &Error{f.Path, OpOpen, errors.New("is a directory")}
	}
	data, err := readAll(ctx, file, st.Size())
	if err != nil {
		return nil, &Error{f.Path, OpRead, err}
	}
	return data, nil
}

// Static is a log held in memory.
type Static struct {
	Label string
	Data  []byte
}

func (s *Static) Name() string { return s.Label }

func (s *Static) ReadLog(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{s.Label, OpRead, err}
	}
	return s.Data, nil
}

//go:embed demo.txt
var demoData []byte

// Demo returns a Source serving a fixed log covering six crates. It
// stands in for a real log when the server runs in demo mode.
func Demo() *Static {
	return &Static{Label: "demo", Data: demoData}
}
