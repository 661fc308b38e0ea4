// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchlog

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// maxLineLen bounds the part of a line that is kept for
// classification. libtest lines are short, but a log is occasionally
// interleaved with very long compiler output; longer lines are read
// to the end and reported as Unrecognized.
const maxLineLen = 1 << 20

// A Reader classifies the lines of a log one at a time.
//
// Its API is modeled on bufio.Scanner. Most callers want Parse, which
// drives a Reader and a Builder together.
type Reader struct {
	r    *bufio.Reader
	buf  []byte // current line, without its terminator
	eof  bool
	err  error // current I/O error
	line Line

	fileName string
	lineNum  int
}

// A SyntaxError is a line of a log that could not be added to the
// Run. Err is the underlying cause, such as ErrItemWithoutSuite or a
// *NumberError.
type SyntaxError struct {
	FileName string
	Line     int
	Err      error
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.FileName, e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// NewReader constructs a Reader for the log in r. fileName is used in
// error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	if r.r == nil {
		r.r = bufio.NewReader(ior)
	} else {
		r.r.Reset(ior)
	}
	r.buf = r.buf[:0]
	r.eof = false
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.err = nil
	r.line = nil
	r.fileName = fileName
	r.lineNum = 0
}

// Scan advances to the next line and reports whether there was one.
// Unrecognized lines are returned too, so that line numbers stay
// meaningful to the caller. If Scan reaches EOF or an I/O error
// occurs, it returns false and the caller should check Err.
func (r *Reader) Scan() bool {
	if r.err != nil || r.eof {
		r.line = nil
		return false
	}
	r.buf = r.buf[:0]
	n, tooLong := 0, false
	for {
		chunk, err := r.r.ReadSlice('\n')
		n += len(chunk)
		if !tooLong {
			if len(r.buf)+len(chunk) > maxLineLen+2 {
				tooLong = true
				r.buf = r.buf[:0]
			} else {
				r.buf = append(r.buf, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF {
			r.eof = true
			if n == 0 {
				r.line = nil
				return false
			}
			break
		}
		if err != nil {
			r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.lineNum+1, err)
			r.line = nil
			return false
		}
		break
	}
	r.lineNum++
	if tooLong {
		r.line = Unrecognized{}
		return true
	}
	line := bytes.TrimSuffix(r.buf, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	r.line = Classify(string(line))
	return true
}

// Line returns the classification of the line just read by Scan.
func (r *Reader) Line() Line {
	if r.line == nil {
		// Scan has not been called, or has returned false.
		return Unrecognized{}
	}
	return r.line
}

// Pos returns the file name and 1-based line number of the line just
// read by Scan.
func (r *Reader) Pos() (fileName string, line int) {
	return r.fileName, r.lineNum
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}

// Parse reads the whole log in r and returns the resulting Run.
//
// The first line that cannot be added stops parsing; its error is
// returned as a *SyntaxError and no Run is returned.
func Parse(r io.Reader, fileName string) (*Run, error) {
	reader := NewReader(r, fileName)
	b := NewBuilder()
	for reader.Scan() {
		if err := b.Observe(reader.Line()); err != nil {
			name, line := reader.Pos()
			return nil, &SyntaxError{name, line, err}
		}
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return b.Finish(), nil
}

// ParseBytes is Parse for a log already held in memory.
func ParseBytes(data []byte, fileName string) (*Run, error) {
	return Parse(bytes.NewReader(data), fileName)
}
