// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchlog

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedNumber is matched by every *NumberError.
var ErrMalformedNumber = errors.New("malformed number")

// A NumberError records a numeric field that could not be parsed.
type NumberError struct {
	Token string // the field as it appeared in the log
	Err   error  // the strconv error
}

func (e *NumberError) Error() string {
	return "parsing number " + strconv.Quote(e.Token) + ": " + e.Err.Error()
}

func (e *NumberError) Unwrap() error { return e.Err }

func (e *NumberError) Is(target error) bool { return target == ErrMalformedNumber }

// ParseNumber parses a libtest number such as "60,563,177".
//
// libtest inserts the commas itself rather than localizing, so there
// is exactly one separator convention to undo.
func ParseNumber(tok string) (int32, error) {
	bare := strings.ReplaceAll(tok, ",", "")
	n, err := strconv.ParseInt(bare, 10, 32)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok {
			err = ne.Err
		}
		return 0, &NumberError{Token: tok, Err: err}
	}
	return int32(n), nil
}

// FormatNumber formats n the way libtest does, with a comma between
// every group of three digits.
func FormatNumber(n int32) string {
	s := strconv.FormatInt(int64(n), 10)
	neg := false
	if s[0] == '-' {
		neg, s = true, s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	buf := make([]byte, 0, len(s)+len(s)/3+1)
	if neg {
		buf = append(buf, '-')
	}
	head := len(s) % 3
	if head == 0 {
		head = 3
	}
	buf = append(buf, s[:head]...)
	for i := head; i < len(s); i += 3 {
		buf = append(buf, ',')
		buf = append(buf, s[i:i+3]...)
	}
	return string(buf)
}
