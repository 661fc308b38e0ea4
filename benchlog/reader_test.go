// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchlog

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
)

const scenario = `Running 'bench' in demo-area
test digest::sha1::_1000       ... bench:       2,175 ns/iter (+/- 186) = 459 MB/s
Running 'bench' in demo-area2
test agreement::p256::generate_key_pair ... bench:      22,613 ns/iter (+/- 10,662)
`

func TestParseScenario(t *testing.T) {
	run, err := Parse(strings.NewReader(scenario), "scenario")
	if err != nil {
		t.Fatal(err)
	}
	want := &Run{
		Architecture: "TODO",
		Suites: []Suite{
			{"demo-area", []Item{{"digest::sha1::_1000", 2175, 186, tp(459)}}},
			{"demo-area2", []Item{{"agreement::p256::generate_key_pair", 22613, 10662, nil}}},
		},
	}
	if diff := cmp.Diff(want, run); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestJSON(t *testing.T) {
	run, err := ParseBytes([]byte(scenario), "scenario")
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(run)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"architecture":"TODO","suites":[` +
		`{"name":"demo-area","items":[{"name":"digest::sha1::_1000","average_ns":2175,"deviation_ns":186,"throughput_mbps":459}]},` +
		`{"name":"demo-area2","items":[{"name":"agreement::p256::generate_key_pair","average_ns":22613,"deviation_ns":10662}]}]}`
	if string(data) != want {
		t.Errorf("json.Marshal:\n got %s\nwant %s", data, want)
	}
}

func TestJSONEmpty(t *testing.T) {
	for _, test := range []struct {
		log, want string
	}{
		{"", `{"architecture":"TODO","suites":[]}`},
		{"Running 'bench' in empty\n", `{"architecture":"TODO","suites":[{"name":"empty","items":[]}]}`},
	} {
		run, err := ParseBytes([]byte(test.log), "empty")
		if err != nil {
			t.Fatal(err)
		}
		data, err := json.Marshal(run)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != test.want {
			t.Errorf("json.Marshal(Parse(%q)) = %s, want %s", test.log, data, test.want)
		}
	}
}

func readDemo(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/demo.txt")
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestParseDemo(t *testing.T) {
	run, err := ParseBytes(readDemo(t), "demo.txt")
	if err != nil {
		t.Fatal(err)
	}
	type shape struct {
		name  string
		items int
	}
	var got []shape
	for _, s := range run.Suites {
		got = append(got, shape{s.Name, len(s.Items)})
	}
	want := []shape{
		{"fastpbkdf2", 0},
		{"octavo", 24},
		{"openssl", 25},
		{"ring", 65},
		{"rust_crypto", 53},
		{"sodiumoxide", 15},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(shape{})); diff != "" {
		t.Errorf("suite shape mismatch (-want +got):\n%s", diff)
	}
	if n := run.NumItems(); n != 182 {
		t.Errorf("NumItems() = %d, want 182", n)
	}

	// Spot check the largest values and an item without a rate.
	rc := run.Suites[4]
	hmac := rc.Items[len(rc.Items)-3]
	if want := (Item{"pbkdf2::hmac_sha512", 167192029, 31000862, nil}); !cmp.Equal(hmac, want) {
		t.Errorf("rust_crypto item = %+v, want %+v", hmac, want)
	}
	if first := run.Suites[1].Items[0]; first.Name != "digest::sha1::_1000" || first.ThroughputMBps == nil || *first.ThroughputMBps != 459 {
		t.Errorf("octavo first item = %+v", first)
	}
}

func TestParseDeterministic(t *testing.T) {
	data := readDemo(t)
	first, err := ParseBytes(data, "demo.txt")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := ParseBytes(data, "demo.txt")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("parse %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestParseIgnoresNoise(t *testing.T) {
	// Dropping every unrecognized line must not change the result.
	data := readDemo(t)
	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		if _, ok := Classify(line).(Unrecognized); !ok {
			kept = append(kept, line)
		}
	}
	noisy, err := ParseBytes(data, "noisy")
	if err != nil {
		t.Fatal(err)
	}
	clean, err := Parse(strings.NewReader(strings.Join(kept, "\n")), "clean")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(clean, noisy); diff != "" {
		t.Errorf("noise changed the run (-clean +noisy):\n%s", diff)
	}
}

func TestParseCRLF(t *testing.T) {
	run, err := Parse(strings.NewReader(strings.ReplaceAll(scenario, "\n", "\r\n")), "crlf")
	if err != nil {
		t.Fatal(err)
	}
	if len(run.Suites) != 2 || run.Suites[1].Name != "demo-area2" || len(run.Suites[1].Items) != 1 {
		t.Errorf("CRLF input parsed as %+v", run)
	}
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		name, log string
		line      int
		err       error
		msg       string
	}{
		{
			"item before suite",
			"\nrunning 1 test\ntest x ... bench: 1 ns/iter (+/- 1)\nRunning 'bench' in a\n",
			3, ErrItemWithoutSuite,
			"test:3: measurement before any suite line",
		},
		{
			"bad average",
			"Running 'bench' in a\ntest x ... bench: 1.5 ns/iter (+/- 1)\n",
			2, ErrMalformedNumber,
			`test:2: parsing number "1.5": invalid syntax`,
		},
		{
			"overflow after good lines",
			scenario + "test y ... bench: 1 ns/iter (+/- 1) = 3,000,000,000 MB/s\n",
			5, ErrMalformedNumber,
			`test:5: parsing number "3,000,000,000": value out of range`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			run, err := Parse(strings.NewReader(test.log), "test")
			if run != nil {
				t.Errorf("Parse returned a partial run %+v", run)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Parse error = %v, want *SyntaxError", err)
			}
			if name, line := se.Pos(); name != "test" || line != test.line {
				t.Errorf("error position = %s:%d, want test:%d", name, line, test.line)
			}
			if !errors.Is(err, test.err) {
				t.Errorf("error %v does not match %v", err, test.err)
			}
			if err.Error() != test.msg {
				t.Errorf("error message = %q, want %q", err.Error(), test.msg)
			}
		})
	}
}

func TestParseLongLine(t *testing.T) {
	long := strings.Repeat("x", 2<<20)
	for _, term := range []string{"\n", "\r\n"} {
		log := "Running 'bench' in a" + term + long + term +
			"test y ... bench: 1 ns/iter (+/- 0)" + term + long
		r := NewReader(strings.NewReader(log), "long")
		var kinds []string
		for r.Scan() {
			switch r.Line().(type) {
			case SuiteStart:
				kinds = append(kinds, "suite")
			case Measurement:
				kinds = append(kinds, "item")
			case Unrecognized:
				kinds = append(kinds, "-")
			}
		}
		if err := r.Err(); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"suite", "-", "item", "-"}, kinds); diff != "" {
			t.Errorf("line kinds mismatch (-want +got):\n%s", diff)
		}
		if _, line := r.Pos(); line != 4 {
			t.Errorf("Pos() line = %d, want 4", line)
		}

		run, err := ParseBytes([]byte(log), "long")
		if err != nil {
			t.Fatal(err)
		}
		want := &Run{
			Architecture: "TODO",
			Suites:       []Suite{{"a", []Item{{"y", 1, 0, nil}}}},
		}
		if diff := cmp.Diff(want, run); diff != "" {
			t.Errorf("Parse mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestParseLongLineError(t *testing.T) {
	// Line numbers stay correct past an over-long line.
	log := strings.Repeat("x", 2<<20) + "\ntest y ... bench: 1 ns/iter (+/- 0)\n"
	_, err := ParseBytes([]byte(log), "long")
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Parse error = %v, want *SyntaxError", err)
	}
	if _, line := serr.Pos(); line != 2 {
		t.Errorf("error line = %d, want 2", line)
	}
}

func TestParseIOError(t *testing.T) {
	r := iotest.TimeoutReader(strings.NewReader(strings.Repeat("x", 8192) + "\n"))
	run, err := Parse(r, "slow")
	if err == nil || run != nil {
		t.Fatalf("Parse = %v, %v; want I/O error", run, err)
	}
	if !errors.Is(err, iotest.ErrTimeout) {
		t.Errorf("Parse error = %v, want wrapped iotest.ErrTimeout", err)
	}
}

func TestReader(t *testing.T) {
	r := NewReader(strings.NewReader(scenario+"\ntest result: ok.\n"), "")
	if _, ok := r.Line().(Unrecognized); !ok {
		t.Errorf("Line before Scan = %#v, want Unrecognized", r.Line())
	}
	var kinds []string
	for r.Scan() {
		switch r.Line().(type) {
		case SuiteStart:
			kinds = append(kinds, "suite")
		case Measurement:
			kinds = append(kinds, "item")
		case Unrecognized:
			kinds = append(kinds, "-")
		}
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	want := []string{"suite", "item", "suite", "item", "-", "-"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("line kinds mismatch (-want +got):\n%s", diff)
	}
	if name, line := r.Pos(); name != "<unknown>" || line != 6 {
		t.Errorf("Pos() = %s:%d, want <unknown>:6", name, line)
	}
}
