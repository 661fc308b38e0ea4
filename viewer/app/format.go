// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cryptobench/benchviewer/benchlog"
)

// A scaler represents a scaling factor for a number and its SI
// prefix.
type scaler struct {
	prec   int     // digits after the decimal point
	factor float64 // unscaled value of 1 prefix (e.g., 1 k => 1000)
	prefix string
}

func (s scaler) format(val float64) string {
	buf := make([]byte, 0, 20)
	buf = strconv.AppendFloat(buf, val/s.factor, 'f', s.prec, 64)
	buf = append(buf, s.prefix...)
	return string(buf)
}

type factor struct {
	factor float64
	prefix string
	// Thresholds for 100.0, 10.00, 1.000.
	t100, t10, t1 float64
}

var siFactors = mkSIFactors()

func mkSIFactors() []factor {
	// The thresholds are parsed from their printed form so that
	// they match how printing rounds.
	var factors []factor
	exp := 12
	for _, p := range []string{"T", "G", "M", "k", "", "m", "µ", "n"} {
		t100, _ := strconv.ParseFloat(fmt.Sprintf("99.995e%d", exp), 64)
		t10, _ := strconv.ParseFloat(fmt.Sprintf("9.9995e%d", exp), 64)
		t1, _ := strconv.ParseFloat(fmt.Sprintf(".99995e%d", exp), 64)
		factors = append(factors, factor{math.Pow(10, float64(exp)), p, t100, t10, t1})
		exp -= 3
	}
	return factors
}

// scale returns a scaler that shows val with at least three
// significant digits.
func scale(val float64) scaler {
	v := math.Abs(val)
	if v == 0 {
		return scaler{0, 1, ""}
	}
	for _, f := range siFactors {
		switch {
		case v >= f.t100:
			return scaler{1, f.factor, f.prefix}
		case v >= f.t10:
			return scaler{2, f.factor, f.prefix}
		case v >= f.t1:
			return scaler{3, f.factor, f.prefix}
		}
	}
	last := siFactors[len(siFactors)-1]
	return scaler{3, last.factor, last.prefix}
}

// formatNS formats a duration in nanoseconds, such as "1.234µs".
func formatNS(ns int32) string {
	sec := float64(ns) / 1e9
	return scale(sec).format(sec) + "s"
}

// formatRate formats a rate in megabytes per second, such as
// "51.00MB/s".
func formatRate(mbps int32) string {
	b := float64(mbps) * 1e6
	return scale(b).format(b) + "B/s"
}

// formatItem formats one table cell.
func formatItem(it *benchlog.Item) string {
	if it == nil {
		return ""
	}
	s := formatNS(it.AverageNS) + " ± " + formatNS(it.DeviationNS)
	if rate, ok := it.Throughput(); ok {
		s += " (" + formatRate(rate) + ")"
	}
	return s
}
