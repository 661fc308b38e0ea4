// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"bytes"
	"fmt"
	"image/color"
	"net/http"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cryptobench/benchviewer/benchlog"
)

// chartColors are the fill and border colors of successive suites.
var chartColors = []struct{ fill, border color.NRGBA }{
	{color.NRGBA{255, 99, 132, 51}, color.NRGBA{255, 99, 132, 255}},
	{color.NRGBA{54, 162, 235, 51}, color.NRGBA{54, 162, 235, 255}},
	{color.NRGBA{255, 206, 86, 51}, color.NRGBA{255, 206, 86, 255}},
	{color.NRGBA{75, 192, 192, 51}, color.NRGBA{75, 192, 192, 255}},
	{color.NRGBA{153, 102, 255, 51}, color.NRGBA{153, 102, 255, 255}},
	{color.NRGBA{255, 159, 64, 51}, color.NRGBA{255, 159, 64, 255}},
}

var chartTypes = map[string]string{
	"svg": "image/svg+xml",
	"png": "image/png",
	"pdf": "application/pdf",
}

const barWidth = vg.Length(4)

// newChart plots the average time of every item as a horizontal bar,
// with one group of bars per item name and one bar per suite.
func newChart(run *benchlog.Run) (*plot.Plot, error) {
	m := newMatrix(run)

	p := plot.New()
	p.Title.Text = "Architecture: " + run.Architecture
	p.X.Label.Text = "Average ns per iteration"
	p.Legend.Top = true

	// NominalY counts from the bottom; list names top down.
	labels := make([]string, len(m.names))
	for i, name := range m.names {
		labels[len(labels)-1-i] = name
	}

	if len(m.names) == 0 {
		// Suites without items have no bars to draw.
		p.X.Min = 0
		return p, nil
	}
	for j, suite := range m.suites {
		vals := make(plotter.Values, len(m.names))
		for i := range m.names {
			// Missing items are drawn as empty bars.
			if it := m.cells[i][j]; it != nil {
				vals[len(vals)-1-i] = float64(it.AverageNS)
			}
		}
		bars, err := plotter.NewBarChart(vals, barWidth)
		if err != nil {
			return nil, fmt.Errorf("suite %s: %v", suite, err)
		}
		c := chartColors[j%len(chartColors)]
		bars.Horizontal = true
		bars.Color = c.fill
		bars.LineStyle = draw.LineStyle{Color: c.border, Width: vg.Points(1)}
		bars.Offset = barWidth * vg.Length(float64(j)-float64(len(m.suites)-1)/2)
		p.Add(bars)
		p.Legend.Add(suite, bars)
	}
	if len(labels) > 0 {
		p.NominalY(labels...)
	}
	p.X.Min = 0
	return p, nil
}

// chartSize returns the drawing size for a chart of m.
func chartSize(m *matrix) (width, height vg.Length) {
	group := vg.Length(len(m.suites)+1) * barWidth
	height = vg.Length(len(m.names))*group + 2*vg.Inch
	if height < 4*vg.Inch {
		height = 4 * vg.Inch
	}
	return 10 * vg.Inch, height
}

// chart serves the run as a bar chart. The format query parameter
// selects svg (the default), png or pdf.
func (a *App) chart(w http.ResponseWriter, r *http.Request) {
	if !readOnly(w, r) {
		return
	}
	format := r.FormValue("format")
	if format == "" {
		format = "svg"
	}
	contentType, ok := chartTypes[format]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown chart format %q", format), http.StatusBadRequest)
		return
	}

	run, err := a.loadRun(r.Context())
	if err != nil {
		a.loadError(w, r, err)
		return
	}
	p, err := newChart(run)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	width, height := chartSize(newMatrix(run))
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a.Metrics.ObserveRun(len(run.Suites), run.NumItems())
	w.Header().Set("Content-Type", contentType)
	w.Write(buf.Bytes())
}
