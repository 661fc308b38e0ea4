// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"bytes"
	"net/http"

	"github.com/google/safehtml/template"

	"github.com/cryptobench/benchviewer/benchlog"
)

const tableHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Benchmark results</title>
</head>
<body>
<p>Architecture: {{.Architecture}}</p>
<table border="1">
<tr><th>Benchmark</th>{{range .Suites}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr><td>{{.Name}}</td>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</body>
</html>
`

var tableTmpl = template.Must(template.New("table").Parse(tableHTML))

type tableRow struct {
	Name  string
	Cells []string
}

type tableData struct {
	Architecture string
	Suites       []string
	Rows         []tableRow
}

func newTableData(run *benchlog.Run) *tableData {
	m := newMatrix(run)
	d := &tableData{Architecture: run.Architecture, Suites: m.suites}
	for i, name := range m.names {
		row := tableRow{Name: name}
		for _, it := range m.cells[i] {
			row.Cells = append(row.Cells, formatItem(it))
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}

// table serves the run as an HTML table of items by suites.
func (a *App) table(w http.ResponseWriter, r *http.Request) {
	if !readOnly(w, r) {
		return
	}
	run, err := a.loadRun(r.Context())
	if err != nil {
		a.loadError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := tableTmpl.Execute(&buf, newTableData(run)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a.Metrics.ObserveRun(len(run.Suites), run.NumItems())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
