// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"encoding/json"
	"net/http"
)

// data serves the parsed run as JSON.
func (a *App) data(w http.ResponseWriter, r *http.Request) {
	if !readOnly(w, r) {
		return
	}
	run, err := a.loadRun(r.Context())
	if err != nil {
		a.loadError(w, r, err)
		return
	}
	body, err := json.Marshal(run)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a.Metrics.ObserveRun(len(run.Suites), run.NumItems())
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
