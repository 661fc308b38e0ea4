// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app implements the benchmark viewer server. Combine an App
// with a log source to get an HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/cryptobench/benchviewer/benchlog"
	"github.com/cryptobench/benchviewer/internal/metrics"
	"github.com/cryptobench/benchviewer/source"
)

// App manages the viewer logic. Construct an App instance using a
// literal with a Source and call RegisterOnMux to connect it with an
// HTTP server.
type App struct {
	// Source supplies the log text on every request.
	Source source.Source

	// Cache, if non-nil, holds runs already parsed from identical
	// log text.
	Cache Cache

	// Metrics may be nil.
	Metrics *metrics.Metrics

	// Log is used when the request context carries no logger.
	// It may be nil.
	Log *zerolog.Logger

	// StaticDir, if set, is served at "/".
	StaticDir string
}

// A Cache maps the exact text of a log to the run parsed from it.
// Implementations must not retain or hand out runs that callers
// can mutate.
type Cache interface {
	Lookup(ctx context.Context, content []byte) (*benchlog.Run, bool, error)
	Store(ctx context.Context, content []byte, run *benchlog.Run) error
}

// RegisterOnMux registers the app's URLs on mux.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	mux.Handle("/data/data.js", a.Metrics.Instrument("data", http.HandlerFunc(a.data)))
	mux.Handle("/data/chart.svg", a.Metrics.Instrument("chart", http.HandlerFunc(a.chart)))
	mux.Handle("/table", a.Metrics.Instrument("table", http.HandlerFunc(a.table)))
	if a.StaticDir != "" {
		mux.Handle("/", a.Metrics.Instrument("static", http.FileServer(http.Dir(a.StaticDir))))
	}
}

func (a *App) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	if a.Log != nil {
		return a.Log
	}
	nop := zerolog.Nop()
	return &nop
}

// parseError reports a log that was read but could not be parsed.
type parseError struct {
	err error
}

func (e *parseError) Error() string { return e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

// loadRun reads the log and returns its run, consulting the cache
// first. Every failure is either a *source.Error or a *parseError.
func (a *App) loadRun(ctx context.Context) (*benchlog.Run, error) {
	log := a.logger(ctx)
	content, err := a.Source.ReadLog(ctx)
	if err != nil {
		a.Metrics.ObserveParse(metrics.ParseSourceError, 0)
		return nil, err
	}

	if a.Cache != nil {
		run, ok, err := a.Cache.Lookup(ctx, content)
		switch {
		case err != nil:
			a.Metrics.ObserveCache(metrics.CacheError)
			log.Warn().Err(err).Msg("cache lookup failed")
		case ok:
			a.Metrics.ObserveCache(metrics.CacheHit)
			return run, nil
		default:
			a.Metrics.ObserveCache(metrics.CacheMiss)
		}
	}

	start := time.Now()
	run, err := benchlog.ParseBytes(content, a.Source.Name())
	if err != nil {
		a.Metrics.ObserveParse(metrics.ParseError, time.Since(start))
		return nil, &parseError{err}
	}
	a.Metrics.ObserveParse(metrics.ParseOK, time.Since(start))
	log.Debug().
		Int("suites", len(run.Suites)).
		Int("items", run.NumItems()).
		Dur("elapsed", time.Since(start)).
		Msg("parsed benchmark log")

	if a.Cache != nil {
		if err := a.Cache.Store(ctx, content, run); err != nil {
			log.Warn().Err(err).Msg("cache store failed")
		}
	}
	return run, nil
}

// loadError writes the 500 response for a loadRun failure.
func (a *App) loadError(w http.ResponseWriter, r *http.Request, err error) {
	var msg string
	var srcErr *source.Error
	switch {
	case errors.As(err, &srcErr) && srcErr.Op == source.OpRead:
		msg = "Couldn't read the log file"
	case errors.Is(err, source.ErrUnavailable):
		msg = "Benchmark log file not available on the server"
	default:
		msg = "Couldn't parse the benchmark log"
	}
	a.logger(r.Context()).Error().Err(err).Msg(msg)
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), http.StatusInternalServerError)
}

// readOnly reports whether r may be served, writing a 405 if not.
func readOnly(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}
