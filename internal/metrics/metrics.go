// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics defines the server's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Parse outcomes.
const (
	ParseOK          = "ok"
	ParseSourceError = "source_error"
	ParseError       = "parse_error"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics is the set of metrics exported by the viewer.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	Requests      *prometheus.CounterVec
	Parses        *prometheus.CounterVec
	ParseDuration prometheus.Histogram
	CacheLookups  *prometheus.CounterVec
	LastSuites    prometheus.Gauge
	LastItems     prometheus.Gauge
}

// New creates the metrics and registers them with a new registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "benchviewer_http_requests_total",
				Help: "HTTP requests served, by handler and status code.",
			},
			[]string{"handler", "code"},
		),
		Parses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "benchviewer_parses_total",
				Help: "Attempts to produce a run from the benchmark log, by outcome.",
			},
			[]string{"outcome"},
		),
		ParseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "benchviewer_parse_duration_seconds",
				Help:    "Time spent parsing the benchmark log.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "benchviewer_cache_lookups_total",
				Help: "Parsed-run cache lookups, by result.",
			},
			[]string{"result"},
		),
		LastSuites: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "benchviewer_last_run_suites",
				Help: "Number of suites in the most recently served run.",
			},
		),
		LastItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "benchviewer_last_run_items",
				Help: "Number of items in the most recently served run.",
			},
		),
	}
	reg.MustRegister(m.Requests, m.Parses, m.ParseDuration, m.CacheLookups, m.LastSuites, m.LastItems)
	reg.MustRegister(collectors.NewGoCollector())
	return m
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveParse records one attempt to produce a run.
func (m *Metrics) ObserveParse(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Parses.WithLabelValues(outcome).Inc()
	if outcome != ParseSourceError {
		m.ParseDuration.Observe(d.Seconds())
	}
}

// ObserveCache records one cache lookup.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveRun records the size of a run that was served.
func (m *Metrics) ObserveRun(suites, items int) {
	if m == nil {
		return
	}
	m.LastSuites.Set(float64(suites))
	m.LastItems.Set(float64(items))
}

// Instrument counts the responses h sends under the given handler
// name.
func (m *Metrics) Instrument(name string, h http.Handler) http.Handler {
	if m == nil {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw := &codeWriter{ResponseWriter: w, code: http.StatusOK}
		h.ServeHTTP(cw, r)
		m.Requests.WithLabelValues(name, strconv.Itoa(cw.code)).Inc()
	})
}

type codeWriter struct {
	http.ResponseWriter
	code        int
	wroteHeader bool
}

func (w *codeWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.code = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}
