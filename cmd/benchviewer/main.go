// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// benchviewer serves a cargo bench log over HTTP. The log is parsed
// on every request, so a log that is still being written is always
// shown as it currently stands.
//
// Endpoints:
//
//	/data/data.js    the parsed run as JSON
//	/data/chart.svg  a bar chart of average times (?format=svg, png or pdf)
//	/table           an HTML table of items by suites
//	/metrics         Prometheus metrics
//	/                files from --static-dir
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/net/netutil"
	"golang.org/x/oauth2"

	"github.com/cryptobench/benchviewer/internal/config"
	"github.com/cryptobench/benchviewer/internal/logging"
	"github.com/cryptobench/benchviewer/internal/metrics"
	"github.com/cryptobench/benchviewer/source"
	"github.com/cryptobench/benchviewer/viewer/app"
	"github.com/cryptobench/benchviewer/viewer/db"
	_ "github.com/cryptobench/benchviewer/viewer/db/sqlite3"
	"github.com/cryptobench/benchviewer/viewer/rediscache"
)

// shutdownTimeout bounds how long in-flight requests may take once a
// shutdown signal arrives.
const shutdownTimeout = 5 * time.Second

// runServer is replaced by tests.
var runServer = run

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"host":         "host",
	"port":         "port",
	"demo":         "demo",
	"file":         "file",
	"static-dir":   "static_dir",
	"metrics":      "metrics",
	"max-conns":    "max_conns",
	"gcs-bucket":   "gcs.bucket",
	"gcs-object":   "gcs.object",
	"gcs-creds":    "gcs.credentials",
	"cache-driver": "cache.driver",
	"cache-dsn":    "cache.dsn",
	"cache-size":   "cache.size",
	"cache-ttl":    "cache.ttl",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "benchviewer",
		Short: "Serve a cargo bench log as JSON, charts and tables",
		Long: `benchviewer reads the output of "cargo bench" from a file, a Google
Cloud Storage object or a built-in demo log, and serves the parsed
results over HTTP.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "read configuration from `file` (default ./config.yaml if present)")
	f.String("host", "127.0.0.1", "listen on `host`")
	f.IntP("port", "p", 3000, "listen on `port`")
	f.BoolP("demo", "d", false, "serve the built-in demo log")
	f.StringP("file", "f", "", "serve the log in `path`")
	f.String("static-dir", "web_root", "serve static files from `dir` at /")
	f.Bool("metrics", true, "serve Prometheus metrics at /metrics")
	f.Int("max-conns", 0, "accept at most `n` simultaneous connections (0 is unlimited)")
	f.String("gcs-bucket", "", "serve a log from Cloud Storage `bucket`")
	f.String("gcs-object", "", "name of the log `object` in --gcs-bucket")
	f.String("gcs-creds", "", "Cloud Storage credentials `file`")
	f.String("cache-driver", "memory", "cache parsed runs in `driver` (none, memory, sqlite3, mysql or redis)")
	f.String("cache-dsn", "", "data source `name` for the sqlite3 or mysql cache, or redis:// URL")
	f.Int("cache-size", 16, "number of runs kept by the memory cache")
	f.Duration("cache-ttl", 0, "lifetime of redis cache entries (0 keeps them forever)")
	f.String("log-level", "info", "log `level` (debug, info, warn or error)")
	f.String("log-format", "console", "log `format` (console or json)")
	bindFlags(v, f)
	return cmd
}

func bindFlags(v *viper.Viper, f *pflag.FlagSet) {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, f.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// run listens on cfg's address and serves until ctx is done.
func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return err
	}
	return serve(ctx, cfg, ln, out)
}

func serve(ctx context.Context, cfg *config.Config, ln net.Listener, out io.Writer) error {
	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		ln.Close()
		return err
	}

	src, closeSource, err := newSource(ctx, cfg)
	if err != nil {
		ln.Close()
		return err
	}
	defer closeSource()

	cache, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		ln.Close()
		return err
	}
	defer closeCache()

	var m *metrics.Metrics
	mux := http.NewServeMux()
	if cfg.Metrics {
		m = metrics.New()
		mux.Handle("/metrics", m.Handler())
	}
	a := &app.App{Source: src, Cache: cache, Metrics: m, Log: &log, StaticDir: cfg.StaticDir}
	a.RegisterOnMux(mux)

	if cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, cfg.MaxConns)
	}
	srv := &http.Server{Handler: logging.Middleware(log, mux)}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	log.Info().Str("source", src.Name()).Str("cache", cfg.Cache.Driver).Msg("serving")
	fmt.Fprintf(out, "View results at http://%s/\n", ln.Addr())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newSource returns the log source cfg selects and a function that
// releases it.
func newSource(ctx context.Context, cfg *config.Config) (source.Source, func() error, error) {
	nop := func() error { return nil }
	switch {
	case cfg.Demo:
		return source.Demo(), nop, nil
	case cfg.File != "":
		return &source.File{Path: cfg.File}, nop, nil
	}
	opts := source.GCSOptions{CredentialsFile: cfg.GCS.Credentials}
	if cfg.GCS.Token != "" {
		opts.TokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GCS.Token})
	}
	g, err := source.NewGCS(ctx, cfg.GCS.Bucket, cfg.GCS.Object, opts)
	if err != nil {
		return nil, nil, err
	}
	return g, g.Close, nil
}

// newCache returns the cache cfg selects, which may be nil, and a
// function that releases it.
func newCache(ctx context.Context, cfg *config.Config) (app.Cache, func() error, error) {
	nop := func() error { return nil }
	switch cfg.Cache.Driver {
	case "none":
		return nil, nop, nil
	case "memory":
		return app.NewMemCache(cfg.Cache.Size), nop, nil
	case "redis":
		c, err := rediscache.Dial(ctx, cfg.Cache.DSN, cfg.Cache.TTL)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
	d, err := db.OpenSQL(cfg.Cache.Driver, cfg.Cache.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s cache: %v", cfg.Cache.Driver, err)
	}
	return d, d.Close, nil
}
