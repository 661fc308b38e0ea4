// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// benchlog parses cargo bench logs and writes the results to stdout,
// as JSON, as YAML or in a normalized form of the log format. If no
// inputs are provided, it reads from stdin.
//
// Usage:
//
//	benchlog [flags] [inputs...]
//
// Each input produces one JSON or YAML document. Parsing stops at the first
// line that cannot be understood.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/cryptobench/benchviewer/benchlog"
)

func main() {
	log.SetPrefix("benchlog: ")
	log.SetFlags(0)

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(stdout, stderr io.Writer, args []string) error {
	flags := pflag.NewFlagSet("benchlog", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	format := flags.String("format", "json", "output `format` (json, yaml or text)")
	indent := flags.Bool("indent", false, "indent JSON output")
	flags.Usage = func() {
		fmt.Fprintf(stderr, `Usage: benchlog [flags] [inputs...]

benchlog parses cargo bench logs and writes the results to stdout.
If no inputs are provided, it reads from stdin.

`)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	var write func(*benchlog.Run) error
	flush := func() error { return nil }
	switch *format {
	case "json":
		enc := json.NewEncoder(stdout)
		if *indent {
			enc.SetIndent("", "  ")
		}
		write = func(run *benchlog.Run) error { return enc.Encode(run) }
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		write = func(run *benchlog.Run) error { return enc.Encode(run) }
		flush = enc.Close
	case "text":
		w := benchlog.NewWriter(stdout)
		write = w.Write
	default:
		return fmt.Errorf("unknown format %q", *format)
	}

	files := benchlog.Files{Paths: flags.Args(), AllowStdin: true}
	for files.Scan() {
		if err := write(files.Run()); err != nil {
			return fmt.Errorf("writing output: %v", err)
		}
	}
	if err := files.Err(); err != nil {
		return err
	}
	return flush()
}
