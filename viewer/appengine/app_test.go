// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package appengine

import (
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestCloudSQLDSN(t *testing.T) {
	dsn := cloudSQLDSN("viewer", "", "proj:region:inst", "bench")
	if want := "viewer:@cloudsql(proj:region:inst)/bench"; dsn != want {
		t.Errorf("cloudSQLDSN = %q, want %q", dsn, want)
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Net != "cloudsql" || cfg.Addr != "proj:region:inst" || cfg.DBName != "bench" || cfg.User != "viewer" {
		t.Errorf("ParseDSN(%q) = %+v", dsn, cfg)
	}
}

func TestMustGetenv(t *testing.T) {
	t.Setenv("BENCHVIEWER_TEST_VAR", "x")
	if got := mustGetenv("BENCHVIEWER_TEST_VAR"); got != "x" {
		t.Errorf("mustGetenv = %q, want x", got)
	}

	t.Setenv("BENCHVIEWER_TEST_VAR", "")
	defer func() {
		if recover() == nil {
			t.Errorf("mustGetenv of unset variable did not panic")
		}
	}()
	mustGetenv("BENCHVIEWER_TEST_VAR")
}
