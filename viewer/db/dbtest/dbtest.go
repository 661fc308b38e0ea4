// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest opens empty cache databases for tests.
//
// By default each database is a private in-memory SQLite database.
// With -mysql, each test instead gets a scratch schema on the named
// MySQL server, which is dropped when the test finishes. Cloud SQL
// instances are reachable through the cloudsql network, as in
//
//	go test ./viewer/db -mysql='root:@cloudsql(project:region:instance)/'
package dbtest

import (
	"context"
	"database/sql"
	"flag"
	"strings"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	"github.com/google/uuid"

	"github.com/cryptobench/benchviewer/viewer/db"
	_ "github.com/cryptobench/benchviewer/viewer/db/sqlite3"
)

var mysqlServer = flag.String("mysql", "", "run against scratch schemas on the MySQL server at this DSN (ending in /) instead of SQLite")

// scratchSchema creates an uniquely named schema on the -mysql server
// and returns a DSN for it.
func scratchSchema(t *testing.T) string {
	server := *mysqlServer
	if !strings.HasSuffix(server, "/") {
		t.Fatalf("-mysql=%q: DSN must end in / and name no database", server)
	}
	admin, err := sql.Open("mysql", server)
	if err != nil {
		t.Fatal(err)
	}
	schema := "benchviewer_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	if _, err := admin.Exec("CREATE DATABASE `" + schema + "`"); err != nil {
		admin.Close()
		t.Fatalf("creating scratch schema: %v", err)
	}
	t.Logf("scratch schema %s", schema)
	t.Cleanup(func() {
		defer admin.Close()
		if _, err := admin.Exec("DROP DATABASE `" + schema + "`"); err != nil {
			t.Errorf("dropping scratch schema: %v", err)
		}
	})
	return server + schema
}

// NewDB opens an empty cache database for t. It is closed when t and
// its subtests finish.
func NewDB(t *testing.T) *db.DB {
	t.Helper()
	driver, dsn := "sqlite3", ":memory:"
	if *mysqlServer != "" {
		driver, dsn = "mysql", scratchSchema(t)
	}
	d, err := db.OpenSQL(driver, dsn)
	if err != nil {
		t.Fatalf("opening %s cache: %v", driver, err)
	}
	// Registered after scratchSchema's cleanup, so it runs first.
	t.Cleanup(func() { d.Close() })

	n, err := d.CountEntries(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("new %s cache holds %d entries, want 0", driver, n)
	}
	return d
}
