// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db stores parsed benchmark runs in a SQL database so that
// unchanged logs are not parsed again.
package db

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/cryptobench/benchviewer/benchlog"
)

// DB is a cache of parsed runs backed by a SQL database. It's safe
// for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	lookup *sql.Stmt
	insert *sql.Stmt
	count  *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to limit the connection pool.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS ParsedLogs (
	Digest CHAR(64) NOT NULL PRIMARY KEY,
	Content {{if .sqlite3}}BLOB{{else}}LONGBLOB{{end}} NOT NULL,
	Run {{if .sqlite3}}BLOB{{else}}LONGBLOB{{end}} NOT NULL,
	Stored BIGINT NOT NULL
);
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.lookup, err = db.sql.Prepare("SELECT Content, Run FROM ParsedLogs WHERE Digest = ?")
	if err != nil {
		return err
	}
	// REPLACE is understood by both MySQL and SQLite.
	db.insert, err = db.sql.Prepare("REPLACE INTO ParsedLogs(Digest, Content, Run, Stored) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.count, err = db.sql.Prepare("SELECT COUNT(*) FROM ParsedLogs")
	if err != nil {
		return err
	}
	return nil
}

// now is overridden by tests.
var now = time.Now

// digest returns the primary key for content.
func digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the run previously stored for exactly content.
// The boolean result reports whether one was found.
func (db *DB) Lookup(ctx context.Context, content []byte) (*benchlog.Run, bool, error) {
	var stored, runJSON []byte
	err := db.lookup.QueryRowContext(ctx, digest(content)).Scan(&stored, &runJSON)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	// The digest only selects the row; the content is the key.
	if !bytes.Equal(stored, content) {
		return nil, false, nil
	}
	run := new(benchlog.Run)
	if err := json.Unmarshal(runJSON, run); err != nil {
		return nil, false, fmt.Errorf("decoding cached run: %v", err)
	}
	return run, true, nil
}

// Store records run as the result of parsing content, replacing any
// previous entry for the same content.
func (db *DB) Store(ctx context.Context, content []byte, run *benchlog.Run) error {
	runJSON, err := json.Marshal(run)
	if err != nil {
		return err
	}
	if content == nil {
		content = []byte{}
	}
	_, err = db.insert.ExecContext(ctx, digest(content), content, runJSON, now().Unix())
	return err
}

// CountEntries returns the number of cached runs.
func (db *DB) CountEntries(ctx context.Context) (int, error) {
	var n int
	err := db.count.QueryRowContext(ctx).Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.lookup, db.insert, db.count} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
