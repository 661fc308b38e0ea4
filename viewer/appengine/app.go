// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package appengine contains an AppEngine app for the benchmark viewer.
package appengine

import (
	"fmt"
	"log"
	"net/http"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"google.golang.org/appengine"
	aelog "google.golang.org/appengine/log"

	"github.com/cryptobench/benchviewer/source"
	"github.com/cryptobench/benchviewer/viewer/app"
	"github.com/cryptobench/benchviewer/viewer/db"
)

// cloudSQLDSN returns the MySQL data source name for a Cloud SQL
// database reached through the App Engine socket.
func cloudSQLDSN(user, password, connectionName, dbName string) string {
	return fmt.Sprintf("%s:%s@cloudsql(%s)/%s", user, password, connectionName, dbName)
}

// connectDB returns a DB initialized from the environment variables set in app.yaml. CLOUDSQL_CONNECTION_NAME, CLOUDSQL_USER, and CLOUDSQL_DATABASE must be set to point to the Cloud SQL instance. CLOUDSQL_PASSWORD can be set if needed.
func connectDB() (*db.DB, error) {
	var (
		connectionName = mustGetenv("CLOUDSQL_CONNECTION_NAME")
		user           = mustGetenv("CLOUDSQL_USER")
		password       = os.Getenv("CLOUDSQL_PASSWORD") // NOTE: password may be empty
		dbName         = mustGetenv("CLOUDSQL_DATABASE")
	)

	return db.OpenSQL("mysql", cloudSQLDSN(user, password, connectionName, dbName))
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Panicf("%s environment variable not set.", k)
	}
	return v
}

var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// appHandler is the default handler, registered to serve "/".
// It creates a new App instance using the appengine Context and then
// dispatches the request to the App. The environment variables
// GCS_BUCKET and GCS_OBJECT must be set in app.yaml to the location
// of the benchmark log.
func appHandler(w http.ResponseWriter, r *http.Request) {
	ctx := appengine.NewContext(r)
	// GCS clients need to be constructed with an AppEngine
	// context, so we can't actually make the App until the
	// request comes in.
	db, err := connectDB()
	if err != nil {
		aelog.Errorf(ctx, "connectDB: %v", err)
		http.Error(w, err.Error(), 500)
		return
	}
	defer db.Close()

	src, err := source.NewGCS(ctx, mustGetenv("GCS_BUCKET"), mustGetenv("GCS_OBJECT"), source.GCSOptions{})
	if err != nil {
		aelog.Errorf(ctx, "source.NewGCS: %v", err)
		http.Error(w, err.Error(), 500)
		return
	}
	defer src.Close()

	mux := http.NewServeMux()
	app := &app.App{Source: src, Cache: db, Log: &logger}
	app.RegisterOnMux(mux)
	mux.ServeHTTP(w, r.WithContext(ctx))
}

func init() {
	http.HandleFunc("/", appHandler)
}
