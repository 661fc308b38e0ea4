// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// GCS reads the log from an object in Google Cloud Storage.
type GCS struct {
	Bucket string
	Object string

	client *storage.Client
}

// GCSOptions configures NewGCS. The zero value uses Application
// Default Credentials.
type GCSOptions struct {
	// TokenSource, if non-nil, authenticates requests.
	TokenSource oauth2.TokenSource
	// CredentialsFile, if set, names a service account key file.
	CredentialsFile string
	// ClientOptions are passed through to storage.NewClient.
	ClientOptions []option.ClientOption
}

// NewGCS returns a Source reading gs://bucket/object.
func NewGCS(ctx context.Context, bucket, object string, opts GCSOptions) (*GCS, error) {
	if bucket == "" || object == "" {
		return nil, errors.New("source: GCS bucket and object are required")
	}
	copts := append([]option.ClientOption(nil), opts.ClientOptions...)
	if opts.TokenSource != nil {
		copts = append(copts, option.WithTokenSource(opts.TokenSource))
	}
	if opts.CredentialsFile != "" {
		copts = append(copts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, copts...)
	if err != nil {
		return nil, fmt.Errorf("source: creating storage client: %w", err)
	}
	return &GCS{Bucket: bucket, Object: object, client: client}, nil
}

func (g *GCS) Name() string {
	return "gs://" + g.Bucket + "/" + g.Object
}

func (g *GCS) ReadLog(ctx context.Context) ([]byte, error) {
	r, err := g.client.Bucket(g.Bucket).Object(g.Object).NewReader(ctx)
	if err != nil {
		return nil, &Error{g.Name(), OpOpen, err}
	}
	defer r.Close()
	data, err := readAll(ctx, r, r.Attrs.Size)
	if err != nil {
		return nil, &Error{g.Name(), OpRead, err}
	}
	return data, nil
}

// Close releases the underlying storage client.
func (g *GCS) Close() error {
	return g.client.Close()
}
