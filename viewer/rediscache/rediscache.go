// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rediscache stores parsed benchmark runs in Redis, so that
// several viewer processes can share one cache.
package rediscache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cryptobench/benchviewer/benchlog"
)

// KeyPrefix is prepended to every key the cache writes.
const KeyPrefix = "benchviewer:run:"

// Hash fields of a cache entry.
const (
	fieldContent = "content"
	fieldRun     = "run"
)

// A Cache is a run cache backed by a Redis server. It's safe for
// concurrent use by multiple goroutines.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Dial connects to the Redis server at url, such as
// "redis://localhost:6379/0", and checks that it answers. Entries
// expire after ttl, or never if ttl is zero.
func Dial(ctx context.Context, url string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("rediscache: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("rediscache: ping %s: %w", opts.Addr, err)
	}
	return New(rdb, ttl), nil
}

// New returns a Cache using an existing client.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Key returns the Redis key for content.
func Key(content []byte) string {
	sum := sha256.Sum256(content)
	return KeyPrefix + hex.EncodeToString(sum[:])
}

// Lookup returns the run stored for exactly content.
func (c *Cache) Lookup(ctx context.Context, content []byte) (*benchlog.Run, bool, error) {
	vals, err := c.rdb.HMGet(ctx, Key(content), fieldContent, fieldRun).Result()
	if err != nil {
		return nil, false, err
	}
	stored, ok1 := vals[0].(string)
	runJSON, ok2 := vals[1].(string)
	if !ok1 || !ok2 {
		return nil, false, nil
	}
	// The digest only selects the entry; the content is the key.
	if !bytes.Equal([]byte(stored), content) {
		return nil, false, nil
	}
	run := new(benchlog.Run)
	if err := json.Unmarshal([]byte(runJSON), run); err != nil {
		return nil, false, fmt.Errorf("decoding cached run: %v", err)
	}
	return run, true, nil
}

// Store records run as the result of parsing content.
func (c *Cache) Store(ctx context.Context, content []byte, run *benchlog.Run) error {
	runJSON, err := json.Marshal(run)
	if err != nil {
		return err
	}
	key := Key(content)
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldContent, content, fieldRun, runJSON)
		if c.ttl > 0 {
			pipe.Expire(ctx, key, c.ttl)
		}
		return nil
	})
	return err
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	err := c.rdb.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}
