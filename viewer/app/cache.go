// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"sync"

	"github.com/cryptobench/benchviewer/benchlog"
)

// MemCache is an in-memory Cache holding a bounded number of runs.
// When full, the oldest entry is evicted. It's safe for concurrent
// use by multiple goroutines.
type MemCache struct {
	max int

	mu      sync.Mutex
	entries map[string]*benchlog.Run
	order   []string // keys, oldest first
}

// NewMemCache returns a MemCache holding at most max runs.
func NewMemCache(max int) *MemCache {
	if max < 1 {
		panic("MemCache size must be positive")
	}
	return &MemCache{max: max, entries: make(map[string]*benchlog.Run)}
}

// Lookup returns a copy of the run stored for content.
func (c *MemCache) Lookup(ctx context.Context, content []byte) (*benchlog.Run, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	run, ok := c.entries[string(content)]
	if !ok {
		return nil, false, nil
	}
	return run.Clone(), true, nil
}

// Store records a copy of run under content.
func (c *MemCache) Store(ctx context.Context, content []byte, run *benchlog.Run) error {
	key := string(content)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		if len(c.order) == c.max {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = run.Clone()
	return nil
}

// Len returns the number of cached runs.
func (c *MemCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
