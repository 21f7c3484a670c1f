// Package memoize provides an expiring single-value cache cell.
package memoize

import (
	"sync"
	"time"
)

// DefaultTTL is a short expiry suited to repeated attribute reads within
// one sampling burst.
const DefaultTTL = 300 * time.Millisecond

// Cell caches the result of a compute function for a fixed time to live.
// A ttl of zero or less means the value is computed once and never expires.
// Safe for concurrent use; the compute function runs at most once per
// expiry window and a caller never observes a partially-written value.
type Cell[T any] struct {
	mu      sync.Mutex
	compute func() T
	ttl     time.Duration

	value    T
	valid    bool
	computed time.Time
}

// New creates a Cell around compute with the given ttl
func New[T any](compute func() T, ttl time.Duration) *Cell[T] {
	return &Cell[T]{compute: compute, ttl: ttl}
}

// Get returns the cached value, recomputing it first if it has never been
// computed or its ttl has elapsed
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || (c.ttl > 0 && time.Since(c.computed) >= c.ttl) {
		c.value = c.compute()
		c.computed = time.Now()
		c.valid = true
	}
	return c.value
}

// Invalidate discards the cached value; the next Get recomputes
func (c *Cell[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.valid = false
}
