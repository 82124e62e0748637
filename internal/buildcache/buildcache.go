// Package buildcache is an append-only concurrent cache whose entries are built once per key.
package buildcache

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache maps keys to values that are expensive to build and never change once built.
// Lookups of existing keys never block. Concurrent first lookups of the same key
// share a single build, and a stored entry is never replaced.
type Cache[K comparable, V any] struct {
	entries sync.Map
	flights singleflight.Group
	flightKey func(K) string
}

// New returns an empty cache. flightKey must render distinct keys as distinct strings,
// it is used to group concurrent builds of the same key.
func New[K comparable, V any](flightKey func(K) string) *Cache[K, V] {
	return &Cache[K, V]{flightKey: flightKey}
}

// Load returns the cached value for key, if any.
func (c *Cache[K, V]) Load(key K) (V, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Store saves value under key unless the key is already present.
// It returns the value that ends up in the cache and whether it was already there.
func (c *Cache[K, V]) Store(key K, value V) (V, bool) {
	actual, loaded := c.entries.LoadOrStore(key, value)
	return actual.(V), loaded
}

// Get returns the cached value for key, calling build to create it on a miss.
// Failed builds are not cached.
func (c *Cache[K, V]) Get(key K, build func() (V, error)) (V, error) {
	if v, ok := c.Load(key); ok {
		return v, nil
	}
	res, err, _ := c.flights.Do(c.flightKey(key), func() (interface{}, error) {
		if v, ok := c.Load(key); ok {
			return v, nil
		}
		v, err := build()
		if err != nil {
			return nil, err
		}
		actual, _ := c.Store(key, v)
		return actual, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Do runs fn once across concurrent callers that share the same key.
// It is meant for builds that populate several entries at a time.
func (c *Cache[K, V]) Do(key K, fn func() error) error {
	_, err, _ := c.flights.Do(c.flightKey(key), func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// Len reports the number of cached entries.
func (c *Cache[K, V]) Len() int {
	n := 0
	c.entries.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
