/*
Copyright (C) 2023-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package cache

import (
	"sync"

	"github.com/dc0d/onexit"
)

// SharedPoolName is the literal registry key for the global shared cache
// (the CacheShared disposition).
const SharedPoolName = "Shared"

// Registry is the process-wide mutable mapping from cache name (a column
// name, or SharedPoolName) to a reference-counted native cache handle.
// Lock scope is narrow by design: one lookup/insert per column, never
// held across a provisioning decision for more than that.
type Registry struct {
	mu     sync.Mutex
	caches map[string]*NativeCache
}

// NewRegistry creates an empty registry. Call RegisterShutdown once at DB
// open to have it torn down automatically at process exit, the same way
// storage.InitSettings registers its trace-file close with onexit
// (storage/settings.go).
func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]*NativeCache)}
}

// RegisterShutdown arranges for every cache still held by the registry to
// be released when the process exits, since teardown releases it along
// with the DB.
func (r *Registry) RegisterShutdown() {
	onexit.Register(func() { r.Close() })
}

// Close releases every cache currently in the registry. Call this when
// the DB closes, not at column-open time.
func (r *Registry) Close() {
	r.mu.Lock()
	caches := make([]*NativeCache, 0, len(r.caches))
	for _, c := range r.caches {
		caches = append(caches, c)
	}
	r.caches = make(map[string]*NativeCache)
	r.mu.Unlock()

	for _, c := range caches {
		c.Release()
	}
}

// lookup returns the cache registered under name, if any.
func (r *Registry) lookup(name string) (*NativeCache, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caches[name]
	return c, ok
}

// register inserts a newly created cache under name. It is the caller's
// job to only do this once per name (the Provision ordering contract).
func (r *Registry) register(name string, c *NativeCache) {
	r.mu.Lock()
	r.caches[name] = c
	r.mu.Unlock()
}

// MustShared returns the global shared cache, panicking if it doesn't
// exist: it must already be present as a precondition of DB open.
func (r *Registry) MustShared() *NativeCache {
	c, ok := r.lookup(SharedPoolName)
	if !ok {
		panic("cache: shared cache must already exist")
	}
	return c
}

// InitShared creates and registers the global shared cache. Call this
// once at DB open, before provisioning any column whose disposition is
// CacheShared.
func (r *Registry) InitShared(capacityBytes int64, shardBits uint8) *NativeCache {
	c := NewNativeCache(SharedPoolName, capacityBytes, shardBits)
	r.register(SharedPoolName, c)
	return c
}

// CacheHandle is the interface engine.Configure expects for a column's
// block cache. Defined here (rather than asserted structurally against
// engine.CacheHandle) only to document the contract; *NativeCache
// satisfies it directly.
type CacheHandle interface {
	Capacity() int64
	ShardBits() uint8
	Name() string
}

// AsHandle converts a possibly-nil *NativeCache into an interface value
// that is itself nil when c is nil. Passing c directly to a function
// expecting an interface parameter would instead produce a non-nil
// interface wrapping a nil pointer, making engine.Configure's "cache !=
// nil" check see a cache that isn't really there.
func AsHandle(c *NativeCache) CacheHandle {
	if c == nil {
		return nil
	}
	return c
}
