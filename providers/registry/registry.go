// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

// Package registry manages provider instances keyed by identifier.
// It is thread-safe for concurrent access.
package registry

import (
	"context"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"kasper/engine/providers/base"
)

// Registry holds the registered providers. Registering a provider under an
// identifier that is already taken replaces the earlier registration.
type Registry struct {
	providers map[string]base.Provider
	logger    *log.Logger
	mu        sync.RWMutex

	// Cached availability results from the last sweep.
	available   map[string]bool
	availableMu sync.RWMutex
}

// New creates an empty provider registry.
func New() *Registry {
	return &Registry{
		providers: make(map[string]base.Provider),
		available: make(map[string]bool),
		logger:    log.New(os.Stdout, "[PROVIDER_REGISTRY] ", log.LstdFlags),
	}
}

// Register adds a provider. A later registration with the same identifier
// replaces the earlier one.
func (r *Registry) Register(p base.Provider) {
	if p == nil {
		return
	}

	r.mu.Lock()
	_, replaced := r.providers[p.ID()]
	r.providers[p.ID()] = p
	r.mu.Unlock()

	if replaced {
		r.logger.Printf("Replaced provider: %s", p.ID())
	} else {
		r.logger.Printf("Registered provider: %s", p.ID())
	}
}

// Get retrieves a provider by identifier.
func (r *Registry) Get(id string) (base.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	return p, ok
}

// Has returns true if a provider is registered under the identifier.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[id]
	return ok
}

// List returns all registered provider identifiers, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered providers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

// Snapshot returns a copy of the identifier-to-provider map. Callers get a
// stable view while the registry keeps taking registrations.
func (r *Registry) Snapshot() map[string]base.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]base.Provider, len(r.providers))
	for id, p := range r.providers {
		out[id] = p
	}
	return out
}

// ClearCaches calls ClearCache on every registered provider. Best effort.
func (r *Registry) ClearCaches(ctx context.Context) {
	for id, p := range r.Snapshot() {
		p.ClearCache(ctx)
		r.logger.Printf("Cleared provider cache: %s", id)
	}
}

// CheckAvailability probes every registered provider and caches the
// results for AvailableProviders.
func (r *Registry) CheckAvailability(ctx context.Context) map[string]bool {
	providers := r.Snapshot()

	results := make(map[string]bool, len(providers))
	for id, p := range providers {
		results[id] = p.IsAvailable(ctx)
	}

	r.availableMu.Lock()
	for id, ok := range results {
		r.available[id] = ok
	}
	r.availableMu.Unlock()

	return results
}

// LastAvailability returns the cached availability for a provider and
// whether it has ever been probed.
func (r *Registry) LastAvailability(id string) (bool, bool) {
	r.availableMu.RLock()
	defer r.availableMu.RUnlock()
	ok, probed := r.available[id]
	return ok, probed
}

// StartPeriodicAvailabilityCheck starts a background goroutine that probes
// providers on the given interval until the context is cancelled.
func (r *Registry) StartPeriodicAvailabilityCheck(ctx context.Context, interval time.Duration) {
	r.logger.Printf("Starting periodic availability check (every %v)", interval)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.logger.Println("Stopping periodic availability check")
				return
			case <-ticker.C:
				results := r.CheckAvailability(ctx)
				unavailable := 0
				for _, ok := range results {
					if !ok {
						unavailable++
					}
				}
				if unavailable > 0 {
					r.logger.Printf("Availability check: %d of %d providers unavailable", unavailable, len(results))
				}
			}
		}
	}()
}
