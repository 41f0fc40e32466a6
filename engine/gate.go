// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package engine

import "sync"

// Gate defaults. The retry interval and bound govern the orchestrator's
// wait-and-reenter loop, not the gate itself: a caller that fails to
// acquire sleeps GateRetryInterval and re-enters the request path from the
// cache check, so a slot may have freed and another caller's result may
// already be cached.
const (
	DefaultMaxConcurrent  = 3
	DefaultMaxGateRetries = 50
)

// ConcurrencyGate bounds the number of simultaneous in-flight generations.
// There is no queue and no fairness guarantee; this is deliberately simple
// backpressure, not a scheduler.
type ConcurrencyGate struct {
	mu       sync.Mutex
	inFlight int
	max      int
}

// NewConcurrencyGate creates a gate admitting at most max concurrent
// generations.
func NewConcurrencyGate(max int) *ConcurrencyGate {
	if max <= 0 {
		max = DefaultMaxConcurrent
	}
	return &ConcurrencyGate{max: max}
}

// TryAcquire claims a generation slot if one is free. It never blocks.
func (g *ConcurrencyGate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight >= g.max {
		return false
	}
	g.inFlight++
	return true
}

// Release frees a slot. Must be called exactly once per successful
// TryAcquire, on every exit path.
func (g *ConcurrencyGate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight > 0 {
		g.inFlight--
	}
}

// InFlight returns the current number of claimed slots.
func (g *ConcurrencyGate) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight
}

// Max returns the configured bound.
func (g *ConcurrencyGate) Max() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.max
}
