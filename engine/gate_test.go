// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGateTryAcquireRelease(t *testing.T) {
	g := NewConcurrencyGate(2)

	if !g.TryAcquire() || !g.TryAcquire() {
		t.Fatal("acquisitions under the bound failed")
	}
	if g.TryAcquire() {
		t.Fatal("acquisition over the bound succeeded")
	}
	if g.InFlight() != 2 {
		t.Errorf("InFlight = %d, want 2", g.InFlight())
	}

	g.Release()
	if !g.TryAcquire() {
		t.Error("slot not reusable after release")
	}
}

func TestGateDefaultsOnInvalidMax(t *testing.T) {
	g := NewConcurrencyGate(0)
	if g.Max() != DefaultMaxConcurrent {
		t.Errorf("Max = %d, want %d", g.Max(), DefaultMaxConcurrent)
	}
}

func TestGateReleaseNeverUnderflows(t *testing.T) {
	g := NewConcurrencyGate(1)
	g.Release()
	g.Release()

	if g.InFlight() != 0 {
		t.Errorf("InFlight = %d, want 0", g.InFlight())
	}
	if !g.TryAcquire() {
		t.Error("gate broken after spurious releases")
	}
}

func TestGateBoundsConcurrency(t *testing.T) {
	const bound = 2
	g := NewConcurrencyGate(bound)

	var peak, current int64
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if g.TryAcquire() {
					break
				}
				time.Sleep(time.Millisecond)
			}

			n := atomic.AddInt64(&current, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&current, -1)
			g.Release()
		}()
	}

	wg.Wait()

	if peak > bound {
		t.Errorf("observed %d concurrent holders, bound is %d", peak, bound)
	}
	if g.InFlight() != 0 {
		t.Errorf("InFlight = %d after drain, want 0", g.InFlight())
	}
}
