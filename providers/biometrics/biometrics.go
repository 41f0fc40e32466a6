// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

// Package biometrics implements the biometric data provider. Readings
// come from an injectable SnapshotSource so the engine is decoupled from
// whichever wearable bridge feeds it; the default source synthesizes a
// resting baseline.
package biometrics

import (
	"context"
	"math"
	"time"

	"kasper/engine/providers/base"
	"kasper/engine/shared/types"
)

// Snapshot is one biometric reading.
type Snapshot struct {
	HeartRate   float64   `json:"heart_rate"`
	HRV         float64   `json:"hrv"`
	RestingRate float64   `json:"resting_rate"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// SnapshotSource supplies readings. Implementations may block on device
// or network I/O and must honor ctx cancellation.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// maxSnapshotAge is how stale a reading may be before the provider
// reports unavailable rather than serve misleading state.
const maxSnapshotAge = 10 * time.Minute

// Provider maps biometric readings to guidance-ready descriptors.
type Provider struct {
	source SnapshotSource
	now    func() time.Time
}

// New creates the provider with the synthetic baseline source.
func New() *Provider {
	return NewWithSource(baselineSource{})
}

// NewWithSource creates the provider over a caller-supplied source.
func NewWithSource(source SnapshotSource) *Provider {
	return &Provider{source: source, now: time.Now}
}

// ID implements base.Provider.
func (p *Provider) ID() string { return types.ProviderBiometrics }

// IsAvailable implements base.Provider: a source that yields a fresh
// reading without error.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	snap, err := p.source.Snapshot(ctx)
	if err != nil || snap == nil {
		return false
	}
	return p.now().Sub(snap.RecordedAt) <= maxSnapshotAge
}

// ProvideContext implements base.Provider.
func (p *Provider) ProvideContext(ctx context.Context, feature types.Feature) (*base.ProviderContext, error) {
	snap, err := p.source.Snapshot(ctx)
	if err != nil {
		return nil, base.NewProviderError(types.ProviderBiometrics, "snapshot", "reading failed", err)
	}
	if snap == nil || p.now().Sub(snap.RecordedAt) > maxSnapshotAge {
		return nil, &base.UnavailableError{Name: types.ProviderBiometrics}
	}

	state := classify(snap)
	return base.NewProviderContext(types.ProviderBiometrics, feature, map[string]interface{}{
		"heartRate":  snap.HeartRate,
		"hrv":        snap.HRV,
		"state":      state.name,
		"mood":       state.mood,
		"suggestion": state.suggestion,
	}), nil
}

// ClearCache implements base.Provider. The provider holds no cache.
func (p *Provider) ClearCache(_ context.Context) {}

type bodyState struct {
	name       string
	mood       string
	suggestion string
}

// classify buckets a reading into a named state. Elevation over resting
// rate dominates; HRV breaks the tie between strain and excitement.
func classify(snap *Snapshot) bodyState {
	elevation := snap.HeartRate - snap.RestingRate
	switch {
	case elevation > 20 && snap.HRV < 30:
		return bodyState{
			name:       "strained",
			mood:       "a charged restless undercurrent",
			suggestion: "seek three slow breaths before deciding anything",
		}
	case elevation > 20:
		return bodyState{
			name:       "activated",
			mood:       "bright activated energy",
			suggestion: "align this momentum with one thing that matters",
		}
	case snap.HRV > 60:
		return bodyState{
			name:       "restored",
			mood:       "settled open-hearted calm",
			suggestion: "trust this steadiness and start the harder task",
		}
	default:
		return bodyState{
			name:       "steady",
			mood:       "even grounded energy",
			suggestion: "honor your current pace without forcing more",
		}
	}
}

// baselineSource synthesizes a plausible resting reading with a slow
// sinusoidal drift so repeated calls are not constant.
type baselineSource struct{}

func (baselineSource) Snapshot(_ context.Context) (*Snapshot, error) {
	now := time.Now()
	drift := math.Sin(float64(now.Unix()%3600) / 3600 * 2 * math.Pi)
	return &Snapshot{
		HeartRate:   64 + 4*drift,
		HRV:         55 + 10*drift,
		RestingRate: 62,
		RecordedAt:  now,
	}, nil
}
