// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package engine

import (
	"context"
	"errors"
	"testing"

	"kasper/engine/providers/base"
	"kasper/engine/providers/registry"
	"kasper/engine/shared/types"
)

// scriptedProvider returns fixed data or a fixed error.
type scriptedProvider struct {
	id   string
	data map[string]interface{}
	err  error
}

func (p *scriptedProvider) ID() string { return p.id }

func (p *scriptedProvider) IsAvailable(_ context.Context) bool { return p.err == nil }

func (p *scriptedProvider) ClearCache(_ context.Context) {}

func (p *scriptedProvider) ProvideContext(_ context.Context, feature types.Feature) (*base.ProviderContext, error) {
	if p.err != nil {
		return nil, p.err
	}
	return base.NewProviderContext(p.id, feature, p.data), nil
}

func aggregatorWith(providers ...base.Provider) *ContextAggregator {
	reg := registry.New()
	for _, p := range providers {
		reg.Register(p)
	}
	return NewContextAggregator(reg, nil)
}

func TestAggregateCollectsAll(t *testing.T) {
	agg := aggregatorWith(
		&scriptedProvider{id: types.ProviderNumerology, data: map[string]interface{}{"focusNumber": 7}},
		&scriptedProvider{id: types.ProviderCosmic, data: map[string]interface{}{"energy": "tidal"}},
	)

	req := &InsightRequest{ID: "r1", Feature: types.FeatureDailyCard, Kind: types.KindGuidance}
	contexts, err := agg.Aggregate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contexts) != 2 {
		t.Fatalf("got %d contexts, want 2", len(contexts))
	}
}

func TestAggregateToleratesPartialFailure(t *testing.T) {
	agg := aggregatorWith(
		&scriptedProvider{id: types.ProviderNumerology, data: map[string]interface{}{"focusNumber": 7}},
		&scriptedProvider{id: types.ProviderCosmic, err: errors.New("ephemeris offline")},
		&scriptedProvider{id: types.ProviderBiometrics, data: map[string]interface{}{"mood": "steady"}},
	)

	req := &InsightRequest{ID: "r2", Feature: types.FeatureSanctumGuidance, Kind: types.KindGuidance}
	contexts, err := agg.Aggregate(context.Background(), req)
	if err != nil {
		t.Fatalf("partial failure must not fail aggregation: %v", err)
	}
	if len(contexts) != 2 {
		t.Fatalf("got %d contexts, want 2", len(contexts))
	}
	for _, pc := range contexts {
		if pc.ProviderID == types.ProviderCosmic {
			t.Error("failed provider's context was included")
		}
	}
}

func TestAggregateAllFailed(t *testing.T) {
	agg := aggregatorWith(
		&scriptedProvider{id: types.ProviderNumerology, err: errors.New("down")},
		&scriptedProvider{id: types.ProviderCosmic, err: errors.New("down")},
	)

	req := &InsightRequest{ID: "r3", Feature: types.FeatureDailyCard, Kind: types.KindGuidance}
	_, err := agg.Aggregate(context.Background(), req)
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("error = %v, want insufficient_data", err)
	}
}

func TestAggregateSkipsUnregistered(t *testing.T) {
	// daily_card wants numerology and cosmic; only numerology exists.
	agg := aggregatorWith(
		&scriptedProvider{id: types.ProviderNumerology, data: map[string]interface{}{"focusNumber": 1}},
	)

	req := &InsightRequest{ID: "r4", Feature: types.FeatureDailyCard, Kind: types.KindGuidance}
	contexts, err := agg.Aggregate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contexts) != 1 || contexts[0].ProviderID != types.ProviderNumerology {
		t.Fatalf("contexts = %+v", contexts)
	}
}

func TestAggregateSkipsEmptyContexts(t *testing.T) {
	agg := aggregatorWith(
		&scriptedProvider{id: types.ProviderNumerology, data: map[string]interface{}{}},
		&scriptedProvider{id: types.ProviderCosmic, data: map[string]interface{}{"energy": "tidal"}},
	)

	req := &InsightRequest{ID: "r5", Feature: types.FeatureDailyCard, Kind: types.KindGuidance}
	contexts, err := agg.Aggregate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contexts) != 1 || contexts[0].ProviderID != types.ProviderCosmic {
		t.Fatalf("contexts = %+v", contexts)
	}
}

func TestAggregateExplicitProviderSet(t *testing.T) {
	agg := aggregatorWith(
		&scriptedProvider{id: types.ProviderNumerology, data: map[string]interface{}{"focusNumber": 7}},
		&scriptedProvider{id: types.ProviderCosmic, data: map[string]interface{}{"energy": "tidal"}},
	)

	req := &InsightRequest{
		ID:                "r6",
		Feature:           types.FeatureDailyCard,
		Kind:              types.KindGuidance,
		RequiredProviders: []string{types.ProviderCosmic},
	}
	contexts, err := agg.Aggregate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contexts) != 1 || contexts[0].ProviderID != types.ProviderCosmic {
		t.Fatalf("explicit set not honored: %+v", contexts)
	}
}

func TestRequiredProvidersDefaults(t *testing.T) {
	req := &InsightRequest{Feature: types.FeatureCosmicTiming}
	ids := requiredProviders(req)
	if len(ids) != 1 || ids[0] != types.ProviderCosmic {
		t.Errorf("defaults for cosmic_timing = %v", ids)
	}

	req.RequiredProviders = []string{types.ProviderJournal}
	ids = requiredProviders(req)
	if len(ids) != 1 || ids[0] != types.ProviderJournal {
		t.Errorf("explicit set ignored: %v", ids)
	}
}
