// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package types

import (
	"testing"
	"time"
)

func TestFeatureIsValid(t *testing.T) {
	for _, f := range AllFeatures {
		if !f.IsValid() {
			t.Errorf("%s reported invalid", f)
		}
	}
	if Feature("tarot").IsValid() {
		t.Error("unknown feature reported valid")
	}
	if Feature("").IsValid() {
		t.Error("empty feature reported valid")
	}
}

func TestKindIsValid(t *testing.T) {
	for _, k := range AllKinds {
		if !k.IsValid() {
			t.Errorf("%s reported invalid", k)
		}
	}
	if Kind("sermon").IsValid() {
		t.Error("unknown kind reported valid")
	}
}

func TestPriorityIsValid(t *testing.T) {
	if !PriorityImmediate.IsValid() || !PriorityNormal.IsValid() {
		t.Error("known priority reported invalid")
	}
	if Priority("whenever").IsValid() {
		t.Error("unknown priority reported valid")
	}
}

func TestDefaultProviders(t *testing.T) {
	got := DefaultProviders(FeatureSanctumGuidance)
	want := []string{ProviderNumerology, ProviderCosmic, ProviderBiometrics}
	if len(got) != len(want) {
		t.Fatalf("providers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("providers[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if DefaultProviders(Feature("tarot")) != nil {
		t.Error("unknown feature returned providers")
	}
}

func TestDefaultProvidersReturnsCopy(t *testing.T) {
	first := DefaultProviders(FeatureDailyCard)
	first[0] = "mutated"
	second := DefaultProviders(FeatureDailyCard)
	if second[0] != ProviderNumerology {
		t.Error("mutation leaked into the default set")
	}
}

func TestFeatureTTL(t *testing.T) {
	tests := []struct {
		feature Feature
		want    time.Duration
	}{
		{FeatureCosmicTiming, 60 * time.Second},
		{FeatureSanctumGuidance, 120 * time.Second},
		{FeatureDailyCard, 300 * time.Second},
		{FeatureMatchCompatibility, 3600 * time.Second},
		{Feature("tarot"), DefaultFeatureTTL},
	}
	for _, tt := range tests {
		if got := FeatureTTL(tt.feature); got != tt.want {
			t.Errorf("FeatureTTL(%s) = %v, want %v", tt.feature, got, tt.want)
		}
	}
}

func TestEveryFeatureHasProviders(t *testing.T) {
	for _, f := range AllFeatures {
		if len(DefaultProviders(f)) == 0 {
			t.Errorf("%s has no default providers", f)
		}
	}
}
