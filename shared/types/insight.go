// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

// Package types provides shared type definitions used across KASPER engine
// components. This file defines the guidance feature and output kind enums
// plus the fixed per-feature configuration data (default provider sets and
// cache TTLs).
package types

import "time"

// Feature represents a named guidance domain. The feature determines which
// providers are consulted by default, the cache TTL, and the template set.
type Feature string

const (
	FeatureJournalInsight      Feature = "journal_insight"
	FeatureDailyCard           Feature = "daily_card"
	FeatureSanctumGuidance     Feature = "sanctum_guidance"
	FeatureFocusIntention      Feature = "focus_intention"
	FeatureCosmicTiming        Feature = "cosmic_timing"
	FeatureMatchCompatibility  Feature = "match_compatibility"
	FeatureRealmInterpretation Feature = "realm_interpretation"
)

// AllFeatures lists every known feature in a stable order.
var AllFeatures = []Feature{
	FeatureJournalInsight,
	FeatureDailyCard,
	FeatureSanctumGuidance,
	FeatureFocusIntention,
	FeatureCosmicTiming,
	FeatureMatchCompatibility,
	FeatureRealmInterpretation,
}

// String returns the string representation of the Feature
func (f Feature) String() string {
	return string(f)
}

// IsValid returns true if the Feature is a valid known value
func (f Feature) IsValid() bool {
	for _, known := range AllFeatures {
		if f == known {
			return true
		}
	}
	return false
}

// Kind represents the rhetorical mode of the generated output.
type Kind string

const (
	KindGuidance    Kind = "guidance"
	KindReflection  Kind = "reflection"
	KindAffirmation Kind = "affirmation"
	KindPrediction  Kind = "prediction"
)

// AllKinds lists every known kind in a stable order.
var AllKinds = []Kind{KindGuidance, KindReflection, KindAffirmation, KindPrediction}

// String returns the string representation of the Kind
func (k Kind) String() string {
	return string(k)
}

// IsValid returns true if the Kind is a valid known value
func (k Kind) IsValid() bool {
	switch k {
	case KindGuidance, KindReflection, KindAffirmation, KindPrediction:
		return true
	default:
		return false
	}
}

// Priority controls scheduling preference for a request.
type Priority string

const (
	PriorityImmediate Priority = "immediate"
	PriorityNormal    Priority = "normal"
)

// IsValid returns true if the Priority is a valid known value
func (p Priority) IsValid() bool {
	return p == PriorityImmediate || p == PriorityNormal
}

// Depth controls how elaborate the generated text should be.
type Depth string

const (
	DepthSurface  Depth = "surface"
	DepthBalanced Depth = "balanced"
	DepthDeep     Depth = "deep"
)

// Provider identifiers for the fixed set of known data sources.
const (
	ProviderNumerology = "numerology"
	ProviderCosmic     = "cosmic"
	ProviderBiometrics = "biometrics"
	ProviderJournal    = "journal"
	ProviderMegaCorpus = "megacorpus"
)

// defaultProviderSets maps each feature to the provider identifiers it
// consults when a request does not name an explicit set. This is fixed
// configuration data, not logic.
var defaultProviderSets = map[Feature][]string{
	FeatureJournalInsight:      {ProviderNumerology, ProviderJournal},
	FeatureDailyCard:           {ProviderNumerology, ProviderCosmic},
	FeatureSanctumGuidance:     {ProviderNumerology, ProviderCosmic, ProviderBiometrics},
	FeatureFocusIntention:      {ProviderNumerology, ProviderCosmic},
	FeatureCosmicTiming:        {ProviderCosmic},
	FeatureMatchCompatibility:  {ProviderNumerology},
	FeatureRealmInterpretation: {ProviderNumerology, ProviderBiometrics},
}

// DefaultProviders returns the default provider identifiers for a feature.
// The returned slice is a copy; callers may mutate it freely.
func DefaultProviders(f Feature) []string {
	ids, ok := defaultProviderSets[f]
	if !ok {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// featureTTLs maps each feature to its cache time-to-live. Real-time
// features tolerate only seconds of staleness; slow-moving features cache
// for up to an hour.
var featureTTLs = map[Feature]time.Duration{
	FeatureCosmicTiming:        60 * time.Second,
	FeatureSanctumGuidance:     120 * time.Second,
	FeatureDailyCard:           300 * time.Second,
	FeatureJournalInsight:      300 * time.Second,
	FeatureFocusIntention:      600 * time.Second,
	FeatureRealmInterpretation: 600 * time.Second,
	FeatureMatchCompatibility:  3600 * time.Second,
}

// DefaultFeatureTTL is used for features without an explicit TTL entry.
const DefaultFeatureTTL = 300 * time.Second

// FeatureTTL returns the cache TTL for a feature.
func FeatureTTL(f Feature) time.Duration {
	if ttl, ok := featureTTLs[f]; ok {
		return ttl
	}
	return DefaultFeatureTTL
}
