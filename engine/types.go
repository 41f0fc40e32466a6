// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package engine

import (
	"time"

	"github.com/google/uuid"

	"kasper/engine/shared/types"
)

// Constraints bound the shape of the generated text.
type Constraints struct {
	MaxLength int         `json:"max_length,omitempty"`
	Depth     types.Depth `json:"depth,omitempty"`
}

// RequestContext carries the caller-supplied inputs for one request.
// PrimaryData holds opaque values such as numeric focus/realm identifiers
// or a "quick" flag; key order is irrelevant.
type RequestContext struct {
	PrimaryData map[string]interface{} `json:"primary_data,omitempty"`
	UserQuery   string                 `json:"user_query,omitempty"`
	Constraints *Constraints           `json:"constraints,omitempty"`
}

// InsightRequest is the immutable input to GenerateInsight. Created by the
// caller and never mutated; its lifetime is one request.
type InsightRequest struct {
	ID       string         `json:"id"`
	Feature  types.Feature  `json:"feature"`
	Kind     types.Kind     `json:"kind"`
	Priority types.Priority `json:"priority"`
	Context  RequestContext `json:"context"`

	// RequiredProviders overrides the feature's default provider set when
	// non-empty.
	RequiredProviders []string `json:"required_providers,omitempty"`
}

// NewInsightRequest builds a request with a fresh unique ID and normal
// priority.
func NewInsightRequest(feature types.Feature, kind types.Kind, rc RequestContext) *InsightRequest {
	return &InsightRequest{
		ID:       uuid.NewString(),
		Feature:  feature,
		Kind:     kind,
		Priority: types.PriorityNormal,
		Context:  rc,
	}
}

// InsightMetadata records how an insight was produced.
type InsightMetadata struct {
	StrategyUsed    string   `json:"strategy_used"`
	ProvidersUsed   []string `json:"providers_used"`
	CacheHit        bool     `json:"cache_hit"`
	QualityGrade    float64  `json:"quality_grade"`
	QualityTier     string   `json:"quality_tier"`
	DegradedQuality bool     `json:"degraded_quality,omitempty"`
	Regenerated     bool     `json:"regenerated,omitempty"`
}

// KASPERInsight is the response value. Immutable once constructed; owned by
// the caller after return and optionally retained inside a cache entry.
type KASPERInsight struct {
	RequestID         string          `json:"request_id"`
	Text              string          `json:"text"`
	Kind              types.Kind      `json:"kind"`
	Feature           types.Feature   `json:"feature"`
	Confidence        float64         `json:"confidence"`
	GenerationLatency time.Duration   `json:"generation_latency_ns"`
	Metadata          InsightMetadata `json:"metadata"`
}

// clone returns a shallow copy so cached insights can be re-stamped with a
// new request ID without mutating the cached value.
func (i *KASPERInsight) clone() *KASPERInsight {
	out := *i
	out.Metadata.ProvidersUsed = append([]string(nil), i.Metadata.ProvidersUsed...)
	return &out
}
