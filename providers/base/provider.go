// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package base

import (
	"context"
	"fmt"
	"time"

	"kasper/engine/shared/types"
)

// Provider defines the interface every data source must implement.
// Implementations must be safe for concurrent use: the aggregator queries
// all required providers for a request in parallel.
type Provider interface {
	// ID returns the stable provider identifier used in feature default
	// sets and request RequiredProviders (e.g. "numerology", "cosmic").
	ID() string

	// IsAvailable is a cheap capability probe. It must not block for long
	// and must never panic; an unreachable backing store reports false.
	IsAvailable(ctx context.Context) bool

	// ProvideContext returns the provider's feature-scoped context blob.
	// It may fail per call; the aggregator skips failing providers as long
	// as at least one succeeds. Safe to call repeatedly.
	ProvideContext(ctx context.Context, feature types.Feature) (*ProviderContext, error)

	// ClearCache drops any provider-internal cache. Best effort.
	ClearCache(ctx context.Context)
}

// ProviderContext is the output of one provider for one feature. Contexts
// are combined as a list, never merged into one map; consumers look entries
// up by ProviderID.
type ProviderContext struct {
	ProviderID string                 `json:"provider_id"`
	Feature    types.Feature          `json:"feature"`
	Data       map[string]interface{} `json:"data"`
	ExpiresAt  time.Time              `json:"expires_at"`
}

// NewProviderContext builds a context for a feature, stamping ExpiresAt
// from the feature's TTL. Providers with their own freshness rules set
// ExpiresAt directly instead.
func NewProviderContext(providerID string, feature types.Feature, data map[string]interface{}) *ProviderContext {
	return &ProviderContext{
		ProviderID: providerID,
		Feature:    feature,
		Data:       data,
		ExpiresAt:  time.Now().Add(types.FeatureTTL(feature)),
	}
}

// Expired reports whether the context has passed its freshness deadline.
func (pc *ProviderContext) Expired(now time.Time) bool {
	return now.After(pc.ExpiresAt)
}

// StringValue returns the string stored under key, or "" when absent or of
// another type.
func (pc *ProviderContext) StringValue(key string) string {
	if pc.Data == nil {
		return ""
	}
	if s, ok := pc.Data[key].(string); ok {
		return s
	}
	return ""
}

// UnavailableError reports that a provider declined a request because its
// backing source is unreachable. The aggregator recovers from it by
// skipping the provider.
type UnavailableError struct {
	Name string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("provider %q unavailable", e.Name)
}

// ProviderError represents errors specific to provider operations
type ProviderError struct {
	ProviderName string
	Operation    string
	Message      string
	Cause        error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return e.ProviderName + "." + e.Operation + ": " + e.Message + " (cause: " + e.Cause.Error() + ")"
	}
	return e.ProviderName + "." + e.Operation + ": " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new ProviderError
func NewProviderError(providerName, operation, message string, cause error) *ProviderError {
	return &ProviderError{
		ProviderName: providerName,
		Operation:    operation,
		Message:      message,
		Cause:        cause,
	}
}
