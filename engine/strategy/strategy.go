// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package strategy

import (
	"context"

	"kasper/engine/providers/base"
	"kasper/engine/shared/logger"
	"kasper/engine/shared/types"
)

// Strategy names recorded in insight metadata.
const (
	StrategyModel    = "model"
	StrategyTemplate = "template"
)

// FallbackConfidence is the fixed confidence reported by the template
// strategy. Used only as response metadata, never as a control signal.
const FallbackConfidence = 0.85

// Request carries everything a strategy needs to produce text for one
// insight request.
type Request struct {
	RequestID   string
	Feature     types.Feature
	Kind        types.Kind
	UserQuery   string
	PrimaryData map[string]interface{}
	MaxLength   int
	Depth       types.Depth
	Contexts    []*base.ProviderContext
}

// Result is the raw output of one strategy, before the quality pipeline.
type Result struct {
	Text       string
	Confidence float64
	Strategy   string
}

// Strategy is one way of turning provider contexts into text.
type Strategy interface {
	// Name identifies the strategy in logs and metadata.
	Name() string

	// Available reports whether the strategy can be attempted at all.
	Available() bool

	// Generate produces text for the request. The template strategy never
	// errors; the model strategy may.
	Generate(ctx context.Context, req *Request) (*Result, error)
}

// Chain tries the primary (model-backed) strategy once, then falls back to
// deterministic template synthesis. The fallback cannot fail, so Generate
// always returns a result.
type Chain struct {
	primary  Strategy
	fallback *TemplateStrategy
	log      *logger.Logger
}

// NewChain builds a chain. primary may be nil for fallback-only operation.
func NewChain(primary Strategy, fallback *TemplateStrategy, log *logger.Logger) *Chain {
	if log == nil {
		log = logger.New("strategy-chain")
	}
	return &Chain{primary: primary, fallback: fallback, log: log}
}

// PrimaryAvailable reports whether the model-backed strategy is enabled
// and ready.
func (c *Chain) PrimaryAvailable() bool {
	return c.primary != nil && c.primary.Available()
}

// Generate runs the chain. A primary failure is logged and recovered
// locally by falling through to the template strategy; it is never
// retried and never surfaced.
func (c *Chain) Generate(ctx context.Context, req *Request) *Result {
	if c.PrimaryAvailable() {
		result, err := c.primary.Generate(ctx, req)
		if err == nil && result != nil && result.Text != "" {
			return result
		}
		c.log.WarnWithError(req.RequestID, "primary strategy failed, falling back", err, map[string]interface{}{
			"strategy": c.primary.Name(),
			"feature":  req.Feature.String(),
		})
	}

	return c.fallback.Synthesize(req)
}
