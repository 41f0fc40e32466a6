// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package engine

import (
	"context"
	"sync"

	"kasper/engine/providers/base"
	"kasper/engine/providers/registry"
	"kasper/engine/shared/logger"
	"kasper/engine/shared/types"
)

// ContextAggregator resolves the provider set for a request and queries
// every required provider concurrently. Individual provider failures are
// tolerated; the aggregation fails only when zero providers return a
// context.
type ContextAggregator struct {
	registry *registry.Registry
	log      *logger.Logger
}

// NewContextAggregator creates an aggregator over the given registry.
func NewContextAggregator(reg *registry.Registry, log *logger.Logger) *ContextAggregator {
	if log == nil {
		log = logger.New("context-aggregator")
	}
	return &ContextAggregator{registry: reg, log: log}
}

// requiredProviders resolves the provider identifiers for a request:
// the explicit RequiredProviders set when non-empty, else the feature's
// default set.
func requiredProviders(req *InsightRequest) []string {
	if len(req.RequiredProviders) > 0 {
		out := make([]string, len(req.RequiredProviders))
		copy(out, req.RequiredProviders)
		return out
	}
	return types.DefaultProviders(req.Feature)
}

// Aggregate fans out to every required provider and collects the
// successful contexts. Unregistered providers are skipped with a warning;
// so are providers that error. Returns ErrInsufficientData only when no
// provider produced a context. The result carries no order guarantee;
// consumers look contexts up by ProviderID.
func (a *ContextAggregator) Aggregate(ctx context.Context, req *InsightRequest) ([]*base.ProviderContext, error) {
	ids := requiredProviders(req)

	var (
		mu       sync.Mutex
		contexts []*base.ProviderContext
		wg       sync.WaitGroup
	)

	for _, id := range ids {
		provider, ok := a.registry.Get(id)
		if !ok {
			a.log.Warn(req.ID, "skipping unregistered provider", map[string]interface{}{
				"provider": id,
				"feature":  req.Feature.String(),
			})
			continue
		}

		wg.Add(1)
		go func(id string, p base.Provider) {
			defer wg.Done()

			pc, err := p.ProvideContext(ctx, req.Feature)
			if err != nil {
				promProviderFailures.WithLabelValues(id).Inc()
				a.log.WarnWithError(req.ID, "provider failed, skipping", err, map[string]interface{}{
					"provider": id,
					"feature":  req.Feature.String(),
				})
				return
			}
			if pc == nil || len(pc.Data) == 0 {
				a.log.Warn(req.ID, "provider returned empty context, skipping", map[string]interface{}{
					"provider": id,
				})
				return
			}

			mu.Lock()
			contexts = append(contexts, pc)
			mu.Unlock()
		}(id, provider)
	}

	wg.Wait()

	if len(contexts) == 0 {
		return nil, &EngineError{
			Code:    ErrCodeInsufficientData,
			Message: "no provider returned usable context for feature " + req.Feature.String(),
		}
	}

	return contexts, nil
}
