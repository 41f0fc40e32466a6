// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package engine

import (
	"context"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"kasper/engine/engine/quality"
	"kasper/engine/engine/strategy"
	"kasper/engine/providers/base"
	"kasper/engine/providers/registry"
	"kasper/engine/shared/logger"
	"kasper/engine/shared/types"
)

// Orchestrator is the façade wiring cache, gate, aggregator, strategy
// chain, and quality pipeline together. Construct one instance per
// process or test; there is no shared global.
type Orchestrator struct {
	cfg        Config
	log        *logger.Logger
	registry   *registry.Registry
	cache      *InsightCache
	gate       *ConcurrencyGate
	aggregator *ContextAggregator
	chain      *strategy.Chain
	fallback   *strategy.TemplateStrategy
	pipeline   *quality.Pipeline

	ready atomic.Bool

	// sleep is replaceable in tests so gate-retry loops run instantly.
	sleep func(time.Duration)
}

// NewOrchestrator builds an orchestrator from config. Providers and the
// model backend attach later via Configure.
func NewOrchestrator(cfg Config, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.New("insight-orchestrator")
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	if cfg.MaxGateRetries <= 0 {
		cfg.MaxGateRetries = DefaultMaxGateRetries
	}
	if cfg.GateRetryInterval <= 0 {
		cfg.GateRetryInterval = DefaultGateRetryInterval
	}
	if cfg.QualityThreshold <= 0 {
		cfg.QualityThreshold = DefaultQualityThreshold
	}
	if !cfg.GatePolicy.IsValid() {
		cfg.GatePolicy = GatePolicyFlag
	}

	var rng *rand.Rand
	if cfg.RandSeed != 0 {
		rng = rand.New(rand.NewSource(cfg.RandSeed))
	}

	reg := registry.New()
	fallback := strategy.NewTemplateStrategy(rng)

	o := &Orchestrator{
		cfg:        cfg,
		log:        log,
		registry:   reg,
		cache:      NewInsightCache(cfg.MaxCacheSize, cfg.ttlOverrides()),
		gate:       NewConcurrencyGate(cfg.MaxConcurrent),
		aggregator: NewContextAggregator(reg, log),
		fallback:   fallback,
		chain:      strategy.NewChain(nil, fallback, log),
		pipeline: quality.NewPipeline(quality.Config{
			Persona: quality.Persona(cfg.Persona),
		}),
		sleep: time.Sleep,
	}
	return o
}

// Configure registers the providers and initializes the model backend.
// Backend initialization may end in either "primary strategy available"
// or "fallback-only"; both count as ready as long as at least one
// provider reports available.
func (o *Orchestrator) Configure(ctx context.Context, providers []base.Provider) error {
	for _, p := range providers {
		o.registry.Register(p)
	}

	primary := strategy.NewModelStrategy(o.buildModelClient(ctx), o.log)
	o.chain = strategy.NewChain(primary, o.fallback, o.log)
	if primary.Available() {
		o.log.Info("", "primary model strategy available", map[string]interface{}{
			"backend": o.cfg.ModelBackend,
		})
	} else {
		o.log.Info("", "running fallback-only", nil)
	}

	available := o.registry.CheckAvailability(ctx)
	anyAvailable := false
	for _, ok := range available {
		if ok {
			anyAvailable = true
			break
		}
	}
	if !anyAvailable {
		return &EngineError{
			Code:    ErrCodeModelNotLoaded,
			Message: "no registered provider reports available",
		}
	}

	o.ready.Store(true)
	o.log.Info("", "orchestrator ready", map[string]interface{}{
		"providers":         o.registry.List(),
		"primary_available": primary.Available(),
	})
	return nil
}

// buildModelClient constructs the configured inference backend, or nil
// for fallback-only operation. A backend that fails to initialize is
// logged and dropped; it never blocks readiness.
func (o *Orchestrator) buildModelClient(ctx context.Context) strategy.ModelClient {
	switch o.cfg.ModelBackend {
	case ModelBackendOpenAI:
		client, err := strategy.NewOpenAIClient(strategy.OpenAIConfig{
			APIKey:  o.cfg.ModelAPIKey,
			BaseURL: o.cfg.ModelEndpoint,
			Model:   o.cfg.ModelName,
		})
		if err != nil {
			o.log.WarnWithError("", "openai backend init failed, running fallback-only", err, nil)
			return nil
		}
		return client
	case ModelBackendBedrock:
		client, err := strategy.NewBedrockClient(ctx, o.cfg.BedrockRegion, o.cfg.ModelName)
		if err != nil {
			o.log.WarnWithError("", "bedrock backend init failed, running fallback-only", err, nil)
			return nil
		}
		return client
	default:
		return nil
	}
}

// Ready reports whether Configure completed successfully.
func (o *Orchestrator) Ready() bool {
	return o.ready.Load()
}

// Registry exposes the provider registry for periodic availability
// sweeps and HTTP handlers.
func (o *Orchestrator) Registry() *registry.Registry {
	return o.registry
}

// GenerateInsight runs the full request path: cache check, concurrency
// gate, provider aggregation, strategy chain, quality pipeline, cache
// write. When the gate is full the request sleeps briefly and re-enters
// from the cache check, so a slot may have freed and another caller's
// result may already be cached; the loop is bounded to avoid unbounded
// spinning under sustained overload.
func (o *Orchestrator) GenerateInsight(ctx context.Context, req *InsightRequest) (*KASPERInsight, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	start := time.Now()

	for attempt := 0; attempt < o.cfg.MaxGateRetries; attempt++ {
		if !o.ready.Load() {
			promRequestsTotal.WithLabelValues(req.Feature.String(), req.Kind.String(), "not_ready").Inc()
			return nil, ErrModelNotLoaded
		}

		key := o.cache.Key(req)
		if cached := o.cache.Get(key); cached != nil {
			promCacheHits.Inc()
			promRequestsTotal.WithLabelValues(req.Feature.String(), req.Kind.String(), "cache_hit").Inc()

			out := cached.clone()
			out.RequestID = req.ID
			out.Metadata.CacheHit = true
			return out, nil
		}
		promCacheMisses.Inc()

		if !o.gate.TryAcquire() {
			promGateWaits.Inc()
			o.sleep(o.cfg.GateRetryInterval)
			continue
		}

		return o.generate(ctx, req, key, start)
	}

	promRequestsTotal.WithLabelValues(req.Feature.String(), req.Kind.String(), "saturated").Inc()
	return nil, ErrEngineSaturated
}

// generate holds a gate slot for the duration of one generation. The
// deferred release covers every exit path.
func (o *Orchestrator) generate(ctx context.Context, req *InsightRequest, key string, start time.Time) (*KASPERInsight, error) {
	defer o.gate.Release()

	contexts, err := o.aggregator.Aggregate(ctx, req)
	if err != nil {
		promRequestsTotal.WithLabelValues(req.Feature.String(), req.Kind.String(), "insufficient_data").Inc()
		return nil, err
	}

	sreq := toStrategyRequest(req, contexts)
	result := o.chain.Generate(ctx, sreq)

	text := o.pipeline.Process(result.Text)
	score := o.pipeline.Score(text)

	flagged := false
	regenerated := false
	if score.FinalGrade < o.cfg.QualityThreshold {
		switch o.cfg.GatePolicy {
		case GatePolicyRegenerate:
			regenerated = true
			retry := o.fallback.Synthesize(sreq)
			retryText := o.pipeline.Process(retry.Text)
			retryScore := o.pipeline.Score(retryText)
			if retryScore.FinalGrade > score.FinalGrade {
				text, score = retryText, retryScore
				result = retry
			}
			flagged = score.FinalGrade < o.cfg.QualityThreshold
		case GatePolicyAccept:
			// Accepted as-is.
		default:
			flagged = true
		}
	}

	providersUsed := make([]string, 0, len(contexts))
	for _, pc := range contexts {
		providersUsed = append(providersUsed, pc.ProviderID)
	}
	sort.Strings(providersUsed)

	insight := &KASPERInsight{
		RequestID:         req.ID,
		Text:              text,
		Kind:              req.Kind,
		Feature:           req.Feature,
		Confidence:        result.Confidence,
		GenerationLatency: time.Since(start),
		Metadata: InsightMetadata{
			StrategyUsed:    result.Strategy,
			ProvidersUsed:   providersUsed,
			QualityGrade:    score.FinalGrade,
			QualityTier:     string(score.Tier),
			DegradedQuality: flagged,
			Regenerated:     regenerated,
		},
	}

	o.cache.Put(key, insight)

	promRequestsTotal.WithLabelValues(req.Feature.String(), req.Kind.String(), "generated").Inc()
	promGenerationDuration.WithLabelValues(result.Strategy).Observe(time.Since(start).Seconds())
	promQualityTiers.WithLabelValues(string(score.Tier)).Inc()
	o.log.InfoWithDuration(req.ID, "insight generated", float64(time.Since(start).Milliseconds()), map[string]interface{}{
		"feature":  req.Feature.String(),
		"kind":     req.Kind.String(),
		"strategy": result.Strategy,
		"grade":    score.FinalGrade,
		"tier":     string(score.Tier),
	})

	return insight, nil
}

// toStrategyRequest flattens an InsightRequest and its aggregated
// contexts into the strategy chain's input.
func toStrategyRequest(req *InsightRequest, contexts []*base.ProviderContext) *strategy.Request {
	sreq := &strategy.Request{
		RequestID:   req.ID,
		Feature:     req.Feature,
		Kind:        req.Kind,
		UserQuery:   req.Context.UserQuery,
		PrimaryData: req.Context.PrimaryData,
		Contexts:    contexts,
	}
	if c := req.Context.Constraints; c != nil {
		sreq.MaxLength = c.MaxLength
		sreq.Depth = c.Depth
	}
	return sreq
}

// GenerateQuickInsight builds a minimal immediate-priority request and
// delegates to GenerateInsight.
func (o *Orchestrator) GenerateQuickInsight(ctx context.Context, feature types.Feature, kind types.Kind, query string) (*KASPERInsight, error) {
	req := quickRequest(feature, kind)
	req.Context.UserQuery = query
	return o.GenerateInsight(ctx, req)
}

// quickRequest is the canonical quick-mode request shape; its cache key
// is also what HasInsightAvailable probes.
func quickRequest(feature types.Feature, kind types.Kind) *InsightRequest {
	return &InsightRequest{
		ID:       uuid.NewString(),
		Feature:  feature,
		Kind:     kind,
		Priority: types.PriorityImmediate,
		Context: RequestContext{
			PrimaryData: map[string]interface{}{"quick": true},
			Constraints: &Constraints{MaxLength: 150, Depth: types.DepthSurface},
		},
	}
}

// HasInsightAvailable reports true when a fresh quick-mode cache entry
// exists for the feature, or when every provider the feature requires
// reports available.
func (o *Orchestrator) HasInsightAvailable(ctx context.Context, feature types.Feature) bool {
	for _, kind := range types.AllKinds {
		if o.cache.HasFresh(o.cache.Key(quickRequest(feature, kind))) {
			return true
		}
	}

	ids := types.DefaultProviders(feature)
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		p, ok := o.registry.Get(id)
		if !ok || !p.IsAvailable(ctx) {
			return false
		}
	}
	return true
}

// ClearCache clears the insight cache and every provider-internal cache.
func (o *Orchestrator) ClearCache(ctx context.Context) {
	o.cache.Clear()
	o.registry.ClearCaches(ctx)
	o.log.Info("", "caches cleared", nil)
}
