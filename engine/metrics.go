// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package engine

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics
var (
	promRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kasper_insight_requests_total",
			Help: "Total insight requests by feature, kind, and outcome",
		},
		[]string{"feature", "kind", "status"},
	)
	promCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kasper_cache_hits_total",
			Help: "Insight cache hits",
		},
	)
	promCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kasper_cache_misses_total",
			Help: "Insight cache misses",
		},
	)
	promGateWaits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kasper_gate_waits_total",
			Help: "Times a request slept waiting for a generation slot",
		},
	)
	promGenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kasper_generation_duration_seconds",
			Help:    "End-to-end generation latency by strategy",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)
	promQualityTiers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kasper_quality_tier_total",
			Help: "Quality tier outcomes after scoring",
		},
		[]string{"tier"},
	)
	promProviderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kasper_provider_failures_total",
			Help: "Provider context failures skipped during aggregation",
		},
		[]string{"provider"},
	)
)

func init() {
	prometheus.MustRegister(promRequestsTotal)
	prometheus.MustRegister(promCacheHits)
	prometheus.MustRegister(promCacheMisses)
	prometheus.MustRegister(promGateWaits)
	prometheus.MustRegister(promGenerationDuration)
	prometheus.MustRegister(promQualityTiers)
	prometheus.MustRegister(promProviderFailures)
}
