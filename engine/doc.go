// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

/*
Package engine provides the KASPER insight orchestration engine - the
coordination layer that turns a feature request into a finished,
quality-gated piece of spiritual guidance text.

# Overview

The engine receives insight requests from the API layer and handles:

  - Context aggregation across registered data providers with
    bounded fan-out
  - Strategy selection between a hosted model backend and a
    deterministic template synthesizer that can never fail
  - A twelve-stage text quality pipeline with persona tinting
  - Linguistic scoring and configurable quality gating
  - TTL-bounded response caching keyed by request identity

# Architecture

	API request
	    |
	    v
	Orchestrator -- cache lookup --> InsightCache
	    |
	    v  (miss)
	ConcurrencyGate -- bounded retries
	    |
	    v
	ContextAggregator -- fan-out --> providers/*
	    |
	    v
	strategy.Chain (model, template fallback)
	    |
	    v
	quality.Pipeline + Score --> gate policy
	    |
	    v
	KASPERInsight (cached, returned)

Run wires the HTTP surface: gorilla/mux routing, CORS, optional JWT
bearer auth, and Prometheus metrics at /metrics.
*/
package engine
