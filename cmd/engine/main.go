// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

// Package main is the entry point for the KASPER insight engine service.
//
// The engine orchestrates spiritual insight generation:
// - Aggregates context from numerology, cosmic, biometric, journal, and
//   corpus providers
// - Generates text through a model backend with a template fallback
// - Refines and scores output through the quality pipeline
// - Serves the insight API with caching and bounded concurrency
//
// Usage:
//
//	./engine
//
// Environment Variables:
//
//	PORT - HTTP server port (default: 8090)
//	KASPER_MODEL_BACKEND - "openai", "bedrock", or empty for fallback-only
//	KASPER_MODEL_API_KEY - model backend API key (optional)
//	KASPER_JWT_SECRET - bearer auth secret (optional)
//	MONGO_URL - journal provider connection string (optional)
//	CONTENT_API_URL - MegaCorpus content API endpoint (optional)
//	REDIS_URL - content cache (optional)
package main

import (
	"kasper/engine/engine"
)

func main() {
	engine.Run()
}
