// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

// Package strategy implements the generation strategy chain: a primary
// model-backed strategy (OpenAI-compatible HTTP or AWS Bedrock) tried
// once, and a deterministic template-synthesis fallback that cannot fail.
//
// The fallback extracts semantically-tagged components (energy descriptor,
// personal reference, actionable guidance) from the provider contexts and
// the bundled number tables, prefers components matching the request's
// primary number over secondary-number and global components, guarantees
// an allow-listed action verb in the guidance slot, and weaves the three
// components into one of several kind-specific narrative templates chosen
// through an injectable rand source.
package strategy
