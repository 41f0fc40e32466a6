// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

// Package quality implements the text-quality pipeline: twelve ordered
// transform stages (normalization, seam removal, repetition control,
// capitalization and agreement fixes, cadence shaping, concrete
// anchoring, persona tinting, intensifier moderation, safety rewriting,
// emoji policy, typography polish) followed by a six-metric linguistic
// scorer whose weighted final grade maps to an acceptance tier.
package quality
