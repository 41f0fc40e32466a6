// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package strategy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"kasper/engine/shared/logger"
	"kasper/engine/shared/types"
)

// ModelConfidence is the confidence reported for model-generated text.
const ModelConfidence = 0.92

// ModelClient abstracts the inference backend behind the primary strategy.
// Two implementations ship: an OpenAI-compatible HTTP endpoint and AWS
// Bedrock.
type ModelClient interface {
	// Name identifies the backend in logs.
	Name() string

	// Complete generates text for a prompt. May block on inference.
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ModelStrategy is the primary generation strategy. It is attempted only
// when a backend is configured; any failure falls through to the template
// strategy and is not retried.
type ModelStrategy struct {
	client ModelClient
	log    *logger.Logger
}

// NewModelStrategy wraps a model backend. client may be nil, producing a
// permanently unavailable strategy (fallback-only operation).
func NewModelStrategy(client ModelClient, log *logger.Logger) *ModelStrategy {
	if log == nil {
		log = logger.New("model-strategy")
	}
	return &ModelStrategy{client: client, log: log}
}

// Name identifies the strategy in metadata.
func (s *ModelStrategy) Name() string { return StrategyModel }

// Available reports whether a backend is configured.
func (s *ModelStrategy) Available() bool { return s.client != nil }

// Generate builds a prompt from the provider contexts and asks the
// backend for a completion.
func (s *ModelStrategy) Generate(ctx context.Context, req *Request) (*Result, error) {
	if s.client == nil {
		return nil, fmt.Errorf("model backend not configured")
	}

	maxTokens := 300
	if req.Depth == types.DepthSurface {
		maxTokens = 120
	} else if req.Depth == types.DepthDeep {
		maxTokens = 600
	}

	text, err := s.client.Complete(ctx, buildPrompt(req), maxTokens)
	if err != nil {
		return nil, fmt.Errorf("model completion failed: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("model returned empty completion")
	}
	if req.MaxLength > 0 {
		text = truncateAtBoundary(text, req.MaxLength)
	}

	return &Result{
		Text:       text,
		Confidence: ModelConfidence,
		Strategy:   StrategyModel,
	}, nil
}

// buildPrompt flattens the request into a single instruction. Provider
// data is listed deterministically (sorted providers, sorted keys) so the
// same request yields the same prompt.
func buildPrompt(req *Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a short spiritual %s for the %s feature.\n", req.Kind, req.Feature)
	b.WriteString("Use warm, grounded, non-coercive language. Offer invitations, never commands.\n")

	contexts := make([]string, 0, len(req.Contexts))
	for _, pc := range req.Contexts {
		keys := make([]string, 0, len(pc.Data))
		for k := range pc.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var line strings.Builder
		fmt.Fprintf(&line, "[%s]", pc.ProviderID)
		for _, k := range keys {
			fmt.Fprintf(&line, " %s=%v;", k, pc.Data[k])
		}
		contexts = append(contexts, line.String())
	}
	sort.Strings(contexts)

	if len(contexts) > 0 {
		b.WriteString("Context:\n")
		for _, line := range contexts {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	if req.UserQuery != "" {
		fmt.Fprintf(&b, "The person asked: %q\n", req.UserQuery)
	}

	return b.String()
}
