// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package strategy

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"kasper/engine/shared/types"
)

// stubStrategy is a scriptable primary strategy.
type stubStrategy struct {
	available bool
	result    *Result
	err       error
	calls     int
}

func (s *stubStrategy) Name() string    { return "stub" }
func (s *stubStrategy) Available() bool { return s.available }
func (s *stubStrategy) Generate(_ context.Context, _ *Request) (*Result, error) {
	s.calls++
	return s.result, s.err
}

func testRequest() *Request {
	return &Request{
		RequestID: "req-1",
		Feature:   types.FeatureDailyCard,
		Kind:      types.KindGuidance,
	}
}

func TestChainPrefersPrimary(t *testing.T) {
	primary := &stubStrategy{
		available: true,
		result:    &Result{Text: "model text", Confidence: ModelConfidence, Strategy: StrategyModel},
	}
	chain := NewChain(primary, NewTemplateStrategy(rand.New(rand.NewSource(1))), nil)

	got := chain.Generate(context.Background(), testRequest())
	if got.Strategy != StrategyModel || got.Text != "model text" {
		t.Errorf("expected primary result, got %+v", got)
	}
	if primary.calls != 1 {
		t.Errorf("primary called %d times, want 1", primary.calls)
	}
}

func TestChainFallsBackOnError(t *testing.T) {
	primary := &stubStrategy{available: true, err: errors.New("backend down")}
	chain := NewChain(primary, NewTemplateStrategy(rand.New(rand.NewSource(1))), nil)

	got := chain.Generate(context.Background(), testRequest())
	if got.Strategy != StrategyTemplate {
		t.Errorf("expected template fallback, got %q", got.Strategy)
	}
	if got.Text == "" {
		t.Error("fallback produced empty text")
	}
	if primary.calls != 1 {
		t.Errorf("primary retried: %d calls", primary.calls)
	}
}

func TestChainFallsBackOnEmptyText(t *testing.T) {
	primary := &stubStrategy{available: true, result: &Result{Text: ""}}
	chain := NewChain(primary, NewTemplateStrategy(rand.New(rand.NewSource(1))), nil)

	got := chain.Generate(context.Background(), testRequest())
	if got.Strategy != StrategyTemplate {
		t.Errorf("expected template fallback for empty primary text, got %q", got.Strategy)
	}
}

func TestChainSkipsUnavailablePrimary(t *testing.T) {
	primary := &stubStrategy{available: false}
	chain := NewChain(primary, NewTemplateStrategy(rand.New(rand.NewSource(1))), nil)

	got := chain.Generate(context.Background(), testRequest())
	if got.Strategy != StrategyTemplate {
		t.Errorf("expected template result, got %q", got.Strategy)
	}
	if primary.calls != 0 {
		t.Error("unavailable primary was still invoked")
	}
}

func TestChainNilPrimary(t *testing.T) {
	chain := NewChain(nil, NewTemplateStrategy(rand.New(rand.NewSource(1))), nil)

	if chain.PrimaryAvailable() {
		t.Error("nil primary reported available")
	}
	got := chain.Generate(context.Background(), testRequest())
	if got == nil || got.Text == "" {
		t.Fatal("fallback-only chain must still produce text")
	}
}
