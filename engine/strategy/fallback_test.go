// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package strategy

import (
	"math/rand"
	"strings"
	"testing"

	"kasper/engine/providers/base"
	"kasper/engine/shared/types"
)

func seededFallback(seed int64) *TemplateStrategy {
	return NewTemplateStrategy(rand.New(rand.NewSource(seed)))
}

func TestSynthesizeNeverEmpty(t *testing.T) {
	s := seededFallback(1)

	for _, feature := range types.AllFeatures {
		for _, kind := range types.AllKinds {
			req := &Request{Feature: feature, Kind: kind}
			result := s.Synthesize(req)

			if strings.TrimSpace(result.Text) == "" {
				t.Errorf("empty text for %s/%s", feature, kind)
			}
			if result.Confidence != FallbackConfidence {
				t.Errorf("confidence = %v, want %v", result.Confidence, FallbackConfidence)
			}
			if result.Strategy != StrategyTemplate {
				t.Errorf("strategy = %q", result.Strategy)
			}
		}
	}
}

func TestSynthesizeWithNoContexts(t *testing.T) {
	// Zero providers, zero numbers: global components alone must carry it.
	s := seededFallback(2)
	result := s.Synthesize(&Request{
		Feature: types.FeatureDailyCard,
		Kind:    types.KindGuidance,
	})

	if strings.TrimSpace(result.Text) == "" {
		t.Fatal("expected text from global components")
	}
}

func TestSynthesizeGuidanceCarriesActionVerb(t *testing.T) {
	s := seededFallback(3)

	// Provider guidance without any allow-listed verb: the canned phrase
	// must be substituted rather than the unqualified candidate.
	req := &Request{
		Feature: types.FeatureDailyCard,
		Kind:    types.KindGuidance,
		Contexts: []*base.ProviderContext{{
			ProviderID: types.ProviderCosmic,
			Data: map[string]interface{}{
				"guidance": "consider doing something at some point",
			},
		}},
	}

	for i := 0; i < 20; i++ {
		result := s.Synthesize(req)
		if !ContainsActionVerb(result.Text) {
			t.Fatalf("guidance without action verb: %q", result.Text)
		}
	}
}

func TestSynthesizePrimaryNumberPrecedence(t *testing.T) {
	s := seededFallback(4)

	// Focus number 7 and realm number 3 have disjoint component tables;
	// the woven text must draw from 7's components, never 3's.
	req := &Request{
		Feature: types.FeatureSanctumGuidance,
		Kind:    types.KindGuidance,
		PrimaryData: map[string]interface{}{
			"focusNumber": 7,
			"realmNumber": 3,
		},
	}

	seven := ComponentsForNumber(7)
	three := ComponentsForNumber(3)

	for i := 0; i < 50; i++ {
		text := s.Synthesize(req).Text

		foundSeven := false
		for _, pool := range [][]string{seven.Energy, seven.References, seven.Guidance} {
			for _, c := range pool {
				if strings.Contains(text, sanitizeComponent(c)) {
					foundSeven = true
				}
			}
		}
		if !foundSeven {
			t.Fatalf("no primary-number component in: %q", text)
		}

		for _, pool := range [][]string{three.Energy, three.References, three.Guidance} {
			for _, c := range pool {
				if strings.Contains(text, sanitizeComponent(c)) {
					t.Fatalf("secondary-number component %q leaked into: %q", c, text)
				}
			}
		}
	}
}

func TestSynthesizeAcceptsJSONNumbers(t *testing.T) {
	s := seededFallback(5)

	// JSON decoding yields float64; the focus number must still register.
	req := &Request{
		Feature:     types.FeatureFocusIntention,
		Kind:        types.KindAffirmation,
		PrimaryData: map[string]interface{}{"focusNumber": float64(7)},
	}

	seven := ComponentsForNumber(7)
	matched := false
	for i := 0; i < 50 && !matched; i++ {
		text := s.Synthesize(req).Text
		for _, pool := range [][]string{seven.Energy, seven.References, seven.Guidance} {
			for _, c := range pool {
				if strings.Contains(text, sanitizeComponent(c)) {
					matched = true
				}
			}
		}
	}
	if !matched {
		t.Error("float64 focus number never selected its components")
	}
}

func TestSynthesizeRespectsMaxLength(t *testing.T) {
	s := seededFallback(6)

	req := &Request{
		Feature:   types.FeatureRealmInterpretation,
		Kind:      types.KindReflection,
		MaxLength: 120,
	}

	for i := 0; i < 20; i++ {
		text := s.Synthesize(req).Text
		// Terminal punctuation may add one byte past the boundary cut.
		if len(text) > 121 {
			t.Fatalf("text length %d exceeds bound: %q", len(text), text)
		}
	}
}

func TestSynthesizeTerminalPunctuation(t *testing.T) {
	s := seededFallback(7)

	for i := 0; i < 20; i++ {
		text := s.Synthesize(&Request{Feature: types.FeatureDailyCard, Kind: types.KindPrediction}).Text
		last := text[len(text)-1]
		if last != '.' && last != '?' && last != '!' {
			t.Fatalf("missing terminal punctuation: %q", text)
		}
	}
}

func TestSanitizeComponent(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"your the energy", "your energy"},
		{"the your energy", "your energy"},
		{"the the moment", "the moment"},
		{"a an opening", "a opening"},
		{"  doubled   spaces here ", "doubled spaces here"},
		{"clean text", "clean text"},
		{"trailing period.", "trailing period"},
	}

	for _, tt := range tests {
		if got := sanitizeComponent(tt.input); got != tt.want {
			t.Errorf("sanitizeComponent(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestContainsActionVerb(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"trust the process", true},
		{"Embrace what arrives", true},
		{"seek, and keep seeking", true},
		{"align your effort with the goal", true},
		{"something vague happens", false},
		{"trustworthy people exist", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ContainsActionVerb(tt.text); got != tt.want {
			t.Errorf("ContainsActionVerb(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestTruncateAtBoundary(t *testing.T) {
	text := "The first sentence lands here. The second keeps going well past the limit."

	got := truncateAtBoundary(text, 40)
	if got != "The first sentence lands here." {
		t.Errorf("expected sentence-boundary cut, got %q", got)
	}

	got = truncateAtBoundary("no sentence boundary in this span of words", 20)
	if len(got) > 20 || strings.HasSuffix(got, " ") {
		t.Errorf("word-boundary cut wrong: %q", got)
	}

	if got := truncateAtBoundary("short", 40); got != "short" {
		t.Errorf("under-limit text modified: %q", got)
	}
}

func TestTemplatesForKindCoverAllKinds(t *testing.T) {
	for _, kind := range types.AllKinds {
		set := templatesForKind(kind)
		if len(set) < 8 {
			t.Errorf("kind %s has %d templates, want >= 8", kind, len(set))
		}
		for _, tpl := range set {
			for _, slot := range []string{"{energy}", "{reference}", "{guidance}"} {
				if strings.Count(tpl, slot) > 1 {
					t.Errorf("template repeats slot %s: %q", slot, tpl)
				}
			}
		}
	}
}

func TestNumberTableDisjointComponents(t *testing.T) {
	// Component text for different numbers must not collide, or the
	// precedence rule loses meaning.
	seen := map[string]int{}
	for n := 1; n <= 9; n++ {
		c := ComponentsForNumber(n)
		for _, pool := range [][]string{c.Energy, c.References, c.Guidance} {
			for _, text := range pool {
				if prev, ok := seen[text]; ok {
					t.Errorf("component %q shared by numbers %d and %d", text, prev, n)
				}
				seen[text] = n
			}
		}
	}
}

func TestNumberTableGuidanceHasActionVerbs(t *testing.T) {
	for n := 1; n <= 9; n++ {
		for _, g := range ComponentsForNumber(n).Guidance {
			if !ContainsActionVerb(g) {
				t.Errorf("number %d guidance %q lacks an action verb", n, g)
			}
		}
	}
	for _, g := range globalComponents.Guidance {
		if !ContainsActionVerb(g) {
			t.Errorf("global guidance %q lacks an action verb", g)
		}
	}
	if !ContainsActionVerb(cannedGuidance) {
		t.Error("canned guidance lacks an action verb")
	}
}
