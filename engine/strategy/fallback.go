// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package strategy

import (
	"context"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"kasper/engine/shared/types"
)

// Candidate tiers. A component whose keywords match the request's primary
// number always beats one matching the secondary number, which beats
// global defaults. This precedence is a strict tie-break rule, not random.
const (
	tierPrimary   = 0
	tierSecondary = 1
	tierGlobal    = 2
)

type candidate struct {
	text string
	tier int
}

// TemplateStrategy is the deterministic fallback: it extracts tagged
// components from the provider contexts and the number tables, applies the
// primary-number precedence rule, guarantees an action verb in the
// guidance slot, and weaves the result into a kind-specific narrative
// template. It cannot fail.
type TemplateStrategy struct {
	rng *rand.Rand
	mu  sync.Mutex
}

// NewTemplateStrategy creates the fallback strategy. rng may be nil, in
// which case a time-seeded source is used; tests inject a seeded source to
// assert over the full template set deterministically.
func NewTemplateStrategy(rng *rand.Rand) *TemplateStrategy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &TemplateStrategy{rng: rng}
}

// Name identifies the strategy in metadata.
func (s *TemplateStrategy) Name() string { return StrategyTemplate }

// Available always reports true; the fallback has no preconditions.
func (s *TemplateStrategy) Available() bool { return true }

// Generate satisfies Strategy. The error is always nil.
func (s *TemplateStrategy) Generate(_ context.Context, req *Request) (*Result, error) {
	return s.Synthesize(req), nil
}

// Synthesize builds text for the request. Never returns empty text.
func (s *TemplateStrategy) Synthesize(req *Request) *Result {
	primary := numberFromData(req.PrimaryData, "focusNumber")
	secondary := numberFromData(req.PrimaryData, "realmNumber")

	energy := s.pick(s.gatherSlot(req, primary, secondary, slotEnergy))
	reference := s.pick(s.gatherSlot(req, primary, secondary, slotReference))
	guidance := s.pickGuidance(s.gatherSlot(req, primary, secondary, slotGuidance))

	template := s.pickTemplate(req.Kind)
	text := strings.NewReplacer(
		"{energy}", sanitizeComponent(energy),
		"{reference}", sanitizeComponent(reference),
		"{guidance}", sanitizeComponent(guidance),
	).Replace(template)

	if req.MaxLength > 0 {
		text = truncateAtBoundary(text, req.MaxLength)
	}
	if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "?") && !strings.HasSuffix(text, "!") {
		text += "."
	}

	return &Result{
		Text:       text,
		Confidence: FallbackConfidence,
		Strategy:   StrategyTemplate,
	}
}

// numberFromData extracts a positive integer identifier from PrimaryData.
// JSON decoding yields float64, so both forms are accepted.
func numberFromData(data map[string]interface{}, key string) int {
	if data == nil {
		return 0
	}
	switch n := data[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// Component slots.
type slot int

const (
	slotEnergy slot = iota
	slotReference
	slotGuidance
)

// tableSlot selects the slot's entries from a component set.
func tableSlot(c NumberComponents, sl slot) []string {
	switch sl {
	case slotEnergy:
		return c.Energy
	case slotReference:
		return c.References
	default:
		return c.Guidance
	}
}

// slotDataKeys tags provider context keys to slots. A key is assigned to
// the first slot whose tag it contains.
var slotDataKeys = map[slot][]string{
	slotEnergy:    {"energy", "descriptor", "mood"},
	slotReference: {"reference", "archetype", "identity", "insight"},
	slotGuidance:  {"guidance", "action", "practice", "suggestion"},
}

// gatherSlot collects candidates for one slot: number-table components for
// the primary and secondary numbers, provider-extracted text tiered by
// keyword match, and the global defaults as a last resort.
func (s *TemplateStrategy) gatherSlot(req *Request, primary, secondary int, sl slot) []candidate {
	var out []candidate

	if primary > 0 {
		for _, t := range tableSlot(ComponentsForNumber(primary), sl) {
			out = append(out, candidate{text: t, tier: tierPrimary})
		}
	}
	if secondary > 0 && secondary != primary {
		for _, t := range tableSlot(ComponentsForNumber(secondary), sl) {
			out = append(out, candidate{text: t, tier: tierSecondary})
		}
	}

	for _, pc := range req.Contexts {
		for key, value := range pc.Data {
			text, ok := value.(string)
			if !ok || strings.TrimSpace(text) == "" {
				continue
			}
			if !keyMatchesSlot(key, sl) {
				continue
			}
			out = append(out, candidate{text: text, tier: contentTier(text, primary, secondary)})
		}
	}

	for _, t := range tableSlot(globalComponents, sl) {
		out = append(out, candidate{text: t, tier: tierGlobal})
	}

	return out
}

func keyMatchesSlot(key string, sl slot) bool {
	lower := strings.ToLower(key)
	for _, tag := range slotDataKeys[sl] {
		if strings.Contains(lower, tag) {
			return true
		}
	}
	return false
}

// contentTier classifies extracted text by which number's keywords it
// matches.
func contentTier(text string, primary, secondary int) int {
	lower := strings.ToLower(text)
	if primary > 0 {
		for _, kw := range ComponentsForNumber(primary).Keywords {
			if strings.Contains(lower, kw) {
				return tierPrimary
			}
		}
	}
	if secondary > 0 {
		for _, kw := range ComponentsForNumber(secondary).Keywords {
			if strings.Contains(lower, kw) {
				return tierSecondary
			}
		}
	}
	return tierGlobal
}

// pick selects pseudo-randomly among the best-tier candidates.
func (s *TemplateStrategy) pick(candidates []candidate) string {
	best := bestTier(candidates)
	if len(best) == 0 {
		return ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return best[s.rng.Intn(len(best))]
}

// pickGuidance is pick with the action-verb guarantee: only candidates
// containing an allow-listed verb qualify, walked tier by tier; when none
// qualify at any tier, the canned phrase is substituted.
func (s *TemplateStrategy) pickGuidance(candidates []candidate) string {
	var qualified []candidate
	for _, c := range candidates {
		if ContainsActionVerb(c.text) {
			qualified = append(qualified, c)
		}
	}

	best := bestTier(qualified)
	if len(best) == 0 {
		return cannedGuidance
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return best[s.rng.Intn(len(best))]
}

// bestTier returns the texts of the lowest tier present, in stable order.
func bestTier(candidates []candidate) []string {
	if len(candidates) == 0 {
		return nil
	}

	min := candidates[0].tier
	for _, c := range candidates[1:] {
		if c.tier < min {
			min = c.tier
		}
	}

	var out []string
	for _, c := range candidates {
		if c.tier == min {
			out = append(out, c.text)
		}
	}
	sort.Strings(out)
	return out
}

func (s *TemplateStrategy) pickTemplate(kind types.Kind) string {
	set := templatesForKind(kind)

	s.mu.Lock()
	defer s.mu.Unlock()
	return set[s.rng.Intn(len(set))]
}

// ContainsActionVerb reports whether text contains a verb from the fixed
// allow-list (case-insensitive, whole word).
func ContainsActionVerb(text string) bool {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'")
		for _, verb := range actionVerbs {
			if word == verb {
				return true
			}
		}
	}
	return false
}

var spaceRun = regexp.MustCompile(`\s+`)

// determiners participating in doubled-determiner slips common in
// stitched component text ("your the energy").
func isDeterminer(word string) bool {
	switch word {
	case "the", "a", "an", "your":
		return true
	}
	return false
}

// sanitizeComponent normalizes whitespace and repairs doubled
// determiner/pronoun pairs before a component is woven into a template.
func sanitizeComponent(text string) string {
	out := spaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
	words := strings.Fields(out)

	var kept []string
	for _, word := range words {
		if len(kept) > 0 {
			prev := strings.ToLower(kept[len(kept)-1])
			cur := strings.ToLower(word)
			if isDeterminer(prev) && isDeterminer(cur) {
				// Possessive beats article; otherwise the first word wins.
				if cur == "your" && prev != "your" {
					kept[len(kept)-1] = word
				}
				continue
			}
		}
		kept = append(kept, word)
	}

	return strings.TrimSuffix(strings.Join(kept, " "), ".")
}

// truncateAtBoundary trims text to at most max bytes, cutting at a
// sentence end when one exists and a word boundary otherwise.
func truncateAtBoundary(text string, max int) string {
	if len(text) <= max {
		return text
	}

	cut := text[:max]
	if idx := strings.LastIndex(cut, ". "); idx > 0 {
		return cut[:idx+1]
	}
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		return cut[:idx]
	}
	return cut
}
