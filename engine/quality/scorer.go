// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package quality

import (
	"strings"
	"unicode"
)

// Tier is the acceptance band a final grade maps to.
type Tier string

const (
	TierExceptional      Tier = "exceptional"
	TierExcellent        Tier = "excellent"
	TierNeedsImprovement Tier = "needs_improvement"
	TierBlocked          Tier = "blocked"
)

// Grade thresholds for the tier ladder.
const (
	gradeExceptional = 0.90
	gradeExcellent   = 0.84
	gradeNeedsWork   = 0.75
)

// Sub-score weights. Safety, readability, and variety dominate.
const (
	weightReadability       = 0.20
	weightLexicalVariety    = 0.20
	weightCadence           = 0.15
	weightStructuralVariety = 0.15
	weightPersonaAdherence  = 0.15
	weightSafety            = 0.15
)

// Score holds the six independently computed sub-scores, each in [0,1],
// and the derived weighted final grade. Computed fresh per piece of text;
// never cached independently of the text it describes.
type Score struct {
	Readability       float64 `json:"readability"`
	LexicalVariety    float64 `json:"lexical_variety"`
	Cadence           float64 `json:"cadence"`
	StructuralVariety float64 `json:"structural_variety"`
	PersonaAdherence  float64 `json:"persona_adherence"`
	Safety            float64 `json:"safety"`
	FinalGrade        float64 `json:"final_grade"`
	Tier              Tier    `json:"tier"`
}

// TierFor maps a final grade to its acceptance tier.
func TierFor(grade float64) Tier {
	switch {
	case grade >= gradeExceptional:
		return TierExceptional
	case grade >= gradeExcellent:
		return TierExcellent
	case grade >= gradeNeedsWork:
		return TierNeedsImprovement
	default:
		return TierBlocked
	}
}

// Score computes the linguistic score for text under the pipeline's
// configuration.
func (p *Pipeline) Score(text string) *Score {
	s := &Score{
		Readability:       scoreReadability(text),
		LexicalVariety:    scoreLexicalVariety(text),
		Cadence:           scoreCadence(text, p.cfg.SentenceMinTokens, p.cfg.SentenceMaxTokens),
		StructuralVariety: scoreStructuralVariety(text),
		PersonaAdherence:  scorePersonaAdherence(text, p.cfg.Persona),
		Safety:            scoreSafety(text),
	}

	s.FinalGrade = weightReadability*s.Readability +
		weightLexicalVariety*s.LexicalVariety +
		weightCadence*s.Cadence +
		weightStructuralVariety*s.StructuralVariety +
		weightPersonaAdherence*s.PersonaAdherence +
		weightSafety*s.Safety
	s.Tier = TierFor(s.FinalGrade)
	return s
}

// scoreReadability approximates a grade level and maps it to 1.0 inside
// the 4th-to-9th-grade target band, degrading linearly outside it.
func scoreReadability(text string) float64 {
	sentences := splitSentences(text)
	words := contentTokens(text)
	if len(sentences) == 0 || len(words) == 0 {
		return 0
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(len(sentences))
	syllablesPerWord := float64(syllables) / float64(len(words))
	grade := 0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59

	const bandLow, bandHigh = 4.0, 9.0
	switch {
	case grade >= bandLow && grade <= bandHigh:
		return 1.0
	case grade < bandLow:
		return clamp01(1.0 - 0.2*(bandLow-grade))
	default:
		return clamp01(1.0 - 0.2*(grade-bandHigh))
	}
}

// scoreLexicalVariety is the unique-token ratio against the 0.62 target.
func scoreLexicalVariety(text string) float64 {
	words := contentTokens(text)
	if len(words) == 0 {
		return 0
	}

	unique := make(map[string]bool, len(words))
	for _, w := range words {
		unique[w] = true
	}

	ratio := float64(len(unique)) / float64(len(words))
	if ratio >= 0.62 {
		return 1.0
	}
	return ratio / 0.62
}

// scoreCadence penalizes sentences outside the target token range or
// carrying more than one comma. Near misses earn half credit.
func scoreCadence(text string, minTokens, maxTokens int) float64 {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return 0
	}

	total := 0.0
	for _, s := range sentences {
		n := tokenCount(s)
		commas := strings.Count(s, ",")
		switch {
		case commas > 1:
			// no credit
		case n >= minTokens && n <= maxTokens:
			total += 1.0
		case n >= minTokens-4 && n <= maxTokens+4:
			total += 0.5
		}
	}
	return total / float64(len(sentences))
}

// scoreStructuralVariety penalizes repeated bigrams within a sentence.
func scoreStructuralVariety(text string) float64 {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return 0
	}

	total := 0.0
	for _, s := range sentences {
		words := contentTokens(s)
		if len(words) < 2 {
			total += 1.0
			continue
		}

		bigrams := make(map[string]int)
		for i := 0; i+1 < len(words); i++ {
			bigrams[words[i]+" "+words[i+1]]++
		}

		repeats := 0
		pairs := len(words) - 1
		for _, count := range bigrams {
			if count > 1 {
				repeats += count - 1
			}
		}
		total += clamp01(1.0 - float64(repeats)/float64(pairs))
	}
	return total / float64(len(sentences))
}

// scorePersonaAdherence checks the active persona's vocabulary rule. The
// psychologist persona is scored on the absence of mystical vocabulary;
// the others on the presence of their markers.
func scorePersonaAdherence(text string, persona Persona) float64 {
	markers, ok := personaMarkers[persona]
	if !ok {
		return 0.5
	}

	lower := strings.ToLower(text)
	hits := 0
	for _, m := range markers {
		if strings.Contains(lower, m) {
			hits++
		}
	}

	switch persona {
	case PersonaPsychologist:
		return clamp01(1.0 - 0.25*float64(hits))
	case PersonaPhilosopher:
		score := 0.4 + 0.25*float64(hits)
		if strings.Contains(text, "?") {
			score += 0.2
		}
		return clamp01(score)
	default:
		return clamp01(0.4 + 0.3*float64(hits))
	}
}

// scoreSafety is binary: 1.0 unless a blocked term survived stage 10.
func scoreSafety(text string) float64 {
	if containsBlockedTerm(text) {
		return 0.0
	}
	return 1.0
}

// contentTokens lowercases and strips punctuation from every word token.
func contentTokens(text string) []string {
	var out []string
	for _, w := range strings.Fields(text) {
		core := strings.ToLower(coreToken(w))
		if core != "" {
			out = append(out, core)
		}
	}
	return out
}

// countSyllables counts vowel groups, with a floor of one.
func countSyllables(word string) int {
	count := 0
	prevVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune("aeiouy", unicode.ToLower(r))
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}
	// Trailing silent e.
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
