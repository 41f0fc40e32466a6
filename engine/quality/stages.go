// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package quality

import (
	"regexp"
	"strings"
	"unicode"
)

// --- text helpers ---

var whitespaceRun = regexp.MustCompile(`\s+`)
var spaceBeforePunct = regexp.MustCompile(`\s+([.,;:!?])`)

// splitSentences splits on sentence-terminal punctuation, keeping the
// punctuation attached to each sentence.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			atEnd := i == len(runes)-1
			followedBySpace := !atEnd && unicode.IsSpace(runes[i+1])
			if atEnd || followedBySpace {
				s := strings.TrimSpace(b.String())
				if s != "" {
					out = append(out, s)
				}
				b.Reset()
			}
		}
	}
	if rest := strings.TrimSpace(b.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}

func joinSentences(sentences []string) string {
	return strings.Join(sentences, " ")
}

// coreToken strips surrounding punctuation from a word.
func coreToken(word string) string {
	return strings.Trim(word, ".,;:!?\"'()—-")
}

// tokenCount counts word tokens in a sentence.
func tokenCount(sentence string) int {
	n := 0
	for _, w := range strings.Fields(sentence) {
		if coreToken(w) != "" {
			n++
		}
	}
	return n
}

// capitalizeFirst upper-cases the first letter of s.
func capitalizeFirst(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
		if !unicode.IsSpace(r) && !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			break
		}
	}
	return string(runes)
}

// matchCase copies the leading capitalization of original onto
// replacement.
func matchCase(original, replacement string) string {
	if original == "" || replacement == "" {
		return replacement
	}
	first := []rune(original)[0]
	if unicode.IsUpper(first) {
		return capitalizeFirst(replacement)
	}
	return replacement
}

// wholeWordReplace replaces every whole-word occurrence of from with to,
// case-insensitively, preserving leading capitalization.
func wholeWordReplace(text, from, to string) string {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(from) + `\b`)
	return re.ReplaceAllStringFunc(text, func(match string) string {
		return matchCase(match, to)
	})
}

// --- stage 1: normalization ---

// NormalizeText collapses whitespace, removes space before punctuation,
// and capitalizes the start of every sentence.
func NormalizeText(text string) string {
	out := whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
	out = spaceBeforePunct.ReplaceAllString(out, "$1")

	sentences := splitSentences(out)
	for i, s := range sentences {
		sentences[i] = capitalizeFirst(s)
	}
	return joinSentences(sentences)
}

// --- stage 2: template seam removal ---

// RemoveTemplateSeams rewrites mechanical template phrasings using the
// fixed seam pattern list.
func RemoveTemplateSeams(text string) string {
	out := text
	for _, seam := range seamPatterns {
		out = seam.pattern.ReplaceAllString(out, seam.replacement)
	}
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(out), " ")
}

// --- stage 3: repetition control ---

const repetitionWindow = 12

// ControlRepetition substitutes a synonym for any content word (length
// >= 3, not a function word) repeating within a 12-token sliding window,
// preserving the original capitalization. Substituted synonyms never
// appear as table keys, so reprocessing already-controlled text is a
// fixed point.
func ControlRepetition(text string) string {
	words := strings.Fields(text)
	cores := make([]string, len(words))
	for i, w := range words {
		cores[i] = strings.ToLower(coreToken(w))
	}

	for i, core := range cores {
		if len(core) < 3 || functionWords[core] {
			continue
		}

		repeated := false
		for j := i - 1; j >= 0 && j >= i-repetitionWindow+1; j-- {
			if cores[j] == core {
				repeated = true
				break
			}
		}
		if !repeated {
			continue
		}

		synonym, ok := synonymTable[core]
		if !ok {
			continue
		}

		original := coreToken(words[i])
		replaced := matchCase(original, synonym)
		words[i] = strings.Replace(words[i], original, replaced, 1)
		cores[i] = strings.ToLower(coreToken(replaced))
	}

	return strings.Join(words, " ")
}

// --- stage 4: mid-sentence capitalization ---

// FixMidSentenceCapitals lowercases the fixed list of second-person
// pronouns and imperative verbs when capitalized mid-sentence.
func FixMidSentenceCapitals(text string) string {
	words := strings.Fields(text)
	sentenceStart := true

	for i, w := range words {
		core := coreToken(w)
		if !sentenceStart {
			if lower, ok := capSensitiveWords[core]; ok {
				words[i] = strings.Replace(w, core, lower, 1)
			}
		}
		sentenceStart = strings.HasSuffix(w, ".") || strings.HasSuffix(w, "!") || strings.HasSuffix(w, "?")
	}

	return strings.Join(words, " ")
}

// --- stage 5: article/agreement correction ---

// FixAgreement applies the fixed list of substring repairs, in both
// lowercase and sentence-initial capitalized forms.
func FixAgreement(text string) string {
	out := text
	for _, fix := range agreementFixes {
		out = strings.ReplaceAll(out, fix.from, fix.to)
		out = strings.ReplaceAll(out, capitalizeFirst(fix.from), capitalizeFirst(fix.to))
	}
	return out
}

// --- stage 6: cadence shaping ---

// ShapeCadence splits any sentence exceeding maxTokens tokens or carrying
// more than one comma at its first comma, re-capitalizing the new
// sentence start.
func ShapeCadence(text string, maxTokens int) string {
	sentences := splitSentences(text)
	var out []string

	for _, s := range sentences {
		commas := strings.Count(s, ",")
		if (tokenCount(s) > maxTokens || commas > 1) && strings.Contains(s, ",") {
			idx := strings.Index(s, ",")
			first := strings.TrimSpace(s[:idx]) + "."
			rest := capitalizeFirst(strings.TrimSpace(s[idx+1:]))
			out = append(out, first)
			if rest != "" {
				out = append(out, rest)
			}
			continue
		}
		out = append(out, s)
	}

	return joinSentences(out)
}

// --- stage 7: concrete anchoring ---

// AnchorConcrete appends a grounding clause when no sentence contains any
// word from the sensory/action verb list. Clause choice is deterministic
// in the text length.
func AnchorConcrete(text string) string {
	lower := strings.ToLower(text)
	for _, verb := range sensoryVerbs {
		if containsWord(lower, verb) {
			return text
		}
	}

	clause := groundingClauses[len(strings.Fields(text))%len(groundingClauses)]
	return strings.TrimSpace(text) + " " + clause
}

func containsWord(lowerText, word string) bool {
	idx := 0
	for {
		pos := strings.Index(lowerText[idx:], word)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(word)
		beforeOK := start == 0 || !unicode.IsLetter(rune(lowerText[start-1]))
		afterOK := end >= len(lowerText) || !unicode.IsLetter(rune(lowerText[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = end
	}
}

// --- stage 8: persona tinting ---

// TintPersona applies the active persona's substitution table.
func TintPersona(text string, persona Persona) string {
	subs, ok := personaSubstitutions[persona]
	if !ok {
		return text
	}
	out := text
	for from, to := range subs {
		out = wholeWordReplace(out, from, to)
	}
	return out
}

// --- stage 9: intensifier moderation ---

// ModerateIntensifiers allows at most one intensifier-list word per
// sentence; the second and subsequent occurrences are replaced with their
// moderate alternatives (which never appear in the list).
func ModerateIntensifiers(text string) string {
	sentences := splitSentences(text)

	for si, s := range sentences {
		words := strings.Fields(s)
		seen := 0
		for wi, w := range words {
			core := coreToken(w)
			moderate, isIntensifier := intensifiers[strings.ToLower(core)]
			if !isIntensifier {
				continue
			}
			seen++
			if seen > 1 {
				words[wi] = strings.Replace(w, core, matchCase(core, moderate), 1)
			}
		}
		sentences[si] = strings.Join(words, " ")
	}

	return joinSentences(sentences)
}

// --- stage 10: safety/agency rewriting ---

// SoftenLanguage replaces coercive/absolute phrasings with invitational
// equivalents and blocked medical/financial terms with the safe generic
// substitute.
func SoftenLanguage(text string) string {
	out := text
	for _, rw := range coerciveRewrites {
		out = wholeWordReplace(out, rw.from, rw.to)
	}
	for _, term := range blockedTerms {
		out = wholeWordReplace(out, term, blockedTermSubstitute)
	}
	return out
}

// containsBlockedTerm reports whether any blocked term survives. Feeds the
// safety sub-score.
func containsBlockedTerm(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range blockedTerms {
		if containsWord(lower, term) {
			return true
		}
	}
	return false
}

// --- stage 11: emoji policy ---

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r == 0x2728 || r == 0x2B50:
		return true
	}
	return false
}

// EnforceEmojiPolicy permits at most one emoji, and only as the very
// first character; all others are stripped.
func EnforceEmojiPolicy(text string) string {
	var b strings.Builder
	for i, r := range []rune(text) {
		if isEmoji(r) && i != 0 {
			continue
		}
		b.WriteRune(r)
	}
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(b.String()), " ")
}

// --- stage 12: typography polish ---

var ellipsisRun = regexp.MustCompile(`\.{2,}|…`)

// PolishTypography collapses repeated spaces, removes ellipses, and caps
// em-dash usage at one per text.
func PolishTypography(text string) string {
	out := ellipsisRun.ReplaceAllString(text, ".")

	// Keep the first em-dash, soften the rest into commas.
	if first := strings.Index(out, "—"); first >= 0 {
		head := out[:first+len("—")]
		tail := strings.ReplaceAll(out[first+len("—"):], " —", ",")
		tail = strings.ReplaceAll(tail, "—", ", ")
		out = head + tail
	}

	out = whitespaceRun.ReplaceAllString(out, " ")
	out = spaceBeforePunct.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}
