// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package quality

import "regexp"

// functionWords are closed-class words exempt from repetition control.
var functionWords = map[string]bool{
	"the": true, "and": true, "but": true, "for": true, "nor": true,
	"yet": true, "so": true, "a": true, "an": true, "of": true,
	"in": true, "on": true, "at": true, "to": true, "by": true,
	"with": true, "from": true, "into": true, "onto": true, "over": true,
	"under": true, "you": true, "your": true, "yours": true, "it": true,
	"its": true, "this": true, "that": true, "these": true, "those": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "has": true, "have": true, "had": true, "will": true,
	"can": true, "may": true, "not": true, "let": true, "she": true,
	"he": true, "her": true, "his": true, "they": true, "them": true,
	"their": true, "what": true, "when": true, "where": true, "who": true,
	"how": true, "all": true, "one": true, "out": true, "now": true,
}

// synonymTable substitutes a repeated content word within the sliding
// window. Values never appear as keys, so a second pass finds nothing new
// to substitute.
var synonymTable = map[string]string{
	"energy":    "current",
	"trust":     "rely on",
	"wisdom":    "knowing",
	"guidance":  "direction",
	"moment":    "instant",
	"journey":   "path",
	"spiritual": "inner",
	"notice":    "observe",
	"feel":      "sense",
	"embrace":   "welcome",
	"honor":     "respect",
	"seek":      "pursue",
	"day":       "morning",
	"nature":    "essence",
	"quiet":     "still",
	"insight":   "clarity",
	"pattern":   "rhythm",
	"strength":  "resolve",
	"balance":   "poise",
	"today":     "presently",
}

// seamPatterns rewrite mechanical template phrasings into natural
// connective phrasing.
var seamPatterns = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bit is important to note that\s*`), ""},
	{regexp.MustCompile(`(?i)\bin this moment of reflection,\s*`), ""},
	{regexp.MustCompile(`(?i)\bas we explore this together,\s*`), ""},
	{regexp.MustCompile(`(?i)\blet us remember that\b`), "remember"},
	{regexp.MustCompile(`(?i)\bthe invitation is simple:\s*`), "simply "},
	{regexp.MustCompile(`(?i)\bit speaks directly to\b`), "it speaks to"},
	{regexp.MustCompile(`(?i),\s*and now you can\b`), ", so you can"},
	{regexp.MustCompile(`(?i)\brarely arrives without purpose\b`), "arrives with purpose"},
}

// capSensitiveWords must not be capitalized mid-sentence. Second-person
// pronouns and common imperative verbs.
var capSensitiveWords = map[string]string{
	"You": "you", "Your": "your", "Yours": "yours",
	"Trust": "trust", "Embrace": "embrace", "Honor": "honor",
	"Seek": "seek", "Align": "align", "Notice": "notice",
	"Breathe": "breathe", "Listen": "listen",
}

// agreementFixes are fixed substring repairs for article and
// singular/plural slips left by component stitching.
var agreementFixes = []struct{ from, to string }{
	{"your the ", "your "},
	{"the your ", "your "},
	{"a energy", "an energy"},
	{"a invitation", "an invitation"},
	{"a opening", "an opening"},
	{"a echo", "an echo"},
	{"a inner", "an inner"},
	{"an current", "a current"},
	{"an steady", "a steady"},
	{"energies is", "energies are"},
	{"energy are", "energy is"},
	{"it are", "it is"},
	{"they is", "they are"},
	{"this patterns", "these patterns"},
	{"these pattern ", "this pattern "},
}

// sensoryVerbs anchor text in the body or in concrete action. When no
// sentence carries one, a grounding clause is appended.
var sensoryVerbs = []string{
	"breathe", "notice", "feel", "touch", "listen", "watch",
	"walk", "write", "ground", "hold", "observe", "sense",
}

// groundingClauses are appended by the concrete-anchoring stage.
var groundingClauses = []string{
	"Take one slow breath before you move on.",
	"Notice one small detail around you right now.",
	"Feel your feet on the ground as you consider this.",
	"Write one line about it before the day ends.",
}

// intensifiers are limited to one per sentence; later occurrences are
// replaced with a moderate alternative. Alternatives never appear in the
// intensifier list.
var intensifiers = map[string]string{
	"deeply":      "gently",
	"truly":       "simply",
	"profoundly":  "quietly",
	"incredibly":  "notably",
	"absolutely":  "certainly",
	"completely":  "fully",
	"utterly":     "plainly",
	"remarkably":  "clearly",
	"extremely":   "quite",
	"intensely":   "steadily",
}

// coerciveRewrites soften absolute or commanding phrasings into
// invitational equivalents.
var coerciveRewrites = []struct{ from, to string }{
	{"you must", "you might"},
	{"you should", "you could"},
	{"you have to", "you may choose to"},
	{"you need to", "you might want to"},
	{"guarantees", "invites"},
	{"guarantee", "invite"},
	{"will create", "can create"},
	{"will bring", "can bring"},
	{"will transform", "can transform"},
	{"always works", "often helps"},
	{"never fails", "tends to hold"},
}

// blockedTerms are medical/financial terms replaced with a safe generic
// substitute. Any that survive stage 10 zero the safety score.
// Matched as whole words (longer phrases first).
var blockedTerms = []string{
	"guaranteed returns", "financial advice", "treatment plan",
	"prescription", "medication", "investment", "diagnosis",
	"diagnose", "windfall", "jackpot", "invest", "profit", "cure",
}

// blockedTermSubstitute replaces any blocked term.
const blockedTermSubstitute = "well-being"
