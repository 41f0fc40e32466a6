// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package strategy

import "kasper/engine/shared/types"

// Narrative templates weave the three chosen components (energy
// descriptor, personal reference, actionable guidance) into finished text.
// Each kind has its own disjoint set; selection is pseudo-random through
// the strategy's injected rand source.

var guidanceTemplates = []string{
	"Today carries {energy}. It speaks directly to {reference}, so {guidance}.",
	"There is {energy} around you right now. Let it meet {reference}, and {guidance}.",
	"Notice {energy} moving through this day. It is asking {reference} to respond, so {guidance}.",
	"With {energy} present, {reference} has an opening. The invitation is simple: {guidance}.",
	"{energy} colors everything today. Lean on {reference} and {guidance}.",
	"The day opens with {energy}. Meet it through {reference}, and {guidance}.",
	"Something in {energy} is meant for {reference}. When you feel it, {guidance}.",
	"Let {energy} set the tone. It pairs naturally with {reference}, so {guidance}.",
	"{energy} rarely arrives without purpose. It has found {reference}, and now you can {guidance}.",
}

var reflectionTemplates = []string{
	"Consider how {energy} has been showing up for you lately. What does {reference} already know about it? Perhaps {guidance}.",
	"Looking back on today, {energy} was present all along. {reference} felt it first. It may help to {guidance}.",
	"When {energy} meets {reference}, old patterns surface. Sit with that, and {guidance}.",
	"Ask yourself where {energy} has been pointing. {reference} holds part of the answer, so {guidance}.",
	"There is a quiet lesson inside {energy}. Let {reference} name it, then {guidance}.",
	"What would change if you took {energy} seriously? {reference} has an opinion. For now, {guidance}.",
	"Today offered {energy} more than once. Notice how {reference} answered, and {guidance}.",
	"Revisit the moment {energy} was strongest. {reference} was speaking then. It is enough to {guidance}.",
}

var affirmationTemplates = []string{
	"I welcome {energy} into this day. {reference} is ready, and I choose to {guidance}.",
	"I carry {energy} with ease. I honor {reference}, and I {guidance}.",
	"{energy} moves with me, not against me. Through {reference}, I {guidance}.",
	"I am open to {energy}. I stand with {reference}, and today I {guidance}.",
	"Within me, {energy} finds a home. I claim {reference}, and I {guidance}.",
	"I meet this day with {energy}. I trust {reference}, and I {guidance}.",
	"{energy} is already mine. It lives in {reference}, and so I {guidance}.",
	"I allow {energy} to guide my pace. With {reference} awake, I {guidance}.",
	"Today I align with {energy}. I listen to {reference}, and I {guidance}.",
}

var predictionTemplates = []string{
	"The coming hours lean toward {energy}. Expect {reference} to be tested gently; when it is, {guidance}.",
	"Watch for {energy} to surface before the day ends. It will reach {reference} first, so {guidance}.",
	"{energy} is building toward a small turning point. {reference} will recognize it, and then you can {guidance}.",
	"A window opens soon where {energy} favors you. Keep {reference} close and {guidance}.",
	"Signs point to {energy} gathering strength. When it touches {reference}, {guidance}.",
	"Before long, {energy} will ask something of {reference}. Be ready to {guidance}.",
	"The pattern suggests {energy} peaks by evening. Let {reference} lead, and {guidance}.",
	"Expect an echo of {energy} where you least look for it. {reference} will know it, so {guidance}.",
}

// templatesForKind returns the template set for a kind. Guidance is the
// default for unknown kinds.
func templatesForKind(kind types.Kind) []string {
	switch kind {
	case types.KindReflection:
		return reflectionTemplates
	case types.KindAffirmation:
		return affirmationTemplates
	case types.KindPrediction:
		return predictionTemplates
	default:
		return guidanceTemplates
	}
}
