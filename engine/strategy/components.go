// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package strategy

// NumberComponents holds the semantically-tagged text components for one
// focus/realm number. The tables are fixed domain data; entries for
// different numbers are deliberately disjoint so generated text stays
// number-specific.
type NumberComponents struct {
	// Energy descriptors: how the number's current charge reads.
	Energy []string
	// Personal references: how the number shows up in the person.
	References []string
	// Actionable guidance: each entry contains at least one allow-listed
	// action verb.
	Guidance []string
	// Keywords used for matching provider content to this number.
	Keywords []string
}

// numberTable maps each core number to its component set.
var numberTable = map[int]NumberComponents{
	1: {
		Energy:     []string{"pioneering energy", "a spark of bold initiative", "fresh momentum for beginnings"},
		References: []string{"your instinct to lead", "the part of you that starts things", "your independent streak"},
		Guidance:   []string{"trust your first decisive step", "embrace the courage to begin alone", "honor the urge to initiate something new"},
		Keywords:   []string{"leadership", "initiative", "independence", "beginning"},
	},
	2: {
		Energy:     []string{"cooperative energy", "a current of gentle diplomacy", "the quiet pull of partnership"},
		References: []string{"your gift for listening", "the peacemaker in you", "your sensitivity to others"},
		Guidance:   []string{"seek balance in one relationship today", "honor the slower pace of cooperation", "trust the value of patience"},
		Keywords:   []string{"harmony", "partnership", "diplomacy", "patience"},
	},
	3: {
		Energy:     []string{"creative expression rising", "a playful current of imagination", "bright communicative energy"},
		References: []string{"your storyteller's voice", "the artist in you", "your gift for joyful expression"},
		Guidance:   []string{"embrace one act of creative expression", "trust the words that want to come out", "seek a playful outlet for your ideas"},
		Keywords:   []string{"creativity", "expression", "communication", "joy"},
	},
	4: {
		Energy:     []string{"grounding energy", "a steady current of order", "the patient pull of structure"},
		References: []string{"your builder's discipline", "the planner in you", "your respect for honest work"},
		Guidance:   []string{"honor one small practical task", "trust the slow strength of routine", "embrace the stability you are building"},
		Keywords:   []string{"foundation", "discipline", "structure", "stability"},
	},
	5: {
		Energy:     []string{"restless energy of change", "a current of adventurous curiosity", "freedom asking for room"},
		References: []string{"your appetite for variety", "the explorer in you", "your love of the unexpected"},
		Guidance:   []string{"embrace one unfamiliar option", "seek a change of scene, however small", "trust your adaptability"},
		Keywords:   []string{"freedom", "change", "adventure", "curiosity"},
	},
	6: {
		Energy:     []string{"nurturing energy", "a warm current of care", "the gravitational pull of home"},
		References: []string{"your protective heart", "the caretaker in you", "your sense of responsibility to others"},
		Guidance:   []string{"honor someone who depends on you", "embrace a small act of service", "seek beauty in your immediate surroundings"},
		Keywords:   []string{"nurturing", "care", "responsibility", "home"},
	},
	7: {
		Energy:     []string{"mystical insight stirring", "a contemplative inward current", "the quiet depth of inner knowing"},
		References: []string{"your seeker's mind", "the mystic in you", "your appetite for hidden meaning"},
		Guidance:   []string{"trust the answer that arrives in silence", "seek a few minutes of genuine solitude", "honor the question more than the answer"},
		Keywords:   []string{"mysticism", "insight", "solitude", "wisdom"},
	},
	8: {
		Energy:     []string{"ambitious material energy", "a current of executive power", "abundance gathering form"},
		References: []string{"your strategist's eye", "the executive in you", "your capacity to hold authority"},
		Guidance:   []string{"align your effort with one concrete goal", "trust your ability to manage what you built", "embrace the responsibility that comes with reach"},
		Keywords:   []string{"abundance", "power", "achievement", "authority"},
	},
	9: {
		Energy:     []string{"completing energy", "a wide compassionate current", "the release that precedes renewal"},
		References: []string{"your humanitarian heart", "the elder wisdom in you", "your readiness to let go"},
		Guidance:   []string{"honor an ending without rushing past it", "embrace forgiveness where it is ready", "seek the larger pattern behind this chapter"},
		Keywords:   []string{"completion", "compassion", "release", "wisdom"},
	},
}

// globalComponents back-stops synthesis when no number-specific component
// applies.
var globalComponents = NumberComponents{
	Energy:     []string{"a subtle shift in today's energy", "a current moving beneath the surface"},
	References: []string{"the part of you that notices", "your own steady center"},
	Guidance:   []string{"trust what feels steady and take one small step", "honor whatever needs your attention first"},
	Keywords:   []string{"energy", "awareness"},
}

// ComponentsForNumber returns the component set for a core number, or the
// global defaults for numbers outside 1..9.
func ComponentsForNumber(n int) NumberComponents {
	if c, ok := numberTable[n]; ok {
		return c
	}
	return globalComponents
}

// actionVerbs is the allow-list every chosen guidance component must
// contain at least one of.
var actionVerbs = []string{"trust", "embrace", "honor", "seek", "align"}

// cannedGuidance is substituted when no extracted candidate carries an
// allow-listed verb.
const cannedGuidance = "trust what feels steady and take one small action"
