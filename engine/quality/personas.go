// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package quality

// Persona selects the vocabulary bias applied in the persona-tinting
// stage and the rule used to score persona adherence.
type Persona string

const (
	// PersonaOracle leans into mystical lexicon.
	PersonaOracle Persona = "oracle"
	// PersonaPsychologist strips mystical vocabulary for cognitive verbs.
	PersonaPsychologist Persona = "psychologist"
	// PersonaMindfulnessCoach favors somatic, present-tense vocabulary.
	PersonaMindfulnessCoach Persona = "mindfulness_coach"
	// PersonaNumerologyScholar favors pattern and archetype vocabulary.
	PersonaNumerologyScholar Persona = "numerology_scholar"
	// PersonaPhilosopher favors reflective, questioning vocabulary.
	PersonaPhilosopher Persona = "philosopher"
)

// AllPersonas lists every persona in a stable order.
var AllPersonas = []Persona{
	PersonaOracle,
	PersonaPsychologist,
	PersonaMindfulnessCoach,
	PersonaNumerologyScholar,
	PersonaPhilosopher,
}

// IsValid returns true if the Persona is a valid known value
func (p Persona) IsValid() bool {
	for _, known := range AllPersonas {
		if p == known {
			return true
		}
	}
	return false
}

// personaSubstitutions is the per-persona word substitution table applied
// by the tinting stage. Whole-word, capitalization-preserving.
var personaSubstitutions = map[Persona]map[string]string{
	PersonaOracle: {
		"energy":  "current",
		"notice":  "behold",
		"moment":  "turning",
		"today":   "this day",
		"pattern": "omen",
	},
	PersonaPsychologist: {
		"mystical":  "intuitive",
		"cosmic":    "broader",
		"sacred":    "meaningful",
		"energy":    "momentum",
		"universe":  "world around you",
		"spiritual": "inner",
	},
	PersonaMindfulnessCoach: {
		"notice": "observe",
		"feel":   "sense",
		"think":  "breathe with",
		"energy": "presence",
	},
	PersonaNumerologyScholar: {
		"energy":  "vibration",
		"number":  "archetype",
		"quality": "signature",
		"theme":   "pattern",
	},
	PersonaPhilosopher: {
		"today":   "in this moment",
		"answer":  "question worth holding",
		"quickly": "deliberately",
		"energy":  "condition",
	},
}

// personaMarkers are the vocabulary each persona's adherence rule looks
// for. The psychologist is scored inversely: its markers are words that
// must be absent.
var personaMarkers = map[Persona][]string{
	PersonaOracle:            {"current", "behold", "omen", "unseen", "this day", "turning"},
	PersonaPsychologist:      {"mystical", "cosmic", "sacred", "omen", "vibration", "divine"},
	PersonaMindfulnessCoach:  {"observe", "sense", "breath", "breathe", "presence", "ground"},
	PersonaNumerologyScholar: {"archetype", "vibration", "pattern", "signature", "cycle"},
	PersonaPhilosopher:       {"question", "meaning", "consider", "moment", "worth"},
}
