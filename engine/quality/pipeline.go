// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package quality

// Default sentence token range for cadence shaping and scoring.
const (
	DefaultSentenceMinTokens = 12
	DefaultSentenceMaxTokens = 22
)

// Config tunes the pipeline. Zero values take the defaults.
type Config struct {
	Persona           Persona
	SentenceMinTokens int
	SentenceMaxTokens int
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Persona:           PersonaOracle,
		SentenceMinTokens: DefaultSentenceMinTokens,
		SentenceMaxTokens: DefaultSentenceMaxTokens,
	}
}

// Pipeline is the fixed ordered sequence of text transforms applied to
// every piece of generated text before scoring.
type Pipeline struct {
	cfg Config
}

// NewPipeline creates a pipeline, filling unset config fields with
// defaults.
func NewPipeline(cfg Config) *Pipeline {
	if cfg.Persona == "" {
		cfg.Persona = PersonaOracle
	}
	if cfg.SentenceMinTokens <= 0 {
		cfg.SentenceMinTokens = DefaultSentenceMinTokens
	}
	if cfg.SentenceMaxTokens <= 0 {
		cfg.SentenceMaxTokens = DefaultSentenceMaxTokens
	}
	return &Pipeline{cfg: cfg}
}

// Config returns the pipeline's effective configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Process runs the twelve stages in their fixed order, each stage
// consuming the previous stage's output.
func (p *Pipeline) Process(text string) string {
	out := NormalizeText(text)
	out = RemoveTemplateSeams(out)
	out = ControlRepetition(out)
	out = FixMidSentenceCapitals(out)
	out = FixAgreement(out)
	out = ShapeCadence(out, p.cfg.SentenceMaxTokens)
	out = AnchorConcrete(out)
	out = TintPersona(out, p.cfg.Persona)
	out = ModerateIntensifiers(out)
	out = SoftenLanguage(out)
	out = EnforceEmojiPolicy(out)
	out = PolishTypography(out)
	return out
}
