// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package engine

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"kasper/engine/engine/quality"
	"kasper/engine/shared/types"
)

// GatePolicy decides what happens when scored text falls below the
// quality threshold. The caller always receives text either way; this is
// an explicit configuration, not a per-call-site inference.
type GatePolicy string

const (
	// GatePolicyFlag returns the text with the degraded-quality flag set.
	// This is the default.
	GatePolicyFlag GatePolicy = "flag"

	// GatePolicyAccept returns the text unflagged.
	GatePolicyAccept GatePolicy = "accept"

	// GatePolicyRegenerate reruns the fallback strategy once and keeps
	// whichever text graded higher, flagging if both stayed below.
	GatePolicyRegenerate GatePolicy = "regenerate"
)

// IsValid returns true if the GatePolicy is a valid known value
func (p GatePolicy) IsValid() bool {
	switch p {
	case GatePolicyFlag, GatePolicyAccept, GatePolicyRegenerate:
		return true
	default:
		return false
	}
}

// Model backends for the primary strategy.
const (
	ModelBackendNone    = ""
	ModelBackendOpenAI  = "openai"
	ModelBackendBedrock = "bedrock"
)

// DefaultQualityThreshold is the final-grade gate applied when none is
// configured.
const DefaultQualityThreshold = 0.84

// DefaultGateRetryInterval is the sleep between gate acquisition
// attempts.
const DefaultGateRetryInterval = 100 * time.Millisecond

// Config holds every orchestrator tunable.
type Config struct {
	MaxConcurrent     int           `yaml:"max_concurrent"`
	MaxGateRetries    int           `yaml:"max_gate_retries"`
	GateRetryInterval time.Duration `yaml:"gate_retry_interval"`

	MaxCacheSize int `yaml:"max_cache_size"`
	// FeatureTTLSeconds overrides per-feature cache TTLs, keyed by
	// feature name.
	FeatureTTLSeconds map[string]int `yaml:"feature_ttl_seconds"`

	QualityThreshold float64    `yaml:"quality_threshold"`
	GatePolicy       GatePolicy `yaml:"gate_policy"`
	Persona          string     `yaml:"persona"`

	ModelBackend  string `yaml:"model_backend"`
	ModelEndpoint string `yaml:"model_endpoint"`
	ModelName     string `yaml:"model_name"`
	BedrockRegion string `yaml:"bedrock_region"`
	// ModelAPIKey comes from the environment only, never from a file.
	ModelAPIKey string `yaml:"-"`

	// RandSeed seeds template selection. Zero means time-seeded; tests
	// set it for deterministic draws.
	RandSeed int64 `yaml:"rand_seed"`
}

// DefaultEngineConfig returns the standard orchestrator configuration.
func DefaultEngineConfig() Config {
	return Config{
		MaxConcurrent:     DefaultMaxConcurrent,
		MaxGateRetries:    DefaultMaxGateRetries,
		GateRetryInterval: DefaultGateRetryInterval,
		MaxCacheSize:      DefaultMaxCacheSize,
		QualityThreshold:  DefaultQualityThreshold,
		GatePolicy:        GatePolicyFlag,
		Persona:           string(quality.PersonaOracle),
	}
}

// LoadConfigFromEnv builds a config from environment variables, starting
// from the defaults.
//
// Environment variables:
//   - KASPER_MAX_CONCURRENT: generation slot count (default: 3)
//   - KASPER_MAX_CACHE_SIZE: cache entry bound (default: 100)
//   - KASPER_QUALITY_THRESHOLD: final-grade gate (default: 0.84)
//   - KASPER_GATE_POLICY: flag (default), accept, or regenerate
//   - KASPER_PERSONA: active persona (default: oracle)
//   - KASPER_MODEL_BACKEND: "", "openai", or "bedrock"
//   - KASPER_MODEL_ENDPOINT / KASPER_MODEL_NAME / KASPER_MODEL_API_KEY
//   - BEDROCK_REGION: AWS region for the bedrock backend
func LoadConfigFromEnv() Config {
	cfg := DefaultEngineConfig()

	if v := os.Getenv("KASPER_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxConcurrent = n
		}
	}
	if v := os.Getenv("KASPER_MAX_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxCacheSize = n
		}
	}
	if v := os.Getenv("KASPER_QUALITY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			cfg.QualityThreshold = f
		}
	}
	if v := os.Getenv("KASPER_GATE_POLICY"); v != "" {
		if GatePolicy(v).IsValid() {
			cfg.GatePolicy = GatePolicy(v)
		}
	}
	if v := os.Getenv("KASPER_PERSONA"); v != "" && quality.Persona(v).IsValid() {
		cfg.Persona = v
	}

	cfg.ModelBackend = os.Getenv("KASPER_MODEL_BACKEND")
	cfg.ModelEndpoint = os.Getenv("KASPER_MODEL_ENDPOINT")
	cfg.ModelName = os.Getenv("KASPER_MODEL_NAME")
	cfg.ModelAPIKey = os.Getenv("KASPER_MODEL_API_KEY")
	cfg.BedrockRegion = os.Getenv("BEDROCK_REGION")

	return cfg
}

// LoadConfigFile overlays a YAML config file onto cfg.
func LoadConfigFile(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ttlOverrides converts the configured per-feature TTL seconds into the
// cache's override map, dropping unknown features.
func (c Config) ttlOverrides() map[types.Feature]time.Duration {
	if len(c.FeatureTTLSeconds) == 0 {
		return nil
	}
	out := make(map[types.Feature]time.Duration, len(c.FeatureTTLSeconds))
	for name, secs := range c.FeatureTTLSeconds {
		f := types.Feature(name)
		if f.IsValid() && secs > 0 {
			out[f] = time.Duration(secs) * time.Second
		}
	}
	return out
}
