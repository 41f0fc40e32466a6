// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

// Package cosmic implements the cosmic data provider: planetary day
// rulers and an arithmetic moon phase. Everything is computed from the
// clock, so the provider never fails and is always available.
package cosmic

import (
	"context"
	"math"
	"time"

	"kasper/engine/providers/base"
	"kasper/engine/shared/types"
)

// contextTTL bounds cosmic context freshness. Sky state is the fastest
// moving input the engine has, so it expires well inside every feature
// TTL.
const contextTTL = 60 * time.Second

// synodicMonth is the mean lunar cycle length in days.
const synodicMonth = 29.530588853

// referenceNewMoon is a known new moon instant (2000-01-06 18:14 UTC)
// used as the phase epoch.
var referenceNewMoon = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

// dayRulers maps weekday to its traditional planetary ruler and the
// ruler's energy phrase.
var dayRulers = map[time.Weekday]struct {
	Planet string
	Energy string
}{
	time.Sunday:    {"Sun", "vital self-expressive energy"},
	time.Monday:    {"Moon", "tidal reflective energy"},
	time.Tuesday:   {"Mars", "driving assertive energy"},
	time.Wednesday: {"Mercury", "quick connective energy"},
	time.Thursday:  {"Jupiter", "expansive generous energy"},
	time.Friday:    {"Venus", "magnetic relational energy"},
	time.Saturday:  {"Saturn", "patient structuring energy"},
}

// moonPhases lists the eight phase names in cycle order with the
// practice each invites.
var moonPhases = []struct {
	Name     string
	Practice string
}{
	{"new moon", "seek a quiet moment to set one clear intention"},
	{"waxing crescent", "trust the small daily step over the grand gesture"},
	{"first quarter", "align your effort with the commitment you made"},
	{"waxing gibbous", "honor the refinement the work is asking for"},
	{"full moon", "embrace what the light is showing you, all of it"},
	{"waning gibbous", "seek someone to share what you have learned"},
	{"last quarter", "honor what is complete and let it close"},
	{"waning crescent", "trust the rest before the next beginning"},
}

// Provider computes sky state on demand. It holds no connections and no
// cache beyond the context's own TTL.
type Provider struct {
	// now is a test hook; production code leaves it as time.Now.
	now func() time.Time
}

// New creates the cosmic provider.
func New() *Provider {
	return &Provider{now: time.Now}
}

// ID implements base.Provider.
func (p *Provider) ID() string { return types.ProviderCosmic }

// IsAvailable implements base.Provider.
func (p *Provider) IsAvailable(_ context.Context) bool { return true }

// ProvideContext implements base.Provider. Cosmic contexts carry their
// own 60s expiry instead of the feature TTL.
func (p *Provider) ProvideContext(_ context.Context, feature types.Feature) (*base.ProviderContext, error) {
	now := p.now()
	ruler := dayRulers[now.UTC().Weekday()]
	phase := moonPhases[phaseIndex(now)]

	return &base.ProviderContext{
		ProviderID: types.ProviderCosmic,
		Feature:    feature,
		Data: map[string]interface{}{
			"rulingPlanet":  ruler.Planet,
			"energy":        ruler.Energy,
			"moonReference": "the " + phase.Name,
			"practice":      phase.Practice,
			"moonAge":       moonAgeDays(now),
		},
		ExpiresAt: now.Add(contextTTL),
	}, nil
}

// ClearCache implements base.Provider. Nothing to drop.
func (p *Provider) ClearCache(_ context.Context) {}

// moonAgeDays returns days elapsed in the current lunar cycle.
func moonAgeDays(t time.Time) float64 {
	elapsed := t.Sub(referenceNewMoon).Hours() / 24
	age := math.Mod(elapsed, synodicMonth)
	if age < 0 {
		age += synodicMonth
	}
	return age
}

// phaseIndex maps the moon's age to one of the eight named phases.
func phaseIndex(t time.Time) int {
	idx := int(moonAgeDays(t) / synodicMonth * 8)
	if idx > 7 {
		idx = 7
	}
	return idx
}
