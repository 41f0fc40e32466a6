// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

// Package numerology implements the numerology data provider. Archetype
// tables ship embedded in the binary, so the provider is always available
// and never performs I/O at request time.
package numerology

import (
	"context"
	_ "embed"
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"kasper/engine/providers/base"
	"kasper/engine/shared/types"
)

//go:embed data/archetypes.yaml
var archetypeYAML []byte

// Archetype is one number's entry in the embedded table.
type Archetype struct {
	Archetype string   `yaml:"archetype"`
	Energy    string   `yaml:"energy"`
	Guidance  string   `yaml:"guidance"`
	Keywords  []string `yaml:"keywords"`
}

type archetypeFile struct {
	Numbers map[int]Archetype `yaml:"numbers"`
}

// Provider serves numerology context: the universal day number for the
// current date plus its archetype, energy, and guidance phrases. Results
// are memoized per day.
type Provider struct {
	archetypes map[int]Archetype

	// now is a test hook; production code leaves it as time.Now.
	now func() time.Time

	mu       sync.Mutex
	memoDay  string
	memoData map[string]interface{}
}

// New loads the embedded archetype tables. The tables are compiled into
// the binary, so a parse failure is a build defect and panics at startup.
func New() *Provider {
	var f archetypeFile
	if err := yaml.Unmarshal(archetypeYAML, &f); err != nil {
		panic(fmt.Sprintf("numerology: embedded archetype table invalid: %v", err))
	}
	return &Provider{
		archetypes: f.Numbers,
		now:        time.Now,
	}
}

// ID implements base.Provider.
func (p *Provider) ID() string { return types.ProviderNumerology }

// IsAvailable implements base.Provider. The embedded tables have no
// backing store, so the provider is always available.
func (p *Provider) IsAvailable(_ context.Context) bool { return true }

// ProvideContext implements base.Provider.
func (p *Provider) ProvideContext(_ context.Context, feature types.Feature) (*base.ProviderContext, error) {
	day := p.now().Format("2006-01-02")

	p.mu.Lock()
	if p.memoDay != day {
		p.memoData = p.buildDayData(day)
		p.memoDay = day
	}
	data := make(map[string]interface{}, len(p.memoData))
	for k, v := range p.memoData {
		data[k] = v
	}
	p.mu.Unlock()

	return base.NewProviderContext(types.ProviderNumerology, feature, data), nil
}

// ClearCache implements base.Provider.
func (p *Provider) ClearCache(_ context.Context) {
	p.mu.Lock()
	p.memoDay = ""
	p.memoData = nil
	p.mu.Unlock()
}

// buildDayData computes the universal day number from the date and joins
// it with its archetype entry. Keys are tagged so the template strategy
// can slot them: "energy" feeds the energy slot, "archetype" the
// reference slot, "guidance" the guidance slot.
func (p *Provider) buildDayData(day string) map[string]interface{} {
	n := UniversalDayNumber(day)
	data := map[string]interface{}{
		"focusNumber": n,
	}
	if a, ok := p.archetypes[n]; ok {
		data["archetype"] = a.Archetype
		data["energy"] = a.Energy
		data["guidance"] = a.Guidance
		data["keywords"] = a.Keywords
	}
	return data
}

// Archetype returns the table entry for a number, reducing it first.
func (p *Provider) Archetype(n int) (Archetype, bool) {
	a, ok := p.archetypes[Reduce(n)]
	return a, ok
}

// UniversalDayNumber sums the digits of a YYYY-MM-DD date string and
// reduces the total.
func UniversalDayNumber(day string) int {
	sum := 0
	for _, r := range day {
		if r >= '0' && r <= '9' {
			sum += int(r - '0')
		}
	}
	return Reduce(sum)
}

// Reduce collapses a number to a single digit by repeated digit summing,
// preserving the master numbers 11, 22, and 33 unreduced.
func Reduce(n int) int {
	if n <= 0 {
		return 0
	}
	for n > 9 {
		if n == 11 || n == 22 || n == 33 {
			return n
		}
		sum := 0
		for n > 0 {
			sum += n % 10
			n /= 10
		}
		n = sum
	}
	return n
}
