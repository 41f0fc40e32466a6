// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

// Package journal implements the journal data provider backed by
// MongoDB. It surfaces the user's recent entries as mood and theme
// context for reflective features.
package journal

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"kasper/engine/providers/base"
	"kasper/engine/shared/types"
)

// Config holds journal provider settings.
type Config struct {
	URI        string
	Database   string // default "kasper"
	Collection string // default "journal_entries"

	// RecentWindow bounds how far back entries are considered.
	RecentWindow time.Duration // default 7 days
}

// Entry is a stored journal entry.
type Entry struct {
	Mood      string    `bson:"mood"`
	Text      string    `bson:"text"`
	Themes    []string  `bson:"themes"`
	CreatedAt time.Time `bson:"created_at"`
}

// Provider reads recent entries and distills them into context data.
type Provider struct {
	coll   *mongo.Collection
	window time.Duration
}

// New connects to MongoDB and verifies the deployment is reachable.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Database == "" {
		cfg.Database = "kasper"
	}
	if cfg.Collection == "" {
		cfg.Collection = "journal_entries"
	}
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = 7 * 24 * time.Hour
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("journal: connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("journal: ping: %w", err)
	}

	return &Provider{
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		window: cfg.RecentWindow,
	}, nil
}

// NewWithCollection builds a provider over an existing collection handle.
// Tests and embedded deployments use this instead of New.
func NewWithCollection(coll *mongo.Collection, window time.Duration) *Provider {
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	return &Provider{coll: coll, window: window}
}

// ID implements base.Provider.
func (p *Provider) ID() string { return types.ProviderJournal }

// IsAvailable implements base.Provider with a short ping.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.coll.Database().Client().Ping(pingCtx, readpref.Primary()) == nil
}

// ProvideContext implements base.Provider. A reachable store with no
// recent entries is a soft miss: the provider reports unavailable and
// the aggregator moves on.
func (p *Provider) ProvideContext(ctx context.Context, feature types.Feature) (*base.ProviderContext, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	since := time.Now().Add(-p.window)
	cur, err := p.coll.Find(queryCtx,
		bson.M{"created_at": bson.M{"$gte": since}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(20),
	)
	if err != nil {
		return nil, base.NewProviderError(types.ProviderJournal, "find", "recent entries query failed", err)
	}

	var entries []Entry
	if err := cur.All(queryCtx, &entries); err != nil {
		return nil, base.NewProviderError(types.ProviderJournal, "decode", "recent entries decode failed", err)
	}
	if len(entries) == 0 {
		return nil, &base.UnavailableError{Name: types.ProviderJournal}
	}

	return base.NewProviderContext(types.ProviderJournal, feature, distill(entries)), nil
}

// ClearCache implements base.Provider. The provider queries live.
func (p *Provider) ClearCache(_ context.Context) {}

// distill reduces recent entries to the small data blob the strategies
// consume: dominant mood, dominant theme, and an insight sentence.
func distill(entries []Entry) map[string]interface{} {
	mood := dominant(entries, func(e Entry) []string {
		if e.Mood == "" {
			return nil
		}
		return []string{e.Mood}
	})
	theme := dominant(entries, func(e Entry) []string { return e.Themes })

	data := map[string]interface{}{
		"entryCount": len(entries),
	}
	if mood != "" {
		data["recentMood"] = "a recurring " + mood + " undertone"
	}
	if theme != "" {
		data["themeInsight"] = "your recent writing keeps returning to " + theme
	}
	return data
}

// dominant returns the most frequent value extracted across entries,
// breaking ties alphabetically for determinism.
func dominant(entries []Entry, extract func(Entry) []string) string {
	counts := make(map[string]int)
	for _, e := range entries {
		for _, v := range extract(e) {
			counts[strings.ToLower(strings.TrimSpace(v))]++
		}
	}
	delete(counts, "")

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
