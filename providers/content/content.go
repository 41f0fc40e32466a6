// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

// Package content implements the MegaCorpus content provider. Curated
// corpus fragments come from the content API over HTTP and are cached in
// Redis keyed by feature, so a corpus outage degrades to cached data
// before it degrades to nothing.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"kasper/engine/providers/base"
	"kasper/engine/shared/types"
)

// cachePrefix namespaces this provider's Redis keys.
const cachePrefix = "megacorpus:"

// Config holds content provider settings.
type Config struct {
	// APIURL is the content API base, e.g. "https://corpus.internal".
	APIURL string

	// RedisURL enables the Redis cache when set. Empty runs uncached.
	RedisURL string

	// HTTPClient overrides the default client; tests inject one.
	HTTPClient *http.Client
}

// Provider fetches corpus fragments for a feature.
type Provider struct {
	apiURL string
	http   *http.Client
	cache  *redis.Client
}

// New validates the config and wires the Redis cache when configured.
func New(cfg Config) (*Provider, error) {
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("content: APIURL required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}

	p := &Provider{apiURL: cfg.APIURL, http: httpClient}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("content: redis url: %w", err)
		}
		p.cache = redis.NewClient(opts)
	}

	return p, nil
}

// NewWithClients builds a provider over caller-supplied clients. Tests
// pair this with httptest and miniredis.
func NewWithClients(apiURL string, httpClient *http.Client, cache *redis.Client) *Provider {
	return &Provider{apiURL: apiURL, http: httpClient, cache: cache}
}

// ID implements base.Provider.
func (p *Provider) ID() string { return types.ProviderMegaCorpus }

// IsAvailable implements base.Provider: the corpus API answers its
// health endpoint, or the cache is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	reqCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.apiURL+"/health", nil)
	if err == nil {
		if resp, err := p.http.Do(req); err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
	}

	if p.cache != nil {
		return p.cache.Ping(reqCtx).Err() == nil
	}
	return false
}

// ProvideContext implements base.Provider: cache first, then the API.
func (p *Provider) ProvideContext(ctx context.Context, feature types.Feature) (*base.ProviderContext, error) {
	key := cachePrefix + feature.String()

	if p.cache != nil {
		if raw, err := p.cache.Get(ctx, key).Bytes(); err == nil {
			var data map[string]interface{}
			if json.Unmarshal(raw, &data) == nil && len(data) > 0 {
				return base.NewProviderContext(types.ProviderMegaCorpus, feature, data), nil
			}
		}
	}

	data, err := p.fetch(ctx, feature)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if raw, err := json.Marshal(data); err == nil {
			p.cache.Set(ctx, key, raw, types.FeatureTTL(feature))
		}
	}

	return base.NewProviderContext(types.ProviderMegaCorpus, feature, data), nil
}

// ClearCache implements base.Provider: drops every megacorpus key.
func (p *Provider) ClearCache(ctx context.Context) {
	if p.cache == nil {
		return
	}

	iter := p.cache.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		p.cache.Del(ctx, iter.Val())
	}
}

// fetch pulls the feature's fragment set from the content API. The API
// returns a flat JSON object of slot-tagged strings.
func (p *Provider) fetch(ctx context.Context, feature types.Feature) (map[string]interface{}, error) {
	reqCtx, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/corpus/%s", p.apiURL, feature)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, base.NewProviderError(types.ProviderMegaCorpus, "fetch", "request build failed", err)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, base.NewProviderError(types.ProviderMegaCorpus, "fetch", "corpus api unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, base.NewProviderError(types.ProviderMegaCorpus, "fetch",
			fmt.Sprintf("corpus api returned %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, base.NewProviderError(types.ProviderMegaCorpus, "fetch", "response read failed", err)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, base.NewProviderError(types.ProviderMegaCorpus, "fetch", "response decode failed", err)
	}
	if len(data) == 0 {
		return nil, &base.UnavailableError{Name: types.ProviderMegaCorpus}
	}
	return data, nil
}
