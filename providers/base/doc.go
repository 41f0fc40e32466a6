// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

// Package base defines the Provider interface implemented by every KASPER
// data source, plus the ProviderContext value providers hand to the
// context aggregator.
//
// Providers are collaborators, not components: the engine never reaches
// into their internals. Whether a planetary-position calculation is
// astronomically accurate is the provider's problem; the engine only cares
// that the provider answers IsAvailable honestly, returns a context blob
// or an error from ProvideContext, and drops internal caches on
// ClearCache.
package base
