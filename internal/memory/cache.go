// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memory

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pdiddy/style-engine/pkg/types"
)

// CachedStore serves active profile reads from an LRU cache. Profile
// writes through the wrapper evict the scope's entry and the next read
// reloads it from the wrapped store.
type CachedStore struct {
	Store
	profiles *lru.Cache[types.Scope, types.StyleProfile]

	// mu orders cache misses against writes so a miss never caches a
	// profile that a concurrent write has already superseded.
	mu sync.Mutex
}

// Cached wraps s with an active profile cache holding up to size scopes.
func Cached(s Store, size int) (*CachedStore, error) {
	c, err := lru.New[types.Scope, types.StyleProfile](size)
	if err != nil {
		return nil, fmt.Errorf("creating profile cache: %w", err)
	}
	return &CachedStore{Store: s, profiles: c}, nil
}

// WriteStyleProfile evicts the cached entry and writes through.
func (c *CachedStore) WriteStyleProfile(ctx context.Context, scope types.Scope, p types.StyleProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles.Remove(scope)
	return c.Store.WriteStyleProfile(ctx, scope, p)
}

// ReadActiveStyleProfile returns the cached profile or loads and caches it.
// Absence is not cached.
func (c *CachedStore) ReadActiveStyleProfile(ctx context.Context, scope types.Scope) (types.StyleProfile, bool, error) {
	if p, ok := c.profiles.Get(scope); ok {
		return p, true, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.profiles.Get(scope); ok {
		return p, true, nil
	}
	p, ok, err := c.Store.ReadActiveStyleProfile(ctx, scope)
	if err != nil || !ok {
		return p, ok, err
	}
	c.profiles.Add(scope, p)
	return p, true, nil
}

// SearchArtifacts delegates to the wrapped store when it supports search.
func (c *CachedStore) SearchArtifacts(ctx context.Context, scope types.Scope, query string, limit int) ([]types.GeneratedArtifact, error) {
	if s, ok := c.Store.(Searcher); ok {
		return s.SearchArtifacts(ctx, scope, query, limit)
	}
	return nil, ErrSearchUnsupported
}
