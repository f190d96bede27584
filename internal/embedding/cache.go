package embedding

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"mindmesh/internal/logging"
)

// =============================================================================
// LRU-CACHED ENGINE
// =============================================================================

// CachedEngine wraps an Engine with an LRU cache keyed by text. The raw-input
// store path and the semantic search path embed the same text within one
// request; caching collapses that into a single backend call.
type CachedEngine struct {
	inner Engine
	cache *lru.Cache[string, []float32]
}

// NewCachedEngine wraps engine with an LRU of the given size.
func NewCachedEngine(engine Engine, size int) (*CachedEngine, error) {
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}
	return &CachedEngine{inner: engine, cache: cache}, nil
}

// Embed returns the cached vector when available, otherwise delegates.
func (e *CachedEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.cache.Get(text); ok {
		logging.EmbeddingDebug("Embed cache hit (len=%d)", len(text))
		return vec, nil
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Add(text, vec)
	return vec, nil
}

// Dimensions returns the wrapped engine's dimensionality.
func (e *CachedEngine) Dimensions() int {
	return e.inner.Dimensions()
}

// Name returns the wrapped engine's name with a cache marker.
func (e *CachedEngine) Name() string {
	return e.inner.Name() + "+lru"
}

// HealthCheck delegates when the wrapped engine supports it.
func (e *CachedEngine) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
