package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// TaxonomyCache is a cache-aside store of framework taxonomy documents,
// keyed by framework identifier. It is the only shared state in this layer.
// Concurrent misses for the same key may each fetch upstream; the write is
// idempotent last-writer-wins, so no coalescing is done.
type TaxonomyCache struct {
	provider Provider
	store    CacheStore
	log      *slog.Logger
}

// NewTaxonomyCache creates a taxonomy cache. store may be nil, in which
// case every lookup goes to the provider.
func NewTaxonomyCache(p Provider, store CacheStore, log *slog.Logger) *TaxonomyCache {
	if log == nil {
		log = slog.Default()
	}
	return &TaxonomyCache{provider: p, store: store, log: log}
}

// GetOrFetch returns the taxonomy for a framework, consulting the cache
// first. On a miss the provider is queried, and only a successful result is
// written back. Cache read/write failures are logged and swallowed; only
// provider failures propagate.
func (c *TaxonomyCache) GetOrFetch(ctx context.Context, frameworkID string, headers http.Header) (*Framework, error) {
	if c.store != nil {
		b, err := c.store.Get(ctx, frameworkID)
		switch {
		case err == nil:
			var fw Framework
			if jerr := json.Unmarshal(b, &fw); jerr == nil {
				return &fw, nil
			}
			// Corrupt entry: refetch and overwrite.
			c.log.Warn("discarding corrupt framework cache entry", "framework", frameworkID)
		case !errors.Is(err, ErrCacheMiss):
			c.log.Warn("framework cache read failed", "framework", frameworkID, "error", err)
		}
	}

	res, err := c.provider.GetFrameworkByID(ctx, frameworkID, headers)
	if err != nil || !res.OK() {
		return nil, upstreamError(opFramework, res, err)
	}
	var fw Framework
	if err := res.Decode("framework", &fw); err != nil {
		return nil, upstreamError(opFramework, res, err)
	}

	if c.store != nil {
		if b, merr := json.Marshal(&fw); merr == nil {
			if serr := c.store.Set(ctx, frameworkID, b); serr != nil {
				c.log.Warn("framework cache write failed", "framework", frameworkID, "error", serr)
			}
		}
	}
	return &fw, nil
}
