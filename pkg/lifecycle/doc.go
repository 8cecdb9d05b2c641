// Package lifecycle orchestrates content lifecycle operations against a
// remote content-management provider.
//
// The provider owns all authoritative content state. This package validates
// incoming requests, enforces ownership and draft-state rules, implements
// optimistic concurrency by fetching a fresh version token before every
// update, and enriches search facets with cached taxonomy metadata before
// results are returned to callers.
//
// The main entry point is the Service interface, created with New and a set
// of functional options:
//
//	svc, err := lifecycle.New(
//	    lifecycle.WithProvider(client),
//	    lifecycle.WithCacheStore(memory.New()),
//	    lifecycle.WithValidator(validation.New()),
//	)
//
// Collaborators (Provider, CacheStore, Notifier, RequestValidator) are
// defined as interfaces in this package and implemented in subpackages.
package lifecycle
