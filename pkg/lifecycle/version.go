package lifecycle

import (
	"context"
	"net/http"
	"net/url"
)

// VersionGuard implements the optimistic-concurrency protocol: before any
// update, the current version token is fetched with a metadata-only read
// and attached to the outgoing patch. The provider rejects stale tokens;
// this layer never reconciles conflicting writes itself.
type VersionGuard struct {
	provider Provider
}

// NewVersionGuard creates a version guard backed by the given provider.
func NewVersionGuard(p Provider) *VersionGuard {
	return &VersionGuard{provider: p}
}

// CurrentVersion returns the live version token for a content item. The
// read requests only the version field in edit mode.
func (g *VersionGuard) CurrentVersion(ctx context.Context, contentID string, headers http.Header) (string, error) {
	query := url.Values{
		"mode":   {"edit"},
		"fields": {"versionKey"},
	}
	res, err := g.provider.GetByID(ctx, contentID, query, headers)
	if err != nil || !res.OK() {
		return "", upstreamError(opVersionRead, res, err)
	}
	item, err := res.Content()
	if err != nil {
		return "", upstreamError(opVersionRead, res, err)
	}
	return item.VersionKey, nil
}
