package lifecycle

import (
	"context"
	"net/http"
	"net/url"
)

// Provider is the remote content-management backend. Every method returns
// the provider's result envelope; callers must treat a non-OK response code
// as failure regardless of transport-level success. Headers are forwarded
// verbatim so the provider sees the caller's identity and channel headers.
type Provider interface {
	// Search runs the provider's composite search.
	Search(ctx context.Context, body interface{}, headers http.Header) (*ProviderResponse, error)

	// GetByID reads a single content item, honoring query options such as
	// mode=edit or a field projection.
	GetByID(ctx context.Context, id string, query url.Values, headers http.Header) (*ProviderResponse, error)

	Create(ctx context.Context, body interface{}, headers http.Header) (*ProviderResponse, error)
	Update(ctx context.Context, body interface{}, id string, headers http.Header) (*ProviderResponse, error)
	Review(ctx context.Context, body interface{}, id string, headers http.Header) (*ProviderResponse, error)
	Publish(ctx context.Context, body interface{}, id string, headers http.Header) (*ProviderResponse, error)
	UnlistedPublish(ctx context.Context, body interface{}, id string, headers http.Header) (*ProviderResponse, error)
	Reject(ctx context.Context, body interface{}, id string, headers http.Header) (*ProviderResponse, error)
	Retire(ctx context.Context, id string, headers http.Header) (*ProviderResponse, error)
	Copy(ctx context.Context, body interface{}, id string, headers http.Header) (*ProviderResponse, error)
	Flag(ctx context.Context, body interface{}, id string, headers http.Header) (*ProviderResponse, error)
	AcceptFlag(ctx context.Context, body interface{}, id string, headers http.Header) (*ProviderResponse, error)
	RejectFlag(ctx context.Context, body interface{}, id string, headers http.Header) (*ProviderResponse, error)

	// GetFrameworkByID reads a taxonomy framework document.
	GetFrameworkByID(ctx context.Context, id string, headers http.Header) (*ProviderResponse, error)

	// SystemUpdate issues a metadata-only update that bypasses the version
	// key check, used for badge assertion lists.
	SystemUpdate(ctx context.Context, body interface{}, id string, headers http.Header) (*ProviderResponse, error)
}

// CacheStore is a key/value store shared across requests. Implementations
// must tolerate concurrent reads and writes; last-writer-wins is acceptable.
// Get returns ErrCacheMiss when the key is absent. Eviction policy belongs
// to the implementation, not to this package.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// EventKind identifies a notification event.
type EventKind string

const (
	EventReviewRequested   EventKind = "content.review.requested"
	EventPublished         EventKind = "content.published"
	EventUnlistedPublished EventKind = "content.unlisted.published"
	EventRejected          EventKind = "content.rejected"
	EventFlagAccepted      EventKind = "content.flag.accepted"
	EventFlagRejected      EventKind = "content.flag.rejected"
)

// NotificationEvent is the context handed to a Notifier.
type NotificationEvent struct {
	Kind      EventKind
	ContentID string
	UserID    string
}

// Notifier delivers best-effort notifications. Calls are fire-and-forget:
// the orchestrator never observes or propagates a Notifier failure.
type Notifier interface {
	Notify(ctx context.Context, event NotificationEvent) error
}

// Validation profile names.
const (
	ProfileCreate = "create"
	ProfileUpdate = "update"
)

// RequestValidator checks a payload against a named field profile. A nil
// error means the payload passed.
type RequestValidator interface {
	Validate(payload map[string]interface{}, profile string) error
}
