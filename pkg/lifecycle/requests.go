package lifecycle

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// Request/Response DTOs

// CreateRequest contains the content draft for a create operation. Content
// holds the creatable fields; a generated code is attached before
// delegation.
type CreateRequest struct {
	Content map[string]interface{}
	Headers http.Header
}

// CreateResult is the composed create response.
type CreateResult struct {
	ContentID  string `json:"content_id"`
	VersionKey string `json:"versionKey"`
}

// UpdateRequest contains the patch for an update operation. The current
// version key is fetched and attached by the service; any client-supplied
// token is rejected by the update profile.
type UpdateRequest struct {
	ContentID string
	Content   map[string]interface{}
	Headers   http.Header
}

// UpdateResult is the composed update response.
type UpdateResult struct {
	ContentID  string `json:"content_id"`
	VersionKey string `json:"versionKey"`
}

// TransitionRequest covers review, publish, unlisted publish and reject.
type TransitionRequest struct {
	ContentID string
	Content   map[string]interface{}
	Headers   http.Header
}

// TransitionResult is the composed response of a lifecycle transition.
// PublishStatus is set for publish operations only.
type TransitionResult struct {
	ContentID     string `json:"content_id"`
	VersionKey    string `json:"versionKey"`
	PublishStatus string `json:"publishStatus,omitempty"`
}

// RetireBatchRequest retires a set of content items owned by ActingUserID.
type RetireBatchRequest struct {
	ContentIDs   []string
	ActingUserID string
	Headers      http.Header
}

// CopyRequest copies a content item; Request is passed to the provider
// unchanged.
type CopyRequest struct {
	ContentID string
	Request   map[string]interface{}
	Headers   http.Header
}

// BadgeRequest assigns or revokes a badge assertion on a content item.
type BadgeRequest struct {
	ContentID string
	Assertion BadgeAssertion
	Headers   http.Header
}

// BadgeStatus is the outcome signal of a badge operation. Conflict and
// missing are success-shaped signals, not errors.
type BadgeStatus string

const (
	BadgeAssigned BadgeStatus = "assigned"
	BadgeConflict BadgeStatus = "conflict"
	BadgeRevoked  BadgeStatus = "revoked"
	BadgeMissing  BadgeStatus = "missing"
)

// BadgeResult reports a badge operation. Result carries the provider's
// update result when an update call was issued.
type BadgeResult struct {
	Status BadgeStatus
	Result map[string]json.RawMessage
}

// SearchRequest is a faceted content search. FrameworkID, when set, enables
// taxonomy facet enrichment using Locale (default "en"). ObjectType and
// Fields are merged into the provider query when supplied.
type SearchRequest struct {
	Filters     map[string]interface{}
	Fields      []string
	ObjectType  []string
	FrameworkID string
	Locale      string
	Headers     http.Header
}

// SearchResult is the provider's search result, with facets re-marshaled
// after enrichment. Enriched reports whether taxonomy enrichment was
// applied.
type SearchResult struct {
	Result   map[string]json.RawMessage
	Count    int
	Enriched bool
}

// GetRequest reads a single content item with optional query options.
type GetRequest struct {
	ContentID string
	Query     url.Values
	Headers   http.Header
}

// MyContentRequest searches content created by a single user.
type MyContentRequest struct {
	CreatedBy string
	Headers   http.Header
}

// FlagRequest covers flag, accept-flag and reject-flag; Request is passed
// to the provider unchanged.
type FlagRequest struct {
	ContentID string
	Request   map[string]interface{}
	Headers   http.Header
}

// LockValidationRequest asks whether ActingUserID may currently edit or
// lock the referenced content. IsRelease marks the designated lock-release
// operation, which is permitted regardless of lifecycle state.
type LockValidationRequest struct {
	ResourceID   string
	ActingUserID string
	IsRelease    bool
	Headers      http.Header
}

// LockDecision is the lock validator's answer. ReadFailed is set when the
// content could not be fetched at all; the caller surfaces that as a
// failure rather than a denial.
type LockDecision struct {
	Allowed    bool         `json:"validation"`
	Message    string       `json:"message"`
	Content    *ContentItem `json:"contentdata,omitempty"`
	ReadFailed bool         `json:"-"`
}
