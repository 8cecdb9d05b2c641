package lifecycle

import (
	"context"
	"encoding/json"
)

// Service is the content lifecycle orchestrator. Every operation follows
// the same shape: validate the request, run state/concurrency guards where
// required, delegate to the provider, and compose the outcome.
type Service interface {
	// Lifecycle operations
	Create(ctx context.Context, req CreateRequest) (*CreateResult, error)
	Update(ctx context.Context, req UpdateRequest) (*UpdateResult, error)
	Review(ctx context.Context, req TransitionRequest) (*TransitionResult, error)
	Publish(ctx context.Context, req TransitionRequest) (*TransitionResult, error)
	UnlistedPublish(ctx context.Context, req TransitionRequest) (*TransitionResult, error)
	Reject(ctx context.Context, req TransitionRequest) (map[string]json.RawMessage, error)
	RetireBatch(ctx context.Context, req RetireBatchRequest) (*BatchOutcome, error)
	Copy(ctx context.Context, req CopyRequest) (map[string]json.RawMessage, error)

	// Badge operations
	AssignBadge(ctx context.Context, req BadgeRequest) (*BadgeResult, error)
	RevokeBadge(ctx context.Context, req BadgeRequest) (*BadgeResult, error)

	// Read operations
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
	Get(ctx context.Context, req GetRequest) (map[string]json.RawMessage, error)
	MyContent(ctx context.Context, req MyContentRequest) (*SearchResult, error)

	// Flag operations
	Flag(ctx context.Context, req FlagRequest) (map[string]json.RawMessage, error)
	AcceptFlag(ctx context.Context, req FlagRequest) (map[string]json.RawMessage, error)
	RejectFlag(ctx context.Context, req FlagRequest) (map[string]json.RawMessage, error)

	// Lock validation
	ValidateLock(ctx context.Context, req LockValidationRequest) (*LockDecision, error)
}
