package lifecycle

import (
	"errors"
	"fmt"
)

// Error kinds
var (
	// ErrValidation indicates missing or malformed caller input. Client
	// fault, not retryable.
	ErrValidation = errors.New("invalid request")

	// ErrUnauthorized indicates an ownership, collaborator or state
	// mismatch detected locally.
	ErrUnauthorized = errors.New("not authorized")

	// ErrNotFound indicates referenced content is absent.
	ErrNotFound = errors.New("content not found")

	// ErrUpstream indicates a provider call failed or returned non-success.
	ErrUpstream = errors.New("provider request failed")

	// ErrCacheMiss is returned by CacheStore implementations when a key is
	// absent.
	ErrCacheMiss = errors.New("cache miss")
)

// ValidationError reports caller input rejected before any provider call.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("operation %s: invalid request: %s", e.Op, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// AuthorizationError reports an actor that is not permitted to perform an
// operation on the referenced content.
type AuthorizationError struct {
	Op     string
	UserID string
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("operation %s: user %s not authorized: %s", e.Op, e.UserID, e.Reason)
}

func (e *AuthorizationError) Is(target error) bool { return target == ErrUnauthorized }

// UpstreamError reports a failed provider call. Code and Message carry the
// provider's own error details when it reported any; Status is an HTTP-style
// status hint. Err holds the transport error, if the call never produced a
// response.
type UpstreamError struct {
	Op      string
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("operation %s: provider call failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("operation %s: provider returned %s: %s", e.Op, e.Code, e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// upstreamError builds an UpstreamError from a provider response or a
// transport error, falling back to the operation's message-table entry when
// the provider reported no details.
func upstreamError(op string, res *ProviderResponse, err error) *UpstreamError {
	msg := messageFor(op)
	ue := &UpstreamError{
		Op:      op,
		Code:    msg.FailedCode,
		Message: msg.FailedMessage,
		Status:  500,
		Err:     err,
	}
	if res != nil {
		if res.Params.Err != "" {
			ue.Code = res.Params.Err
		}
		if res.Params.ErrMsg != "" {
			ue.Message = res.Params.ErrMsg
		}
		if res.Status >= 100 && res.Status < 600 {
			ue.Status = res.Status
		}
	}
	return ue
}
