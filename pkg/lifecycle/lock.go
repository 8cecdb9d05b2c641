package lifecycle

import (
	"context"
	"net/url"
	"slices"
)

// Lock decision messages, stable strings surfaced to callers.
const (
	lockMsgReadFailed    = "Unable to fetch content details"
	lockMsgNotDraft      = "The operation cannot be completed as content is not in draft state"
	lockMsgNotAuthorized = "You are not authorized"
	lockMsgValidated     = "Content successfully validated"
)

// LockValidator decides whether a content item may currently be edited or
// locked by a given actor. It is a pure decision function over
// provider-reported state: the item is read in edit mode and the rules are
// evaluated in order, with no mutation.
type LockValidator struct {
	provider Provider
}

// NewLockValidator creates a lock validator backed by the given provider.
func NewLockValidator(p Provider) *LockValidator {
	return &LockValidator{provider: p}
}

// Validate evaluates, in order:
//
//  1. read failure        -> denied, ReadFailed set
//  2. not Draft and not a release op -> denied
//  3. actor neither owner nor collaborator -> denied
//  4. otherwise           -> allowed, content snapshot attached
//
// A denial is an answer, not an error; the error return is always nil.
func (v *LockValidator) Validate(ctx context.Context, req LockValidationRequest) (*LockDecision, error) {
	query := url.Values{"mode": {"edit"}}
	res, err := v.provider.GetByID(ctx, req.ResourceID, query, req.Headers)
	if err != nil || !res.OK() {
		return &LockDecision{Message: lockMsgReadFailed, ReadFailed: true}, nil
	}
	item, err := res.Content()
	if err != nil {
		return &LockDecision{Message: lockMsgReadFailed, ReadFailed: true}, nil
	}

	if item.Status != StatusDraft && !req.IsRelease {
		return &LockDecision{Message: lockMsgNotDraft}, nil
	}
	if item.CreatedBy != req.ActingUserID && !slices.Contains(item.Collaborators, req.ActingUserID) {
		return &LockDecision{Message: lockMsgNotAuthorized}, nil
	}
	return &LockDecision{Allowed: true, Message: lockMsgValidated, Content: item}, nil
}
