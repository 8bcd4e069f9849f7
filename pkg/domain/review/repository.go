package review

import (
	"context"
	"errors"
)

// Sentinel errors draft stores use to classify failures. The coordinator maps
// them to human-readable messages, and callers can errors.Is against them.
var (
	// ErrDraftNotFound means no prior draft exists for the slot. This is
	// not a failure: loading proceeds with a fresh empty document.
	ErrDraftNotFound = errors.New("draft not found")

	// ErrDraftCorrupt means a payload exists but does not parse or does not
	// match the persisted schema.
	ErrDraftCorrupt = errors.New("draft payload is corrupt")

	// ErrUnauthorized means the caller may not read or write this review.
	ErrUnauthorized = errors.New("not authorized for this review")

	// ErrTransient marks failures worth retrying, such as I/O or network
	// interruptions.
	ErrTransient = errors.New("transient store failure")
)

// DraftRepository is the narrow persistence contract the engine depends on.
// Implementations own transport, retries and timeouts; the engine only cares
// about the error classification above.
type DraftRepository interface {
	// LoadDraft fetches the persisted payload for a slot. Returns
	// ErrDraftNotFound when none exists. Idempotent; called once per
	// session.
	LoadDraft(ctx context.Context, slotID string) (*RawDraft, error)

	// SaveDraft persists the superset payload for a slot.
	SaveDraft(ctx context.Context, slotID string, payload *RawDraft) error

	// SubmitReview finalizes the review. Failures propagate to the caller.
	SubmitReview(ctx context.Context, slotID string, payload *RawDraft) error
}
