package store

import (
	"errors"
	"fmt"
)

// Error taxonomy for the link store. Callers branch on these with
// errors.Is; in particular ErrStoreUnavailable must never be collapsed
// into ErrNotFound, because "couldn't check" and "doesn't exist" drive
// different fallback behavior upstream.
var (
	// ErrAliasTaken means the requested custom alias is already in use
	// within the target domain.
	ErrAliasTaken = errors.New("alias already taken for this domain")

	// ErrNotFound means no active link matches the key. Absence, not a
	// fault.
	ErrNotFound = errors.New("link not found")

	// ErrUnauthorized means the requester does not own the link it tried
	// to deactivate.
	ErrUnauthorized = errors.New("requester does not own this link")

	// ErrStoreUnavailable wraps transient infrastructure failures from
	// the underlying storage.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// errCodeCollision means an insert with a freshly generated code hit the
// unique index. Internal: CreateLink retries with a new code instead of
// surfacing it.
var errCodeCollision = errors.New("generated code collided")

// unavailable tags a storage-level failure so callers can distinguish it
// from absence.
func unavailable(op string, err error) error {
	return fmt.Errorf("store: %s: %w", op, errors.Join(ErrStoreUnavailable, err))
}
