// Package revoke tracks, per user, the active token id for each device
// fingerprint and the set of revoked token ids. It is the only shared
// mutable state of the session layer; everything else is derived from the
// token itself.
package revoke

import (
	"context"
)

// Store is the revocation index backed by a key/expiry service. Every
// operation is idempotent: repeating a call with the same arguments leaves
// the store in the same observable state.
type Store interface {
	// SetActive records jti as the single active token for the
	// (handle, fingerprint) pair, overwriting any previous value.
	SetActive(ctx context.Context, handle, fingerprint, jti string) error

	// GetActive returns the active token id for the (handle, fingerprint)
	// pair, or "" when the slot is empty.
	GetActive(ctx context.Context, handle, fingerprint string) (string, error)

	// ClearActive empties the (handle, fingerprint) slot.
	ClearActive(ctx context.Context, handle, fingerprint string) error

	// Revoke adds jti to the handle's revoked set. The set's retention
	// window is extended so it cannot evict the entry before the token
	// would have expired on its own.
	Revoke(ctx context.Context, handle, jti string) error

	// IsRevoked reports whether jti is in the handle's revoked set.
	IsRevoked(ctx context.Context, handle, jti string) (bool, error)

	// PurgeHandle revokes every active token of the handle and clears all of
	// its slots, across fingerprints. Used when the principal itself is
	// deleted.
	PurgeHandle(ctx context.Context, handle string) error
}
