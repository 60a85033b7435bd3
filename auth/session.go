package auth

import (
	"context"
	"fmt"

	"github.com/kochabx/campus/auth/revoke"
	"github.com/kochabx/campus/model"
)

// Sessions drives the token lifecycle: supersession on login, revocation on
// logout, and the revocation check on every authenticated request. All
// session truth lives in the revocation store; Sessions itself holds no
// mutable state.
type Sessions struct {
	issuer *Issuer
	store  revoke.Store
}

// NewSessions creates a session manager from an issuer and a revocation
// store.
func NewSessions(issuer *Issuer, store revoke.Store) *Sessions {
	return &Sessions{
		issuer: issuer,
		store:  store,
	}
}

// Login supersedes the active session for (handle, fingerprint) and issues
// a fresh token: the previous active token id, if any, is revoked and its
// slot cleared before the new token is minted and recorded.
//
// The lookup and the revocation are a read-then-act sequence, not a store
// transaction. Two logins for the same pair racing within the window can
// leave both tokens briefly valid until the second SetActive overwrites the
// slot; the loser's revocation entry is harmless and the state self-corrects
// within one token lifetime.
func (s *Sessions) Login(ctx context.Context, handle string, role model.Role, fingerprint string) (*IssuedToken, error) {
	previous, err := s.store.GetActive(ctx, handle, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("get active token: %w", err)
	}

	if previous != "" {
		if err := s.store.Revoke(ctx, handle, previous); err != nil {
			return nil, fmt.Errorf("revoke superseded token: %w", err)
		}
		if err := s.store.ClearActive(ctx, handle, fingerprint); err != nil {
			return nil, fmt.Errorf("clear active token: %w", err)
		}
	}

	issued, err := s.issuer.Issue(handle, role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.store.SetActive(ctx, handle, fingerprint, issued.JTI); err != nil {
		return nil, fmt.Errorf("set active token: %w", err)
	}

	return issued, nil
}

// Logout revokes the presented token and clears the active slot for the
// device it was presented from. Both operations are idempotent, so a repeated
// logout with the same token succeeds.
func (s *Sessions) Logout(ctx context.Context, claims *Claims, fingerprint string) error {
	if err := s.store.Revoke(ctx, claims.Handle, claims.ID); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	if err := s.store.ClearActive(ctx, claims.Handle, fingerprint); err != nil {
		return fmt.Errorf("clear active token: %w", err)
	}
	return nil
}

// PurgeHandle revokes every session of a handle across all devices. Called
// when the principal is deleted.
func (s *Sessions) PurgeHandle(ctx context.Context, handle string) error {
	return s.store.PurgeHandle(ctx, handle)
}

// Authenticate runs the per-request state machine: verify signature and
// expiry, then consult the revocation store. It returns the claims only for
// the authenticated terminal state. A revocation-store failure fails closed
// as ErrRevocationUnavailable; callers must treat every non-nil error as an
// authentication failure and must not distinguish the causes to the client.
func (s *Sessions) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.issuer.Parse(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.store.IsRevoked(ctx, claims.Handle, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRevocationUnavailable, err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}
