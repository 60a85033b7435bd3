package revoke

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and single-node development.
// Active slots are bucketed per handle, so no handle can reach into another
// principal's state. Retention works the same way as the Redis
// implementation: each revoked set carries a deadline that restarts on every
// revocation.
type MemoryStore struct {
	mu        sync.Mutex
	retention time.Duration
	active    map[string]map[string]string // handle -> fingerprint -> jti
	revoked   map[string]*revokedSet

	now func() time.Time
}

type revokedSet struct {
	jtis     map[string]struct{}
	deadline time.Time
}

// NewMemoryStore creates an in-memory revocation store.
func NewMemoryStore(retention time.Duration) *MemoryStore {
	return &MemoryStore{
		retention: retention,
		active:    make(map[string]map[string]string),
		revoked:   make(map[string]*revokedSet),
		now:       time.Now,
	}
}

// SetActive overwrites the active token id for the pair.
func (s *MemoryStore) SetActive(_ context.Context, handle, fingerprint, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := s.active[handle]
	if slots == nil {
		slots = make(map[string]string)
		s.active[handle] = slots
	}
	slots[fingerprint] = jti
	return nil
}

// GetActive returns the active token id for the pair, or "" when empty.
func (s *MemoryStore) GetActive(_ context.Context, handle, fingerprint string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[handle][fingerprint], nil
}

// ClearActive empties the slot.
func (s *MemoryStore) ClearActive(_ context.Context, handle, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := s.active[handle]
	if slots == nil {
		return nil
	}
	delete(slots, fingerprint)
	if len(slots) == 0 {
		delete(s.active, handle)
	}
	return nil
}

// Revoke adds jti to the handle's revoked set and restarts its retention
// deadline.
func (s *MemoryStore) Revoke(_ context.Context, handle, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revokeLocked(handle, jti)
	return nil
}

// revokeLocked adds jti to the handle's revoked set. Caller holds s.mu.
func (s *MemoryStore) revokeLocked(handle, jti string) {
	set := s.revoked[handle]
	if set == nil || s.now().After(set.deadline) {
		set = &revokedSet{jtis: make(map[string]struct{})}
		s.revoked[handle] = set
	}
	set.jtis[jti] = struct{}{}
	set.deadline = s.now().Add(s.retention)
}

// IsRevoked reports membership, honoring the retention deadline.
func (s *MemoryStore) IsRevoked(_ context.Context, handle, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.revoked[handle]
	if set == nil {
		return false, nil
	}
	if s.now().After(set.deadline) {
		delete(s.revoked, handle)
		return false, nil
	}
	_, ok := set.jtis[jti]
	return ok, nil
}

// PurgeHandle revokes every active token of the handle and clears its slots.
// Only the handle's own bucket is touched.
func (s *MemoryStore) PurgeHandle(_ context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, jti := range s.active[handle] {
		s.revokeLocked(handle, jti)
	}
	delete(s.active, handle)
	return nil
}

var _ Store = (*MemoryStore)(nil)
