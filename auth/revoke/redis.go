package revoke

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultActivePrefix  = "active_token:"
	defaultRevokedPrefix = "revoked_tokens:"
)

// RedisStore implements Store on a Redis client. Active slots live under
// "active_token:{handle}:{fingerprint}" and revoked sets under
// "revoked_tokens:{handle}", both with the retention TTL.
//
// The retention window must be at least the maximum token lifetime. A
// shorter window would let Redis evict a revocation while the revoked token
// is still within its expiry, silently re-admitting it.
//
// The key layout requires that handles never contain the ':' separator;
// registration restricts the handle charset to alphanumerics.
type RedisStore struct {
	client        *redis.Client
	retention     time.Duration
	activePrefix  string
	revokedPrefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix namespaces all keys under prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.activePrefix = prefix + ":" + defaultActivePrefix
		s.revokedPrefix = prefix + ":" + defaultRevokedPrefix
	}
}

// NewRedisStore creates a Redis-backed revocation store with the given
// retention window.
func NewRedisStore(client *redis.Client, retention time.Duration, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:        client,
		retention:     retention,
		activePrefix:  defaultActivePrefix,
		revokedPrefix: defaultRevokedPrefix,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *RedisStore) activeKey(handle, fingerprint string) string {
	return s.activePrefix + handle + ":" + fingerprint
}

func (s *RedisStore) revokedKey(handle string) string {
	return s.revokedPrefix + handle
}

// SetActive overwrites the active token id for the (handle, fingerprint)
// pair. The slot carries the retention TTL; it only matters for supersession
// and is worthless once the token it points at has expired.
func (s *RedisStore) SetActive(ctx context.Context, handle, fingerprint, jti string) error {
	return s.client.Set(ctx, s.activeKey(handle, fingerprint), jti, s.retention).Err()
}

// GetActive returns the active token id for the pair, or "" when empty.
func (s *RedisStore) GetActive(ctx context.Context, handle, fingerprint string) (string, error) {
	jti, err := s.client.Get(ctx, s.activeKey(handle, fingerprint)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return jti, nil
}

// ClearActive deletes the slot. Deleting a missing key is a no-op.
func (s *RedisStore) ClearActive(ctx context.Context, handle, fingerprint string) error {
	return s.client.Del(ctx, s.activeKey(handle, fingerprint)).Err()
}

// Revoke adds jti to the handle's revoked set and re-applies the retention
// TTL, so the window always restarts from the latest revocation.
func (s *RedisStore) Revoke(ctx context.Context, handle, jti string) error {
	key := s.revokedKey(handle)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, jti)
		pipe.Expire(ctx, key, s.retention)
		return nil
	})
	return err
}

// IsRevoked reports membership in the handle's revoked set.
func (s *RedisStore) IsRevoked(ctx context.Context, handle, jti string) (bool, error) {
	return s.client.SIsMember(ctx, s.revokedKey(handle), jti).Result()
}

// PurgeHandle walks the handle's active slots, revokes each recorded token
// id and deletes the slots. The handle is matched literally; only the
// trailing fingerprint segment is a wildcard.
func (s *RedisStore) PurgeHandle(ctx context.Context, handle string) error {
	pattern := s.activePrefix + globEscape(handle) + ":*"

	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		jti, err := s.client.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return err
		}

		if err := s.Revoke(ctx, handle, jti); err != nil {
			return err
		}
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// globEscape quotes the MATCH metacharacters so the input matches only
// itself in a SCAN pattern.
func globEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

var _ Store = (*RedisStore)(nil)
