package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/conspiralab/conspiralab/internal/utils"
)

// Store persists session records keyed by their opaque identifier.
//
// Get returns (nil, nil) for an unknown or expired identifier; an error means
// the store itself failed. ClearIdentity is idempotent: clearing a session
// that has no identity, or that does not exist at all, succeeds and changes
// nothing.
type Store interface {
	Create(ctx context.Context, userID, role string) (string, error)
	Get(ctx context.Context, id string) (*Session, error)
	ClearIdentity(ctx context.Context, id string) error
	Destroy(ctx context.Context, id string) error
}

const keyPrefix = "sess:"

// RedisStore keeps each session as a Redis hash with a TTL, so expiry is
// handled by the store itself and needs no sweeper.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, userID, role string) (string, error) {
	id, err := utils.NewSessionID()
	if err != nil {
		return "", err
	}
	key := keyPrefix + id
	fields := map[string]any{
		"user_id":    userID,
		"role":       role,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.rdb.HSet(ctx, key, fields).Err(); err != nil {
		return "", err
	}
	if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	vals, err := s.rdb.HGetAll(ctx, keyPrefix+id).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		// Unknown or expired id; not an error.
		return nil, nil
	}
	sess := &Session{UserID: vals["user_id"], Role: vals["role"]}
	if ts, err := time.Parse(time.RFC3339, vals["created_at"]); err == nil {
		sess.CreatedAt = ts
	}
	return sess, nil
}

// ClearIdentity removes the identity reference and the cached role while the
// session record itself stays alive. The browser keeps its cookie but
// subsequent requests resolve to an anonymous session, so a stale reference
// stops triggering user lookups. HDEL on a missing key or field is a no-op.
func (s *RedisStore) ClearIdentity(ctx context.Context, id string) error {
	return s.rdb.HDel(ctx, keyPrefix+id, "user_id", "role").Err()
}

func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}
