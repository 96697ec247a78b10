package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medconsole/admin-backend/internal/apperr"
	"github.com/medconsole/admin-backend/internal/config"
)

// RedisStore keeps sessions under admin:<id>:session with the session TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a RedisStore.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Save overwrites any previous session of the same admin.
func (s *RedisStore) Save(ctx context.Context, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.AdminSessionKey(sess.AdminID), data, s.ttl).Err(); err != nil {
		return apperr.E(apperr.KindUnavailable, "session.save", err)
	}
	return nil
}

func (s *RedisStore) Read(ctx context.Context, adminID string) (*Session, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.AdminSessionKey(adminID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperr.E(apperr.KindUnavailable, "session.read", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// A corrupt entry is treated as no session.
		return nil, nil
	}
	return &sess, nil
}

// Clear is idempotent.
func (s *RedisStore) Clear(ctx context.Context, adminID string) error {
	if err := s.rdb.Del(ctx, config.CacheKey.AdminSessionKey(adminID)).Err(); err != nil {
		return apperr.E(apperr.KindUnavailable, "session.clear", err)
	}
	return nil
}
