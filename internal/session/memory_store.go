package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore is an in-process Store used when Redis is not configured.
// Sessions are lost on restart.
type MemoryStore struct {
	cache *expirable.LRU[string, Session]
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore keeps at most size sessions for ttl each.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: expirable.NewLRU[string, Session](size, nil, ttl)}
}

func (s *MemoryStore) Save(_ context.Context, sess Session) error {
	s.cache.Add(sess.AdminID, sess)
	return nil
}

func (s *MemoryStore) Read(_ context.Context, adminID string) (*Session, error) {
	sess, ok := s.cache.Get(adminID)
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *MemoryStore) Clear(_ context.Context, adminID string) error {
	s.cache.Remove(adminID)
	return nil
}
