package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps flags in process memory with an expiry. Flags do not survive
// a restart.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore expires flags after ttl; a zero ttl never expires them.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &MemoryStore{cache: cache.New(ttl, 10*time.Minute)}
}

func (s *MemoryStore) Load(_ context.Context, key string) (bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return false, nil
	}
	b, _ := v.(bool)
	return b, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, value bool) error {
	s.cache.SetDefault(key, value)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}
