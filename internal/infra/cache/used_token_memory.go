package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryUsedTokenStore はRedisがないとき用（プロセス内だけ）
type MemoryUsedTokenStore struct {
	mu   sync.Mutex
	used map[string]time.Time
	now  func() time.Time
}

func NewMemoryUsedTokenStore(now func() time.Time) *MemoryUsedTokenStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryUsedTokenStore{used: map[string]time.Time{}, now: now}
}

func (s *MemoryUsedTokenStore) MarkUsed(_ context.Context, tokenID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	//期限切れを掃除
	for id, exp := range s.used {
		if !now.Before(exp) {
			delete(s.used, id)
		}
	}

	if _, ok := s.used[tokenID]; ok {
		return false, nil
	}
	s.used[tokenID] = now.Add(ttl)
	return true, nil
}
