package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUsedTokenStore_MarkUsed(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryUsedTokenStore(func() time.Time { return now })
	ctx := context.Background()

	first, err := s.MarkUsed(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := s.MarkUsed(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	other, err := s.MarkUsed(ctx, "jti-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, other)

	//期限が過ぎたら記録は消える
	now = now.Add(time.Minute)
	after, err := s.MarkUsed(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, after)
}

func TestMemoryUsedTokenStore_Concurrent(t *testing.T) {
	s := NewMemoryUsedTokenStore(nil)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.MarkUsed(context.Background(), "jti", time.Minute)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}
