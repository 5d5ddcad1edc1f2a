package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyUsedToken = "sneakerhub:used_token:%s"

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// RedisUsedTokenStore は使い切りトークンのIDをSETNXで記録する（期限はトークンの残り時間）
type RedisUsedTokenStore struct {
	rdb *redis.Client
}

func NewRedisUsedTokenStore(rdb *redis.Client) *RedisUsedTokenStore {
	return &RedisUsedTokenStore{rdb: rdb}
}

func (s *RedisUsedTokenStore) MarkUsed(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, fmt.Sprintf(keyUsedToken, tokenID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark token used: %w", err)
	}
	return ok, nil
}
