package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"recipe-feed/domain"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "session:"

// Cache keeps validated sessions out of the database on hot paths. Get
// returns nil, nil on a miss.
type Cache interface {
	Get(ctx context.Context, sessionID string) (*domain.SessionInfo, error)
	Set(ctx context.Context, info domain.SessionInfo) error
	Delete(ctx context.Context, sessionIDs ...string) error
}

type redisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) Cache {
	return &redisCache{rdb: rdb}
}

func (c *redisCache) Get(ctx context.Context, sessionID string) (*domain.SessionInfo, error) {
	val, err := c.rdb.Get(ctx, cacheKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var info domain.SessionInfo
	if err := json.Unmarshal(val, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *redisCache) Set(ctx context.Context, info domain.SessionInfo) error {
	ttl := time.Until(info.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	val, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKeyPrefix+info.SessionID, val, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, sessionIDs ...string) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(sessionIDs))
	for _, id := range sessionIDs {
		keys = append(keys, cacheKeyPrefix+id)
	}
	return c.rdb.Del(ctx, keys...).Err()
}
