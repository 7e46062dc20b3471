package config

import (
	"context"

	"recipe-feed/internal/utils"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns nil when REDIS_ADDR is not configured.
func ConnectRedis(ctx context.Context) (*redis.Client, error) {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetConfig("REDIS_PASSWORD"),
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Errorf("Redis connection failed: %v", err)
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
