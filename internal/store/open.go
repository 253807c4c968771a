package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rcliao/space-dashboard/internal/config"
)

// RedisKeyPrefix namespaces every key the Redis backend writes.
const RedisKeyPrefix = "space-dashboard:"

// Open returns the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case "", "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		return NewRedisStore(client, RedisKeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (use sqlite or redis)", cfg.Backend)
	}
}
