package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/kavanaghbl/chambers-site/internal/config"
)

// New connects the shared redis client. The client is used for advisory
// state only (rate-limit windows), so a failed ping downgrades to nil
// instead of aborting boot; callers must handle a nil client.
func New(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("redis unavailable, rate limiting falls back to in-memory",
			zap.String("addr", cfg.RedisAddr),
			zap.Error(err),
		)
		return nil
	}

	return client
}
