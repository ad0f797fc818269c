package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/evoapps/confeitaria-backend/config"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Connect opens a client and checks the server answers. The client is
// closed again when the ping fails.
func Connect(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}

	logger.Info("Redis connection established", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})
	return client, nil
}
