package database

import (
	"context"
	"fmt"
	"time"

	"github.com/abdul977/muahibstores/pkg/config"
	"github.com/abdul977/muahibstores/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConnectRedis parses the redis URL and verifies the connection
func ConnectRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.GetLogger().Info("Redis connected successfully", zap.String("addr", opts.Addr))
	return client, nil
}
