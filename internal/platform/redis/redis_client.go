// Package redis opens the optional cache connection.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"account_backend/internal/platform/config"
)

const pingTimeout = 3 * time.Second

// NewRedisClient connects to cfg.Addr() and verifies the connection with PING.
// It returns (nil, nil) when cfg.Host is empty so callers can run without a cache.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	if cfg.Host == "" {
		slog.Info("redis disabled; directory cache bypassed")
		return nil, nil
	}

	addr := cfg.Addr()
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		slog.Error("redis connection failed", "address", addr, "error", err)
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	slog.Info("redis connection successful", "address", addr)
	return rdb, nil
}
