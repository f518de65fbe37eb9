package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/config"
)

// NewClient connects to redis and verifies the connection with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// Deduper remembers idempotency keys for ttl.
type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Deduper{rdb: rdb, ttl: ttl, logger: logger}
}

func Key(scope, key string) string {
	return "idem:" + scope + ":" + key
}

// AcquireOnce reports whether this is the first time key is seen in scope.
// When redis is unavailable the request is allowed through.
func (d *Deduper) AcquireOnce(ctx context.Context, scope, key string) bool {
	redisKey := Key(scope, key)

	ok, err := d.rdb.SetNX(ctx, redisKey, 1, d.ttl).Result()
	if err != nil {
		d.logger.Warn("idempotency check failed, allowing request",
			zap.String("scope", scope),
			zap.Error(err),
		)
		return true
	}

	if !ok {
		d.logger.Info("duplicate request skipped", zap.String("key", redisKey))
	}
	return ok
}

// Release deletes the key so the request can be retried. Errors are logged;
// the key then expires with its ttl.
func (d *Deduper) Release(ctx context.Context, scope, key string) {
	if err := d.rdb.Del(ctx, Key(scope, key)).Err(); err != nil {
		d.logger.Warn("failed to release idempotency key",
			zap.String("scope", scope),
			zap.Error(err),
		)
	}
}
