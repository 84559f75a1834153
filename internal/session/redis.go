package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/config"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
)

// RedisCache is the IdentityCache used in deployments, shared across
// instances of the web client.
type RedisCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	opTimeout time.Duration
}

func NewRedisCache(cfg *config.Config, rdb *redis.Client) *RedisCache {
	return &RedisCache{
		rdb:       rdb,
		ttl:       time.Duration(cfg.Redis.IdentityTTL) * time.Second,
		opTimeout: time.Duration(cfg.Redis.OperationTimeout) * time.Second,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*domain.User, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("identity cache read failed", "error", err)
		}
		return nil, false
	}

	user := &domain.User{}
	if err := json.Unmarshal(raw, user); err != nil {
		slog.Warn("identity cache entry corrupt, dropping", "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false
	}

	return user, true
}

func (c *RedisCache) Set(ctx context.Context, key string, user *domain.User) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	raw, err := json.Marshal(user)
	if err != nil {
		slog.Warn("identity cache encode failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.Warn("identity cache write failed", "error", err)
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		slog.Warn("identity cache delete failed", "error", err)
	}
}
