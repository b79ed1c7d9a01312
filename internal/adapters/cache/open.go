package cache

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/premios/internal/config"
)

// KeyPrefix namespaces every key the service writes to Redis.
const KeyPrefix = "premios:"

// Open picks Redis when configured, otherwise an in-process cache. A zero
// TTL disables caching.
func Open(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Cache, error) {
	switch {
	case cfg.CacheTTL == 0:
		return NewNoOpCache(), nil
	case cfg.RedisAddr != "":
		return OpenShared(ctx, cfg, logger)
	default:
		return NewMemoryCache(cfg.CacheTTL), nil
	}
}

// OpenShared returns the Redis cache other processes read from, whatever the
// TTL, so writers outside the server can invalidate it. Without Redis there
// is nothing shared and it returns a no-op cache.
func OpenShared(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Cache, error) {
	if cfg.RedisAddr == "" {
		return NewNoOpCache(), nil
	}
	c, err := NewRedisCache(ctx, RedisConfig{
		Addr:   cfg.RedisAddr,
		Prefix: KeyPrefix,
	}, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}
