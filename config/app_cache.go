package config

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/waitlist-api/internal/log"
	pkgredis "github.com/akeren/waitlist-api/pkg/redis"
	"github.com/caarlos0/env/v11"
)

var ErrCacheNotConfigured = errors.New("cache host is not configured")

// Cache is the optional shared store. It backs the distributed rate limiters
// and the readiness probe; the service runs without it.
type Cache interface {
	// Get returns ("", nil) for a missing key.
	Get(ctx context.Context, key string) (string, error)
	// Set with ttl=0 never expires.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

type CacheConfig struct {
	Host     string `env:"REDIS_HOST"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// NewCacheConfig leaves the cache disabled when the environment cannot be parsed.
func NewCacheConfig() *CacheConfig {
	cfg := &CacheConfig{}
	if err := env.Parse(cfg); err != nil {
		return &CacheConfig{}
	}
	return cfg
}

func (cc *CacheConfig) IsConfigured() bool {
	return cc.Host != ""
}

func (cc *CacheConfig) NewCache(logger *log.Logger) (Cache, error) {
	if !cc.IsConfigured() {
		return nil, ErrCacheNotConfigured
	}

	cache, err := pkgredis.NewRedisCache(&pkgredis.Config{
		Host:     cc.Host,
		Port:     cc.Port,
		Password: cc.Password,
		DB:       cc.DB,
	})
	if err != nil {
		logger.Error("Failed to connect to Redis", "host", cc.Host, "error", err)
		return nil, err
	}

	logger.Info("Redis connected", "host", cc.Host, "db", cc.DB)
	return cache, nil
}

// NewCacheOrNil degrades to nil on any failure; rate limiting then falls back
// to per-process memory.
func (cc *CacheConfig) NewCacheOrNil(logger *log.Logger) Cache {
	if !cc.IsConfigured() {
		logger.Info("REDIS_HOST not set; running without a shared cache")
		return nil
	}

	cache, err := cc.NewCache(logger)
	if err != nil {
		logger.Warn("Continuing without a shared cache")
		return nil
	}
	return cache
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		return nil
	}
	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}
	logger.Info("Cache connection closed")
	return nil
}
