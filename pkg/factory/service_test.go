package factory

import (
	"context"
	"testing"
	"time"

	"github.com/akeren/waitlist-api/pkg/ratelimit"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

type pingOnlyCache struct{}

func (pingOnlyCache) Ping(context.Context) error { return nil }

type redisBackedCache struct {
	pingOnlyCache
	client *redis.Client
}

func (c redisBackedCache) GetClient() *redis.Client { return c.client }

func TestCreateRateLimiter_InMemoryWithoutRedisProvider(t *testing.T) {
	f := NewDefaultRateLimiterFactory(3, time.Minute, "waitlist:", pingOnlyCache{}, nil)
	limiter := f.CreateRateLimiter()

	assert.IsType(t, &ratelimit.InMemoryRateLimiter{}, limiter)
}

func TestCreateRateLimiter_InMemoryWithNilCache(t *testing.T) {
	f := NewDefaultRateLimiterFactory(3, time.Minute, "", nil, nil)
	assert.IsType(t, &ratelimit.InMemoryRateLimiter{}, f.CreateRateLimiter())
}

func TestCreateRateLimiter_RedisWhenClientAvailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })

	f := NewDefaultRateLimiterFactory(3, time.Minute, "waitlist:", redisBackedCache{client: client}, nil)
	limiter := f.CreateRateLimiter()

	assert.IsType(t, &ratelimit.RedisRateLimiter{}, limiter)
	requests, window := limiter.GetLimitDetails()
	assert.Equal(t, 3, requests)
	assert.Equal(t, time.Minute, window)
}
