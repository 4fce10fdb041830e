package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisCache_RequiresHost(t *testing.T) {
	cache, err := NewRedisCache(&Config{Port: "6379"})
	assert.Error(t, err)
	assert.Nil(t, cache)

	cache, err = NewRedisCache(nil)
	assert.Error(t, err)
	assert.Nil(t, cache)
}
