package redis

import (
	"context"
	"testing"

	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{
		Host: "cache.internal", Port: "6380", Password: "secret", DB: 2, PoolSize: 20, MinIdleConns: 4,
	}}

	opts := Options(cfg)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 20, opts.PoolSize)
	assert.Equal(t, 4, opts.MinIdleConns)
	assert.Greater(t, opts.PoolTimeout, opts.ReadTimeout)
}

func TestNewConnectionFailsFast(t *testing.T) {
	// Nothing listens on port 1
	cfg := &config.Config{Redis: config.RedisConfig{Host: "127.0.0.1", Port: "1"}}

	_, err := NewConnection(context.Background(), cfg, logger.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
