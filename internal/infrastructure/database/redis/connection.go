// internal/infrastructure/database/redis/connection.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	dialTimeout = 5 * time.Second
	ioTimeout   = 3 * time.Second
)

// Client owns the shared go-redis pool
type Client struct {
	rdb *redis.Client
}

// Options maps the Redis section of the configuration onto go-redis options
func Options(cfg *config.Config) *redis.Options {
	return &redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
		PoolTimeout:  ioTimeout + time.Second,
	}
}

// NewConnection opens the pool and pings it once so misconfiguration fails at start-up
func NewConnection(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Client, error) {
	c := &Client{rdb: redis.NewClient(Options(cfg))}

	if err := c.Health(ctx); err != nil {
		_ = c.rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.GetRedisAddr(), err)
	}

	log.WithFields(logrus.Fields{
		"addr": cfg.GetRedisAddr(),
		"db":   cfg.Redis.DB,
	}).Info("Redis connection established")
	return c, nil
}

// GetClient returns the underlying go-redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Health pings Redis with a short deadline
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ioTimeout)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

// Close releases the pool
func (c *Client) Close() error {
	return c.rdb.Close()
}
