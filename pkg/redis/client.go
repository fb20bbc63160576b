package redis

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
)

type client struct {
	logger  logger.Interface
	config  *Config
	cmdable redis.UniversalClient
}

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(log logger.Interface, config *Config) Client {
	return &client{
		logger: log,
		config: config,
	}
}

func (c *client) Connect(ctx context.Context) error {
	if c.config == nil {
		return errors.NewErrorDetails("Redis config is nil", string(errors.RedisConfigError), "connect")
	}
	if msg := c.config.validate(); msg != "" {
		return errors.NewErrorDetails(msg, string(errors.RedisConfigError), "connect")
	}

	var cmdable redis.UniversalClient
	switch c.config.Mode {
	case Standalone:
		cmdable = redis.NewClient(&redis.Options{
			Addr:            c.config.Addrs[0],
			Username:        c.config.Username,
			Password:        c.config.Password,
			DB:              c.config.DB,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
		})
	case Cluster:
		cmdable = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:           c.config.Addrs,
			Username:        c.config.Username,
			Password:        c.config.Password,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
		})
	}

	c.cmdable = cmdable
	if err := c.cmdable.Ping(ctx).Err(); err != nil {
		return errors.NewErrorDetails(err.Error(), string(errors.RedisConnectionError), "connect")
	}
	return nil
}

// Reconnect retries Connect with capped exponential backoff and reports
// whether a connection was re-established.
func (c *client) Reconnect(ctx context.Context) bool {
	delay := c.config.MinRetryBackoff
	for i := range c.config.ReconnectMaxRetries {
		wait := delay + time.Duration(rand.IntN(250))*time.Millisecond
		c.logger.Info("Reconnecting to Redis",
			logger.NewField("attempt", i+1),
			logger.NewField("delay", wait.String()),
		)

		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}

		connectCtx, cancel := context.WithTimeout(ctx, c.config.ConnectTimeout)
		err := c.Connect(connectCtx)
		cancel()
		if err == nil {
			c.logger.Info("Reconnected to Redis", logger.NewField("attempt", i+1))
			return true
		}
		c.logger.Error(errors.TracerFromError(err), logger.NewField("attempt", i+1))

		delay = min(delay*2, c.config.MaxRetryBackoff)
	}
	return false
}

func (c *client) Disconnect(ctx context.Context) error {
	if c.cmdable == nil {
		return nil
	}
	if err := c.cmdable.Close(); err != nil {
		return errors.NewErrorDetails(err.Error(), string(errors.RedisDisconnectionError), "disconnect")
	}
	return nil
}

func (c *client) Ping(ctx context.Context) error {
	if c.cmdable == nil {
		return errors.NewErrorDetails("Redis is not connected", string(errors.RedisPingError), "ping")
	}
	if err := c.cmdable.Ping(ctx).Err(); err != nil {
		return errors.NewErrorDetails("Failed to ping Redis", string(errors.RedisPingError), "ping")
	}
	return nil
}

func (c *client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if c.cmdable == nil {
		return nil, errors.NewErrorDetails("Redis is not connected", string(errors.RedisHGetAllError), "hgetall")
	}
	values, err := c.cmdable.HGetAll(ctx, c.config.Key(key)).Result()
	if err != nil {
		return nil, errors.NewErrorDetails("Failed to read hash from Redis", string(errors.RedisHGetAllError), "hgetall")
	}
	return values, nil
}

func (c *client) SMembers(ctx context.Context, key string) ([]string, error) {
	if c.cmdable == nil {
		return nil, errors.NewErrorDetails("Redis is not connected", string(errors.RedisSMembersError), "smembers")
	}
	members, err := c.cmdable.SMembers(ctx, c.config.Key(key)).Result()
	if err != nil {
		return nil, errors.NewErrorDetails("Failed to read set from Redis", string(errors.RedisSMembersError), "smembers")
	}
	return members, nil
}
