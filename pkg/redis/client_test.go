package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
)

func validConfig() *Config {
	return &Config{
		Mode:           Standalone,
		Addrs:          []string{"localhost:6379"},
		ConnectTimeout: time.Second,
		PoolSize:       2,
		PrefixKey:      "mlt:",
	}
}

func TestClient_ConnectRejectsBadConfig(t *testing.T) {
	testCases := []struct {
		name   string
		config func() *Config
	}{
		{name: "nil config", config: func() *Config { return nil }},
		{name: "no addresses", config: func() *Config { c := validConfig(); c.Addrs = nil; return c }},
		{name: "unknown mode", config: func() *Config { c := validConfig(); c.Mode = "sentinel"; return c }},
		{name: "zero timeout", config: func() *Config { c := validConfig(); c.ConnectTimeout = 0; return c }},
		{name: "zero pool", config: func() *Config { c := validConfig(); c.PoolSize = 0; return c }},
		{name: "negative retries", config: func() *Config { c := validConfig(); c.MaxRetries = -1; return c }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClient(logger.NewNop(), tc.config())
			err := c.Connect(context.Background())
			assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisConfigError)))
		})
	}
}

func TestClient_NotConnected(t *testing.T) {
	c := NewClient(logger.NewNop(), validConfig())

	_, err := c.HGetAll(context.Background(), "config")
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisHGetAllError)))

	_, err = c.SMembers(context.Background(), "watchlist")
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisSMembersError)))

	assert.NoError(t, c.Disconnect(context.Background()))
}

func TestConfig_Key(t *testing.T) {
	assert.Equal(t, "mlt:watchlist", validConfig().Key("watchlist"))
}
