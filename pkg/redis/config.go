package redis

import "time"

// Mode represents the mode of the Redis client.
type Mode string

const (
	// Standalone Mode is for a single Redis instance.
	Standalone Mode = "standalone"
	// Cluster Mode is for a Redis cluster setup.
	Cluster Mode = "cluster"
)

// Config holds the configuration for the Redis client.
type Config struct {
	Mode     Mode     `env:"MODE" envDefault:"standalone"`
	Addrs    []string `env:"ADDRS" envDefault:"localhost:6379"`
	Username string   `env:"USERNAME"`
	Password string   `env:"PASSWORD"`
	DB       int      `env:"DB" envDefault:"0"`

	ConnectTimeout      time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
	MaxRetries          int           `env:"MAX_RETRIES" envDefault:"3"`
	MinRetryBackoff     time.Duration `env:"MIN_RETRY_BACKOFF" envDefault:"100ms"`
	MaxRetryBackoff     time.Duration `env:"MAX_RETRY_BACKOFF" envDefault:"2s"`
	PoolSize            int           `env:"POOL_SIZE" envDefault:"4"`
	ReconnectMaxRetries int           `env:"RECONNECT_MAX_RETRIES" envDefault:"3"`

	// PrefixKey namespaces every key this service reads.
	PrefixKey string `env:"PREFIX_KEY" envDefault:"mlt:"`
}

// Key prefixes name with the configured namespace.
func (c *Config) Key(name string) string {
	return c.PrefixKey + name
}

func (c *Config) validate() string {
	switch {
	case len(c.Addrs) == 0:
		return "Redis addresses are empty"
	case c.Mode != Standalone && c.Mode != Cluster:
		return "Invalid Redis mode"
	case c.ConnectTimeout <= 0:
		return "Invalid Redis connect timeout"
	case c.PoolSize <= 0:
		return "Invalid Redis pool size"
	case c.MaxRetries < 0, c.MinRetryBackoff < 0, c.MaxRetryBackoff < 0:
		return "Invalid Redis retry settings"
	}
	return ""
}
