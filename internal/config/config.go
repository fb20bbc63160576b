package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/zd0907-arc/market-live-terminal/internal/aggregator"
	"github.com/zd0907-arc/market-live-terminal/internal/consumer"
	"github.com/zd0907-arc/market-live-terminal/internal/engine"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/kafka/signal"
	"github.com/zd0907-arc/market-live-terminal/internal/poller"
	"github.com/zd0907-arc/market-live-terminal/internal/sink"
	"github.com/zd0907-arc/market-live-terminal/internal/usecase/aggregation"
	"github.com/zd0907-arc/market-live-terminal/pkg/questdb"
	"github.com/zd0907-arc/market-live-terminal/pkg/redis"
)

// Config represents the application configuration.
type Config struct {
	App         AppConfig                   `envPrefix:"APP_"`
	QuestDB     questdb.Config              `envPrefix:"QUESTDB_"`
	Redis       RedisConfig                 `envPrefix:"REDIS_"`
	Poller      poller.Config               `envPrefix:"POLLER_"`
	Engine      engine.Thresholds           `envPrefix:"ENGINE_"`
	Aggregator  AggregatorConfig            `envPrefix:"AGGREGATOR_"`
	Finalize    aggregation.SchedulerConfig `envPrefix:"FINALIZE_"`
	Sink        sink.Config                 `envPrefix:"SINK_"`
	SignalKafka SignalKafkaConfig           `envPrefix:"SIGNAL_KAFKA_"`
	TickKafka   TickKafkaConfig             `envPrefix:"TICK_KAFKA_"`
	Watchlist   WatchlistConfig             `envPrefix:"WATCHLIST_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string   `env:"NAME" envDefault:"market-live-terminal"`
	Environment string   `env:"ENVIRONMENT" envDefault:"development"`
	Port        int      `env:"PORT" envDefault:"8080"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	LogOutput   []string `env:"LOG_OUTPUT" envSeparator:"," envDefault:"stderr"`
}

// RedisConfig holds the client settings and whether Redis is used at all.
// Without Redis, thresholds and the watchlist come from the environment.
type RedisConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
	redis.Config
}

// AggregatorConfig holds the default trade-size thresholds.
type AggregatorConfig struct {
	aggregator.Thresholds
	// Concurrency bounds parallel (symbol, date) passes during finalize and backfill.
	Concurrency int `env:"CONCURRENCY" envDefault:"4"`
}

// SignalKafkaConfig represents the signal topic configuration.
type SignalKafkaConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
	signal.Config
}

// TickKafkaConfig represents the trade tick topic configuration.
type TickKafkaConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
	consumer.Config
}

// WatchlistConfig is the static watchlist used when Redis is disabled or empty.
type WatchlistConfig struct {
	Symbols []string `env:"SYMBOLS" envSeparator:"," envDefault:"sh600519,sz000001,sz300750"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
