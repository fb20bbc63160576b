package poller

import "time"

// Config drives both polling loops and the vendor fetcher.
type Config struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://qt.gtimg.cn"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
	// Charset of the vendor body; "gbk" is decoded, anything else is read as is.
	Charset string `env:"CHARSET" envDefault:"gbk"`

	HotInterval    time.Duration `env:"HOT_INTERVAL" envDefault:"3s"`
	ColdInterval   time.Duration `env:"COLD_INTERVAL" envDefault:"180s"`
	ClosedInterval time.Duration `env:"CLOSED_INTERVAL" envDefault:"60s"`
	BatchSize      int           `env:"BATCH_SIZE" envDefault:"20"`
	BatchGap       time.Duration `env:"BATCH_GAP" envDefault:"3s"`

	BreakerFailures uint32        `env:"BREAKER_FAILURES" envDefault:"5"`
	BreakerCooldown time.Duration `env:"BREAKER_COOLDOWN" envDefault:"30s"`
}

// DefaultConfig mirrors the env defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "http://qt.gtimg.cn",
		Timeout:         5 * time.Second,
		Charset:         "gbk",
		HotInterval:     3 * time.Second,
		ColdInterval:    180 * time.Second,
		ClosedInterval:  60 * time.Second,
		BatchSize:       20,
		BatchGap:        3 * time.Second,
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
}
