// Package app opens the shared stores and loggers used by every binary.
package app

import (
	"context"

	"github.com/zd0907-arc/market-live-terminal/internal/config"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	"github.com/zd0907-arc/market-live-terminal/pkg/questdb"
	"github.com/zd0907-arc/market-live-terminal/pkg/redis"
)

// NewLogger builds the process logger at the configured level and sinks.
func NewLogger(cfg config.AppConfig) (*logger.Logger, error) {
	log, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.Level(cfg.LogLevel)),
		logger.WithOutputPaths(cfg.LogOutput),
	)
	if err != nil {
		return nil, err
	}
	return log.Named(cfg.Name), nil
}

// Stores are the connected backends. Redis is nil when disabled.
type Stores struct {
	QuestDB *questdb.Client
	Redis   redis.Client
}

// Connect opens QuestDB and, when enabled, Redis.
func Connect(ctx context.Context, cfg config.Config, log logger.Interface) (*Stores, error) {
	qdb, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	log.Info("QuestDB client connected", logger.NewField("host", cfg.QuestDB.Host))

	stores := &Stores{QuestDB: qdb}
	if !cfg.Redis.Enabled {
		return stores, nil
	}

	rdb := redis.NewClient(log.Named("redis"), &cfg.Redis.Config)
	if err := rdb.Connect(ctx); err != nil {
		qdb.Close()
		return nil, err
	}
	stores.Redis = rdb
	return stores, nil
}

// Close releases every store.
func (s *Stores) Close(ctx context.Context) {
	if s.Redis != nil {
		_ = s.Redis.Disconnect(ctx)
	}
	s.QuestDB.Close()
}
