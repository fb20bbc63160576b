package bootstrap

import (
	"github.com/zd0907-arc/market-live-terminal/internal/config"
	"github.com/zd0907-arc/market-live-terminal/internal/domain/signal"
	"github.com/zd0907-arc/market-live-terminal/internal/engine"
	"github.com/zd0907-arc/market-live-terminal/internal/usecase/monitor"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	"github.com/zd0907-arc/market-live-terminal/pkg/questdb"
	"github.com/zd0907-arc/market-live-terminal/pkg/redis"
)

// Bootstrap holds every wired component of the monitor.
type Bootstrap struct {
	Usecase    Usecase
	Logger     logger.Interface
	Repository Repository
	Provider   Provider
	Engine     *engine.Engine

	Config    config.Config
	QuestDB   questdb.QuestDBClient
	Redis     redis.Client
	Publisher signal.Publisher
	Sink      monitor.Submitter
}

// BoostrapConfig is the config for the bootstrap. Redis, Publisher and Sink
// are optional: without Redis thresholds and the watchlist come from Config,
// without Sink no monitor usecase is built.
type BoostrapConfig struct {
	Config    config.Config
	QuestDB   questdb.QuestDBClient
	Redis     redis.Client
	Publisher signal.Publisher
	Sink      monitor.Submitter
	Logger    logger.Interface
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(config BoostrapConfig) Bootstrap {
	b.Config = config.Config
	b.QuestDB = config.QuestDB
	b.Redis = config.Redis
	b.Publisher = config.Publisher
	b.Sink = config.Sink
	b.Logger = config.Logger

	b.registerRepository()
	b.registerProvider()
	b.registerUsecase()

	return *b
}
