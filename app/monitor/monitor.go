package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/zd0907-arc/market-live-terminal/app"
	"github.com/zd0907-arc/market-live-terminal/internal/bootstrap"
	"github.com/zd0907-arc/market-live-terminal/internal/config"
	"github.com/zd0907-arc/market-live-terminal/internal/consumer"
	"github.com/zd0907-arc/market-live-terminal/internal/control"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/kafka/signal"
	"github.com/zd0907-arc/market-live-terminal/internal/poller"
	"github.com/zd0907-arc/market-live-terminal/internal/sink"
	"github.com/zd0907-arc/market-live-terminal/internal/usecase/aggregation"
	"github.com/zd0907-arc/market-live-terminal/pkg/httplib/healthcheck"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Monitor is the long-running process: pollers, persistence, tick ingestion,
// the close-of-day job and the control server.
type Monitor struct {
	Bootstrap bootstrap.Bootstrap

	logger     logger.Interface
	stores     *app.Stores
	dispatcher *sink.Dispatcher
	poller     *poller.Poller
	consumer   *consumer.TickConsumer
	scheduler  *aggregation.Scheduler
	server     *control.Server
}

// InitMonitor connects the stores and wires every component.
func InitMonitor(ctx context.Context, cfg config.Config, log logger.Interface) (*Monitor, error) {
	stores, err := app.Connect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	m := &Monitor{
		logger:     log,
		stores:     stores,
		dispatcher: sink.NewDispatcher(cfg.Sink, log.Named("sink")),
	}

	bootstrapConfig := bootstrap.BoostrapConfig{
		Config:  cfg,
		QuestDB: stores.QuestDB,
		Redis:   stores.Redis,
		Sink:    m.dispatcher,
		Logger:  log,
	}
	if cfg.SignalKafka.Enabled {
		bootstrapConfig.Publisher = signal.NewPublisher(cfg.SignalKafka.Config, log.Named("signals"))
	}
	m.Bootstrap = (&bootstrap.Bootstrap{}).Init(bootstrapConfig)

	m.poller = poller.New(
		cfg.Poller,
		poller.NewHTTPFetcher(cfg.Poller),
		m.Bootstrap.Provider.Watchlist,
		m.Bootstrap.Usecase.MonitorUsecase.HandleSnapshot,
		log.Named("poller"),
	)

	if cfg.TickKafka.Enabled {
		m.consumer = consumer.NewTickConsumer(cfg.TickKafka.Config, log.Named("ticks"), m.Bootstrap.Usecase.TickUsecase)
	}

	m.scheduler, err = aggregation.NewScheduler(cfg.Finalize, m.Bootstrap.Usecase.AggregationUsecase, log.Named("finalize"))
	if err != nil {
		stores.Close(ctx)
		return nil, err
	}

	health := healthcheck.New(2 * time.Second).Register("questdb", stores.QuestDB.Ping)
	if stores.Redis != nil {
		health.Register("redis", stores.Redis.Ping)
	}
	thresholds := m.Bootstrap.Provider.Thresholds
	signature := func(ctx context.Context) string {
		th, _ := thresholds.GetThresholds(ctx)
		return th.Signature()
	}
	m.server = control.NewServer(
		cfg.App.Port,
		m.poller,
		m.Bootstrap.Repository.SnapshotRepository,
		m.Bootstrap.Repository.DailyFlowRepository,
		signature,
		health,
		log.Named("control"),
	)

	return m, nil
}

// Run starts every component and blocks until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	m.dispatcher.Start(ctx)

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() { m.poller.Run(ctx) })
	run(func() { m.scheduler.Run(ctx) })
	run(func() {
		if err := m.server.Start(); err != nil {
			m.logger.ErrorContext(ctx, err, logger.NewField("action", "control_server"))
		}
	})
	if m.consumer != nil {
		run(func() { m.consumer.Start(ctx) })
		run(func() { m.consumer.Subscribe(ctx) })
	}

	<-ctx.Done()
	m.shutdown()
	wg.Wait()
}

// shutdown stops intake first and drains persistence last.
func (m *Monitor) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	m.poller.Stop()
	if err := m.server.Shutdown(ctx); err != nil {
		m.logger.Error(err, logger.NewField("action", "control_server_shutdown"))
	}
	if m.consumer != nil {
		if err := m.consumer.Stop(); err != nil {
			m.logger.Error(err, logger.NewField("action", "tick_consumer_stop"))
		}
	}
	if err := m.dispatcher.Stop(ctx); err != nil {
		m.logger.Error(err, logger.NewField("action", "sink_stop"))
	}
	if m.Bootstrap.Publisher != nil {
		if err := m.Bootstrap.Publisher.Close(); err != nil {
			m.logger.Error(err, logger.NewField("action", "signal_publisher_close"))
		}
	}
	m.stores.Close(ctx)
}
