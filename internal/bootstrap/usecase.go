package bootstrap

import (
	aggregationDomain "github.com/zd0907-arc/market-live-terminal/internal/domain/aggregation"
	monitorDomain "github.com/zd0907-arc/market-live-terminal/internal/domain/monitor"
	tickDomain "github.com/zd0907-arc/market-live-terminal/internal/domain/tick"

	"github.com/zd0907-arc/market-live-terminal/internal/engine"
	aggregationUc "github.com/zd0907-arc/market-live-terminal/internal/usecase/aggregation"
	monitorUc "github.com/zd0907-arc/market-live-terminal/internal/usecase/monitor"
	tickUc "github.com/zd0907-arc/market-live-terminal/internal/usecase/tick"
)

// Usecase is the usecase layer of the monitor.
type Usecase struct {
	MonitorUsecase     monitorDomain.Usecase
	TickUsecase        tickDomain.Usecase
	AggregationUsecase aggregationDomain.Usecase
}

// registerUsecase registers the usecase.
func (b *Bootstrap) registerUsecase() {
	b.Usecase.TickUsecase = tickUc.NewUsecase(b.Repository.TickRepository, b.Logger.Named("ticks"))
	b.Usecase.AggregationUsecase = aggregationUc.NewUsecase(
		b.Repository.TickRepository,
		b.Repository.BarRepository,
		b.Repository.DailyFlowRepository,
		b.Provider.Thresholds,
		b.Provider.Watchlist,
		b.Logger.Named("aggregation"),
		b.Config.Aggregator.Concurrency,
	)

	if b.Sink == nil {
		return
	}
	b.Engine = engine.New(b.Config.Engine)
	b.Usecase.MonitorUsecase = monitorUc.NewUsecase(
		b.Engine,
		b.Repository.SnapshotRepository,
		b.Publisher,
		b.Sink,
		b.Logger.Named("monitor"),
	)
}
