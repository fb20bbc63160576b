package bootstrap

import (
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/bar"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/daily"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/snapshot"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/tick"
)

// Repository is the QuestDB storage of the monitor.
type Repository struct {
	SnapshotRepository  snapshot.SnapshotRepository
	TickRepository      tick.TickRepository
	BarRepository       bar.BarRepository
	DailyFlowRepository daily.DailyFlowRepository
}

// registerRepository registers the repository.
func (b *Bootstrap) registerRepository() {
	b.Repository.SnapshotRepository = snapshot.NewRepository(b.QuestDB)
	b.Repository.TickRepository = tick.NewRepository(b.QuestDB)
	b.Repository.BarRepository = bar.NewRepository(b.QuestDB)
	b.Repository.DailyFlowRepository = daily.NewRepository(b.QuestDB)
}
