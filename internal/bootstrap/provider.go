package bootstrap

import (
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/redis/threshold"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/redis/watchlist"
	"github.com/zd0907-arc/market-live-terminal/internal/poller"
)

// Provider holds the runtime-editable settings.
type Provider struct {
	Thresholds threshold.Provider
	Watchlist  poller.Watchlist
}

// registerProvider reads settings from Redis when a client is configured and
// from the environment otherwise.
func (b *Bootstrap) registerProvider() {
	defaults := b.Config.Aggregator.Thresholds
	if b.Redis == nil {
		b.Provider.Thresholds = threshold.Static(defaults)
		b.Provider.Watchlist = watchlist.Static(b.Config.Watchlist.Symbols)
		return
	}

	b.Provider.Thresholds = threshold.NewStore(b.Redis, defaults, b.Logger.Named("thresholds"))
	b.Provider.Watchlist = watchlist.NewStore(b.Redis, b.Config.Watchlist.Symbols, b.Logger.Named("watchlist"))
}
