package bar

import (
	"context"

	"github.com/zd0907-arc/market-live-terminal/internal/aggregator"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/questdb"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

const (
	minuteTable = "minute_bars"
	flowTable   = "flow_bars_30m"
)

var (
	minuteColumns = []string{
		"symbol", "ts", "total_amount", "main_buy", "main_sell", "super_buy", "super_sell",
		"main_buy_ratio", "main_sell_ratio", "participation_ratio", "super_participation_ratio", "close",
		"cum_main_buy", "cum_main_sell", "cum_net_inflow", "cum_super_buy", "cum_super_sell", "cum_super_net",
	}
	flowColumns = []string{
		"symbol", "ts", "net_inflow", "main_buy", "main_sell", "super_net", "super_buy", "super_sell",
	}
)

// Repository writes bars keyed by (ts, symbol). Re-running a day overwrites
// the previous rows in place.
type Repository struct {
	client questdb.QuestDBClient
}

// NewRepository creates a new bar repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// StoreMinutes upserts minute bars. The row timestamp is the minute start.
func (r *Repository) StoreMinutes(ctx context.Context, bars []aggregator.MinuteBar) error {
	rows := make([][]any, 0, len(bars))
	for _, b := range bars {
		ts, err := util.CombineDateClock(b.Date, b.Minute, util.Exchange)
		if err != nil {
			return errors.WithCode(err, errors.SinkWriteError, minuteTable, "minute bar of %s", b.Symbol)
		}
		rows = append(rows, []any{
			b.Symbol, ts, b.Total, b.MainBuy, b.MainSell, b.SuperBuy, b.SuperSell,
			b.MainBuyRatio, b.MainSellRatio, b.ParticipationRatio, b.SuperParticipationRatio, b.Close,
			b.CumMainBuy, b.CumMainSell, b.CumNetInflow, b.CumSuperBuy, b.CumSuperSell, b.CumSuperNet,
		})
	}

	if err := questdb.InsertRows(ctx, r.client, minuteTable, minuteColumns, rows); err != nil {
		return errors.WithCode(err, errors.SinkWriteError, minuteTable, "store %d minute bars", len(rows))
	}
	return nil
}

// StoreFlows upserts 30 minute bars. The row timestamp is the bucket's
// closing boundary.
func (r *Repository) StoreFlows(ctx context.Context, bars []aggregator.FlowBar) error {
	rows := make([][]any, 0, len(bars))
	for _, b := range bars {
		ts, err := util.CombineDateClock(b.Date, b.Bucket, util.Exchange)
		if err != nil {
			return errors.WithCode(err, errors.SinkWriteError, flowTable, "flow bar of %s", b.Symbol)
		}
		rows = append(rows, []any{
			b.Symbol, ts, b.NetInflow, b.MainBuy, b.MainSell, b.SuperNet, b.SuperBuy, b.SuperSell,
		})
	}

	if err := questdb.InsertRows(ctx, r.client, flowTable, flowColumns, rows); err != nil {
		return errors.WithCode(err, errors.SinkWriteError, flowTable, "store %d flow bars", len(rows))
	}
	return nil
}
