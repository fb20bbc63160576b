package daily

import (
	"context"
	"strings"
	"time"

	"github.com/zd0907-arc/market-live-terminal/internal/aggregator"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/questdb"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

const table = "daily_flow"

var columns = []string{"symbol", "ts", "config_signature", "net_inflow", "main_buy", "main_sell", "close", "activity_ratio"}

// Repository reads and writes the daily_flow table.
type Repository struct {
	client questdb.QuestDBClient
}

// NewRepository creates a new daily flow repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// Store upserts one summary. Summaries computed with different thresholds
// live side by side.
func (r *Repository) Store(ctx context.Context, flow *aggregator.DailyFlow) error {
	day, err := time.ParseInLocation(util.DateLayout, flow.Date, util.Exchange)
	if err != nil {
		return errors.WithCode(err, errors.SinkWriteError, table, "daily flow of %s", flow.Symbol)
	}

	row := []any{flow.Symbol, day, flow.ConfigSignature, flow.NetInflow, flow.MainBuy, flow.MainSell, flow.Close, flow.ActivityRatio}
	if err := questdb.InsertRows(ctx, r.client, table, columns, [][]any{row}); err != nil {
		return errors.WithCode(err, errors.SinkWriteError, table, "store daily flow of %s on %s", flow.Symbol, flow.Date)
	}
	return nil
}

// History returns the latest limit summaries for symbol, newest first.
func (r *Repository) History(ctx context.Context, symbol, signature string, limit int) ([]*aggregator.DailyFlow, error) {
	query := "SELECT " + strings.Join(columns, ", ") + " FROM " + table + `
			  WHERE symbol = $1 AND config_signature = $2
			  ORDER BY ts DESC
			  LIMIT $3`

	rows, err := r.client.Query(ctx, query, symbol, signature, limit)
	if err != nil {
		return nil, errors.WithCode(err, errors.GeneralRepositoryError, table, "query daily flow of %s", symbol)
	}
	defer rows.Close()

	var out []*aggregator.DailyFlow
	for rows.Next() {
		var (
			flow aggregator.DailyFlow
			day  time.Time
		)
		err := rows.Scan(&flow.Symbol, &day, &flow.ConfigSignature, &flow.NetInflow,
			&flow.MainBuy, &flow.MainSell, &flow.Close, &flow.ActivityRatio)
		if err != nil {
			return nil, errors.Tracef(err, "scan daily flow")
		}
		flow.Date = day.In(util.Exchange).Format(util.DateLayout)
		out = append(out, &flow)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Tracef(err, "iterate daily flow")
	}

	return out, nil
}
