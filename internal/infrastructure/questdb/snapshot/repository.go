package snapshot

import (
	"context"
	"fmt"
	"slices"

	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/questdb"
)

const columns = "symbol, ts, trade_date, price, total_vol, outer_vol, inner_vol, bid1_vol, ask1_vol, bid_depth, ask_depth, cvd, oib, tick_vol, signals"

// Repository stores snapshots in the quote_snapshots table. The table
// deduplicates on (ts, symbol), so storing the same sample twice is harmless.
type Repository struct {
	client questdb.QuestDBClient
}

// NewRepository creates a new snapshot repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// Store appends one snapshot row.
func (r *Repository) Store(ctx context.Context, row *Row) error {
	query := `INSERT INTO quote_snapshots (` + columns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	err := r.client.Exec(ctx, query,
		row.Symbol, row.Timestamp, row.TradeDate, row.Price,
		row.TotalVol, row.OuterVol, row.InnerVol,
		row.Bid1Vol, row.Ask1Vol, row.BidDepth, row.AskDepth,
		row.CVD, row.OIB, row.TickVol, row.Signals)
	if err != nil {
		return errors.WithCode(err, errors.SinkWriteError, "quote_snapshots", "store snapshot %s", row.Symbol)
	}
	return nil
}

// GetByFilter returns the newest rows matching filter, capped at Limit,
// ordered oldest first.
func (r *Repository) GetByFilter(ctx context.Context, filter Filter) ([]*Row, error) {
	query := "SELECT " + columns + " FROM quote_snapshots WHERE symbol = $1"
	args := []any{filter.Symbol}

	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND ts >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND ts <= $%d", len(args))
	}

	query += " ORDER BY ts DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.client.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.WithCode(err, errors.GeneralRepositoryError, "quote_snapshots", "query snapshots of %s", filter.Symbol)
	}
	defer rows.Close()

	var out []*Row
	for rows.Next() {
		row := &Row{}
		err := rows.Scan(&row.Symbol, &row.Timestamp, &row.TradeDate, &row.Price,
			&row.TotalVol, &row.OuterVol, &row.InnerVol,
			&row.Bid1Vol, &row.Ask1Vol, &row.BidDepth, &row.AskDepth,
			&row.CVD, &row.OIB, &row.TickVol, &row.Signals)
		if err != nil {
			return nil, errors.Tracef(err, "scan snapshot")
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Tracef(err, "iterate snapshots")
	}

	slices.Reverse(out)
	return out, nil
}
