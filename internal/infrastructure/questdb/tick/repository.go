package tick

import (
	"context"
	"strings"
	"time"

	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/questdb"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

const table = "trade_ticks"

var columns = []string{"symbol", "ts", "seq", "price", "volume", "amount", "side"}

// Repository reads and writes the trade_ticks table.
type Repository struct {
	client questdb.QuestDBClient
}

// NewRepository creates a new tick repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// StoreBatch inserts ticks. Rows are deduplicated by (ts, symbol, seq) so a
// redelivered batch is harmless.
func (r *Repository) StoreBatch(ctx context.Context, ticks []*Tick) error {
	rows := make([][]any, len(ticks))
	for i, t := range ticks {
		rows[i] = []any{t.Symbol, t.Timestamp, t.Seq, t.Price, t.Volume, t.Amount, t.Side}
	}
	if err := questdb.InsertRows(ctx, r.client, table, columns, rows); err != nil {
		return errors.WithCode(err, errors.SinkWriteError, table, "store %d ticks", len(ticks))
	}
	return nil
}

// TicksForDate returns one trading day of prints for symbol in time order.
func (r *Repository) TicksForDate(ctx context.Context, symbol, date string) ([]*Tick, error) {
	day, err := time.ParseInLocation(util.DateLayout, date, util.Exchange)
	if err != nil {
		return nil, errors.Tracef(err, "parse trade date")
	}

	query := "SELECT " + strings.Join(columns, ", ") + " FROM " + table + `
			  WHERE symbol = $1 AND ts >= $2 AND ts < $3
			  ORDER BY ts, seq`

	rows, err := r.client.Query(ctx, query, symbol, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, errors.WithCode(err, errors.GeneralRepositoryError, table, "query ticks of %s on %s", symbol, date)
	}
	defer rows.Close()

	var ticks []*Tick
	for rows.Next() {
		t := &Tick{}
		if err := rows.Scan(&t.Symbol, &t.Timestamp, &t.Seq, &t.Price, &t.Volume, &t.Amount, &t.Side); err != nil {
			return nil, errors.Tracef(err, "scan tick")
		}
		ticks = append(ticks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Tracef(err, "iterate ticks")
	}

	return ticks, nil
}

// DatesForSymbol lists the exchange dates that have stored ticks, oldest
// first.
func (r *Repository) DatesForSymbol(ctx context.Context, symbol string) ([]string, error) {
	query := `SELECT DISTINCT to_str(to_timezone(ts, 'Asia/Shanghai'), 'yyyy-MM-dd') AS trade_date
			  FROM ` + table + `
			  WHERE symbol = $1
			  ORDER BY trade_date`

	return r.distinct(ctx, query, symbol)
}

// Symbols lists every instrument that has stored ticks.
func (r *Repository) Symbols(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "SELECT DISTINCT symbol FROM "+table+" ORDER BY symbol")
}

func (r *Repository) distinct(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.client.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.WithCode(err, errors.GeneralRepositoryError, table, "query %s", table)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Tracef(err, "scan %s", table)
		}
		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Tracef(err, "iterate %s", table)
	}

	return out, nil
}
