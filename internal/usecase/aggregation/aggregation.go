package aggregation

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/zd0907-arc/market-live-terminal/internal/aggregator"
	domain "github.com/zd0907-arc/market-live-terminal/internal/domain/aggregation"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/bar"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/daily"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/tick"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/redis/threshold"
	"github.com/zd0907-arc/market-live-terminal/internal/metrics"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

// Watchlist lists the instruments finalized at the close.
type Watchlist interface {
	Symbols(ctx context.Context) ([]string, error)
}

var _ domain.Usecase = (*Usecase)(nil)

// Usecase aggregates stored ticks and writes the resulting bars.
type Usecase struct {
	ticks      tick.TickRepository
	bars       bar.BarRepository
	daily      daily.DailyFlowRepository
	thresholds threshold.Provider
	watchlist  Watchlist
	logger     logger.Interface

	concurrency int
}

// NewUsecase creates the aggregation usecase. concurrency bounds the number
// of (symbol, date) pairs processed at once by Finalize and Backfill.
func NewUsecase(
	ticks tick.TickRepository,
	bars bar.BarRepository,
	daily daily.DailyFlowRepository,
	thresholds threshold.Provider,
	watchlist Watchlist,
	log logger.Interface,
	concurrency int,
) *Usecase {
	return &Usecase{
		ticks:       ticks,
		bars:        bars,
		daily:       daily,
		thresholds:  thresholds,
		watchlist:   watchlist,
		logger:      log,
		concurrency: max(1, concurrency),
	}
}

// Run aggregates one (symbol, date). Thresholds are re-read on every call.
// A day without ticks yields an empty result and writes nothing.
func (u *Usecase) Run(ctx context.Context, symbol, date string) (*aggregator.Result, error) {
	ctx = util.WithSymbol(ctx, symbol)

	th, err := u.thresholds.GetThresholds(ctx)
	if err != nil {
		u.logger.WarnContext(ctx, "Using default thresholds", logger.NewField("error", err.Error()))
	}

	stored, err := u.ticks.TicksForDate(ctx, symbol, date)
	if err != nil {
		metrics.AggregationsTotal.WithLabelValues("error").Inc()
		return nil, errors.TracerFromError(err)
	}

	ticks := make([]aggregator.Tick, len(stored))
	for i, t := range stored {
		ticks[i] = aggregator.Tick{
			Symbol: t.Symbol,
			Time:   t.Clock(),
			Price:  t.Price,
			Volume: t.Volume,
			Amount: t.Amount,
			Side:   aggregator.Side(t.Side),
		}
	}

	res := aggregator.Aggregate(symbol, date, ticks, th)
	if res.Empty {
		metrics.AggregationsTotal.WithLabelValues("empty").Inc()
		u.logger.InfoContext(ctx, "No ticks to aggregate", logger.NewField("date", date))
		return res, nil
	}

	if err := u.store(ctx, res); err != nil {
		metrics.AggregationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.AggregationsTotal.WithLabelValues("ok").Inc()
	u.logger.InfoContext(ctx, "Aggregated ticks",
		logger.NewField("date", date),
		logger.NewField("ticks", len(ticks)),
		logger.NewField("minutes", len(res.Minutes)),
		logger.NewField("flows", len(res.Flows)),
		logger.NewField("signature", res.Daily.ConfigSignature),
	)
	return res, nil
}

func (u *Usecase) store(ctx context.Context, res *aggregator.Result) error {
	if err := u.bars.StoreMinutes(ctx, res.Minutes); err != nil {
		return errors.TracerFromError(err)
	}
	if err := u.bars.StoreFlows(ctx, res.Flows); err != nil {
		return errors.TracerFromError(err)
	}
	if err := u.daily.Store(ctx, res.Daily); err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}

// Finalize aggregates date for every watchlist instrument.
func (u *Usecase) Finalize(ctx context.Context, date string) (*domain.Report, error) {
	ctx = util.ContextWithRequestID(util.WithLoop(ctx, "finalize"), "")

	symbols, err := u.watchlist.Symbols(ctx)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	pairs := make([]pair, len(symbols))
	for i, s := range symbols {
		pairs[i] = pair{symbol: s, date: date}
	}
	return u.runAll(ctx, pairs)
}

// Backfill re-aggregates every (symbol, date) that has stored ticks.
func (u *Usecase) Backfill(ctx context.Context) (*domain.Report, error) {
	ctx = util.ContextWithRequestID(util.WithLoop(ctx, "backfill"), "")

	symbols, err := u.ticks.Symbols(ctx)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	var pairs []pair
	for _, s := range symbols {
		dates, err := u.ticks.DatesForSymbol(ctx, s)
		if err != nil {
			return nil, errors.Tracef(err, "list dates of %s", s)
		}
		for _, d := range dates {
			pairs = append(pairs, pair{symbol: s, date: d})
		}
	}

	u.logger.InfoContext(ctx, "Backfilling", logger.NewField("symbols", len(symbols)), logger.NewField("pairs", len(pairs)))
	return u.runAll(ctx, pairs)
}

type pair struct {
	symbol, date string
}

// runAll aggregates pairs concurrently. A failing pair is reported and does
// not stop the others; the returned error lists every failure.
func (u *Usecase) runAll(ctx context.Context, pairs []pair) (*domain.Report, error) {
	var (
		mu       sync.Mutex
		report   = &domain.Report{Runs: len(pairs)}
		failures = errors.NewBaseError()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for _, p := range pairs {
		g.Go(func() error {
			res, err := u.Run(gctx, p.symbol, p.date)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				u.logger.ErrorContext(gctx, err, logger.NewField("symbol", p.symbol), logger.NewField("date", p.date))
				report.Failed = append(report.Failed, fmt.Sprintf("%s %s", p.symbol, p.date))
				failures.AddErrorDetails(errors.NewErrorDetails(err.Error(), string(errors.AggregationError), p.symbol))
				return nil
			}
			if res.Empty {
				report.Empty++
			}
			return nil
		})
	}
	_ = g.Wait()

	if failures.Len() > 0 {
		return report, failures
	}
	return report, nil
}
