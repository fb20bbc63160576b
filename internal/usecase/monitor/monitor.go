package monitor

import (
	"context"
	"encoding/json"

	"github.com/zd0907-arc/market-live-terminal/internal/domain/signal"
	"github.com/zd0907-arc/market-live-terminal/internal/engine"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/snapshot"
	"github.com/zd0907-arc/market-live-terminal/internal/metrics"
	"github.com/zd0907-arc/market-live-terminal/internal/quote"
	"github.com/zd0907-arc/market-live-terminal/internal/sink"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

const (
	kindSnapshot = "snapshot"
	kindSignal   = "signal"
)

// Evaluator is the signal engine.
type Evaluator interface {
	Evaluate(s *quote.Snapshot) (*engine.Result, error)
}

// Submitter queues persistence work.
type Submitter interface {
	Submit(job sink.Job) error
}

// Usecase evaluates every snapshot and hands the row and any signals to the
// sink. It never blocks on storage.
type Usecase struct {
	engine    Evaluator
	snapshots snapshot.SnapshotRepository
	publisher signal.Publisher
	sink      Submitter
	logger    logger.Interface
}

// NewUsecase creates the monitor usecase. publisher may be nil.
func NewUsecase(
	engine Evaluator,
	snapshots snapshot.SnapshotRepository,
	publisher signal.Publisher,
	sink Submitter,
	log logger.Interface,
) *Usecase {
	return &Usecase{
		engine:    engine,
		snapshots: snapshots,
		publisher: publisher,
		sink:      sink,
		logger:    log,
	}
}

// HandleSnapshot is the poller callback.
func (u *Usecase) HandleSnapshot(ctx context.Context, s *quote.Snapshot) {
	ctx = util.WithSymbol(ctx, s.Symbol)

	res, err := u.engine.Evaluate(s)
	if err != nil {
		metrics.RecordsSkipped.WithLabelValues(string(errors.RejectedSampleError)).Inc()
		u.logger.DebugContext(ctx, "Rejected sample",
			logger.NewField("price", s.Price),
			logger.NewField("time", s.Time),
		)
		return
	}

	for _, sig := range res.Signals {
		metrics.SignalsTotal.WithLabelValues(string(sig.Type)).Inc()
		u.logger.InfoContext(ctx, "Signal",
			logger.NewField("type", sig.Type),
			logger.NewField("label", sig.Label),
			logger.NewField("severity", sig.Severity),
			logger.NewField("detail", sig.Detail),
			logger.NewField("time", sig.Time),
		)
	}

	row, err := toRow(res)
	if err != nil {
		u.logger.ErrorContext(ctx, errors.Tracef(err, "build snapshot row"))
		return
	}

	u.submit(ctx, sink.Job{
		Symbol: s.Symbol,
		Kind:   kindSnapshot,
		Run: func(ctx context.Context) error {
			return u.snapshots.Store(ctx, row)
		},
	})

	if len(res.Signals) > 0 && u.publisher != nil {
		signals := res.Signals
		u.submit(ctx, sink.Job{
			Symbol: s.Symbol,
			Kind:   kindSignal,
			Run: func(ctx context.Context) error {
				return u.publisher.Publish(ctx, signals)
			},
		})
	}
}

func (u *Usecase) submit(ctx context.Context, job sink.Job) {
	if err := u.sink.Submit(job); err != nil && !errors.ErrorCodeEquals(err, string(errors.SinkQueueFullError)) {
		// full queues are already reported by the dispatcher
		u.logger.WarnContext(ctx, "Sink refused job",
			logger.NewField("kind", job.Kind),
			logger.NewField("error", err.Error()),
		)
	}
}

func toRow(res *engine.Result) (*snapshot.Row, error) {
	s := res.Snapshot
	ts, err := s.Timestamp(util.Exchange)
	if err != nil {
		return nil, err
	}

	signals := res.Signals
	if signals == nil {
		signals = []engine.Signal{}
	}
	encoded, err := json.Marshal(signals)
	if err != nil {
		return nil, err
	}

	return &snapshot.Row{
		Symbol:    s.Symbol,
		Timestamp: ts,
		TradeDate: s.Date,
		Price:     s.Price,
		TotalVol:  s.TotalVol,
		OuterVol:  s.OuterVol,
		InnerVol:  s.InnerVol,
		Bid1Vol:   s.Bid1Vol,
		Ask1Vol:   s.Ask1Vol,
		BidDepth:  s.BidDepth,
		AskDepth:  s.AskDepth,
		CVD:       s.CVD(),
		OIB:       s.OIB(),
		TickVol:   res.TickVol,
		Signals:   string(encoded),
	}, nil
}
