package poller

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/zd0907-arc/market-live-terminal/internal/metrics"
	"github.com/zd0907-arc/market-live-terminal/internal/quote"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

const (
	loopHot  = "hot"
	loopCold = "cold"
)

// Watchlist lists every instrument the cold loop sweeps.
type Watchlist interface {
	Symbols(ctx context.Context) ([]string, error)
}

// Gate reports whether fetching makes sense at t.
type Gate interface {
	Open(t time.Time) bool
}

// Handler receives every decoded snapshot, in fetch order.
type Handler func(ctx context.Context, s *quote.Snapshot)

// Poller runs a hot loop for the focused instrument and a cold loop for the
// rest of the watchlist.
type Poller struct {
	config    Config
	fetcher   Fetcher
	watchlist Watchlist
	handler   Handler
	gate      Gate
	limiter   *rate.Limiter
	logger    logger.Interface
	now       func() time.Time

	focusMu sync.RWMutex
	focus   string

	running atomic.Bool
	stopCh  chan struct{}
	stopMu  sync.Mutex
}

// Option customises a Poller.
type Option func(*Poller)

// WithGate replaces the market-hours gate.
func WithGate(g Gate) Option {
	return func(p *Poller) { p.gate = g }
}

// WithNow replaces the clock the gate is checked against.
func WithNow(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

// New creates a Poller. handler is called from both loop goroutines.
func New(cfg Config, fetcher Fetcher, watchlist Watchlist, handler Handler, log logger.Interface, opts ...Option) *Poller {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	p := &Poller{
		config:    cfg,
		fetcher:   fetcher,
		watchlist: watchlist,
		handler:   handler,
		gate:      NewMarketHours(),
		limiter:   rate.NewLimiter(rate.Every(cfg.BatchGap), 1),
		logger:    log,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetFocus moves symbol into the hot loop; "" clears the focus.
func (p *Poller) SetFocus(symbol string) {
	p.focusMu.Lock()
	p.focus = symbol
	p.focusMu.Unlock()
	p.logger.Info("Focus changed", logger.NewField("focus", symbol))
}

// Focus returns the focused symbol, "" if none.
func (p *Poller) Focus() string {
	p.focusMu.RLock()
	defer p.focusMu.RUnlock()
	return p.focus
}

// Running reports whether the loops are active.
func (p *Poller) Running() bool {
	return p.running.Load()
}

// Run blocks until ctx is done or Stop is called. A Poller is single use:
// once stopped, Run returns immediately without fetching.
func (p *Poller) Run(ctx context.Context) {
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	if p.stopped() {
		p.running.Store(false)
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.loop(util.WithLoop(ctx, loopHot), p.config.HotInterval, p.hot)
	}()
	go func() {
		defer wg.Done()
		p.loop(util.WithLoop(ctx, loopCold), p.config.ColdInterval, p.cold)
	}()
	wg.Wait()
	p.running.Store(false)
}

// Stop asks both loops to exit. A fetch already in flight completes but its
// result is discarded.
func (p *Poller) Stop() {
	p.running.Store(false)
	p.stopMu.Lock()
	defer p.stopMu.Unlock()
	select {
	case <-p.stopCh:
	default:
		close(p.stopCh)
	}
}

func (p *Poller) stopped() bool {
	p.stopMu.Lock()
	defer p.stopMu.Unlock()
	select {
	case <-p.stopCh:
		return true
	default:
		return false
	}
}

func (p *Poller) loop(ctx context.Context, interval time.Duration, iterate func(ctx context.Context)) {
	for p.running.Load() && ctx.Err() == nil {
		wait := interval
		if p.gate.Open(p.now()) {
			iterate(util.ContextWithRequestID(ctx, ""))
		} else {
			wait = p.config.ClosedInterval
		}
		if !p.sleep(ctx, wait) {
			return
		}
	}
}

// sleep waits d and reports whether the loop should continue.
func (p *Poller) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-p.stopCh:
		return false
	case <-t.C:
		return true
	}
}

func (p *Poller) hot(ctx context.Context) {
	focus := p.Focus()
	if focus == "" {
		return
	}
	p.fetch(util.WithSymbol(ctx, focus), loopHot, []string{focus})
}

func (p *Poller) cold(ctx context.Context) {
	symbols, err := p.watchlist.Symbols(ctx)
	if err != nil {
		p.logger.ErrorContext(ctx, errors.TracerFromError(err), logger.NewField("action", "load_watchlist"))
		return
	}

	focus := p.Focus()
	symbols = slices.DeleteFunc(slices.Clone(symbols), func(s string) bool { return s == focus })

	for batch := range slices.Chunk(symbols, p.config.BatchSize) {
		if err := p.limiter.Wait(ctx); err != nil {
			return
		}
		if !p.running.Load() {
			return
		}
		p.fetch(ctx, loopCold, batch)
	}
}

func (p *Poller) fetch(ctx context.Context, loop string, symbols []string) {
	start := time.Now()
	batch, err := p.fetcher.Fetch(ctx, symbols)
	metrics.FetchDuration.WithLabelValues(loop).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.FetchesTotal.WithLabelValues(loop, "error").Inc()
		p.logger.ErrorContext(ctx, errors.TracerFromError(err),
			logger.NewField("action", "fetch_quotes"),
			logger.NewField("symbols", len(symbols)),
		)
		return
	}
	metrics.FetchesTotal.WithLabelValues(loop, "ok").Inc()

	if batch.Skipped.Len() > 0 {
		for code, n := range batch.Skipped.CountByCode() {
			metrics.RecordsSkipped.WithLabelValues(code).Add(float64(n))
		}
		p.logger.WarnContext(ctx, "Skipped malformed quote records",
			logger.NewField("skipped", batch.Skipped.Len()),
			logger.NewField("detail", batch.Skipped.Error()),
		)
	}

	if !p.running.Load() {
		p.logger.DebugContext(ctx, "Discarding batch fetched after stop", logger.NewField("records", len(batch.Snapshots)))
		return
	}
	for _, s := range batch.Snapshots {
		p.handler(ctx, s)
	}
}
