package sink

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/zd0907-arc/market-live-terminal/internal/metrics"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
)

var (
	// ErrQueueFull is returned by Submit when the symbol's worker is backed up.
	ErrQueueFull = errors.NewErrorDetails("sink queue full", string(errors.SinkQueueFullError), "queue")
	// ErrClosed is returned by Submit after Stop.
	ErrClosed = errors.NewErrorDetails("sink closed", string(errors.SinkClosedError), "queue")
)

// Config sizes the dispatcher.
type Config struct {
	Workers    int           `env:"WORKERS" envDefault:"4"`
	QueueSize  int           `env:"QUEUE_SIZE" envDefault:"1024"`
	JobTimeout time.Duration `env:"JOB_TIMEOUT" envDefault:"10s"`
}

// Job is one persistence write. Jobs with the same Symbol run in submission
// order.
type Job struct {
	Symbol string
	Kind   string // snapshot, minute_bar, flow_bar, daily, signal
	Run    func(ctx context.Context) error
}

// Dispatcher runs persistence jobs off the polling goroutines. Each symbol is
// pinned to one worker so its writes stay ordered.
type Dispatcher struct {
	config Config
	logger logger.Interface
	queues []chan Job

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher; call Start before submitting.
func NewDispatcher(config Config, log logger.Interface) *Dispatcher {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 1
	}
	queues := make([]chan Job, config.Workers)
	for i := range queues {
		queues[i] = make(chan Job, config.QueueSize)
	}
	return &Dispatcher{
		config: config,
		logger: log,
		queues: queues,
	}
}

// Start launches the workers. Jobs keep running after ctx is cancelled so
// Stop can drain what was accepted.
func (d *Dispatcher) Start(ctx context.Context) {
	jobCtx := context.WithoutCancel(ctx)
	for i, q := range d.queues {
		d.wg.Add(1)
		go d.work(jobCtx, i, q)
	}
}

// Submit enqueues job without blocking.
func (d *Dispatcher) Submit(job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	select {
	case d.queues[d.route(job.Symbol)] <- job:
		return nil
	default:
		metrics.SinkJobsTotal.WithLabelValues(job.Kind, "dropped").Inc()
		d.logger.Warn("Sink queue full, dropping job",
			logger.NewField("symbol", job.Symbol),
			logger.NewField("kind", job.Kind),
		)
		return ErrQueueFull
	}
}

// Stop refuses new jobs, then waits for queued ones to finish or ctx to end.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, q := range d.queues {
			close(q)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Sink drained")
		return nil
	case <-ctx.Done():
		d.logger.Warn("Sink drain timeout exceeded")
		return ctx.Err()
	}
}

func (d *Dispatcher) route(symbol string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(symbol))
	return int(h.Sum32() % uint32(len(d.queues)))
}

func (d *Dispatcher) work(ctx context.Context, id int, q <-chan Job) {
	defer d.wg.Done()
	for job := range q {
		d.run(ctx, id, job)
	}
}

func (d *Dispatcher) run(ctx context.Context, id int, job Job) {
	ctx, cancel := context.WithTimeout(ctx, d.config.JobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			metrics.SinkJobsTotal.WithLabelValues(job.Kind, "error").Inc()
			d.logger.Error(errors.NewTracer("sink job panicked"),
				logger.NewField("symbol", job.Symbol),
				logger.NewField("kind", job.Kind),
				logger.NewField("panic", r),
			)
		}
	}()

	if err := job.Run(ctx); err != nil {
		metrics.SinkJobsTotal.WithLabelValues(job.Kind, "error").Inc()
		d.logger.Error(errors.TracerFromError(err),
			logger.NewField("symbol", job.Symbol),
			logger.NewField("kind", job.Kind),
			logger.NewField("worker", id),
		)
		return
	}
	metrics.SinkJobsTotal.WithLabelValues(job.Kind, "ok").Inc()
}
