package consumer

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"

	tickDomain "github.com/zd0907-arc/market-live-terminal/internal/domain/tick"
	v1 "github.com/zd0907-arc/market-live-terminal/internal/domain/tick-consumer/v1"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/tick"
	"github.com/zd0907-arc/market-live-terminal/internal/metrics"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
)

// Config of the tick topic reader.
type Config struct {
	Brokers       []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic         string        `env:"TOPIC" envDefault:"trade-ticks"`
	ConsumerGroup string        `env:"CONSUMER_GROUP" envDefault:"market-live-terminal"`
	BatchSize     int           `env:"BATCH_SIZE" envDefault:"500"`
	FlushInterval time.Duration `env:"FLUSH_INTERVAL" envDefault:"1s"`
	RetryBackoff  time.Duration `env:"RETRY_BACKOFF" envDefault:"1s"`
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ v1.TickConsumer = (*TickConsumer)(nil)

// TickConsumer stores trade prints from the tick topic in batches. Offsets
// are committed only after the batch they belong to is stored, so a crash
// redelivers rather than loses ticks; the store deduplicates the replay.
type TickConsumer struct {
	kafkaReader messageReader
	logger      logger.Interface

	tickUsecase tickDomain.Usecase
	msgChan     chan kafka.Message
	config      Config
}

// NewTickConsumer creates a new TickConsumer.
func NewTickConsumer(config Config, log logger.Interface, tickUsecase tickDomain.Usecase) *TickConsumer {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		GroupID:     config.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	return newTickConsumer(kafkaReader, config, log, tickUsecase)
}

func newTickConsumer(reader messageReader, config Config, log logger.Interface, tickUsecase tickDomain.Usecase) *TickConsumer {
	if config.BatchSize <= 0 {
		config.BatchSize = 1
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = time.Second
	}
	return &TickConsumer{
		kafkaReader: reader,
		logger:      log,
		tickUsecase: tickUsecase,
		msgChan:     make(chan kafka.Message, config.BatchSize),
		config:      config,
	}
}

// Start reads messages until ctx is done or the reader is closed.
func (c *TickConsumer) Start(ctx context.Context) {
	defer close(c.msgChan)

	c.logger.InfoContext(ctx, "Starting tick consumer",
		logger.NewField("action", "tick_consumer_start"),
		logger.NewField("topic", c.config.Topic),
	)

	for {
		msg, err := c.kafkaReader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, io.EOF) {
				return
			}
			c.logger.ErrorContext(ctx, err, logger.NewField("action", "fetch_tick_message"))
			if !c.wait(ctx, c.config.RetryBackoff) {
				return
			}
			continue
		}

		select {
		case c.msgChan <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// Subscribe decodes and stores messages until Start stops feeding them or
// ctx is done. Whatever is pending is flushed on the way out.
func (c *TickConsumer) Subscribe(ctx context.Context) {
	c.logger.InfoContext(ctx, "Subscribing to tick consumer", logger.NewField("action", "tick_consumer_subscribe"))

	ticker := time.NewTicker(c.config.FlushInterval)
	defer ticker.Stop()

	b := &batch{}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.FlushInterval+5*time.Second)
		defer cancel()
		c.flush(flushCtx, b)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.flush(ctx, b)
		case msg, ok := <-c.msgChan:
			if !ok {
				return
			}
			b.add(ctx, c.logger, msg)
			if len(b.msgs) < c.config.BatchSize {
				continue
			}
			if !c.flush(ctx, b) && !c.wait(ctx, c.config.RetryBackoff) {
				return
			}
		}
	}
}

// Stop closes the Kafka reader.
func (c *TickConsumer) Stop() error {
	c.logger.Info("Stopping tick consumer", logger.NewField("action", "tick_consumer_stop"))
	return c.kafkaReader.Close()
}

// flush stores the pending ticks and commits their offsets. On failure the
// batch is kept for the next attempt.
func (c *TickConsumer) flush(ctx context.Context, b *batch) bool {
	if len(b.msgs) == 0 {
		return true
	}

	if err := c.tickUsecase.StoreTicks(ctx, b.ticks); err != nil {
		c.logger.ErrorContext(ctx, err,
			logger.NewField("action", "store_ticks"),
			logger.NewField("pending", len(b.msgs)),
		)
		return false
	}

	if err := c.kafkaReader.CommitMessages(ctx, b.msgs...); err != nil {
		c.logger.ErrorContext(ctx, err, logger.NewField("action", "commit_tick_messages"))
	}
	b.reset()
	return true
}

func (c *TickConsumer) wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

type batch struct {
	msgs  []kafka.Message
	ticks []*tick.Tick
}

// add keeps every message for the commit; undecodable ones are dropped from
// the store write.
func (b *batch) add(ctx context.Context, log logger.Interface, msg kafka.Message) {
	b.msgs = append(b.msgs, msg)

	var event v1.TickEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		metrics.TickMessagesDropped.Inc()
		log.WarnContext(ctx, "Dropping undecodable tick message",
			logger.NewField("offset", msg.Offset),
			logger.NewField("error", err.Error()),
		)
		return
	}

	t, err := event.ToTick()
	if err != nil {
		metrics.TickMessagesDropped.Inc()
		log.WarnContext(ctx, "Dropping invalid tick",
			logger.NewField("offset", msg.Offset),
			logger.NewField("error", err.Error()),
		)
		return
	}
	b.ticks = append(b.ticks, t)
}

func (b *batch) reset() {
	b.msgs = nil
	b.ticks = nil
}
