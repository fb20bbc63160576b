package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/zd0907-arc/market-live-terminal/internal/engine"
	"github.com/zd0907-arc/market-live-terminal/internal/metrics"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
)

// Config of the signal topic writer.
type Config struct {
	Brokers      []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic        string        `env:"TOPIC" envDefault:"flow-signals"`
	BatchTimeout time.Duration `env:"BATCH_TIMEOUT" envDefault:"50ms"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes every signal once to the signal topic, keyed by symbol so
// one instrument's signals stay ordered within a partition.
type Publisher struct {
	kafkaWriter messageWriter
	logger      logger.Interface
}

// NewPublisher creates a new Kafka publisher for signals.
func NewPublisher(config Config, log logger.Interface) *Publisher {
	kafkaWriter := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: config.BatchTimeout,
		RequiredAcks: kafka.RequireOne,
	}

	return newPublisher(kafkaWriter, log)
}

func newPublisher(w messageWriter, log logger.Interface) *Publisher {
	return &Publisher{
		kafkaWriter: w,
		logger:      log,
	}
}

// Publish writes signals in one request.
func (p *Publisher) Publish(ctx context.Context, signals []engine.Signal) error {
	if len(signals) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(signals))
	for _, s := range signals {
		value, err := json.Marshal(s)
		if err != nil {
			return errors.Tracef(err, "encode %s signal", s.Type)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(s.Symbol),
			Value: value,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(s.Type)},
			},
		})
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msgs...); err != nil {
		metrics.SignalPublishTotal.WithLabelValues("error").Add(float64(len(msgs)))
		p.logger.ErrorContext(ctx, err,
			logger.NewField("action", "publish_signals"),
			logger.NewField("signals", len(msgs)),
		)
		return errors.NewTracer("failed to publish signals").Wrap(err)
	}

	metrics.SignalPublishTotal.WithLabelValues("ok").Add(float64(len(msgs)))
	return nil
}

// Close flushes pending writes.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
