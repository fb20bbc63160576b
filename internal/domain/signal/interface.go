package signal

import (
	"context"

	"github.com/zd0907-arc/market-live-terminal/internal/engine"
)

// Publisher fans emitted signals out to downstream consumers.
//
//go:generate mockgen -source=interface.go -destination=mock/publisher_mock.go -package=mock
type Publisher interface {
	Publish(ctx context.Context, signals []engine.Signal) error
	Close() error
}
