package tick

import (
	"context"

	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/tick"
)

// Usecase is the write side of the durable tick store.
//
//go:generate mockgen -source=interface.go -destination=mock/usecase_mock.go -package=mock
type Usecase interface {
	StoreTicks(ctx context.Context, ticks []*tick.Tick) error
}
