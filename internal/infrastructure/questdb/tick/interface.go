package tick

import (
	"context"
)

// TickRepository is the durable trade tick store.
//
//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock
type TickRepository interface {
	StoreBatch(ctx context.Context, ticks []*Tick) error
	TicksForDate(ctx context.Context, symbol, date string) ([]*Tick, error)
	DatesForSymbol(ctx context.Context, symbol string) ([]string, error)
	Symbols(ctx context.Context) ([]string, error)
}
