package aggregation

import (
	"context"

	"github.com/zd0907-arc/market-live-terminal/internal/aggregator"
)

// Report summarises a multi-symbol aggregation pass.
type Report struct {
	// Runs is the number of (symbol, date) pairs attempted.
	Runs int
	// Empty counts pairs without ticks.
	Empty int
	// Failed lists "symbol date" pairs that could not be aggregated.
	Failed []string
}

// Usecase turns stored ticks into stored bars.
//
//go:generate mockgen -source=interface.go -destination=mock/usecase_mock.go -package=mock
type Usecase interface {
	Run(ctx context.Context, symbol, date string) (*aggregator.Result, error)
	Finalize(ctx context.Context, date string) (*Report, error)
	Backfill(ctx context.Context) (*Report, error)
}
