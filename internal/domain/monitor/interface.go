package monitor

import (
	"context"

	"github.com/zd0907-arc/market-live-terminal/internal/quote"
)

// Usecase turns polled snapshots into signals and stored rows.
type Usecase interface {
	HandleSnapshot(ctx context.Context, s *quote.Snapshot)
}
