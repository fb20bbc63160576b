package daily

import (
	"context"

	"github.com/zd0907-arc/market-live-terminal/internal/aggregator"
)

// DailyFlowRepository persists one flow summary per symbol, date and
// threshold signature.
//
//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock
type DailyFlowRepository interface {
	Store(ctx context.Context, flow *aggregator.DailyFlow) error
	History(ctx context.Context, symbol, signature string, limit int) ([]*aggregator.DailyFlow, error)
}
