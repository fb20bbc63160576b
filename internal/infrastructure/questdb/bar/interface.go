package bar

import (
	"context"

	"github.com/zd0907-arc/market-live-terminal/internal/aggregator"
)

// BarRepository persists minute and session 30 minute bars.
//
//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock
type BarRepository interface {
	StoreMinutes(ctx context.Context, bars []aggregator.MinuteBar) error
	StoreFlows(ctx context.Context, bars []aggregator.FlowBar) error
}
