package tick

import (
	"context"

	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/tick"
	"github.com/zd0907-arc/market-live-terminal/internal/metrics"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
)

// Usecase is the usecase for trade ticks.
type Usecase struct {
	tickRepository tick.TickRepository
	logger         logger.Interface
}

// NewUsecase creates a new tick usecase.
func NewUsecase(tickRepository tick.TickRepository, logger logger.Interface) *Usecase {
	return &Usecase{tickRepository: tickRepository, logger: logger}
}

// StoreTicks stores a batch of ticks.
func (u *Usecase) StoreTicks(ctx context.Context, ticks []*tick.Tick) error {
	if len(ticks) == 0 {
		return nil
	}
	if err := u.tickRepository.StoreBatch(ctx, ticks); err != nil {
		return errors.TracerFromError(err)
	}
	metrics.TicksIngested.Add(float64(len(ticks)))
	u.logger.DebugContext(ctx, "Stored ticks", logger.NewField("ticks", len(ticks)))
	return nil
}
