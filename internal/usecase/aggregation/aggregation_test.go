package aggregation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zd0907-arc/market-live-terminal/internal/aggregator"
	barMock "github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/bar/mock"
	dailyMock "github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/daily/mock"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/tick"
	tickMock "github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/tick/mock"
	thresholdMock "github.com/zd0907-arc/market-live-terminal/internal/infrastructure/redis/threshold/mock"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

type staticWatchlist []string

func (w staticWatchlist) Symbols(context.Context) ([]string, error) { return w, nil }

type mocks struct {
	ticks      *tickMock.MockTickRepository
	bars       *barMock.MockBarRepository
	daily      *dailyMock.MockDailyFlowRepository
	thresholds *thresholdMock.MockProvider
}

func newUsecase(t *testing.T, watchlist Watchlist) (*Usecase, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		ticks:      tickMock.NewMockTickRepository(ctrl),
		bars:       barMock.NewMockBarRepository(ctrl),
		daily:      dailyMock.NewMockDailyFlowRepository(ctrl),
		thresholds: thresholdMock.NewMockProvider(ctrl),
	}
	u := NewUsecase(m.ticks, m.bars, m.daily, m.thresholds, watchlist, logger.NewNop(), 2)
	return u, m
}

func storedTick(clock string, price float64, volume int64, side string) *tick.Tick {
	ts, _ := util.CombineDateClock("2025-01-15", clock, util.Exchange)
	return &tick.Tick{
		Symbol:    "sh600519",
		Timestamp: ts.UTC(),
		Price:     price,
		Volume:    volume,
		Amount:    price * float64(volume),
		Side:      side,
	}
}

func TestUsecase_Run(t *testing.T) {
	day := []*tick.Tick{
		storedTick("09:30:01", 10, 30000, "buy"),
		storedTick("09:30:40", 10, 100, "sell"),
		storedTick("10:01:00", 10.1, 200000, "sell"),
	}

	testCases := []struct {
		name     string
		mockFn   func(m mocks)
		assertFn func(t *testing.T, res *aggregator.Result, err error)
	}{
		{
			name: "aggregates and stores every level",
			mockFn: func(m mocks) {
				m.thresholds.EXPECT().GetThresholds(gomock.Any()).Return(aggregator.DefaultThresholds(), nil)
				m.ticks.EXPECT().TicksForDate(gomock.Any(), "sh600519", "2025-01-15").Return(day, nil)
				m.bars.EXPECT().StoreMinutes(gomock.Any(), gomock.Len(2)).Return(nil)
				m.bars.EXPECT().StoreFlows(gomock.Any(), gomock.Len(2)).Return(nil)
				m.daily.EXPECT().Store(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d *aggregator.DailyFlow) error {
					assert.Equal(t, "1000000_200000", d.ConfigSignature)
					assert.InDelta(t, 300000-2020000, d.NetInflow, 1e-6)
					return nil
				})
			},
			assertFn: func(t *testing.T, res *aggregator.Result, err error) {
				require.NoError(t, err)
				assert.False(t, res.Empty)
				assert.Equal(t, "09:30", res.Minutes[0].Minute)
				assert.Equal(t, "10:01", res.Minutes[1].Minute)
			},
		},
		{
			name: "threshold failure falls back to returned defaults",
			mockFn: func(m mocks) {
				m.thresholds.EXPECT().GetThresholds(gomock.Any()).Return(
					aggregator.DefaultThresholds(),
					errors.NewErrorDetails("bad pair", string(errors.ThresholdError), "config"),
				)
				m.ticks.EXPECT().TicksForDate(gomock.Any(), "sh600519", "2025-01-15").Return(day, nil)
				m.bars.EXPECT().StoreMinutes(gomock.Any(), gomock.Any()).Return(nil)
				m.bars.EXPECT().StoreFlows(gomock.Any(), gomock.Any()).Return(nil)
				m.daily.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
			},
			assertFn: func(t *testing.T, res *aggregator.Result, err error) {
				require.NoError(t, err)
				assert.Equal(t, "1000000_200000", res.Daily.ConfigSignature)
			},
		},
		{
			name: "no ticks writes nothing",
			mockFn: func(m mocks) {
				m.thresholds.EXPECT().GetThresholds(gomock.Any()).Return(aggregator.DefaultThresholds(), nil)
				m.ticks.EXPECT().TicksForDate(gomock.Any(), "sh600519", "2025-01-15").Return(nil, nil)
			},
			assertFn: func(t *testing.T, res *aggregator.Result, err error) {
				require.NoError(t, err)
				assert.True(t, res.Empty)
			},
		},
		{
			name: "tick read failure",
			mockFn: func(m mocks) {
				m.thresholds.EXPECT().GetThresholds(gomock.Any()).Return(aggregator.DefaultThresholds(), nil)
				m.ticks.EXPECT().TicksForDate(gomock.Any(), "sh600519", "2025-01-15").
					Return(nil, errors.NewErrorDetails("down", string(errors.GeneralRepositoryError), "ticks"))
			},
			assertFn: func(t *testing.T, res *aggregator.Result, err error) {
				assert.Nil(t, res)
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.GeneralRepositoryError)))
			},
		},
		{
			name: "bar write failure skips the daily summary",
			mockFn: func(m mocks) {
				m.thresholds.EXPECT().GetThresholds(gomock.Any()).Return(aggregator.DefaultThresholds(), nil)
				m.ticks.EXPECT().TicksForDate(gomock.Any(), "sh600519", "2025-01-15").Return(day, nil)
				m.bars.EXPECT().StoreMinutes(gomock.Any(), gomock.Any()).
					Return(errors.NewErrorDetails("write", string(errors.SinkWriteError), "minute_bars"))
			},
			assertFn: func(t *testing.T, res *aggregator.Result, err error) {
				assert.Nil(t, res)
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.SinkWriteError)))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, m := newUsecase(t, staticWatchlist{})
			tc.mockFn(m)

			res, err := u.Run(context.Background(), "sh600519", "2025-01-15")
			tc.assertFn(t, res, err)
		})
	}
}

func TestUsecase_Finalize(t *testing.T) {
	u, m := newUsecase(t, staticWatchlist{"sh600519", "sz000001"})

	m.thresholds.EXPECT().GetThresholds(gomock.Any()).Return(aggregator.DefaultThresholds(), nil).Times(2)
	m.ticks.EXPECT().TicksForDate(gomock.Any(), "sh600519", "2025-01-15").
		Return([]*tick.Tick{storedTick("09:31:00", 10, 100, "buy")}, nil)
	m.ticks.EXPECT().TicksForDate(gomock.Any(), "sz000001", "2025-01-15").
		Return(nil, errors.NewErrorDetails("down", string(errors.GeneralRepositoryError), "ticks"))
	m.bars.EXPECT().StoreMinutes(gomock.Any(), gomock.Len(1)).Return(nil)
	m.bars.EXPECT().StoreFlows(gomock.Any(), gomock.Len(0)).Return(nil)
	m.daily.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)

	report, err := u.Finalize(context.Background(), "2025-01-15")
	var failures *errors.BaseError
	require.ErrorAs(t, err, &failures)
	assert.True(t, failures.IsAllCodeEqual(string(errors.AggregationError)))
	assert.Equal(t, 2, report.Runs)
	assert.Equal(t, []string{"sz000001 2025-01-15"}, report.Failed)
}

func TestUsecase_Backfill(t *testing.T) {
	u, m := newUsecase(t, staticWatchlist{})

	m.ticks.EXPECT().Symbols(gomock.Any()).Return([]string{"sh600519"}, nil)
	m.ticks.EXPECT().DatesForSymbol(gomock.Any(), "sh600519").Return([]string{"2025-01-14", "2025-01-15"}, nil)
	m.thresholds.EXPECT().GetThresholds(gomock.Any()).Return(aggregator.DefaultThresholds(), nil).Times(2)
	m.ticks.EXPECT().TicksForDate(gomock.Any(), "sh600519", "2025-01-14").Return(nil, nil)
	m.ticks.EXPECT().TicksForDate(gomock.Any(), "sh600519", "2025-01-15").
		Return([]*tick.Tick{storedTick("13:00:00", 10, 100, "sell")}, nil)
	m.bars.EXPECT().StoreMinutes(gomock.Any(), gomock.Any()).Return(nil)
	m.bars.EXPECT().StoreFlows(gomock.Any(), gomock.Any()).Return(nil)
	m.daily.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)

	report, err := u.Backfill(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Runs)
	assert.Equal(t, 1, report.Empty)
	assert.Empty(t, report.Failed)
}

func TestUsecase_BackfillListFailure(t *testing.T) {
	u, m := newUsecase(t, staticWatchlist{})

	m.ticks.EXPECT().Symbols(gomock.Any()).Return([]string{"sh600519"}, nil)
	m.ticks.EXPECT().DatesForSymbol(gomock.Any(), "sh600519").
		Return(nil, errors.NewErrorDetails("down", string(errors.GeneralRepositoryError), "ticks"))

	report, err := u.Backfill(context.Background())
	assert.Nil(t, report)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.GeneralRepositoryError)))
}
