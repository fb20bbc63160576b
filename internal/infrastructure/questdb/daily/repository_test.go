package daily

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zd0907-arc/market-live-terminal/internal/aggregator"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	mock "github.com/zd0907-arc/market-live-terminal/pkg/questdb/mock"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

func TestDailyFlowRepository_Store(t *testing.T) {
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, util.Exchange)
	flow := &aggregator.DailyFlow{
		Symbol: "sh600519", Date: "2025-01-15", NetInflow: 1e6, MainBuy: 3e6, MainSell: 2e6,
		Close: 1688.5, ActivityRatio: 41.5, ConfigSignature: "1000000_200000",
	}

	testCases := []struct {
		name     string
		flow     *aggregator.DailyFlow
		mockFn   func(client *mock.MockQuestDBClient)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success",
			flow: flow,
			mockFn: func(client *mock.MockQuestDBClient) {
				client.EXPECT().Exec(gomock.Any(),
					"INSERT INTO daily_flow (symbol, ts, config_signature, net_inflow, main_buy, main_sell, close, activity_ratio) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
					"sh600519", day, "1000000_200000", 1e6, 3e6, 2e6, 1688.5, 41.5,
				).Return(nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:   "bad date",
			flow:   &aggregator.DailyFlow{Symbol: "sh600519", Date: "20250115"},
			mockFn: func(client *mock.MockQuestDBClient) {},
			assertFn: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
		{
			name: "exec error",
			flow: flow,
			mockFn: func(client *mock.MockQuestDBClient) {
				client.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any()).Return(stderrors.New("down"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.SinkWriteError)))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock.NewMockQuestDBClient(ctrl)
			tc.mockFn(client)

			tc.assertFn(t, NewRepository(client).Store(context.Background(), tc.flow))
		})
	}
}

func TestDailyFlowRepository_History(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockQuestDBClient(ctrl)
	rows := mock.NewMockRowsInterface(ctrl)

	client.EXPECT().Query(gomock.Any(), gomock.Any(), "sh600519", "1000000_200000", 5).Return(rows, nil)
	rows.EXPECT().Next().Return(true)
	rows.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
		*dest[0].(*string) = "sh600519"
		// QuestDB hands timestamps back in UTC.
		*dest[1].(*time.Time) = time.Date(2025, 1, 14, 16, 0, 0, 0, time.UTC)
		*dest[2].(*string) = "1000000_200000"
		*dest[3].(*float64) = -5e5
		return nil
	})
	rows.EXPECT().Next().Return(false)
	rows.EXPECT().Err().Return(nil)
	rows.EXPECT().Close()

	out, err := NewRepository(client).History(context.Background(), "sh600519", "1000000_200000", 5)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "2025-01-15", out[0].Date)
	assert.Equal(t, -5e5, out[0].NetInflow)
}
