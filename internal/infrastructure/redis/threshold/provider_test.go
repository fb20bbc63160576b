package threshold

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/zd0907-arc/market-live-terminal/internal/aggregator"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	redis_mock "github.com/zd0907-arc/market-live-terminal/pkg/redis/mock"
)

func TestStore_GetThresholds(t *testing.T) {
	defaults := aggregator.DefaultThresholds()

	testCases := []struct {
		name     string
		mockFn   func(client *redis_mock.MockClient)
		assertFn func(t *testing.T, th aggregator.Thresholds, err error)
	}{
		{
			name: "reads both fields",
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), "config").Return(map[string]string{
					"large_threshold":       "500000",
					"super_large_threshold": "2000000",
				}, nil)
			},
			assertFn: func(t *testing.T, th aggregator.Thresholds, err error) {
				assert.NoError(t, err)
				assert.Equal(t, aggregator.Thresholds{Large: 500000, Super: 2000000}, th)
				assert.Equal(t, "2000000_500000", th.Signature())
			},
		},
		{
			name: "non-finite fields fall back one by one",
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), "config").Return(map[string]string{
					"large_threshold":       "NaN",
					"super_large_threshold": "+Inf",
				}, nil)
			},
			assertFn: func(t *testing.T, th aggregator.Thresholds, err error) {
				assert.NoError(t, err)
				assert.Equal(t, defaults, th)
				assert.NotPanics(t, func() {
					aggregator.Aggregate("sh600519", "2025-01-15", []aggregator.Tick{
						{Symbol: "sh600519", Time: "09:30:00", Price: 10, Volume: 100, Amount: 1000, Side: aggregator.Buy},
					}, th)
				})
			},
		},
		{
			name: "super below large is rejected",
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), "config").Return(map[string]string{
					"large_threshold":       "2000000",
					"super_large_threshold": "500000",
				}, nil)
			},
			assertFn: func(t *testing.T, th aggregator.Thresholds, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.ThresholdError)))
				assert.Equal(t, defaults, th)
			},
		},
		{
			name: "missing and bad fields fall back one by one",
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), "config").Return(map[string]string{
					"large_threshold": "lots",
				}, nil)
			},
			assertFn: func(t *testing.T, th aggregator.Thresholds, err error) {
				assert.NoError(t, err)
				assert.Equal(t, defaults, th)
			},
		},
		{
			name: "redis error returns defaults",
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), "config").Return(nil, stderrors.New("i/o timeout"))
			},
			assertFn: func(t *testing.T, th aggregator.Thresholds, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.ThresholdError)))
				assert.Equal(t, defaults, th)
			},
		},
		{
			name: "invalid pair returns defaults",
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), "config").Return(map[string]string{
					"large_threshold": "-1",
				}, nil)
			},
			assertFn: func(t *testing.T, th aggregator.Thresholds, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.ThresholdError)))
				assert.Equal(t, defaults, th)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := redis_mock.NewMockClient(ctrl)
			tc.mockFn(client)

			th, err := NewStore(client, defaults, logger.NewNop()).GetThresholds(context.Background())
			tc.assertFn(t, th, err)
		})
	}
}

func TestStatic(t *testing.T) {
	th, err := Static(aggregator.Thresholds{Large: 1, Super: 2}).GetThresholds(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, aggregator.Thresholds{Large: 1, Super: 2}, th)
}
