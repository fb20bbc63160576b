package tick

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/tick"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/tick/mock"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
)

func TestUsecase_StoreTicks(t *testing.T) {
	ticks := []*tick.Tick{{Symbol: "sh600519", Timestamp: time.Now(), Price: 1688, Volume: 1, Amount: 168800, Side: "buy"}}

	testCases := []struct {
		name     string
		ticks    []*tick.Tick
		mockFn   func(repo *mock.MockTickRepository)
		assertFn func(t *testing.T, err error)
	}{
		{
			name:  "success",
			ticks: ticks,
			mockFn: func(repo *mock.MockTickRepository) {
				repo.EXPECT().StoreBatch(gomock.Any(), ticks).Return(nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:   "empty batch skips the store",
			mockFn: func(repo *mock.MockTickRepository) {},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "repository error keeps its code",
			ticks: ticks,
			mockFn: func(repo *mock.MockTickRepository) {
				repo.EXPECT().StoreBatch(gomock.Any(), ticks).
					Return(errors.WithCode(stderrors.New("down"), errors.SinkWriteError, "trade_ticks", "store"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.SinkWriteError)))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock.NewMockTickRepository(ctrl)
			tc.mockFn(repo)

			tc.assertFn(t, NewUsecase(repo, logger.NewNop()).StoreTicks(context.Background(), tc.ticks))
		})
	}
}
