package aggregation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domain "github.com/zd0907-arc/market-live-terminal/internal/domain/aggregation"
	aggregationMock "github.com/zd0907-arc/market-live-terminal/internal/domain/aggregation/mock"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

func TestNextRun(t *testing.T) {
	at := 15*time.Hour + 5*time.Minute
	local := func(s string) time.Time {
		ts, err := time.ParseInLocation("2006-01-02 15:04", s, util.Exchange)
		require.NoError(t, err)
		return ts
	}

	testCases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{name: "before the close runs today", now: local("2025-01-15 10:00"), want: local("2025-01-15 15:05")},
		{name: "after the run waits for tomorrow", now: local("2025-01-15 15:06"), want: local("2025-01-16 15:05")},
		{name: "exactly at the run waits for tomorrow", now: local("2025-01-15 15:05"), want: local("2025-01-16 15:05")},
		{name: "friday evening skips the weekend", now: local("2025-01-17 20:00"), want: local("2025-01-20 15:05")},
		{name: "utc input is read in exchange time", now: local("2025-01-15 23:30").UTC(), want: local("2025-01-16 15:05")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextRun(tc.now, at)
			assert.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestNewScheduler_InvalidAt(t *testing.T) {
	_, err := NewScheduler(SchedulerConfig{At: "25:00"}, nil, logger.NewNop())
	assert.Error(t, err)
}

func TestScheduler_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	usecase := aggregationMock.NewMockUsecase(ctrl)

	s, err := NewScheduler(SchedulerConfig{At: "15:05"}, usecase, logger.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.now = func() time.Time {
		return time.Date(2025, 1, 15, 9, 0, 0, 0, util.Exchange)
	}
	calls := 0
	s.after = func(time.Duration) <-chan time.Time {
		calls++
		ch := make(chan time.Time, 1)
		if calls == 1 {
			ch <- time.Time{}
		} else {
			cancel()
		}
		return ch
	}

	usecase.EXPECT().Finalize(gomock.Any(), "2025-01-15").Return(&domain.Report{Runs: 3}, nil)

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, 2, calls)
}
