package monitor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	signalMock "github.com/zd0907-arc/market-live-terminal/internal/domain/signal/mock"
	"github.com/zd0907-arc/market-live-terminal/internal/engine"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/snapshot"
	snapshotMock "github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/snapshot/mock"
	"github.com/zd0907-arc/market-live-terminal/internal/quote"
	"github.com/zd0907-arc/market-live-terminal/internal/sink"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
)

// inline runs every job immediately on the caller's goroutine.
type inline struct {
	kinds []string
	err   error
}

func (s *inline) Submit(job sink.Job) error {
	if s.err != nil {
		return s.err
	}
	s.kinds = append(s.kinds, job.Kind)
	return job.Run(context.Background())
}

func sample(time string, bid1 int64, price float64) *quote.Snapshot {
	return &quote.Snapshot{
		Symbol: "sh600519", Date: "2025-01-15", Time: time, Price: price,
		TotalVol: 2000, OuterVol: 1000, InnerVol: 1000,
		Bid1Vol: bid1, Ask1Vol: 500, BidDepth: bid1 + 4000, AskDepth: 2500,
	}
}

func TestUsecase_HandleSnapshot(t *testing.T) {
	testCases := []struct {
		name     string
		samples  []*quote.Snapshot
		mockFn   func(repo *snapshotMock.MockSnapshotRepository, pub *signalMock.MockPublisher)
		assertFn func(t *testing.T, s *inline)
	}{
		{
			name:    "first sample is stored without signals",
			samples: []*quote.Snapshot{sample("09:30:00", 3000, 10)},
			mockFn: func(repo *snapshotMock.MockSnapshotRepository, pub *signalMock.MockPublisher) {
				repo.EXPECT().Store(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, row *snapshot.Row) error {
					assert.Equal(t, "[]", row.Signals)
					assert.Equal(t, int64(0), row.CVD)
					assert.Equal(t, int64(3000+4000-2500), row.OIB)
					assert.Equal(t, "2025-01-15", row.TradeDate)
					return nil
				})
			},
			assertFn: func(t *testing.T, s *inline) {
				assert.Equal(t, []string{kindSnapshot}, s.kinds)
			},
		},
		{
			name:    "withdrawn bid is stored and published",
			samples: []*quote.Snapshot{sample("09:30:00", 3000, 10), sample("09:30:03", 1000, 10)},
			mockFn: func(repo *snapshotMock.MockSnapshotRepository, pub *signalMock.MockPublisher) {
				first := repo.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
				repo.EXPECT().Store(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, row *snapshot.Row) error {
					var signals []engine.Signal
					require.NoError(t, json.Unmarshal([]byte(row.Signals), &signals))
					require.Len(t, signals, 1)
					assert.Equal(t, engine.SpoofBuy, signals[0].Type)
					return nil
				}).After(first)
				pub.EXPECT().Publish(gomock.Any(), gomock.Len(1)).Return(nil)
			},
			assertFn: func(t *testing.T, s *inline) {
				assert.Equal(t, []string{kindSnapshot, kindSnapshot, kindSignal}, s.kinds)
			},
		},
		{
			name:    "rejected sample touches nothing",
			samples: []*quote.Snapshot{sample("09:30:00", 3000, 0)},
			mockFn:  func(repo *snapshotMock.MockSnapshotRepository, pub *signalMock.MockPublisher) {},
			assertFn: func(t *testing.T, s *inline) {
				assert.Empty(t, s.kinds)
			},
		},
		{
			name:    "unparseable time is not stored",
			samples: []*quote.Snapshot{sample("9:30", 3000, 10)},
			mockFn:  func(repo *snapshotMock.MockSnapshotRepository, pub *signalMock.MockPublisher) {},
			assertFn: func(t *testing.T, s *inline) {
				assert.Empty(t, s.kinds)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := snapshotMock.NewMockSnapshotRepository(ctrl)
			pub := signalMock.NewMockPublisher(ctrl)
			tc.mockFn(repo, pub)

			submitter := &inline{}
			u := NewUsecase(engine.New(engine.DefaultThresholds()), repo, pub, submitter, logger.NewNop())
			for _, s := range tc.samples {
				u.HandleSnapshot(context.Background(), s)
			}
			tc.assertFn(t, submitter)
		})
	}
}

func TestUsecase_HandleSnapshot_WithoutPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := snapshotMock.NewMockSnapshotRepository(ctrl)
	repo.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	submitter := &inline{}
	u := NewUsecase(engine.New(engine.DefaultThresholds()), repo, nil, submitter, logger.NewNop())
	u.HandleSnapshot(context.Background(), sample("09:30:00", 3000, 10))
	u.HandleSnapshot(context.Background(), sample("09:30:03", 1000, 10))

	assert.Equal(t, []string{kindSnapshot, kindSnapshot}, submitter.kinds)
}

func TestUsecase_HandleSnapshot_FullSinkDoesNotBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := snapshotMock.NewMockSnapshotRepository(ctrl)

	u := NewUsecase(engine.New(engine.DefaultThresholds()), repo, nil, &inline{err: sink.ErrQueueFull}, logger.NewNop())
	u.HandleSnapshot(context.Background(), sample("09:30:00", 3000, 10))
}
