package consumer

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zd0907-arc/market-live-terminal/internal/domain/tick/mock"
	v1 "github.com/zd0907-arc/market-live-terminal/internal/domain/tick-consumer/v1"
	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/tick"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
)

// fakeReader serves queued messages, then reports EOF as a closed reader would.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func tickMessage(t *testing.T, offset int64, event v1.TickEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: value}
}

func run(c *TickConsumer) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.Start(context.Background())
	}()
	go func() {
		defer wg.Done()
		c.Subscribe(context.Background())
	}()
	wg.Wait()
}

func TestTickConsumer_BatchesAndCommits(t *testing.T) {
	reader := &fakeReader{}
	for i := range 5 {
		reader.queue = append(reader.queue, tickMessage(t, int64(i), v1.TickEvent{
			Symbol: "sh600519", Date: "2025-01-15", Time: "09:30:00", Seq: int64(i), Price: 10, Volume: 100, Type: "buy",
		}))
	}
	reader.queue = append(reader.queue, kafka.Message{Offset: 5, Value: []byte("{not json")})

	ctrl := gomock.NewController(t)
	usecase := mock.NewMockUsecase(ctrl)

	var stored [][]*tick.Tick
	usecase.EXPECT().StoreTicks(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ticks []*tick.Tick) error {
		stored = append(stored, ticks)
		return nil
	}).Times(2)

	c := newTickConsumer(reader, Config{BatchSize: 3, FlushInterval: time.Hour, RetryBackoff: time.Millisecond}, logger.NewNop(), usecase)
	run(c)

	require.Len(t, stored, 2)
	assert.Len(t, stored[0], 3)
	assert.Len(t, stored[1], 2, "the undecodable message is committed but not stored")
	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5}, reader.commits())

	require.NoError(t, c.Stop())
	assert.True(t, reader.closed)
}

func TestTickConsumer_StoreFailureKeepsOffsets(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		tickMessage(t, 0, v1.TickEvent{Symbol: "sz000001", Date: "2025-01-15", Time: "10:00:00", Price: 11, Volume: 1, Type: "sell"}),
	}}

	ctrl := gomock.NewController(t)
	usecase := mock.NewMockUsecase(ctrl)
	gomock.InOrder(
		usecase.EXPECT().StoreTicks(gomock.Any(), gomock.Len(1)).Return(stderrors.New("questdb down")),
		usecase.EXPECT().StoreTicks(gomock.Any(), gomock.Len(1)).Return(nil),
	)

	c := newTickConsumer(reader, Config{BatchSize: 1, FlushInterval: time.Hour, RetryBackoff: time.Millisecond}, logger.NewNop(), usecase)
	run(c)

	assert.Equal(t, []int64{0}, reader.commits(), "offset committed once, after the retry succeeded")
}
