package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zd0907-arc/market-live-terminal/internal/aggregator"
)

func TestClockAt(t *testing.T) {
	testCases := []struct {
		offset int
		want   string
	}{
		{offset: 0, want: "09:30:00"},
		{offset: 2*3600 - 1, want: "11:29:59"},
		{offset: 2 * 3600, want: "13:00:00"},
		{offset: 4*3600 - 1, want: "14:59:59"},
		{offset: 4 * 3600, want: "15:00:00"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, clockAt(tc.offset))
		})
	}
}

func TestGenerateTicks(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	events := generateTicks(rng, []string{"sh600519", "sz000001"}, "2025-01-15", 200, 10)
	require.Len(t, events, 400)

	prev := ""
	for i, ev := range events[:200] {
		assert.Equal(t, "sh600519", ev.Symbol)
		assert.Equal(t, int64(i+1), ev.Seq)
		assert.GreaterOrEqual(t, ev.Time, prev)
		prev = ev.Time

		tick, err := ev.ToTick()
		require.NoError(t, err)
		assert.Positive(t, tick.Amount)

		_, inSession := aggregator.SessionBucket(ev.Time)
		assert.True(t, inSession, ev.Time)
	}
}
