package v1

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

func TestTickEvent_ToTick(t *testing.T) {
	testCases := []struct {
		name     string
		event    TickEvent
		assertFn func(t *testing.T, event TickEvent)
	}{
		{
			name:  "exchange labels and derived amount",
			event: TickEvent{Symbol: "SH600519", Date: "2025-01-15", Time: "09:30:05", Seq: 3, Price: 10, Volume: 500, Type: "卖盘"},
			assertFn: func(t *testing.T, event TickEvent) {
				tk, err := event.ToTick()
				require.NoError(t, err)
				assert.Equal(t, "sh600519", tk.Symbol)
				assert.Equal(t, "sell", tk.Side)
				assert.Equal(t, 5000.0, tk.Amount)
				assert.True(t, time.Date(2025, 1, 15, 9, 30, 5, 0, util.Exchange).Equal(tk.Timestamp))
			},
		},
		{
			name:  "unknown type is neutral",
			event: TickEvent{Symbol: "sz000001", Date: "2025-01-15", Time: "10:00:00", Price: 11, Volume: 1, Amount: 1100, Type: "中性"},
			assertFn: func(t *testing.T, event TickEvent) {
				tk, err := event.ToTick()
				require.NoError(t, err)
				assert.Equal(t, "neutral", tk.Side)
				assert.Equal(t, 1100.0, tk.Amount)
			},
		},
		{
			name:  "missing symbol",
			event: TickEvent{Date: "2025-01-15", Time: "10:00:00", Price: 1, Volume: 1},
			assertFn: func(t *testing.T, event TickEvent) {
				_, err := event.ToTick()
				assert.Error(t, err)
			},
		},
		{
			name:  "non-positive price",
			event: TickEvent{Symbol: "sz000001", Date: "2025-01-15", Time: "10:00:00", Price: 0, Volume: 1},
			assertFn: func(t *testing.T, event TickEvent) {
				_, err := event.ToTick()
				assert.Error(t, err)
			},
		},
		{
			name:  "nan price",
			event: TickEvent{Symbol: "sz000001", Date: "2025-01-15", Time: "10:00:00", Price: math.NaN(), Volume: 1},
			assertFn: func(t *testing.T, event TickEvent) {
				_, err := event.ToTick()
				assert.Error(t, err)
			},
		},
		{
			name:  "bad clock",
			event: TickEvent{Symbol: "sz000001", Date: "2025-01-15", Time: "25:00", Price: 1, Volume: 1},
			assertFn: func(t *testing.T, event TickEvent) {
				_, err := event.ToTick()
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.assertFn(t, tc.event)
		})
	}
}
