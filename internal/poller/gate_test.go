package poller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarketHours_Open(t *testing.T) {
	m := NewMarketHours()
	at := func(day, h, min int) time.Time { return time.Date(2025, 1, day, h, min, 0, 0, Exchange) }
	atSec := func(h, min, sec int) time.Time { return time.Date(2025, 1, 15, h, min, sec, 0, Exchange) }

	testCases := []struct {
		name string
		t    time.Time
		open bool
	}{
		{"before auction", at(15, 9, 14), false},
		{"opening auction", at(15, 9, 15), true},
		{"morning", at(15, 10, 5), true},
		{"morning close", at(15, 11, 30), true},
		{"last second of the morning", atSec(11, 30, 59), true},
		{"lunch", at(15, 11, 31), false},
		{"before afternoon", atSec(12, 59, 59), false},
		{"afternoon", at(15, 14, 59), true},
		{"closing auction", atSec(15, 0, 30), true},
		{"afternoon close", at(15, 15, 5), true},
		{"after close", at(15, 15, 6), false},
		{"saturday", at(18, 10, 0), false},
		{"utc input is converted", time.Date(2025, 1, 15, 2, 0, 0, 0, time.UTC), true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.open, m.Open(tc.t))
		})
	}
}
