package util

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the trading date layout used in storage keys.
	DateLayout = "2006-01-02"
	// ClockLayout is the intraday time layout of snapshots and ticks.
	ClockLayout = "15:04:05"
	// MinuteLayout is the layout of minute bar keys.
	MinuteLayout = "15:04"
)

// Exchange is the exchange's local time zone (UTC+8, no DST). Stored
// timestamps are built in this zone.
var Exchange = time.FixedZone("CST", 8*3600)

// TimePoiner converts a time.Time to a pointer to a time.Time.
func TimePoiner(t time.Time) *time.Time {
	return &t
}

// CombineDateClock joins a trading date (YYYY-MM-DD) and an intraday clock
// (HH:MM:SS or HH:MM) into one timestamp in loc.
func CombineDateClock(date, clock string, loc *time.Location) (time.Time, error) {
	layout := DateLayout + " " + ClockLayout
	if len(clock) == len(MinuteLayout) {
		layout = DateLayout + " " + MinuteLayout
	}
	ts, err := time.ParseInLocation(layout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("combine %q %q: %w", date, clock, err)
	}
	return ts, nil
}

// ClockSeconds converts HH:MM:SS (or HH:MM) into seconds since midnight.
// It returns false when the value is not a valid clock.
func ClockSeconds(clock string) (int, bool) {
	var h, m, s int
	switch len(clock) {
	case len(ClockLayout):
		if _, err := fmt.Sscanf(clock, "%2d:%2d:%2d", &h, &m, &s); err != nil {
			return 0, false
		}
	case len(MinuteLayout):
		if _, err := fmt.Sscanf(clock, "%2d:%2d", &h, &m); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return 0, false
	}
	return h*3600 + m*60 + s, true
}
