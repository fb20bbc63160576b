package poller

import (
	"time"

	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

// Exchange is the zone market hours are evaluated in.
var Exchange = util.Exchange

type session struct {
	open, close int // minutes since midnight, both inclusive
}

// MarketHours reports whether the exchange is trading, including the
// opening call auction.
type MarketHours struct {
	loc      *time.Location
	sessions []session
}

// NewMarketHours returns the A-share schedule on weekdays: 09:15-11:30 and
// 13:00-15:05. The afternoon window runs past 15:00 so the closing call
// auction prints are captured.
func NewMarketHours() *MarketHours {
	return &MarketHours{
		loc: Exchange,
		sessions: []session{
			{open: 9*60 + 15, close: 11*60 + 30},
			{open: 13 * 60, close: 15*60 + 5},
		},
	}
}

// Open reports whether t falls inside a trading session.
func (m *MarketHours) Open(t time.Time) bool {
	local := t.In(m.loc)
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	minute := local.Hour()*60 + local.Minute()
	for _, s := range m.sessions {
		if minute >= s.open && minute <= s.close {
			return true
		}
	}
	return false
}

// AlwaysOpen is a gate for replays and tests.
type AlwaysOpen struct{}

// Open always returns true.
func (AlwaysOpen) Open(time.Time) bool { return true }
