package quote

import (
	"time"

	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

// Snapshot is one decoded order-book sample. Volumes are in lots.
type Snapshot struct {
	Symbol string
	Name   string
	Date   string // YYYY-MM-DD
	Time   string // HH:MM:SS

	Price    float64
	TotalVol int64
	OuterVol int64 // cumulative active buy
	InnerVol int64 // cumulative active sell

	Bid1Vol  int64
	Ask1Vol  int64
	BidDepth int64 // sum of 5 bid levels
	AskDepth int64 // sum of 5 ask levels
}

// CVD is the cumulative volume delta for the session so far.
func (s *Snapshot) CVD() int64 {
	return s.OuterVol - s.InnerVol
}

// OIB is the 5-level order-book imbalance.
func (s *Snapshot) OIB() int64 {
	return s.BidDepth - s.AskDepth
}

// Timestamp returns the sample time in loc.
func (s *Snapshot) Timestamp(loc *time.Location) (time.Time, error) {
	return util.CombineDateClock(s.Date, s.Time, loc)
}
