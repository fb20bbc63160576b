package snapshot

import (
	"time"
)

// Row is one accepted quote sample together with the values derived from it.
type Row struct {
	Symbol    string
	Timestamp time.Time
	TradeDate string
	Price     float64
	TotalVol  int64
	OuterVol  int64
	InnerVol  int64
	Bid1Vol   int64
	Ask1Vol   int64
	BidDepth  int64
	AskDepth  int64
	CVD       int64
	OIB       int64
	TickVol   int64
	// Signals is the JSON encoded signal list, "[]" when nothing fired.
	Signals string
}

// Filter selects stored rows of one instrument.
type Filter struct {
	Symbol string
	From   *time.Time
	To     *time.Time
	Limit  int
}
