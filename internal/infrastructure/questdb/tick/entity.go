package tick

import (
	"time"

	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

// Tick is one stored trade print.
type Tick struct {
	Symbol    string
	Timestamp time.Time
	// Seq orders prints that share a timestamp.
	Seq    int64
	Price  float64
	Volume int64
	Amount float64
	Side   string // "buy", "sell" or "neutral"
}

// Clock is the print time as HH:MM:SS in exchange time.
func (t *Tick) Clock() string {
	return t.Timestamp.In(util.Exchange).Format(util.ClockLayout)
}
