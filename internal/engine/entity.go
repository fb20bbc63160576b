package engine

import (
	"github.com/zd0907-arc/market-live-terminal/internal/quote"
)

// SignalType is the detector that produced a signal.
type SignalType string

const (
	// IcebergSell is hidden resupply at the ask.
	IcebergSell SignalType = "ICEBERG_SELL"
	// IcebergBuy is hidden resupply at the bid.
	IcebergBuy SignalType = "ICEBERG_BUY"
	// SpoofBuy is bid depth withdrawn without matching selling.
	SpoofBuy SignalType = "SPOOF_BUY"
	// DivergenceTrap is net buying while price does not rise.
	DivergenceTrap SignalType = "DIVERGENCE_TRAP"
	// DivergenceAbsorb is net selling while price does not fall.
	DivergenceAbsorb SignalType = "DIVERGENCE_ABSORB"
)

// Severity of a signal.
type Severity string

const (
	High   Severity = "High"
	Medium Severity = "Medium"
)

// Composite labels replacing an iceberg label when turnover is large.
const (
	LabelAggressiveAccumulation = "aggressive accumulation"
	LabelOverheadSupply         = "heavy overhead supply"
	LabelSupportDefense         = "support defense"
)

// Signal is one detector hit. It is written once and never mutated.
type Signal struct {
	Type     SignalType `json:"type"`
	Label    string     `json:"label"`
	Severity Severity   `json:"severity"`
	Detail   string     `json:"detail"`
	Symbol   string     `json:"symbol"`
	Date     string     `json:"date"`
	Time     string     `json:"time"`
}

// Deltas between two consecutive samples of one instrument. Buy and Sell are
// clamped at zero; Ask1 and Bid1 keep their sign.
type Deltas struct {
	Buy      int64
	Sell     int64
	Ask1     int64
	Bid1     int64
	NetFlow  int64
	PricePct float64
	// HasPct is false when the previous price was zero.
	HasPct bool
}

// Result is the outcome of evaluating one accepted sample.
type Result struct {
	Snapshot *quote.Snapshot
	// TickVol is the total volume traded since the previous sample, zero for
	// the first sample of an instrument.
	TickVol int64
	// Evaluated reports whether the detectors ran, i.e. a previous sample
	// existed with a different timestamp.
	Evaluated bool
	Deltas    Deltas
	Signals   []Signal
}
