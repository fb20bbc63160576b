package aggregator

import (
	"fmt"
	"math"
)

// Side is the aggressor side of a trade.
type Side string

const (
	Buy     Side = "buy"
	Sell    Side = "sell"
	Neutral Side = "neutral"
)

// Tick is one trade print. Time is HH:MM:SS, Amount is the notional.
type Tick struct {
	Symbol string
	Time   string
	Price  float64
	Volume int64
	Amount float64
	Side   Side
}

// Thresholds classify trades by notional. A trade is "main" at
// Amount >= Large and "super" at Amount >= Super.
type Thresholds struct {
	Large float64 `env:"LARGE_THRESHOLD" envDefault:"200000"`
	Super float64 `env:"SUPER_LARGE_THRESHOLD" envDefault:"1000000"`
}

// DefaultThresholds returns the thresholds used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{Large: 200_000, Super: 1_000_000}
}

// Signature identifies the threshold pair a daily summary was computed with.
func (t Thresholds) Signature() string {
	return fmt.Sprintf("%d_%d", int64(t.Super), int64(t.Large))
}

// Validate rejects non-finite or non-positive cutoffs and a super cutoff
// below the large one.
func (t Thresholds) Validate() error {
	if !finitePositive(t.Large) || !finitePositive(t.Super) {
		return fmt.Errorf("thresholds must be positive and finite, got large=%v super=%v", t.Large, t.Super)
	}
	if t.Super < t.Large {
		return fmt.Errorf("super threshold %v is below large threshold %v", t.Super, t.Large)
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// MinuteBar is one minute of flow with running totals since the open.
type MinuteBar struct {
	Symbol string
	Date   string
	Minute string // HH:MM

	Total     float64
	MainBuy   float64
	MainSell  float64
	SuperBuy  float64
	SuperSell float64
	Close     float64

	MainBuyRatio            float64
	MainSellRatio           float64
	ParticipationRatio      float64
	SuperParticipationRatio float64

	CumMainBuy   float64
	CumMainSell  float64
	CumNetInflow float64
	CumSuperBuy  float64
	CumSuperSell float64
	CumSuperNet  float64
}

// FlowBar is one session-aligned 30 minute bucket, labeled by its closing
// boundary (10:00, 10:30 ... 15:00).
type FlowBar struct {
	Symbol string
	Date   string
	Bucket string // HH:MM

	NetInflow float64
	MainBuy   float64
	MainSell  float64
	SuperNet  float64
	SuperBuy  float64
	SuperSell float64
}

// DailyFlow summarises a whole trading day at the large threshold.
type DailyFlow struct {
	Symbol          string
	Date            string
	NetInflow       float64
	MainBuy         float64
	MainSell        float64
	Close           float64
	ActivityRatio   float64
	ConfigSignature string
}

// Result is everything one aggregation pass produces for (symbol, date).
type Result struct {
	Symbol string
	Date   string
	// Empty is set when there were no ticks; the bar slices are then nil.
	Empty   bool
	Minutes []MinuteBar
	Flows   []FlowBar
	Daily   *DailyFlow
}
