package v1

import (
	"fmt"
	"math"
	"strings"

	"github.com/zd0907-arc/market-live-terminal/internal/infrastructure/questdb/tick"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

// TickEvent is one trade print on the tick topic.
type TickEvent struct {
	Symbol string  `json:"symbol"`
	Date   string  `json:"date"` // YYYY-MM-DD
	Time   string  `json:"time"` // HH:MM:SS
	Seq    int64   `json:"seq"`
	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`
	Amount float64 `json:"amount"`
	// Type is the aggressor side. Vendors send either buy/sell/neutral or
	// the exchange's own 买盘/卖盘/中性 labels.
	Type string `json:"type"`
}

// Side maps Type onto the stored side.
func (e *TickEvent) Side() string {
	switch strings.ToLower(strings.TrimSpace(e.Type)) {
	case "buy", "b", "买盘":
		return "buy"
	case "sell", "s", "卖盘":
		return "sell"
	default:
		return "neutral"
	}
}

// ToTick validates the event and converts it to a stored tick.
func (e *TickEvent) ToTick() (*tick.Tick, error) {
	if e.Symbol == "" {
		return nil, fmt.Errorf("tick event without symbol")
	}
	if !(e.Price > 0) || math.IsInf(e.Price, 1) || e.Volume < 0 {
		return nil, fmt.Errorf("%s %s: invalid price %v or volume %d", e.Symbol, e.Time, e.Price, e.Volume)
	}
	ts, err := util.CombineDateClock(e.Date, e.Time, util.Exchange)
	if err != nil {
		return nil, err
	}

	amount := e.Amount
	if amount == 0 {
		amount = e.Price * float64(e.Volume)
	}

	return &tick.Tick{
		Symbol:    strings.ToLower(e.Symbol),
		Timestamp: ts,
		Seq:       e.Seq,
		Price:     e.Price,
		Volume:    e.Volume,
		Amount:    amount,
		Side:      e.Side(),
	}, nil
}
