package engine

import (
	"fmt"
	"math"
	"sync"

	"github.com/zd0907-arc/market-live-terminal/internal/quote"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
)

// ErrRejectedSample is returned for nil samples or samples whose price is
// not a positive finite number.
var ErrRejectedSample = errors.NewErrorDetails("sample rejected", string(errors.RejectedSampleError), "price")

// Engine keeps the last accepted sample per instrument and compares each new
// sample against it. It is safe for concurrent use.
type Engine struct {
	thresholds Thresholds

	mu   sync.Mutex
	last map[string]quote.Snapshot
}

// New creates an Engine with empty state.
func New(thresholds Thresholds) *Engine {
	return &Engine{
		thresholds: thresholds,
		last:       make(map[string]quote.Snapshot),
	}
}

// Evaluate replaces the stored sample for s.Symbol with s and runs the
// detectors against the previous one.
func (e *Engine) Evaluate(s *quote.Snapshot) (*Result, error) {
	if s == nil || !(s.Price > 0) || math.IsInf(s.Price, 1) {
		return nil, ErrRejectedSample
	}

	e.mu.Lock()
	prev, ok := e.last[s.Symbol]
	e.last[s.Symbol] = *s
	e.mu.Unlock()

	res := &Result{Snapshot: s}
	if !ok {
		return res, nil
	}

	res.TickVol = max(0, s.TotalVol-prev.TotalVol)
	if prev.Date == s.Date && prev.Time == s.Time {
		return res, nil
	}

	res.Evaluated = true
	res.Deltas = diff(&prev, s)
	res.Signals = e.detect(s, res.Deltas)
	return res, nil
}

// Last returns the stored sample for symbol.
func (e *Engine) Last(symbol string) (quote.Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.last[symbol]
	return s, ok
}

// Forget drops the stored sample for symbol, so the next sample starts fresh.
func (e *Engine) Forget(symbol string) {
	e.mu.Lock()
	delete(e.last, symbol)
	e.mu.Unlock()
}

func diff(prev, curr *quote.Snapshot) Deltas {
	d := Deltas{
		// counters are session cumulative, a decrease means a vendor reset
		Buy:  max(0, curr.OuterVol-prev.OuterVol),
		Sell: max(0, curr.InnerVol-prev.InnerVol),
		Ask1: curr.Ask1Vol - prev.Ask1Vol,
		Bid1: curr.Bid1Vol - prev.Bid1Vol,
	}
	d.NetFlow = d.Buy - d.Sell
	if prev.Price != 0 {
		d.PricePct = (curr.Price - prev.Price) / prev.Price
		d.HasPct = true
	}
	return d
}

func (e *Engine) detect(s *quote.Snapshot, d Deltas) []Signal {
	t := e.thresholds
	var signals []Signal
	emit := func(typ SignalType, label string, sev Severity, detail string) {
		signals = append(signals, Signal{
			Type:     typ,
			Label:    label,
			Severity: sev,
			Detail:   detail,
			Symbol:   s.Symbol,
			Date:     s.Date,
			Time:     s.Time,
		})
	}

	if refill := d.Ask1 + d.Buy; d.Buy > t.IcebergMinVolume && float64(refill) > t.RefillRatio*float64(d.Buy) {
		emit(IcebergSell, "iceberg sell", High,
			fmt.Sprintf("active buy %d lots absorbed, ask1 changed %+d, hidden refill %d", d.Buy, d.Ask1, refill))
	}
	if refill := d.Bid1 + d.Sell; d.Sell > t.IcebergMinVolume && float64(refill) > t.RefillRatio*float64(d.Sell) {
		emit(IcebergBuy, "iceberg buy", High,
			fmt.Sprintf("active sell %d lots absorbed, bid1 changed %+d, hidden refill %d", d.Sell, d.Bid1, refill))
	}

	if d.Sell < t.SpoofMaxSell && d.Bid1 < -t.SpoofMinBidDrop {
		emit(SpoofBuy, "bid withdrawn", Medium,
			fmt.Sprintf("bid1 dropped %d lots with only %d lots sold", -d.Bid1, d.Sell))
	}

	if d.HasPct {
		switch {
		case d.NetFlow > t.DivergenceNetFlow && d.PricePct <= 0:
			emit(DivergenceTrap, "buying without lift", Medium,
				fmt.Sprintf("net active buy %d lots, price %+.2f%%", d.NetFlow, d.PricePct*100))
		case d.NetFlow < -t.DivergenceNetFlow && d.PricePct >= 0:
			emit(DivergenceAbsorb, "selling absorbed", Medium,
				fmt.Sprintf("net active sell %d lots, price %+.2f%%", -d.NetFlow, d.PricePct*100))
		}
	}

	for i := range signals {
		if label, ok := e.composite(s, d, signals[i].Type); ok {
			signals[i].Label = label
		}
	}
	return signals
}

// composite reclassifies a large-turnover iceberg by price direction and net
// flow. Without a price change reference, price is treated as flat.
func (e *Engine) composite(s *quote.Snapshot, d Deltas, typ SignalType) (string, bool) {
	turnover := float64(d.Buy+d.Sell) * s.Price * float64(e.thresholds.LotSize)
	if turnover <= e.thresholds.LargeAmount {
		return "", false
	}

	switch typ {
	case IcebergSell:
		if d.PricePct > 0 && d.NetFlow > 0 {
			return LabelAggressiveAccumulation, true
		}
		if d.PricePct <= 0 && d.NetFlow <= 0 {
			return LabelOverheadSupply, true
		}
	case IcebergBuy:
		if d.PricePct >= 0 {
			return LabelSupportDefense, true
		}
	}
	// other detectors are never reclassified
	return "", false
}
