package aggregator

import (
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

var hundred = decimal.NewFromInt(100)

// flow accumulates notional by class. Sums are decimal so that re-running a
// day produces bit-identical bars regardless of float rounding order.
type flow struct {
	total     decimal.Decimal
	mainBuy   decimal.Decimal
	mainSell  decimal.Decimal
	superBuy  decimal.Decimal
	superSell decimal.Decimal
}

type cutoffs struct {
	large decimal.Decimal
	super decimal.Decimal
}

func (f *flow) add(t Tick, c cutoffs) {
	amount := decimal.NewFromFloat(t.Amount)
	f.total = f.total.Add(amount)

	isMain := amount.GreaterThanOrEqual(c.large)
	isSuper := amount.GreaterThanOrEqual(c.super)
	switch t.Side {
	case Buy:
		if isMain {
			f.mainBuy = f.mainBuy.Add(amount)
		}
		if isSuper {
			f.superBuy = f.superBuy.Add(amount)
		}
	case Sell:
		if isMain {
			f.mainSell = f.mainSell.Add(amount)
		}
		if isSuper {
			f.superSell = f.superSell.Add(amount)
		}
	}
}

func (f *flow) hasMain() bool {
	return !f.mainBuy.IsZero() || !f.mainSell.IsZero()
}

// pct returns part/total*100, zero when total is zero.
func pct(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).Mul(hundred).InexactFloat64()
}

// Aggregate bins one day of ticks for symbol into minute bars, session
// 30 minute bars and a daily summary. It is a pure function of its inputs and
// does not modify ticks. Ticks with an unparseable time or a non-finite
// amount are ignored, and invalid thresholds are replaced by the defaults.
func Aggregate(symbol, date string, ticks []Tick, th Thresholds) *Result {
	if th.Validate() != nil {
		th = DefaultThresholds()
	}

	sorted := make([]Tick, 0, len(ticks))
	for _, t := range ticks {
		if _, ok := util.ClockSeconds(t.Time); !ok {
			continue
		}
		if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
			continue
		}
		sorted = append(sorted, t)
	}
	if len(sorted) == 0 {
		return &Result{Symbol: symbol, Date: date, Empty: true}
	}
	slices.SortStableFunc(sorted, func(a, b Tick) int {
		return strings.Compare(a.Time, b.Time)
	})

	c := cutoffs{
		large: decimal.NewFromFloat(th.Large),
		super: decimal.NewFromFloat(th.Super),
	}
	return &Result{
		Symbol:  symbol,
		Date:    date,
		Minutes: minuteBars(symbol, date, sorted, c),
		Flows:   flowBars(symbol, date, sorted, c),
		Daily:   dailyFlow(symbol, date, sorted, c, th.Signature()),
	}
}

func minuteBars(symbol, date string, sorted []Tick, c cutoffs) []MinuteBar {
	var (
		bars    []MinuteBar
		current flow
		minute  string
		last    float64
		cum     flow
	)

	flush := func() {
		cum.mainBuy = cum.mainBuy.Add(current.mainBuy)
		cum.mainSell = cum.mainSell.Add(current.mainSell)
		cum.superBuy = cum.superBuy.Add(current.superBuy)
		cum.superSell = cum.superSell.Add(current.superSell)

		bars = append(bars, MinuteBar{
			Symbol:    symbol,
			Date:      date,
			Minute:    minute,
			Total:     current.total.InexactFloat64(),
			MainBuy:   current.mainBuy.InexactFloat64(),
			MainSell:  current.mainSell.InexactFloat64(),
			SuperBuy:  current.superBuy.InexactFloat64(),
			SuperSell: current.superSell.InexactFloat64(),
			Close:     last,

			MainBuyRatio:            pct(current.mainBuy, current.total),
			MainSellRatio:           pct(current.mainSell, current.total),
			ParticipationRatio:      pct(current.mainBuy.Add(current.mainSell), current.total),
			SuperParticipationRatio: pct(current.superBuy.Add(current.superSell), current.total),

			CumMainBuy:   cum.mainBuy.InexactFloat64(),
			CumMainSell:  cum.mainSell.InexactFloat64(),
			CumNetInflow: cum.mainBuy.Sub(cum.mainSell).InexactFloat64(),
			CumSuperBuy:  cum.superBuy.InexactFloat64(),
			CumSuperSell: cum.superSell.InexactFloat64(),
			CumSuperNet:  cum.superBuy.Sub(cum.superSell).InexactFloat64(),
		})
	}

	for _, t := range sorted {
		m := t.Time[:len(util.MinuteLayout)]
		if m != minute && minute != "" {
			flush()
			current = flow{}
		}
		minute = m
		current.add(t, c)
		last = t.Price
	}
	flush()
	return bars
}

func flowBars(symbol, date string, sorted []Tick, c cutoffs) []FlowBar {
	buckets := make(map[string]*flow)
	for _, t := range sorted {
		label, ok := SessionBucket(t.Time)
		if !ok {
			continue
		}
		f, ok := buckets[label]
		if !ok {
			f = &flow{}
			buckets[label] = f
		}
		f.add(t, c)
	}

	var bars []FlowBar
	for _, label := range BucketLabels() {
		f, ok := buckets[label]
		if !ok || !f.hasMain() {
			continue
		}
		bars = append(bars, FlowBar{
			Symbol:    symbol,
			Date:      date,
			Bucket:    label,
			NetInflow: f.mainBuy.Sub(f.mainSell).InexactFloat64(),
			MainBuy:   f.mainBuy.InexactFloat64(),
			MainSell:  f.mainSell.InexactFloat64(),
			SuperNet:  f.superBuy.Sub(f.superSell).InexactFloat64(),
			SuperBuy:  f.superBuy.InexactFloat64(),
			SuperSell: f.superSell.InexactFloat64(),
		})
	}
	return bars
}

func dailyFlow(symbol, date string, sorted []Tick, c cutoffs, signature string) *DailyFlow {
	var day flow
	for _, t := range sorted {
		day.add(t, c)
	}
	return &DailyFlow{
		Symbol:          symbol,
		Date:            date,
		NetInflow:       day.mainBuy.Sub(day.mainSell).InexactFloat64(),
		MainBuy:         day.mainBuy.InexactFloat64(),
		MainSell:        day.mainSell.InexactFloat64(),
		Close:           sorted[len(sorted)-1].Price,
		ActivityRatio:   pct(day.mainBuy.Add(day.mainSell), day.total),
		ConfigSignature: signature,
	}
}
