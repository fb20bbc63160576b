package quote

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

// Vendor field offsets of a qt.gtimg.cn record. Keep every positional
// reference in this block and in decode.
const (
	fieldSeparator  = "~"
	recordSeparator = ";"

	offName     = 1
	offPrice    = 3
	offTotalVol = 6
	offOuterVol = 7
	offInnerVol = 8
	offBids     = 9  // 5 x (price, volume)
	offAsks     = 19 // 5 x (price, volume)
	offStamp    = 30
	bookLevels  = 5

	minFields    = offStamp + 1
	stampLayout  = "20060102150405"
	recordPrefix = "v_"
)

var (
	// ErrNonPositivePrice is returned for samples whose price is not a
	// positive finite number. Callers must not let such a sample touch
	// engine state.
	ErrNonPositivePrice = errors.NewErrorDetails("price must be positive", string(errors.RejectedSampleError), "price")
)

// Parse decodes one `v_<code>="f0~f1~..."` record. now is used for the trade
// date and time when the vendor timestamp is missing or malformed.
func Parse(record string, now time.Time) (*Snapshot, error) {
	symbol, body, err := splitEnvelope(record)
	if err != nil {
		return nil, err
	}
	return decode(symbol, strings.Split(body, fieldSeparator), now)
}

// ParseBatch decodes a whole `;`-separated response. Malformed records are
// skipped and reported together in the returned BaseError; the decoded ones
// are always returned.
func ParseBatch(body string, now time.Time) ([]*Snapshot, *errors.BaseError) {
	var (
		snapshots []*Snapshot
		skipped   = errors.NewBaseError()
	)
	for _, record := range strings.Split(body, recordSeparator) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		snapshot, err := Parse(record, now)
		if err != nil {
			skipped.AddErrorDetails(asDetails(err, record))
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	if skipped.Len() == 0 {
		return snapshots, nil
	}
	return snapshots, skipped
}

func splitEnvelope(record string) (string, string, error) {
	name, value, ok := strings.Cut(strings.TrimSpace(record), "=")
	if !ok {
		return "", "", parseError("missing '=' in record", "envelope")
	}
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, recordPrefix) || len(name) == len(recordPrefix) {
		return "", "", parseError(fmt.Sprintf("unexpected record name %q", name), "envelope")
	}
	value = strings.TrimSpace(value)
	if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
		return "", "", parseError("record value is not quoted", "envelope")
	}
	return strings.TrimPrefix(name, recordPrefix), value[1 : len(value)-1], nil
}

func decode(symbol string, fields []string, now time.Time) (*Snapshot, error) {
	if len(fields) < minFields {
		return nil, parseError(fmt.Sprintf("%s: %d fields, need %d", symbol, len(fields), minFields), "fields")
	}

	price, err := strconv.ParseFloat(fields[offPrice], 64)
	if err != nil {
		return nil, parseError(fmt.Sprintf("%s: bad price %q", symbol, fields[offPrice]), "price")
	}
	if !(price > 0) || math.IsInf(price, 1) {
		return nil, ErrNonPositivePrice
	}

	s := &Snapshot{Symbol: symbol, Name: fields[offName], Price: price}
	counters := []struct {
		off int
		dst *int64
	}{
		{offTotalVol, &s.TotalVol},
		{offOuterVol, &s.OuterVol},
		{offInnerVol, &s.InnerVol},
	}
	for _, c := range counters {
		if *c.dst, err = lots(fields[c.off]); err != nil {
			return nil, parseError(fmt.Sprintf("%s: field %d: %v", symbol, c.off, err), "volume")
		}
	}

	for level := range bookLevels {
		bid, err := lots(fields[offBids+2*level+1])
		if err != nil {
			return nil, parseError(fmt.Sprintf("%s: bid%d volume: %v", symbol, level+1, err), "bid")
		}
		ask, err := lots(fields[offAsks+2*level+1])
		if err != nil {
			return nil, parseError(fmt.Sprintf("%s: ask%d volume: %v", symbol, level+1, err), "ask")
		}
		if level == 0 {
			s.Bid1Vol, s.Ask1Vol = bid, ask
		}
		s.BidDepth += bid
		s.AskDepth += ask
	}

	s.Date, s.Time = stamp(fields[offStamp], now)
	return s, nil
}

// stamp returns the trade date and clock, falling back to now when the vendor
// value is not a 14-digit timestamp.
func stamp(raw string, now time.Time) (string, string) {
	if len(raw) == len(stampLayout) {
		if t, err := time.Parse(stampLayout, raw); err == nil {
			return t.Format(util.DateLayout), t.Format(util.ClockLayout)
		}
	}
	return now.Format(util.DateLayout), now.Format(util.ClockLayout)
}

// lots parses a volume field. The vendor sometimes sends "" for an empty book
// level, which counts as zero.
func lots(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not numeric: %q", raw)
	}
	return int64(f), nil
}

func parseError(msg, field string) *errors.ErrorDetails {
	return errors.NewErrorDetails(msg, string(errors.QuoteParseError), field)
}

func asDetails(err error, record string) *errors.ErrorDetails {
	if details, ok := err.(*errors.ErrorDetails); ok {
		return errors.NewErrorDetailsWithObject(details.Message, details.Code, details.Field, record)
	}
	return errors.NewErrorDetailsWithObject(err.Error(), string(errors.QuoteParseError), "record", record)
}
