package aggregator

import (
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

const hour = 3600

// sessionBuckets maps seconds since midnight to a 30 minute bucket. Each
// entry covers [from, until).
var sessionBuckets = []struct {
	from, until int
	label       string
}{
	{0, 10 * hour, "10:00"},
	{10 * hour, 10*hour + 1800, "10:30"},
	{10*hour + 1800, 11 * hour, "11:00"},
	{11 * hour, 11*hour + 1800, "11:30"},
	// 11:30:00 to 12:59:59 is the midday recess
	{13 * hour, 13*hour + 1800, "13:30"},
	{13*hour + 1800, 14 * hour, "14:00"},
	{14 * hour, 14*hour + 1800, "14:30"},
	{14*hour + 1800, 15*hour + 1, "15:00"}, // the closing auction prints at 15:00:00
}

// SessionBucket returns the 30 minute bucket of an HH:MM:SS clock, or false
// for the midday recess, anything after the close and unparseable clocks.
func SessionBucket(clock string) (string, bool) {
	secs, ok := util.ClockSeconds(clock)
	if !ok {
		return "", false
	}
	for _, b := range sessionBuckets {
		if secs >= b.from && secs < b.until {
			return b.label, true
		}
	}
	return "", false
}

// BucketLabels lists every bucket in session order.
func BucketLabels() []string {
	labels := make([]string, len(sessionBuckets))
	for i, b := range sessionBuckets {
		labels[i] = b.label
	}
	return labels
}
