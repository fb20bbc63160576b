package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionBucket(t *testing.T) {
	testCases := []struct {
		clock  string
		bucket string
		ok     bool
	}{
		{"09:25:00", "10:00", true},
		{"09:59:59", "10:00", true},
		{"10:00:00", "10:30", true},
		{"10:05:00", "10:30", true},
		{"10:30:00", "11:00", true},
		{"11:29:59", "11:30", true},
		{"11:30:00", "", false},
		{"11:40:00", "", false},
		{"12:59:59", "", false},
		{"13:00:00", "13:30", true},
		{"13:05:00", "13:30", true},
		{"13:45:10", "14:00", true},
		{"14:29:59", "14:30", true},
		{"14:30:00", "15:00", true},
		{"15:00:00", "15:00", true},
		{"15:00:01", "", false},
		{"15:30:00", "", false},
		{"garbage!", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.clock, func(t *testing.T) {
			bucket, ok := SessionBucket(tc.clock)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.bucket, bucket)
		})
	}
}

func TestBucketLabels(t *testing.T) {
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30", "13:30", "14:00", "14:30", "15:00"}, BucketLabels())
}
