package errors

import (
	"bytes"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// QuoteFetchError represents a transport failure while fetching a quote batch
	// (timeout, non-200 status, unreadable body).
	QuoteFetchError ErrorCode = "quote_fetch_error"
	// QuoteParseError represents a single vendor record that could not be decoded.
	QuoteParseError ErrorCode = "quote_parse_error"
	// RejectedSampleError represents a decoded sample that failed data-quality checks.
	RejectedSampleError ErrorCode = "rejected_sample"
	// SinkWriteError represents a failed persistence write.
	SinkWriteError ErrorCode = "sink_write_error"
	// SinkQueueFullError represents a persistence job dropped because its queue was full.
	SinkQueueFullError ErrorCode = "sink_queue_full"
	// SinkClosedError represents a persistence job submitted after shutdown.
	SinkClosedError ErrorCode = "sink_closed"
	// ThresholdError represents an unreadable or invalid threshold configuration.
	ThresholdError ErrorCode = "threshold_error"
	// WatchlistError represents a failure reading the watched instrument list.
	WatchlistError ErrorCode = "watchlist_error"
	// AggregationError marks a (symbol, date) that could not be aggregated.
	AggregationError ErrorCode = "aggregation_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisHGetAllError represents an error when reading a hash from Redis.
	RedisHGetAllError ErrorCode = "redis_hgetall_error"
	// RedisSMembersError represents an error when reading a set from Redis.
	RedisSMembersError ErrorCode = "redis_smembers_error"
)

// BaseError is an `error` type collecting several ErrorDetails, used where one
// operation tolerates many independent failures (a quote batch with a few bad
// records) and reports them together.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError create BaseError with ErrorDetails
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails add more ErrorDetails to BaseError
func (b *BaseError) AddErrorDetails(errors ...*ErrorDetails) {
	b.details = append(b.details, errors...)
}

// GetDetails get array ErrorDetails on BaseError
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// Len returns the number of collected details. A nil BaseError has none.
func (b *BaseError) Len() int {
	if b == nil {
		return 0
	}
	return len(b.details)
}

// Error implement error interface
func (b *BaseError) Error() string {
	buff := bytes.NewBufferString("")

	buff.WriteString("Error on\n")
	for _, err := range b.details {
		buff.WriteString("code: ")
		buff.WriteString(err.Code)
		buff.WriteString("; error: ")
		buff.WriteString(err.Error())
		buff.WriteString("; field: ")
		buff.WriteString(err.Field)
		buff.WriteString("\n")
	}

	return strings.TrimSpace(buff.String())
}

// IsAllCodeEqual check if all ErrorDetails code is equal with given code
func (b *BaseError) IsAllCodeEqual(code string) bool {
	if len(b.details) == 0 {
		return false
	}

	for _, d := range b.GetDetails() {
		if d.Code != code {
			return false
		}
	}
	return true
}

// IsAnyCodeEqual check if any ErrorDetails code is equal with given code
func (b *BaseError) IsAnyCodeEqual(code string) bool {
	for _, d := range b.GetDetails() {
		if d.Code == code {
			return true
		}
	}
	return false
}

// CountByCode groups the collected details by code.
func (b *BaseError) CountByCode() map[string]int {
	counts := make(map[string]int)
	for _, d := range b.GetDetails() {
		counts[d.Code]++
	}
	return counts
}
