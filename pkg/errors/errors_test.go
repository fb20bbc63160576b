package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseError_CollectsRecordFailures(t *testing.T) {
	var batch *BaseError
	assert.Equal(t, 0, batch.Len())

	batch = NewBaseError()
	batch.AddErrorDetails(
		NewErrorDetails("too few fields", string(QuoteParseError), "sh600000"),
		NewErrorDetails("price must be positive", string(RejectedSampleError), "sz000001"),
		NewErrorDetails("bad volume", string(QuoteParseError), "sh600519"),
	)

	assert.Equal(t, 3, batch.Len())
	assert.False(t, batch.IsAllCodeEqual(string(QuoteParseError)))
	assert.True(t, batch.IsAnyCodeEqual(string(RejectedSampleError)))
	assert.Equal(t, map[string]int{
		string(QuoteParseError):     2,
		string(RejectedSampleError): 1,
	}, batch.CountByCode())
	assert.Contains(t, batch.Error(), "field: sz000001")
}

func TestErrorCodeEquals_Unwraps(t *testing.T) {
	detail := NewErrorDetails("status 502", string(QuoteFetchError), "")
	wrapped := fmt.Errorf("fetch batch: %w", detail)

	assert.True(t, ErrorCodeEquals(wrapped, string(QuoteFetchError)))
	assert.False(t, ErrorCodeEquals(wrapped, string(SinkWriteError)))
	assert.False(t, ErrorCodeEquals(stderrors.New("plain"), string(QuoteFetchError)))
}

func TestErrorDetails_IsMatchesCode(t *testing.T) {
	sentinel := NewErrorDetails("sample rejected", string(RejectedSampleError), "")
	err := NewErrorDetails("price -1 must be positive", string(RejectedSampleError), "sh600000")

	assert.True(t, stderrors.Is(err, sentinel))
	assert.False(t, stderrors.Is(err, NewErrorDetails("x", string(QuoteParseError), "")))
}

func TestTracef_KeepsCauseAndStack(t *testing.T) {
	cause := stderrors.New("connection refused")
	tracer := Tracef(cause, "aggregate %s", "sh600000")

	assert.Equal(t, "aggregate sh600000: connection refused", tracer.Error())
	assert.True(t, stderrors.Is(tracer, cause))
	assert.NotNil(t, tracer.StackTrace())
}

func TestWithCode_TagsWrappedError(t *testing.T) {
	err := WithCode(stderrors.New("timeout"), SinkWriteError, "minute_bars", "store %d bars", 3)

	assert.Equal(t, "store 3 bars: timeout", err.Error())
	assert.True(t, ErrorCodeEquals(err, string(SinkWriteError)))
	assert.NotNil(t, err.StackTrace())
}
