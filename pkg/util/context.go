package util

import (
	"context"
)

type key string

const (
	loopKey   = key("poll-loop")
	symbolKey = key("symbol")
)

// WithLoop returns a context tagged with the name of the polling loop
// ("hot", "cold") or job ("finalize", "backfill") that owns it.
func WithLoop(ctx context.Context, loop string) context.Context {
	return context.WithValue(ctx, loopKey, loop)
}

// GetLoop returns the loop name from context, empty if not present.
func GetLoop(ctx context.Context) string {
	loop, _ := ctx.Value(loopKey).(string)
	return loop
}

// WithSymbol returns a context tagged with the instrument being processed.
func WithSymbol(ctx context.Context, symbol string) context.Context {
	return context.WithValue(ctx, symbolKey, symbol)
}

// GetSymbol returns the instrument from context, empty if not present.
func GetSymbol(ctx context.Context) string {
	symbol, _ := ctx.Value(symbolKey).(string)
	return symbol
}

// WithRequestID returns a context with request id
func WithRequestID(ctx context.Context, id string) context.Context {
	return ContextWithRequestID(ctx, id)
}

// GetRequestID returns request id from context
func GetRequestID(ctx context.Context) string {
	return FromContext(ctx)
}
