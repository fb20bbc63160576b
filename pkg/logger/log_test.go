package logger

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

func newObserved() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{logger: zap.New(core)}, logs
}

func TestLogger_InfoContextAddsCycleFields(t *testing.T) {
	log, logs := newObserved()

	ctx := util.WithRequestID(context.Background(), "cycle-42")
	ctx = util.WithSymbol(util.WithLoop(ctx, "cold"), "sz000001")
	log.InfoContext(ctx, "batch fetched", NewField("records", 20))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "cycle-42", fields["request_id"])
	assert.Equal(t, "cold", fields["loop"])
	assert.Equal(t, "sz000001", fields["symbol"])
	assert.EqualValues(t, 20, fields["records"])
}

func TestLogger_ErrorUsesTracerStack(t *testing.T) {
	log, logs := newObserved()

	log.Error(errors.TracerFromError(stderrors.New("questdb down")), NewField("action", "store_snapshot"))
	log.Error(nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "questdb down", entry.Message)
	assert.NotEmpty(t, entry.Stack)
}

func TestLogger_NamedAndWithFields(t *testing.T) {
	log, logs := newObserved()

	log.Named("poller").WithFields(NewField("focus", "sh600519")).Warn("gate closed")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "poller", fields["component"])
	assert.Equal(t, "sh600519", fields["focus"])
}

func TestNewLogger_Options(t *testing.T) {
	testCases := []struct {
		name     string
		opts     []Options
		assertFn func(t *testing.T, log *Logger, err error)
	}{
		{
			name: "level and sink",
			opts: []Options{WithLoggingLevel(DebugLevel), WithOutputPaths([]string{"stdout"})},
			assertFn: func(t *testing.T, log *Logger, err error) {
				require.NoError(t, err)
				assert.True(t, log.GetZap().Core().Enabled(zapcore.DebugLevel))
			},
		},
		{
			name: "unknown level means info",
			opts: []Options{WithLoggingLevel("verbose")},
			assertFn: func(t *testing.T, log *Logger, err error) {
				require.NoError(t, err)
				assert.False(t, log.GetZap().Core().Enabled(zapcore.DebugLevel))
				assert.True(t, log.GetZap().Core().Enabled(zapcore.InfoLevel))
			},
		},
		{
			name: "empty sink list keeps the default",
			opts: []Options{WithOutputPaths(nil)},
			assertFn: func(t *testing.T, log *Logger, err error) {
				require.NoError(t, err)
				assert.NotNil(t, log.GetZap())
			},
		},
		{
			name: "unopenable sink fails",
			opts: []Options{WithOutputPaths([]string{t.TempDir() + "/missing/dir/log.json"})},
			assertFn: func(t *testing.T, log *Logger, err error) {
				assert.Error(t, err)
				assert.Nil(t, log)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := NewLogger(tc.opts...)
			tc.assertFn(t, log, err)
		})
	}

	assert.NotPanics(t, func() { NewNop().Info("discarded") })
}
