package logger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func resetLogger() {
	logger = zap.NewNop().Sugar()
	initOnce = sync.Once{}
}

func TestInit(t *testing.T) {
	t.Run("accepts known levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			resetLogger()
			require.NoError(t, Init(WithLevel(level)), level)
		}
	})

	t.Run("rejects unknown level and keeps previous logger", func(t *testing.T) {
		resetLogger()
		before := logger

		err := Init(WithLevel("verbose"))

		assert.Error(t, err)
		assert.Same(t, before, logger)
	})

	t.Run("second init is ignored", func(t *testing.T) {
		resetLogger()
		require.NoError(t, Init(WithLevel("info")))
		first := logger

		require.NoError(t, Init(WithLevel("debug")))
		assert.Same(t, first, logger)
	})
}

func TestWithTrace(t *testing.T) {
	t.Run("no span leaves fields untouched", func(t *testing.T) {
		kv := withTrace(context.Background(), []any{"k", "v"})
		assert.Equal(t, []any{"k", "v"}, kv)
	})

	t.Run("valid span adds identifiers", func(t *testing.T) {
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: trace.TraceID{1},
			SpanID:  trace.SpanID{2},
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		kv := withTrace(ctx, []any{"k", "v"})

		require.Len(t, kv, 6)
		assert.Equal(t, "trace_id", kv[2])
		assert.Equal(t, sc.TraceID().String(), kv[3])
		assert.Equal(t, "span_id", kv[4])
		assert.Equal(t, sc.SpanID().String(), kv[5])
	})
}

func TestLoggingBeforeInit(t *testing.T) {
	resetLogger()
	assert.NotPanics(t, func() {
		Info(context.Background(), "message", "k", 1)
		Warn(context.Background(), "message")
	})
}

func TestFatal(t *testing.T) {
	t.Cleanup(resetLogger)

	core, logs := observer.New(zapcore.InfoLevel)
	logger = zap.New(core, zap.WithFatalHook(zapcore.WriteThenPanic)).Sugar()

	assert.Panics(t, func() {
		Fatal(context.Background(), "startup failed", "error", "no endpoint")
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.FatalLevel, entries[0].Level)
	assert.Equal(t, "no endpoint", entries[0].ContextMap()["error"])
}
