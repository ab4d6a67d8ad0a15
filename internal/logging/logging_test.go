package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/oscarhermoso/cubecache/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{"", LogLevelInfo, false},
		{"warning", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{"verbose", LogLevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LogLevelWarn, Output: &buf})
	ctx := context.Background()

	logger.Info(ctx, "hidden")
	logger.Warn(ctx, "shown", "key", "a.json")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "key=a.json")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LogLevelDebug, Output: &buf}).
		WithComponent("objclient").
		WithOperation(OpGetObject)

	logger.Debug(context.Background(), "cache miss")

	out := buf.String()
	assert.Contains(t, out, "component=objclient")
	assert.Contains(t, out, "operation=get_object")
}

func TestNopLogger(t *testing.T) {
	ctx := context.Background()

	var nilLogger *Logger
	assert.NotPanics(t, func() {
		nilLogger.Info(ctx, "nothing")
		nilLogger.With("a", 1).Error(ctx, "nothing")
		NewNopLogger().WithOperation(OpPutObject).Warn(ctx, "nothing")
	})
}

func TestLogStoreError(t *testing.T) {
	ctx := context.Background()

	t.Run("not found logs at info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Output: &buf})

		LogStoreError(ctx, logger, OpGetObject, "data", "a.json", errors.New(errors.CodeNotFound, "missing"))

		out := buf.String()
		assert.Contains(t, out, "level=INFO")
		assert.Contains(t, out, "code=NOT_FOUND")
	})

	t.Run("transport failure logs at warn", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Output: &buf})

		LogStoreError(ctx, logger, OpGetObject, "data", "a.json", errors.New(errors.CodeNetwork, "reset"))

		out := buf.String()
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "retryable=true")
	})
}
