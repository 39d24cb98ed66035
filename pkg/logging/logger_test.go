package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return New(&Config{
		Level:       level,
		ServiceName: "ops-simulator",
		Environment: "test",
		Version:     "1.0.0",
		Output:      buf,
	}), buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLogger_BaseAttributes(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	logger.WithComponent("driver").Info("started", "interval", "5s")

	records := decodeLines(t, buf)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "ops-simulator", rec["service"])
	assert.Equal(t, "test", rec["environment"])
	assert.Equal(t, "1.0.0", rec["version"])
	assert.Equal(t, "driver", rec["component"])
	assert.Equal(t, "5s", rec["interval"])

	ts, ok := rec["time"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339Nano, ts)
	assert.NoError(t, err)
}

func TestLogger_WithContext(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	logger.WithContext(ctx).Info("hello")

	rec := decodeLines(t, buf)[0]
	assert.Equal(t, "req-1", rec["requestId"])
	assert.Equal(t, "corr-1", rec["correlationId"])
	assert.Same(t, logger, logger.WithContext(context.Background()))
}

func TestLogger_WithErrorNil(t *testing.T) {
	logger, _ := newBufferLogger(LevelInfo)
	assert.Same(t, logger, logger.WithError(nil))
}

func TestLogger_TickLevels(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	logger.Tick(context.Background(), 7, "timer", "none", time.Millisecond)
	assert.Empty(t, buf.String(), "timer ticks log at debug")

	logger.Tick(context.Background(), 8, "incident", "surge", time.Millisecond)
	rec := decodeLines(t, buf)[0]
	assert.Equal(t, "Simulation tick", rec["msg"])
	assert.Equal(t, "surge", rec["incident"])
	assert.EqualValues(t, 8, rec["tick"])
}

func TestLogger_HTTPRequestLevel(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	logger.HTTPRequest(context.Background(), "GET", "/api/v1/kpis", 503, time.Millisecond, "127.0.0.1", "test")

	rec := decodeLines(t, buf)[0]
	assert.Equal(t, "ERROR", rec["level"])
	assert.EqualValues(t, 503, rec["status"])
}
