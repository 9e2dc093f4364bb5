package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "INFO", LogLevelInfo.String())
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
}

func TestRunLoggerContextCloning(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	derived := l.WithRun("worker", "run-1").WithComponent("engine").WithContext("k", "v")
	derived.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "worker", record["role"])
	assert.Equal(t, "run-1", record["run_id"])
	assert.Equal(t, "engine", record["component"])
	assert.Equal(t, "v", record["k"])

	// The original is untouched by the With* chain.
	buf.Reset()
	l.Info("plain")
	record = map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "role")
	assert.NotContains(t, record, "component")
}

func TestRunLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "json", Output: &buf})

	l.Debug("dropped")
	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestRunLoggerLogPhase(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	l.WithRun("worker", "run-1").LogPhase("on_start", "Active")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Lifecycle phase fired", record["msg"])
	assert.Equal(t, "on_start", record["phase"])
	assert.Equal(t, "Active", record["state"])
	assert.Equal(t, "run-1", record["run_id"])
}

func TestRunLoggerLogRunFinished(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

		l.LogRunFinished("Ended", 3, 5*time.Millisecond, nil)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "Run completed", record["msg"])
		assert.Equal(t, "Ended", record["outcome"])
		assert.Equal(t, float64(3), record["step_count"])
		assert.Contains(t, record, "duration")
	})

	t.Run("failed", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

		l.LogRunFinished("Errored", 1, time.Millisecond, errors.New("boom"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "Run failed", record["msg"])
		assert.Equal(t, "boom", record["error"])
	})
}

func TestRunLoggerErrorWithStack(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	l.ErrorWithStack(errors.New("boom"), "run failed", "outcome", "Errored")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "run failed", record["msg"])
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, "Errored", record["outcome"])
	assert.NotEmpty(t, record["stack_trace"])
	assert.Contains(t, record["stack_trace"], "goroutine")
}

func TestRunLoggerStartTimer(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	done := l.StartTimer("generate shorten")
	assert.Zero(t, buf.Len(), "nothing logged until the closure runs")
	done()

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Operation completed", record["msg"])
	assert.Equal(t, "generate shorten", record["operation"])
	assert.Contains(t, record, "duration")
}

func TestZerologAdapterFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapter(zerolog.New(&buf))

	l.Info("phase fired", "phase", "on_start", "attempt", 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "phase fired", record["message"])
	assert.Equal(t, "on_start", record["phase"])
	assert.Equal(t, float64(1), record["attempt"])
}

func TestNoOpLogger(t *testing.T) {
	// Must be safe to call with anything.
	var l Logger = NoOpLogger{}
	l.Debug("x")
	l.Info("x", "k")
	l.Warn("x", "k", "v")
	l.Error("x", 1, 2, 3)
}
