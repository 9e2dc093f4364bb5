package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONZerologLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(l Logger)
		level string
	}{
		{"debug", func(l Logger) { l.Debug("msg", "k", "v") }, "debug"},
		{"info", func(l Logger) { l.Info("msg", "k", "v") }, "info"},
		{"warn", func(l Logger) { l.Warn("msg", "k", "v") }, "warn"},
		{"error", func(l Logger) { l.Error("msg", "k", "v") }, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewJSONZerologLogger(&buf, "loopkit")

			tt.log(l)

			var record map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			assert.Equal(t, tt.level, record["level"])
			assert.Equal(t, "msg", record["message"])
			assert.Equal(t, "v", record["k"])
			assert.Equal(t, "loopkit", record["app"])
			assert.Contains(t, record, "time")
		})
	}
}

func TestZerologAdapterOddArgs(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONZerologLogger(&buf, "loopkit")

	l.Info("msg", "k", "v", "dangling")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "v", record["k"])
	assert.Equal(t, "dangling", record["arg"])
}

func TestZerologAdapterNonStringKey(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONZerologLogger(&buf, "loopkit")

	l.Info("msg", 42, "v")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "v", record["42"])
}

func TestNewConsoleZerologLogger(t *testing.T) {
	l := NewConsoleZerologLogger("loopkit")
	require.NotNil(t, l)

	// Satisfies the package interface without further wrapping.
	var _ Logger = l
}
