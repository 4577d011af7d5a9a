package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "json", slog.LevelDebug).WithPart("bracket").WithOp("sweep")
	l.LogMesh(8, 12, nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "bracket", entry["part"])
	assert.Equal(t, "sweep", entry["op"])
	assert.Equal(t, float64(12), entry["triangles"])
}

func TestLogEvalLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "text", slog.LevelInfo)

	l.LogEval(2, 0, time.Millisecond, nil)
	assert.Contains(t, buf.String(), "evaluation completed")

	buf.Reset()
	l.LogEval(0, 1, time.Millisecond, nil)
	assert.Contains(t, buf.String(), "level=WARN")

	buf.Reset()
	l.LogEval(0, 0, time.Millisecond, errors.New("timed out"))
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "text", slog.LevelInfo).LogMesh(3, 1, nil)
	assert.Empty(t, buf.String())
}

func TestNoopLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NoopLogger().WithOp("x").Error("dropped")
	})
}
