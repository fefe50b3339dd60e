package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopa0/canvas/internal/log"
)

func TestNewWithWriterJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithWriter(&buf, log.Config{JSON: true})
	logger.With("component", "graph").Info("routed turn", "route", "replyToGeneralInput")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "routed turn", entry["msg"])
	assert.Equal(t, "graph", entry["component"])
	assert.Equal(t, "replyToGeneralInput", entry["route"])
}

func TestNewWithWriterLevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithWriter(&buf, log.Config{Level: slog.LevelWarn})

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewNopDiscards(t *testing.T) {
	t.Parallel()

	logger := log.NewNop()
	require.NotNil(t, logger)
	logger.Error("goes nowhere")
}
