package events_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbvault/dbvault/internal/events"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.WarnLevel, "text", &buf)

	logger.Debug("not shown")
	logger.Info("not shown")
	logger.Warn("warning message")
	logger.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "not shown")
	assert.Contains(t, out, "warning message")
	assert.Contains(t, out, "error message")
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.DebugLevel, "text", &buf)

	logger.WithField("store", "records.db").
		WithFields(map[string]interface{}{"rows": 3}).
		Info("searched")

	out := buf.String()
	assert.Contains(t, out, "store=records.db")
	assert.Contains(t, out, "rows=3")
	assert.Contains(t, out, "searched")
}

func TestLoggerFieldsDoNotLeakBack(t *testing.T) {
	var buf bytes.Buffer
	base := events.NewTestLogger(events.DebugLevel, "text", &buf)

	derived := base.WithField("component", "store")
	derived.Info("from derived")
	base.Info("from base")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "component=store")
	assert.NotContains(t, lines[1], "component=store")
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.DebugLevel, "json", &buf)

	logger.WithField("path", "a\"b").Info("json entry")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "json entry", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, `a"b`, entry["path"])
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.DebugLevel, "json", &buf)

	logger.WithError(assert.AnError).Error("operation failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, assert.AnError.Error(), entry["error"])
}
