package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(t *testing.T, level LogLevel) (*CourtMeshLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.Output = &buf
	cfg.AddSource = false
	return NewLogger(cfg), &buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestCourtMeshLogger_KeyValueArgs(t *testing.T) {
	logger, buf := newBufferedLogger(t, LogLevelInfo)

	logger.Warn("negotiation degraded", "reason", "no reachable participants", "unreachable", []string{"mark"})

	entry := decodeEntry(t, buf)
	assert.Equal(t, "negotiation degraded", entry["msg"])
	assert.Equal(t, "no reachable participants", entry["reason"])
	assert.Equal(t, []interface{}{"mark"}, entry["unreachable"])
}

func TestCourtMeshLogger_ContextualAttrs(t *testing.T) {
	logger, buf := newBufferedLogger(t, LogLevelDebug)

	logger.WithComponent("engine").
		WithNegotiation("neg-1").
		WithContext("resource_id", "court-1").
		Info("negotiation finished", "status", "booked")

	entry := decodeEntry(t, buf)
	assert.Equal(t, "engine", entry["component"])
	assert.Equal(t, "neg-1", entry["negotiation_id"])
	assert.Equal(t, "court-1", entry["resource_id"])
	assert.Equal(t, "booked", entry["status"])
}

func TestCourtMeshLogger_NoDuplicateTimestamp(t *testing.T) {
	logger, buf := newBufferedLogger(t, LogLevelInfo)

	logger.Info("tick")

	entry := decodeEntry(t, buf)
	assert.Contains(t, entry, "time")
	assert.NotContains(t, entry, "timestamp")
}

func TestCourtMeshLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferedLogger(t, LogLevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	require.Zero(t, buf.Len())

	logger.Error("boom", "err", "broken")
	entry := decodeEntry(t, buf)
	assert.Equal(t, "boom", entry["msg"])
	assert.Equal(t, "broken", entry["err"])
}

func TestArgsToAttrs_DanglingKey(t *testing.T) {
	attrs := argsToAttrs([]interface{}{"participant", "jeff", "trailing"})

	require.Len(t, attrs, 2)
	assert.Equal(t, "participant", attrs[0].Key)
	assert.Equal(t, badKey, attrs[1].Key)
	assert.Equal(t, "trailing", attrs[1].Value.String())
}
