package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Read(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "court-1", cfg.Resource)
	assert.Len(t, cfg.Participants, 2)
}

func TestReadWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courtmesh.yaml")

	cfg := Default()
	cfg.Resource = "court-9"
	cfg.Negotiation.DeadlineSeconds = 40
	cfg.Participants = []ParticipantConfig{{ID: "ana", Endpoint: "http://ana.local:10004"}}
	require.NoError(t, Write(path, cfg))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "court-9", got.Resource)
	assert.Equal(t, 40, got.Negotiation.DeadlineSeconds)
	require.Len(t, got.Participants, 1)
	assert.Equal(t, "ana", got.Participants[0].ID)
}

func TestRead_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courtmesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("participants: [unterminated"), 0o644))

	_, err := Read(path)
	assert.Error(t, err)
}

func TestEngineConfig_Conversion(t *testing.T) {
	cfg := Default()
	ec := cfg.EngineConfig()
	assert.Equal(t, 10*time.Second, ec.QueryTimeout)
	assert.Equal(t, 25*time.Second, ec.Deadline)
	assert.Equal(t, 1, ec.TimeoutRetries)
	assert.Equal(t, 3, ec.BookingRetries)
}

func TestRoster_EnvOverride(t *testing.T) {
	t.Setenv(ParticipantsEnvVar, "jeff=http://localhost:10004, http://mark.local:10005/")

	roster := Default().Roster()
	require.Len(t, roster, 2)
	assert.Equal(t, "jeff", roster[0].ID)
	assert.Equal(t, "http://localhost:10004", roster[0].Endpoint)
	assert.Equal(t, "mark.local:10005", roster[1].ID)
	assert.Equal(t, "http://mark.local:10005", roster[1].Endpoint)
}

func TestParseRoster_SkipsEmptyEntries(t *testing.T) {
	roster := ParseRoster(" , jeff=http://localhost:10004 ,")
	require.Len(t, roster, 1)
	assert.Equal(t, "jeff", roster[0].ID)
}
