package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadResolvesFullConfig(t *testing.T) {
	path := writeConfig(t, `
endpoint: ws://collab.local:8080/sync
reconnectIntervalMs: 250
maxReconnectAttempts: 5
heartbeatIntervalMs: 15000
maxReconnectDelayMs: 4000
enforceHeartbeatTimeout: true
heartbeatTimeoutMs: 45000
strictOrdering: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ws://collab.local:8080/sync", cfg.Endpoint)
	assert.Equal(t, 250*time.Millisecond, cfg.ReconnectInterval)
	assert.Equal(t, 5, cfg.MaxReconnectAttempts)
	assert.Equal(t, 15*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 4*time.Second, cfg.MaxReconnectDelay)
	assert.True(t, cfg.EnforceHeartbeatTimeout)
	assert.Equal(t, 45*time.Second, cfg.HeartbeatTimeout)
	assert.True(t, cfg.StrictOrdering)
}

func TestLoadLeavesUnsetFieldsZeroForDefaults(t *testing.T) {
	path := writeConfig(t, "endpoint: ws://collab.local:8080/sync\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ws://collab.local:8080/sync", cfg.Endpoint)
	assert.Zero(t, cfg.ReconnectInterval)
	assert.Zero(t, cfg.MaxReconnectAttempts)
	assert.Zero(t, cfg.HeartbeatInterval)
	assert.False(t, cfg.EnforceHeartbeatTimeout)
	assert.False(t, cfg.StrictOrdering)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := writeConfig(t, "endpoint: [unterminated\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestResolveValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     FileConfig
		wantErr string
	}{
		{"empty endpoint", FileConfig{}, "endpoint cannot be empty"},
		{"negative reconnect interval", FileConfig{Endpoint: "ws://x", ReconnectIntervalMs: -1}, "reconnectIntervalMs"},
		{"negative attempts", FileConfig{Endpoint: "ws://x", MaxReconnectAttempts: -1}, "maxReconnectAttempts"},
		{"negative heartbeat interval", FileConfig{Endpoint: "ws://x", HeartbeatIntervalMs: -1}, "heartbeatIntervalMs"},
		{"negative delay cap", FileConfig{Endpoint: "ws://x", MaxReconnectDelayMs: -1}, "maxReconnectDelayMs"},
		{"negative heartbeat timeout", FileConfig{Endpoint: "ws://x", HeartbeatTimeoutMs: -1}, "heartbeatTimeoutMs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.cfg)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
