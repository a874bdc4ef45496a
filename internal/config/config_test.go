package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Address)
	assert.Equal(t, 64, cfg.Server.OutboundQueueSize)
	assert.False(t, cfg.Server.WebSocket.Enabled)
	assert.Equal(t, "/ws", cfg.Server.WebSocket.Path)
	assert.Equal(t, 2, cfg.Game.PlayersPerMatch)
	assert.Equal(t, 1500, cfg.Game.StartingMoney)
	assert.Equal(t, 3, cfg.Game.JailTurns)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, cfg, Default())
}

func TestMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Game.PlayersPerMatch)
}

func TestFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  address: 0.0.0.0:9000
  websocket:
    enabled: true
    address: 0.0.0.0:9001
game:
  players_per_match: 4
  debug_actions: true
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Address)
	assert.True(t, cfg.Server.WebSocket.Enabled)
	assert.Equal(t, "0.0.0.0:9001", cfg.Server.WebSocket.Address)
	assert.Equal(t, "/ws", cfg.Server.WebSocket.Path)
	assert.Equal(t, 4, cfg.Game.PlayersPerMatch)
	assert.True(t, cfg.Game.DebugActions)
	assert.Equal(t, 1500, cfg.Game.StartingMoney)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "game:\n  players_per_match: 4\n")
	t.Setenv("MONOPOLY_GAME_PLAYERS_PER_MATCH", "3")
	t.Setenv("MONOPOLY_SERVER_ADDRESS", "127.0.0.1:7000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Game.PlayersPerMatch)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Address)
}

func TestInvalidValuesAreRejected(t *testing.T) {
	path := writeConfig(t, `
game:
  players_per_match: 1
  jail_turns: 0
logging:
  level: loud
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "players_per_match")
	assert.Contains(t, err.Error(), "jail_turns")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestMalformedFileIsAnError(t *testing.T) {
	path := writeConfig(t, "server: [unterminated\n")

	_, err := Load(path)
	assert.Error(t, err)
}
