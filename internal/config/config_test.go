package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/keypad/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keypad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.LoadWithEnv("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
log_level: debug
server:
  port: 9090
store:
  kind: redis
  ttl: 15m
  redis:
    addr: cache:6379
    db: 2
`)

	cfg, err := config.LoadWithEnv(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, config.StoreRedis, cfg.Store.Kind)
	assert.Equal(t, 15*time.Minute, cfg.Store.TTL)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, "keypad:", cfg.Store.Redis.Prefix, "unset keys keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "server:\n  port: 9090\n")
	env := map[string]string{
		"KEYPAD_SERVER_PORT":   "7070",
		"KEYPAD_MCP_TRANSPORT": "sse",
		"KEYPAD_STORE_TTL":     "90s",
		"KEYPAD_STORE_DIR":     "/var/lib/keypad",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg, err := config.LoadWithEnv(path, lookup)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, config.TransportSSE, cfg.MCP.Transport)
	assert.Equal(t, 90*time.Second, cfg.Store.TTL)
	assert.Equal(t, "/var/lib/keypad", cfg.Store.Dir)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "colour: blue\n"},
		{"bad store", "store:\n  kind: sqlite\n"},
		{"file store without dir", "store:\n  kind: file\n  dir: \"\"\n"},
		{"bad level", "log_level: loud\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"bad transport", "mcp:\n  transport: carrier-pigeon\n"},
		{"bad yaml", "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadWithEnv(writeFile(t, tt.content), noEnv)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.LoadWithEnv(filepath.Join(t.TempDir(), "nope.yaml"), noEnv)
	assert.Error(t, err)
}
