package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
mode: release
server:
  port: 9191
database:
  host: db.internal
  port: 3306
  user: shareit
  password: secret
  dbname: shareit
gateway:
  port: 8081
  backend_url: http://backend:9191
logging:
  level: info
  format: json
  output: stdout
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "http://backend:9191", cfg.Gateway.BackendURL)
	assert.Equal(t, 10, cfg.Gateway.TimeoutSec, "defaults fill unset values")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "database:\n  host: localhost\n"))
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Mode)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8080, cfg.Gateway.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHAREIT_DB_HOST", "override.internal")
	t.Setenv("SHAREIT_SERVER_PORT", "7070")

	cfg, err := Load(writeConfig(t, "database:\n  host: localhost\nserver:\n  port: 9191\n"))
	require.NoError(t, err)
	assert.Equal(t, "override.internal", cfg.DB.Host)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
