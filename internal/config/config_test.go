package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, 4, cfg.Scan.BatchLimit)
	assert.Equal(t, 0.0, cfg.Scan.QueryRate)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10*time.Second, cfg.Database.QueryTimeout)
	assert.Empty(t, cfg.Catalog.Path)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GAPSCAN_DATABASE_DSN", "postgres://localhost/gapscan_test")
	t.Setenv("GAPSCAN_SERVER_PORT", "9090")
	t.Setenv("GAPSCAN_SCAN_WORKERS", "16")
	t.Setenv("GAPSCAN_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/gapscan_test", cfg.Database.DSN)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 16, cfg.Scan.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gapscan.yaml")
	content := []byte(`
server:
  port: 7070
scan:
  workers: 2
  query_rate: 50
catalog:
  path: /etc/gapscan/fields.yaml
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.Equal(t, 50.0, cfg.Scan.QueryRate)
	assert.Equal(t, "/etc/gapscan/fields.yaml", cfg.Catalog.Path)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(*Config) {}, false},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero workers", func(c *Config) { c.Scan.Workers = 0 }, true},
		{"zero batch", func(c *Config) { c.Scan.BatchLimit = 0 }, true},
		{"negative rate", func(c *Config) { c.Scan.QueryRate = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
