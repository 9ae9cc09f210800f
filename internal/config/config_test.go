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
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 24*time.Hour, cfg.Fetch.ReferenceTTL)
	assert.Equal(t, time.Hour, cfg.Fetch.TableTTL)
	assert.Equal(t, int64(16<<20), cfg.Fetch.MaxUploadSize)
	assert.Contains(t, cfg.Fetch.ReferenceURL, "CPIAUCSL")
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SUELDOS_SERVER_PORT", "9090")
	t.Setenv("SUELDOS_LOGGING_LEVEL", "debug")
	t.Setenv("SUELDOS_FETCH_TABLE_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5*time.Minute, cfg.Fetch.TableTTL)
}

func TestLoadFromFile(t *testing.T) {
	dir := chdirTemp(t)
	yaml := "server:\n  port: 3000\nlogging:\n  level: warn\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// Unset fields still take their defaults.
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 3000\n"), 0644))
	t.Setenv("SUELDOS_SERVER_PORT", "4000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:   "bad port",
			mutate: func(c *Config) { c.Server.Port = 70000 },
			errMsg: "invalid server port",
		},
		{
			name:   "zero fetch timeout",
			mutate: func(c *Config) { c.Fetch.Timeout = 0 },
			errMsg: "fetch timeout",
		},
		{
			name:   "zero ttl",
			mutate: func(c *Config) { c.Fetch.ReferenceTTL = 0 },
			errMsg: "cache TTLs",
		},
		{
			name:   "cors without origins",
			mutate: func(c *Config) { c.Security.AllowedOrigins = nil },
			errMsg: "allowed origin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

// chdirTemp moves the test into an empty directory so no stray config.yaml
// is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
	return dir
}
