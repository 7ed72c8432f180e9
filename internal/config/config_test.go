package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the variables Load reads so the host environment does
// not leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LEARNPULSE_DB", "DATABASE_URL", "LEARNPULSE_SEED",
		"LEARNPULSE_LOG_MODE", "LEARNPULSE_LOG_VERBOSE",
		"LEARNPULSE_NUDGES_ACTIVE_LIMIT", "LEARNPULSE_NUDGES_PARALLELISM", "LEARNPULSE_NUDGES_CATALOG",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEARNPULSE_DB", "/tmp/pulse.db")
	t.Setenv("LEARNPULSE_SEED", "1234")
	t.Setenv("LEARNPULSE_LOG_MODE", "production")
	t.Setenv("LEARNPULSE_NUDGES_ACTIVE_LIMIT", "5")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pulse.db", cfg.DB)
	assert.Equal(t, uint64(1234), cfg.Seed)
	assert.Equal(t, LogProduction, cfg.Log.Mode)
	assert.Equal(t, 5, cfg.Nudges.ActiveLimit)
}

func TestLoadDatabaseURLFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db/learnpulse")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db/learnpulse", cfg.DB)

	t.Setenv("LEARNPULSE_DB", "/data/pulse.db")
	cfg, err = Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "/data/pulse.db", cfg.DB)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	catalog := writeFile(t, "catalog.yaml", "templates: {}\n")
	file := writeFile(t, "learnpulse.yaml", `
db: /srv/pulse.db
seed: 99
nudges:
  active_limit: 3
  parallelism: 8
  catalog: `+catalog+`
`)

	cfg, err := Load(LoadOptions{ConfigFile: file})
	require.NoError(t, err)
	assert.Equal(t, "/srv/pulse.db", cfg.DB)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, 3, cfg.Nudges.ActiveLimit)
	assert.Equal(t, 8, cfg.Nudges.Parallelism)
	assert.Equal(t, catalog, cfg.Nudges.CatalogPath)

	// Environment beats the file.
	t.Setenv("LEARNPULSE_NUDGES_ACTIVE_LIMIT", "1")
	cfg, err = Load(LoadOptions{ConfigFile: file})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Nudges.ActiveLimit)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, ".env", "LEARNPULSE_NUDGES_PARALLELISM=2\n")
	// godotenv sets real process variables; restore them afterwards.
	t.Setenv("LEARNPULSE_NUDGES_PARALLELISM", "")
	os.Unsetenv("LEARNPULSE_NUDGES_PARALLELISM")

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Nudges.Parallelism)

	_, err = Load(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	assert.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		opts LoadOptions
	}{
		{"bad log mode", map[string]string{"LEARNPULSE_LOG_MODE": "loud"}, LoadOptions{}},
		{"negative limit", map[string]string{"LEARNPULSE_NUDGES_ACTIVE_LIMIT": "-1"}, LoadOptions{}},
		{"zero parallelism", map[string]string{"LEARNPULSE_NUDGES_PARALLELISM": "0"}, LoadOptions{}},
		{"missing catalog", map[string]string{"LEARNPULSE_NUDGES_CATALOG": "/no/such/catalog.yaml"}, LoadOptions{}},
		{"missing config file", nil, LoadOptions{ConfigFile: "/no/such/learnpulse.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.opts)
			assert.Error(t, err)
		})
	}
}
