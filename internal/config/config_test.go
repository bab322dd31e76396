package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[development]
port = 9001
storage = "memory"
profile_cache_ttl = "30s"

[production]
port = 9000
db_host = "db.internal"
db_name = "gymstats"
legacy_year = "2023"
accepted_year = "2024"
`)

	cfg, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, "memory", cfg.Storage)
	assert.Equal(t, 30*time.Second, cfg.ProfileCacheTTL)
	// defaults
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 2*time.Minute, cfg.ReconcileTimeout)
	assert.Equal(t, "2024", cfg.LegacyYear)
	assert.Equal(t, "2025", cfg.AcceptedYear)
	assert.Equal(t, 15, cfg.LoginRateLimitPerMin)

	cfg, err = Load("production", path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "2023", cfg.LegacyYear)

	_, err = Load("staging", path)
	assert.EqualError(t, err, "unknown env: staging")

	_, err = Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, `
[development]
storage = "postgres"
`)
	_, err := Load("dev", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db_host")

	_, err = Load("prod", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	path = writeConfig(t, `
[development]
storage = "cassandra"
`)
	_, err = Load("dev", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}

func TestLoad_RepoConfig(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		cfg, err := Load(env, "../../config.toml")
		require.NoError(t, err, env)
		assert.Equal(t, env, cfg.Environment)
	}
}

func TestLoadSecrets(t *testing.T) {
	secrets, err := loadSecrets(context.Background(), envconfig.MapLookuper(map[string]string{
		"GYMSTATS_ADMIN_USERNAME":      "serj",
		"GYMSTATS_ADMIN_PASSWORD_HASH": "hash",
		"HONEYCOMB_ENABLED":            "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, "serj", secrets.AdminUsername)
	assert.Equal(t, "hash", secrets.AdminPasswordHash)
	assert.True(t, secrets.HoneycombEnabled)
	assert.Empty(t, secrets.RedisPassword)
	assert.Equal(t, "gymprofile", secrets.OtelServiceName)

	_, err = loadSecrets(context.Background(), envconfig.MapLookuper(map[string]string{
		"HONEYCOMB_ENABLED": "maybe",
	}))
	assert.Error(t, err)
}
