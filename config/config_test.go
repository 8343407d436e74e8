package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CI", "ENV", "PASTRY_ENV", "SECRETS_DIR"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigWithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "pastry", cfg.Database.Name)
	assert.Equal(t, 150.0, cfg.Scaling.ServingVolumeML)
	assert.Equal(t, 20, cfg.Scaling.MaxDepth)
	assert.Equal(t, 10*time.Minute, cfg.Scaling.SuggestionCacheTTL)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Storage.Enabled)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "test")
	t.Setenv("PASTRY_DATABASE_DRIVER", "sqlite")
	t.Setenv("PASTRY_DATABASE_PATH", "/tmp/pastry-test.db")
	t.Setenv("PASTRY_DATABASE_PASSWORD", "hunter2")
	t.Setenv("PASTRY_SCALING_SERVING_VOLUME_ML", "125")
	t.Setenv("PASTRY_REDIS_URL", "redis://cache:6379/1")
	t.Setenv("PASTRY_SERVER_PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/pastry-test.db", cfg.Database.Path)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.Equal(t, 125.0, cfg.Scaling.ServingVolumeML)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  driver: sqlite
  path: file.db
scaling:
  max_depth: 5
  suggest_closest_fallback: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5, cfg.Scaling.MaxDepth)
	assert.True(t, cfg.Scaling.SuggestClosestFallback)
}

func TestLoadConfigProductionSecrets(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("ENV", "production")
	t.Setenv("SECRETS_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("s3cret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "redis_password"), []byte("r3dis"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "r3dis", cfg.Redis.Password)
}

func TestLoadConfigProductionRequiresPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("SECRETS_DIR", t.TempDir())

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.password")
}

func TestGetEnvironment(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("ENV", "prod")
	assert.Equal(t, Production, GetEnvironment())

	t.Setenv("PASTRY_ENV", "test")
	assert.Equal(t, Test, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: 0},
		Database:  DatabaseConfig{Driver: "mysql"},
		Scaling:   ScalingConfig{ServingVolumeML: 0, MaxDepth: 0},
		RateLimit: RateLimitConfig{Enabled: true},
		Storage:   StorageConfig{Enabled: true},
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{
		"server.port",
		"database.driver",
		"scaling.serving_volume_ml",
		"scaling.max_depth",
		"rate_limit.limit",
		"rate_limit.window",
		"storage.bucket",
	}, fields)
}
