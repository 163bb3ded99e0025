package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("SEED_EMPLOYEES", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, defaultDSN, cfg.DatabaseDSN)
	assert.Empty(t, cfg.SeedEmployees)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQuery)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadRequiresDSNOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_DSN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadParsesLists(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_DSN", "postgres://u:p@db/receiving")
	t.Setenv("SEED_EMPLOYEES", " Ana Ruiz, ,Bo Chen ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana Ruiz", "Bo Chen"}, cfg.SeedEmployees)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOriginList())
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadOverridesFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SLOW_QUERY_THRESHOLD", "1s")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.SlowQuery)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadRejectsBadSlowQueryThreshold(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SLOW_QUERY_THRESHOLD", "soon")

	_, err := Load()
	assert.Error(t, err)
}
