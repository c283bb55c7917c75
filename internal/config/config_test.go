package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "frontdesk", cfg.Database.DBName)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
	assert.Equal(t, 7*24*time.Hour, cfg.Session.Duration)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_DURATION", "3600")
	t.Setenv("TRUSTED_ORIGINS", "https://desk.clinic.org, https://admin.clinic.org")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Session.Duration)
	assert.Equal(t, []string{"https://desk.clinic.org", "https://admin.clinic.org"}, cfg.Server.TrustedOrigins)
}

func TestLoad_InvalidSessionDuration(t *testing.T) {
	t.Setenv("SESSION_DURATION", "-60")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("SESSION_DURATION", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.Duration)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5432",
		User:     "frontdesk",
		Password: "secret",
		DBName:   "frontdesk",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5432 user=frontdesk password=secret dbname=frontdesk sslmode=require",
		c.ConnectionString(),
	)
}
