package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("SESSION_SECRET", "session")
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("POSTGRES_USER", "blog")
	t.Setenv("POSTGRES_PASSWORD", "p@ss")
	t.Setenv("POSTGRES_DATABASE", "blog")
	t.Setenv("POSTGRES_SSLMODE", "disable")
	t.Setenv("REDIS_ADDR", "localhost:6379")
}

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	setRequiredEnv(t)
	t.Setenv("FRONTEND_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 3, cfg.Store.Retries)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Mail.Queue)
	assert.Equal(t, "http://localhost:3000", cfg.Auth.FrontendURL)
}

func TestLoad_MissingSecrets(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("POSTGRES_HOST", "")
	t.Setenv("REDIS_ADDR", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "POSTGRES_HOST")
	assert.Contains(t, err.Error(), "REDIS_ADDR")
}

func TestDBConfig_URLs(t *testing.T) {
	cfg := DBConfig{
		Username: "blog",
		Password: "p@ss",
		Host:     "db",
		Port:     "5432",
		DBName:   "blog",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://blog:p%40ss@db:5432/blog?sslmode=disable", cfg.DSN())
	assert.Equal(t, "pgx5://blog:p%40ss@db:5432/blog?sslmode=disable", cfg.MigrateURL())
}
