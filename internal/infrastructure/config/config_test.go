package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "procureflow-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, int64(10<<20), cfg.HTTP.MaxBodySize)
	assert.Equal(t, 24*time.Hour, cfg.Receipt.TokenTTL)
}

func TestApplyDefaults_DoesNotOverride(t *testing.T) {
	cfg := &Config{}
	cfg.App.Port = "9090"
	cfg.Database.MaxOpenConns = 50
	cfg.Log.Level = "debug"

	applyDefaults(cfg)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxIdleConns = 100

		err := cfg.validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("production requires jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"

		err := cfg.validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("production rejects short jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "too-short"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"

		err := cfg.validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 characters")
	})

	t.Run("production rejects sslmode disable", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "secret"

		err := cfg.validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("production rejects wildcard CORS origin", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.HTTP.CORSAllowOrigins = []string{"*"}

		err := cfg.validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "app",
		Password: "p@ss/word",
		DBName:   "procurement",
		SSLMode:  "require",
	}

	dsn := d.DSN()

	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// special characters in credentials must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
