package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"PORT", "APP_ENV", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
	"TRUSTED_ORIGINS", "PG_CONNECTION_STRING", "PG_HOST", "PG_PORT", "PG_USER", "PG_PASSWORD",
	"PG_DATABASE", "PG_SSL", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_AUTO_SCHEMA",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "TOKEN_FORMAT", "JWT_SECRET",
	"PASETO_KEY", "RATE_LIMIT_ENABLED", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW",
}

// clearEnv blanks every key Load reads; getEnv treats empty as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.TrustedOrigins)

	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.True(t, cfg.Database.AutoSchema)
	assert.False(t, cfg.Database.SSL)

	assert.Equal(t, TokenFormatJWT, cfg.Auth.TokenFormat)
	assert.Equal(t, []byte("s3cret"), cfg.Auth.JWTSecret)

	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("TRUSTED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SERVER_READ_TIMEOUT", "3")
	t.Setenv("SERVER_WRITE_TIMEOUT", "not-a-number")
	t.Setenv("PG_SSL", "true")
	t.Setenv("DB_AUTO_SCHEMA", "false")
	t.Setenv("TOKEN_FORMAT", "PASETO")
	t.Setenv("PASETO_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("RATE_LIMIT_ENABLED", "1")
	t.Setenv("RATE_LIMIT_MAX", "3")
	t.Setenv("RATE_LIMIT_WINDOW", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.TrustedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.True(t, cfg.Database.SSL)
	assert.False(t, cfg.Database.AutoSchema)
	assert.Equal(t, TokenFormatPaseto, cfg.Auth.TokenFormat)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 3, cfg.RateLimit.MaxRequests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing jwt secret",
			env:     map[string]string{},
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "short paseto key",
			env:     map[string]string{"TOKEN_FORMAT": "paseto", "PASETO_KEY": "short"},
			wantErr: "PASETO_KEY must be exactly 32 bytes",
		},
		{
			name:    "unknown token format",
			env:     map[string]string{"TOKEN_FORMAT": "saml", "JWT_SECRET": "x"},
			wantErr: "TOKEN_FORMAT must be",
		},
		{
			name:    "unknown env",
			env:     map[string]string{"APP_ENV": "staging", "JWT_SECRET": "x"},
			wantErr: "APP_ENV must be dev or prod",
		},
		{
			name:    "non-positive rate limit",
			env:     map[string]string{"JWT_SECRET": "x", "RATE_LIMIT_ENABLED": "true", "RATE_LIMIT_MAX": "-1"},
			wantErr: "RATE_LIMIT_MAX must be positive",
		},
		{
			name:    "zero rate limit window",
			env:     map[string]string{"JWT_SECRET": "x", "RATE_LIMIT_ENABLED": "true", "RATE_LIMIT_WINDOW": "0"},
			wantErr: "RATE_LIMIT_WINDOW must be positive",
		},
		{
			name:    "negative rate limit window",
			env:     map[string]string{"JWT_SECRET": "x", "RATE_LIMIT_ENABLED": "true", "RATE_LIMIT_WINDOW": "-30"},
			wantErr: "RATE_LIMIT_WINDOW must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	t.Run("discrete fields", func(t *testing.T) {
		c := DatabaseConfig{Host: "db", Port: "5433", User: "app", Password: "p@ss", DBName: "users"}
		assert.Equal(t, "postgres://app:p%40ss@db:5433/users?sslmode=disable", c.ConnectionString())
	})

	t.Run("ssl toggle", func(t *testing.T) {
		c := DatabaseConfig{Host: "db", Port: "5432", User: "app", Password: "pw", DBName: "users", SSL: true}
		assert.Equal(t, "postgres://app:pw@db:5432/users?sslmode=require", c.ConnectionString())
	})

	t.Run("url wins", func(t *testing.T) {
		c := DatabaseConfig{URL: "postgres://u:p@remote/db", Host: "ignored"}
		assert.Equal(t, "postgres://u:p@remote/db", c.ConnectionString())
	})
}
