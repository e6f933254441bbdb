package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("MAIL_TRANSPORT", "")
	t.Setenv("RATE_LIMIT_ENABLED", "")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, time.Hour, cfg.AccessCookieTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "log", cfg.Mail.Transport)
	assert.Equal(t, 3, cfg.Mail.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Mail.Backoff)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("ACCESS_TOKEN_TTL", "10m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("CSRF_ENABLED", "on")
	t.Setenv("APP_BASE_URL", "https://tasks.example.com/")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 10*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Mail.KafkaBrokers)
	assert.True(t, cfg.CSRFEnabled)
	assert.Equal(t, "https://tasks.example.com", cfg.AppBaseURL)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			DBDriver:        "sqlite",
			DatabaseURL:     ":memory:",
			JWTSecret:       []byte("secret"),
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
			Mail:            MailConfig{Transport: "log", MaxAttempts: 3},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing signing key", mutate: func(c *Config) { c.JWTSecret = nil }, wantErr: "JWT_SECRET"},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "oracle" }, wantErr: "DB_DRIVER"},
		{name: "missing dsn", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL"},
		{name: "kafka without brokers", mutate: func(c *Config) { c.Mail.Transport = "kafka" }, wantErr: "KAFKA_BROKERS"},
		{name: "unknown transport", mutate: func(c *Config) { c.Mail.Transport = "pigeon" }, wantErr: "MAIL_TRANSPORT"},
		{name: "zero attempts", mutate: func(c *Config) { c.Mail.MaxAttempts = 0 }, wantErr: "MAIL_MAX_ATTEMPTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()

	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}
