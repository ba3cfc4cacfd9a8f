package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearPlatformEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearPlatformEnv(t)

	cfg, err := loadConfig([]string{})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "http://localhost:8081/api", cfg.BackendURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTimeout)
	assert.Equal(t, time.Hour, cfg.VehicleCache.TTL)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
	assert.Equal(t, 15*time.Second, cfg.Graceful.ShutdownTimeout)
}

func TestLoadConfig_PlatformDefaults(t *testing.T) {
	clearPlatformEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/storefront")

	cfg, err := loadConfig([]string{})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Addr)
	assert.Equal(t, "postgres://u:p@db:5432/storefront", cfg.DatabaseURL)
}

func TestLoadConfig_ExplicitAddrWins(t *testing.T) {
	clearPlatformEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("STOREFRONT_ADDR", "127.0.0.1:7000")

	cfg, err := loadConfig([]string{})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Addr)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			BackendURL:         "http://backend:8081/api",
			SessionIdleTimeout: time.Hour,
			Coupons:            CouponsConfig{FalsePositiveRate: 0.01},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty backend falls back", mutate: func(c *Config) { c.BackendURL = "" }},
		{name: "relative backend", mutate: func(c *Config) { c.BackendURL = "/api" }, wantErr: "invalid backend URL"},
		{name: "zero idle timeout", mutate: func(c *Config) { c.SessionIdleTimeout = 0 }, wantErr: "session idle timeout"},
		{name: "negative lookup rate", mutate: func(c *Config) { c.VehicleCache.Rate = -1 }, wantErr: "vehicle lookup rate"},
		{name: "false positive rate", mutate: func(c *Config) { c.Coupons.FalsePositiveRate = 1 }, wantErr: "false positive rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cfg.BackendURL)
		})
	}
}
