package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_API_TOKENS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.5, cfg.Zones.ClusterRadiusKm)
	assert.Equal(t, 3, cfg.Zones.PublicTopN)
	assert.Equal(t, 30*24*time.Hour, cfg.Zones.PublicWindow)
	assert.Equal(t, 5*time.Minute, cfg.Zones.CacheTTL)
	assert.Equal(t, "zones", cfg.Zones.EventsTopic)
	assert.Empty(t, cfg.Auth.APITokens)
}

func TestLoad_UnsetEnvironmentRequiresTokens(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("AUTH_API_TOKENS", "")

	cfg, err := Load()

	require.Error(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Contains(t, err.Error(), "api tokens")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("ZONES_CLUSTER_RADIUS_KM", "1.25")
	t.Setenv("ZONES_PUBLIC_TOP_N", "5")
	t.Setenv("ZONES_PUBLIC_WINDOW", "168h")
	t.Setenv("AUTH_API_TOKENS", "alpha, beta,,")
	t.Setenv("SERVER_CORS_ORIGINS", "https://denguecero.pe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1.25, cfg.Zones.ClusterRadiusKm)
	assert.Equal(t, 5, cfg.Zones.PublicTopN)
	assert.Equal(t, 7*24*time.Hour, cfg.Zones.PublicWindow)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Auth.APITokens)
	assert.Equal(t, []string{"https://denguecero.pe"}, cfg.Server.CorsOrigins)
}

func TestLoad_MalformedFallsBackToDefault(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("ZONES_PUBLIC_TOP_N", "three")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Zones.PublicTopN)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Environment: "production",
			Zones: ZonesConfig{
				ClusterRadiusKm: 0.5,
				PublicTopN:      3,
				PublicWindow:    time.Hour,
			},
			Auth: AuthConfig{APITokens: []string{"token"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero radius", func(c *Config) { c.Zones.ClusterRadiusKm = 0 }, true},
		{"negative top", func(c *Config) { c.Zones.PublicTopN = -1 }, true},
		{"zero window", func(c *Config) { c.Zones.PublicWindow = 0 }, true},
		{"no tokens in production", func(c *Config) { c.Auth.APITokens = nil }, true},
		{"no tokens in development", func(c *Config) {
			c.Auth.APITokens = nil
			c.Environment = "development"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInitLogger(t *testing.T) {
	defer zap.ReplaceGlobals(zap.NewNop())

	logger, err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.Same(t, logger, zap.L())

	_, err = InitLogger(LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
