package app_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clientdesk/internal/clients/app"
	"github.com/aussiebroadwan/clientdesk/pkg/httpx"
)

const devSecret = "dev-secret-dev-secret"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", devSecret)
	t.Setenv("DEBUG", "true")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 5*time.Minute, cfg.AccessTokenLifetime)
	require.Equal(t, 24*time.Hour, cfg.RefreshTokenLifetime)
	require.Equal(t, 10, cfg.PageSize)
	require.Equal(t, 100, cfg.MaxPageSize)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "clients.db", cfg.DatabaseFile)
	require.Equal(t, app.DriverSQLite, cfg.Driver())
	require.Equal(t, httpx.DefaultRateLimits(), cfg.RateLimits)
	require.True(t, cfg.CORSAllowAll())
	require.Zero(t, cfg.JWTLeeway)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SECRET_KEY", devSecret)
	t.Setenv("DEBUG", "true")
	t.Setenv("ACCESS_TOKEN_LIFETIME", "1m")
	t.Setenv("ALLOWED_HOSTS", "api.example.com,localhost")
	t.Setenv("RATELIMIT_STRICT_REQUESTS", "2")
	t.Setenv("RATELIMIT_STRICT_BURST", "1")
	t.Setenv("JWT_LEEWAY", "30s")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)

	require.Equal(t, time.Minute, cfg.AccessTokenLifetime)
	require.Equal(t, 30*time.Second, cfg.JWTLeeway)
	require.Equal(t, []string{"api.example.com", "localhost"}, cfg.AllowedHosts)
	require.Equal(t, 2, cfg.RateLimits.Strict.Requests)
	require.Equal(t, 1, cfg.RateLimits.Strict.Burst)
	require.Equal(t, httpx.DefaultRateLimits().Strict.WindowSec, cfg.RateLimits.Strict.WindowSec)
	require.Equal(t, httpx.DefaultRateLimits().Public, cfg.RateLimits.Public)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"DEBUG": "true"}},
		{name: "short secret", env: map[string]string{"DEBUG": "true", "SECRET_KEY": "short"}},
		{name: "refresh shorter than access", env: map[string]string{
			"DEBUG": "true", "SECRET_KEY": devSecret, "REFRESH_TOKEN_LIFETIME": "1m", "ACCESS_TOKEN_LIFETIME": "5m",
		}},
		{name: "max page below default", env: map[string]string{
			"DEBUG": "true", "SECRET_KEY": devSecret, "PAGE_SIZE": "50", "MAX_PAGE_SIZE": "20",
		}},
		{name: "negative leeway", env: map[string]string{
			"DEBUG": "true", "SECRET_KEY": devSecret, "JWT_LEEWAY": "-1s",
		}},
		{name: "unknown driver", env: map[string]string{
			"DEBUG": "true", "SECRET_KEY": devSecret, "DATABASE_DRIVER": "mysql",
		}},
		{name: "zero rate limit", env: map[string]string{
			"DEBUG": "true", "SECRET_KEY": devSecret, "RATELIMIT_LENIENT_REQUESTS": "0",
		}},
		{name: "production without hosts", env: map[string]string{
			"SECRET_KEY": "a-production-secret-that-is-long-enough",
		}},
		{name: "production short secret", env: map[string]string{
			"SECRET_KEY": devSecret, "ALLOWED_HOSTS": "api.example.com",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SECRET_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := app.LoadConfig()
			require.Error(t, err)
		})
	}
}

func TestLoadConfig_Production(t *testing.T) {
	t.Setenv("SECRET_KEY", "a-production-secret-that-is-long-enough")
	t.Setenv("ALLOWED_HOSTS", "api.example.com")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)
	require.False(t, cfg.Debug)
	require.False(t, cfg.CORSAllowAll())
}

func TestConfig_Driver(t *testing.T) {
	require.Equal(t, app.DriverSQLite, app.Config{}.Driver())
	require.Equal(t, app.DriverPostgres, app.Config{DatabaseURL: "postgres://x"}.Driver())
	require.Equal(t, app.DriverPostgres, app.Config{DBName: "clients"}.Driver())
	require.Equal(t, app.DriverSQLite, app.Config{DatabaseDriver: app.DriverSQLite, DBName: "clients"}.Driver())
}

func TestConfig_PostgresDSN(t *testing.T) {
	cfg := app.Config{
		DBName:     "clients",
		DBUser:     "app",
		DBPassword: "p@ss word",
		DBHost:     "db",
		DBPort:     5433,
		DBSSLMode:  "require",
	}
	require.Equal(t, "postgres://app:p%40ss%20word@db:5433/clients?sslmode=require", cfg.PostgresDSN())

	cfg.DatabaseURL = "postgres://override/db"
	require.Equal(t, "postgres://override/db", cfg.PostgresDSN())
}
