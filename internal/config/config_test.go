package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("PORT", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
	require.Equal(t, ":3000", cfg.Addr())
	require.False(t, cfg.IsProduction())
	require.Empty(t, cfg.TrustedProxies)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
db_driver: mysql
db_host: db.internal
jwt_ttl: 2h
cors_origins:
  - https://app.example.com
auth_rate_limit_burst: 3
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("JWT_TTL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("AUTH_RATE_LIMIT_BURST", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, "override.internal", cfg.DBHost)
	require.Equal(t, 2*time.Hour, cfg.JWTTTL)
	require.Equal(t, []string{"https://app.example.com"}, cfg.CORSOrigins)
	require.Equal(t, 3, cfg.AuthRateLimitBurst)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_TTL", "soon")
	t.Setenv("AUTH_RATE_LIMIT_PER_MIN", "many")
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
	require.Equal(t, 30, cfg.AuthRateLimitPerMin)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_ReleaseModeRequiresSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("GIN_MODE", "release")

	for _, secret := range []string{"", DefaultJWTSecret} {
		t.Setenv("JWT_SECRET", secret)
		_, err := Load()
		require.Error(t, err, "secret %q", secret)
	}

	// An empty YAML value is not replaced by the default either
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jwt_secret: \"  \"\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
}

func TestLoad_DebugModeAllowsDefaultSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
}
