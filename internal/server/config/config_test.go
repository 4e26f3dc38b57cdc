package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profilesYAML = `
development:
  port: 3000
  database_dsn: postgres://dev
  jwt_secret: dev-secret
production:
  port: 8443
  database_dsn: postgres://prod
  jwt_secret: prod-secret
  reconnect_interval: 10s
  reconcile_interval: 1h
  tls_cert_file: server.cert
  tls_key_file: server.key
`

func writeProfiles(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func noEnv(string) string { return "" }

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 3000, c.Port)
	assert.Equal(t, ":3000", c.Addr())
	assert.Equal(t, "secretKey", c.JWTSecret)
	assert.Equal(t, time.Hour, c.TokenValidityDuration)
	assert.Equal(t, 5*time.Second, c.ReconnectInterval)
	assert.Equal(t, time.Duration(0), c.ReconcileInterval)
	assert.False(t, c.TLSEnabled())
	require.NoError(t, c.Validate())
}

func TestLoad_NoArgsUsesDefaults(t *testing.T) {
	c, err := Load(nil, noEnv)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, c))
}

func TestLoad_SelectsProfileByPositionalName(t *testing.T) {
	path := writeProfiles(t, profilesYAML)

	c, err := Load([]string{"-c", path, "production"}, noEnv)
	require.NoError(t, err)

	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 8443, c.Port)
	assert.Equal(t, "postgres://prod", c.DatabaseDSN)
	assert.Equal(t, "prod-secret", c.JWTSecret)
	assert.Equal(t, 10*time.Second, c.ReconnectInterval)
	assert.Equal(t, time.Hour, c.ReconcileInterval)
	assert.True(t, c.TLSEnabled())
	// untouched by the profile
	assert.Equal(t, time.Hour, c.TokenValidityDuration)
}

func TestLoad_EnvironmentPrecedence(t *testing.T) {
	path := writeProfiles(t, profilesYAML)
	getenv := func(k string) string {
		if k == "APP_ENV" {
			return "production"
		}
		return ""
	}

	t.Run("APP_ENV when nothing else given", func(t *testing.T) {
		c, err := Load([]string{"-c", path}, getenv)
		require.NoError(t, err)
		assert.Equal(t, "production", c.Environment)
	})

	t.Run("positional beats APP_ENV", func(t *testing.T) {
		c, err := Load([]string{"-c", path, "development"}, getenv)
		require.NoError(t, err)
		assert.Equal(t, "dev-secret", c.JWTSecret)
	})

	t.Run("-env beats positional", func(t *testing.T) {
		c, err := Load([]string{"-c", path, "-env", "production", "development"}, noEnv)
		require.NoError(t, err)
		assert.Equal(t, "prod-secret", c.JWTSecret)
	})
}

func TestLoad_FlagsOverrideProfile(t *testing.T) {
	path := writeProfiles(t, profilesYAML)

	c, err := Load([]string{
		"-c", path, "-env", "development",
		"-p", "9090", "-d", "postgres://flag", "-s", "flag-secret",
		"-t", "30m", "-reconnect", "1s", "-reconcile", "5m", "-grpc", "", "-log-level", "debug",
	}, noEnv)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Port)
	assert.Equal(t, "postgres://flag", c.DatabaseDSN)
	assert.Equal(t, "flag-secret", c.JWTSecret)
	assert.Equal(t, 30*time.Minute, c.TokenValidityDuration)
	assert.Equal(t, time.Second, c.ReconnectInterval)
	assert.Equal(t, 5*time.Minute, c.ReconcileInterval)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoad_UnknownEnvironmentUsesDevelopment(t *testing.T) {
	path := writeProfiles(t, profilesYAML)

	cfg, err := Load([]string{"-c", path, "staging"}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "postgres://dev", cfg.DatabaseDSN)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing profile without development", func(t *testing.T) {
		path := writeProfiles(t, "production:\n  port: 8443\n")
		_, err := Load([]string{"-c", path, "staging"}, noEnv)
		assert.ErrorContains(t, err, `profile "staging" not found`)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load([]string{"-c", filepath.Join(t.TempDir(), "nope.yaml")}, noEnv)
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeProfiles(t, "development: [this is: not valid")
		_, err := Load([]string{"-c", path}, noEnv)
		assert.Error(t, err)
	})

	t.Run("invalid flag value", func(t *testing.T) {
		_, err := Load([]string{"-p", "many"}, noEnv)
		assert.Error(t, err)
	})

	t.Run("half configured tls", func(t *testing.T) {
		_, err := Load([]string{"-tls-cert", "server.cert"}, noEnv)
		assert.ErrorContains(t, err, "tls")
	})
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 0 }},
		{"dsn", func(c *Config) { c.DatabaseDSN = "" }},
		{"secret", func(c *Config) { c.JWTSecret = "" }},
		{"token validity", func(c *Config) { c.TokenValidityDuration = 0 }},
		{"reconnect", func(c *Config) { c.ReconnectInterval = -time.Second }},
		{"health", func(c *Config) { c.HealthCheckInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
