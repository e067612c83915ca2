package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "swagdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/", cfg.BaseURL)
	assert.Equal(t, "/swagger", cfg.SwaggerPrefix)
	assert.Equal(t, "v1.0", cfg.APIVersion)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, []string{"get", "post", "put", "patch", "delete"}, cfg.EnabledMethods)
	assert.Empty(t, cfg.ExcludeNamespaces)
	assert.False(t, cfg.NotFoundOnEmpty)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Zero(t, cfg.MaxConns)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, 1024, cfg.CompressMinLength)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Empty(t, cfg.TrustedProxies)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
base_url: /api/
swagger_prefix: /docs/
api_version: v2.0
api_key: special-key
enabled_methods: [get, delete]
exclude_namespaces: [/internal]
not_found_on_empty: true
listen: 127.0.0.1:9000
max_conns: 64
shutdown_timeout: 3s
max_body_bytes: 4096
cors_origins: ["https://*.example.com"]
log_level: DEBUG
log_format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/api/", cfg.BaseURL)
	assert.Equal(t, "/docs", cfg.SwaggerPrefix)
	assert.Equal(t, "v2.0", cfg.APIVersion)
	assert.Equal(t, "special-key", cfg.APIKey)
	assert.Equal(t, []string{"get", "delete"}, cfg.EnabledMethods)
	assert.Equal(t, []string{"/internal"}, cfg.ExcludeNamespaces)
	assert.True(t, cfg.NotFoundOnEmpty)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.Equal(t, 64, cfg.MaxConns)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(4096), cfg.MaxBodyBytes)
	assert.Equal(t, []string{"https://*.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("SWAGDOC_API_VERSION", "v3")
	t.Setenv("SWAGDOC_ENABLED_METHODS", "get,post")
	t.Setenv("SWAGDOC_MAX_CONNS", "8")

	path := writeConfig(t, "api_version: v2\nmax_conns: 4\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "v3", cfg.APIVersion)
	assert.Equal(t, []string{"get", "post"}, cfg.EnabledMethods)
	assert.Equal(t, 8, cfg.MaxConns)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := Load(writeConfig(t, "listen: [unclosed\n"))
		require.Error(t, err)
	})

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown method", content: "enabled_methods: [get, fetch]\n"},
		{name: "negative max conns", content: "max_conns: -1\n"},
		{name: "zero max body bytes", content: "max_body_bytes: 0\n"},
		{name: "relative prefix", content: "swagger_prefix: docs\n"},
		{name: "log level", content: "log_level: loud\n"},
		{name: "log format", content: "log_format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "info", want: slog.LevelInfo},
		{level: "warn", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.level}
			got, err := cfg.SlogLevel()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
