// Package config loads the settings of the documentation server from
// defaults, an optional YAML file and SWAGDOC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/vitalvas/swagdoc/mux"
)

// EnvPrefix prefixes the environment variables overriding settings, e.g.
// SWAGDOC_API_VERSION.
const EnvPrefix = "SWAGDOC"

// ErrInvalid is returned when a loaded setting has an unusable value.
var ErrInvalid = errors.New("config: invalid setting")

// Config holds every setting.
type Config struct {
	// BaseURL is resolved against the request URL to build the basePath
	// of the API declaration.
	BaseURL string `mapstructure:"base_url"`

	// SwaggerPrefix is the path the documentation endpoints live under.
	SwaggerPrefix string `mapstructure:"swagger_prefix"`

	APIVersion string `mapstructure:"api_version"`
	APIKey     string `mapstructure:"api_key"`

	// Title and Description label the UI page and the resource listing.
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`

	// EnabledMethods lists the HTTP verbs whose operations are documented.
	EnabledMethods []string `mapstructure:"enabled_methods"`

	// ExcludeNamespaces lists route pattern prefixes left undocumented.
	ExcludeNamespaces []string `mapstructure:"exclude_namespaces"`

	// NotFoundOnEmpty answers 404 when no route is documented.
	NotFoundOnEmpty bool `mapstructure:"not_found_on_empty"`

	Listen string `mapstructure:"listen"`

	// MaxConns caps simultaneous connections; zero means unlimited.
	MaxConns int `mapstructure:"max_conns"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MaxBodyBytes bounds request bodies of the item service.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`

	// TrustedProxies lists the addresses and CIDR ranges whose
	// X-Forwarded-* headers are honored. Empty disables proxy handling.
	TrustedProxies []string `mapstructure:"trusted_proxies"`

	// CompressMinLength is the response size from which gzip applies;
	// a negative value disables compression.
	CompressMinLength int `mapstructure:"compress_min_length"`

	// CORSOrigins enables CORS on all routes for the listed origins.
	CORSOrigins []string `mapstructure:"cors_origins"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Load reads the configuration. Without a path only defaults and the
// environment are used; a path that cannot be read is an error.
func Load(path string) (*Config, error) {
	v := New()
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return Decode(v)
}

// ReadFile merges the YAML file at path into v, whatever its extension.
// An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return nil
}

// New returns a viper instance with defaults and environment binding, ready
// for flags to be bound on top.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "/")
	v.SetDefault("swagger_prefix", "/swagger")
	v.SetDefault("api_version", "v1.0")
	v.SetDefault("api_key", "")
	v.SetDefault("title", "API documentation")
	v.SetDefault("description", "API Spec")
	v.SetDefault("enabled_methods", []string{"get", "post", "put", "patch", "delete"})
	v.SetDefault("exclude_namespaces", []string{})
	v.SetDefault("not_found_on_empty", false)

	v.SetDefault("listen", ":8080")
	v.SetDefault("max_conns", 0)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("max_body_bytes", 1<<20)
	v.SetDefault("trusted_proxies", []string{})
	v.SetDefault("compress_min_length", 1024)
	v.SetDefault("cors_origins", []string{})

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.SwaggerPrefix = strings.TrimRight(c.SwaggerPrefix, "/")
	c.EnabledMethods = trimAll(c.EnabledMethods)
	c.ExcludeNamespaces = trimAll(c.ExcludeNamespaces)
	c.CORSOrigins = trimAll(c.CORSOrigins)
	c.TrustedProxies = trimAll(c.TrustedProxies)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	if c.SwaggerPrefix != "" && !strings.HasPrefix(c.SwaggerPrefix, "/") {
		return fmt.Errorf("%w: swagger_prefix %q must start with /", ErrInvalid, c.SwaggerPrefix)
	}
	for _, m := range c.EnabledMethods {
		if !mux.IsMethod(m) {
			return fmt.Errorf("%w: enabled_methods: %q is not an HTTP method", ErrInvalid, m)
		}
	}
	if c.MaxConns < 0 {
		return fmt.Errorf("%w: max_conns must not be negative", ErrInvalid)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalid)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown_timeout must not be negative", ErrInvalid)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q (want text or json)", ErrInvalid, c.LogFormat)
	}
	return nil
}

// SlogLevel returns the slog level named by LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return level, nil
}
