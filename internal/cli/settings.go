package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vitalvas/swagdoc/config"
	"github.com/vitalvas/swagdoc/internal/exampleapp"
	"github.com/vitalvas/swagdoc/mux"
	"github.com/vitalvas/swagdoc/swagger"
)

// flagKeys maps command flags to the settings they override.
var flagKeys = map[string]string{
	"listen":         "listen",
	"max-conns":      "max_conns",
	"base-url":       "base_url",
	"prefix":         "swagger_prefix",
	"api-version":    "api_version",
	"log-format":     "log_format",
	"enable-methods": "enabled_methods",
}

// loadConfig merges defaults, the config file, SWAGDOC_* variables and the
// flags set on the command line, in increasing priority.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := config.ReadFile(v, path); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	if verbose {
		v.Set("log_level", "debug")
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return nil, newUsageError(err.Error())
	}
	return cfg, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		if bindErr := v.BindPFlag(key, f); bindErr != nil {
			err = fmt.Errorf("bind flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

// newLogger builds the process logger from the log settings.
func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// newApp builds the item service configured by cfg, wrapped by the given
// middleware.
func newApp(cfg *config.Config, middleware ...mux.MiddlewareFunc) (*exampleapp.App, error) {
	return exampleapp.New(exampleapp.Options{
		Info: swagger.Info{
			APIVersion: cfg.APIVersion,
			BasePath:   cfg.BaseURL,
		},
		Handle: swagger.HandleConfig{
			Prefix:          cfg.SwaggerPrefix,
			BaseURL:         cfg.BaseURL,
			Title:           cfg.Title,
			Description:     cfg.Description,
			APIKey:          cfg.APIKey,
			NotFoundOnEmpty: cfg.NotFoundOnEmpty,
		},
		EnabledMethods:    cfg.EnabledMethods,
		ExcludeNamespaces: cfg.ExcludeNamespaces,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		Middleware:        middleware,
	})
}
