package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vitalvas/swagdoc/config"
	"github.com/vitalvas/swagdoc/mux"
	"github.com/vitalvas/swagdoc/muxhandlers"
	"golang.org/x/net/netutil"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the item service with its documentation endpoints",
		Example: strings.TrimSpace(`  swagdoc serve --listen :8080
  swagdoc --config swagdoc.yaml serve --max-conns 256`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}

			ln, err := listen(cfg)
			if err != nil {
				return err
			}

			return serve(cmd.Context(), cfg, logger, ln)
		},
	}

	flags := cmd.Flags()
	flags.String("listen", "", "Address to listen on (default :8080)")
	flags.Int("max-conns", 0, "Maximum simultaneous connections, 0 for unlimited")
	flags.String("base-url", "", "Base URL of the documented API (default /)")
	flags.String("prefix", "", "Path of the documentation endpoints (default /swagger)")
	flags.String("api-version", "", "Version of the documented API")
	flags.String("log-format", "", "Log format: text or json")
	flags.StringSlice("enable-methods", nil, "HTTP methods to document")

	return cmd
}

// listen opens the listening socket, capped at cfg.MaxConns connections.
func listen(cfg *config.Config) (net.Listener, error) {
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", cfg.Listen, err)
	}
	if cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, cfg.MaxConns)
	}
	return ln, nil
}

// serve runs the item service on ln until ctx is done, then shuts down
// gracefully within cfg.ShutdownTimeout.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, ln net.Listener) error {
	chain, err := middleware(cfg, logger)
	if err != nil {
		return err
	}

	app, err := newApp(cfg, chain...)
	if err != nil {
		return err
	}

	if err := useCORS(app.Router, cfg); err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	logger.Info("serving",
		slog.String("addr", ln.Addr().String()),
		slog.String("docs", cfg.SwaggerPrefix+"/spec.html"),
		slog.Int("max_conns", cfg.MaxConns),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// middleware returns the server chain, outermost first. The application
// installs its own body checks inside it.
func middleware(cfg *config.Config, logger *slog.Logger) ([]mux.MiddlewareFunc, error) {
	chain := []mux.MiddlewareFunc{
		muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{
			LogFunc: func(req *http.Request, err any, stack []byte) {
				logger.Error("panic recovered",
					slog.String("method", req.Method),
					slog.String("path", req.URL.Path),
					slog.String("request_id", muxhandlers.RequestIDFromContext(req.Context())),
					slog.Any("error", err),
					slog.String("stack", string(stack)),
				)
			},
		}),
	}

	if len(cfg.TrustedProxies) > 0 {
		proxy, err := muxhandlers.ProxyHeadersMiddleware(muxhandlers.ProxyHeadersConfig{
			TrustedProxies: cfg.TrustedProxies,
		})
		if err != nil {
			return nil, fmt.Errorf("proxy headers: %w", err)
		}
		chain = append(chain, proxy)
	}

	chain = append(chain,
		muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{TrustIncoming: true}),
		muxhandlers.AccessLogMiddleware(muxhandlers.AccessLogConfig{Logger: logger}),
	)

	if cfg.CompressMinLength >= 0 {
		compress, err := muxhandlers.CompressionMiddleware(muxhandlers.CompressionConfig{
			MinLength: cfg.CompressMinLength,
		})
		if err != nil {
			return nil, fmt.Errorf("compression: %w", err)
		}
		chain = append(chain, compress)
	}

	return chain, nil
}

// useCORS enables CORS on r when origins are configured. It needs the
// router to answer preflight requests, so it is installed last.
func useCORS(r *mux.Router, cfg *config.Config) error {
	if len(cfg.CORSOrigins) == 0 {
		return nil
	}

	cors, err := muxhandlers.CORSMiddleware(r, muxhandlers.CORSConfig{
		AllowedOrigins: cfg.CORSOrigins,
		ExposeHeaders:  []string{muxhandlers.DefaultRequestIDHeader},
	})
	if err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	r.Use(cors)
	return nil
}
