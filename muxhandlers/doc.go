// Package muxhandlers provides HTTP middleware for the mux router.
//
// Middleware are configured with a config struct and installed with
// Router.Use. Registration order is wrapping order: the first middleware
// sees the request first.
//
//	r.Use(
//	    muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{
//	        LogFunc: func(r *http.Request, err any, stack []byte) {
//	            logger.Error("panic", "path", r.URL.Path, "error", err)
//	        },
//	    }),
//	    muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}),
//	    muxhandlers.AccessLogMiddleware(muxhandlers.AccessLogConfig{Logger: logger}),
//	)
//
// # CORS Middleware
//
// CORSMiddleware validates the Origin header (RFC 6454), answers preflight
// requests and advertises the verbs the matched handler implements:
//
//	mw, err := muxhandlers.CORSMiddleware(r, muxhandlers.CORSConfig{
//	    AllowedOrigins: []string{"https://*.example.com"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.Use(mw)
//
// # Proxy Headers and Compression
//
// ProxyHeadersMiddleware applies X-Forwarded-Proto and X-Forwarded-Host
// from trusted peers, so the documentation basePath names the public URL.
// CompressionMiddleware gzips JSON, YAML and HTML bodies above a size
// threshold.
package muxhandlers
