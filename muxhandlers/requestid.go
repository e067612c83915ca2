package muxhandlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/vitalvas/swagdoc/mux"
)

// DefaultRequestIDHeader is the header carrying the request ID.
const DefaultRequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored by RequestIDMiddleware,
// or an empty string.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestIDConfig configures the Request ID middleware behaviour.
type RequestIDConfig struct {
	// HeaderName overrides DefaultRequestIDHeader.
	HeaderName string

	// TimeOrdered generates UUID v7 instead of UUID v4.
	TimeOrdered bool

	// TrustIncoming reuses the request ID sent by the client when it is a
	// valid UUID. Other values are replaced.
	TrustIncoming bool
}

// RequestIDMiddleware returns a middleware that assigns every request a
// UUID. The ID is stored in the request context, set on the request header
// for downstream handlers and echoed on the response.
//
// See: https://www.rfc-editor.org/rfc/rfc9562
func RequestIDMiddleware(cfg RequestIDConfig) mux.MiddlewareFunc {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = DefaultRequestIDHeader
	}

	generate := uuid.NewString
	if cfg.TimeOrdered {
		generate = func() string {
			return uuid.Must(uuid.NewV7()).String()
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cfg.TrustIncoming {
				if parsed, err := uuid.Parse(r.Header.Get(headerName)); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = generate()
			}

			r.Header.Set(headerName, id)
			w.Header().Set(headerName, id)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

			next.ServeHTTP(w, r)
		})
	}
}
