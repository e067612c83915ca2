package muxhandlers

import (
	"net/http"
	"runtime/debug"

	"github.com/vitalvas/swagdoc/mux"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// LogFunc is an optional callback invoked with the request, the
	// recovered value and the stack of the panicking goroutine. When nil,
	// no logging is performed.
	LogFunc func(r *http.Request, err any, stack []byte)

	// DisableStack skips capturing the stack; LogFunc then receives nil.
	DisableStack bool
}

// RecoveryMiddleware returns a middleware that recovers from panics in
// downstream handlers and answers 500 Internal Server Error. A panic with
// http.ErrAbortHandler is re-raised so that the server aborts the response.
func RecoveryMiddleware(cfg RecoveryConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rv := recover()
				if rv == nil {
					return
				}
				if rv == http.ErrAbortHandler {
					panic(rv)
				}

				if cfg.LogFunc != nil {
					var stack []byte
					if !cfg.DisableStack {
						stack = debug.Stack()
					}
					cfg.LogFunc(r, rv, stack)
				}

				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
