package muxhandlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vitalvas/swagdoc/mux"
)

var (
	uuidV4Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	uuidV7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
)

func TestRequestIDMiddleware(t *testing.T) {
	const incomingUUID = "0b6a1f4e-6e7c-4d2a-9a57-3c1d2f1e8b90"

	tests := []struct {
		name       string
		config     RequestIDConfig
		header     string
		incoming   string
		wantID     string
		wantFormat *regexp.Regexp
	}{
		{
			name:       "generates UUID v4 by default",
			wantFormat: uuidV4Regex,
		},
		{
			name:       "time ordered generates UUID v7",
			config:     RequestIDConfig{TimeOrdered: true},
			wantFormat: uuidV7Regex,
		},
		{
			name:       "does not trust incoming by default",
			incoming:   incomingUUID,
			wantFormat: uuidV4Regex,
		},
		{
			name:     "trusts a valid incoming id",
			config:   RequestIDConfig{TrustIncoming: true},
			incoming: incomingUUID,
			wantID:   incomingUUID,
		},
		{
			name:     "normalizes incoming id",
			config:   RequestIDConfig{TrustIncoming: true},
			incoming: "0B6A1F4E-6E7C-4D2A-9A57-3C1D2F1E8B90",
			wantID:   incomingUUID,
		},
		{
			name:       "replaces an invalid incoming id",
			config:     RequestIDConfig{TrustIncoming: true},
			incoming:   "<script>",
			wantFormat: uuidV4Regex,
		},
		{
			name:       "custom header name",
			config:     RequestIDConfig{HeaderName: "X-Trace-ID"},
			header:     "X-Trace-ID",
			wantFormat: uuidV4Regex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.header
			if header == "" {
				header = DefaultRequestIDHeader
			}

			var (
				ctxID    string
				headerID string
			)

			r := mux.NewRouter()
			r.Use(RequestIDMiddleware(tt.config))
			r.HandleFunc("/", func(_ http.ResponseWriter, req *http.Request) {
				ctxID = RequestIDFromContext(req.Context())
				headerID = req.Header.Get(header)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(header, tt.incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(header)
			if tt.wantID != "" {
				assert.Equal(t, tt.wantID, got)
			} else {
				assert.Regexp(t, tt.wantFormat, got)
				assert.NotEqual(t, tt.incoming, got)
			}
			assert.Equal(t, got, ctxID)
			assert.Equal(t, got, headerID)
		})
	}
}

func TestRequestIDMiddlewareUnique(t *testing.T) {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware(RequestIDConfig{}))
	r.HandleFunc("/", func(http.ResponseWriter, *http.Request) {})

	seen := make(map[string]bool)
	for range 50 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		id := w.Header().Get(DefaultRequestIDHeader)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))

	ctx := context.WithValue(context.Background(), requestIDKey{}, "abc")
	assert.Equal(t, "abc", RequestIDFromContext(ctx))
}
