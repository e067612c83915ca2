package muxhandlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/swagdoc/mux"
)

type uploadFixture struct{}

func (uploadFixture) Post(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		if mux.BodyTooLarge(err) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	_, _ = w.Write(body)
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	setup := func(t *testing.T, maxBytes int64) *mux.Router {
		t.Helper()

		mw, err := RequestSizeLimitMiddleware(RequestSizeLimitConfig{MaxBytes: maxBytes})
		require.NoError(t, err)

		r := mux.NewRouter()
		r.Use(mw)
		r.Handle("/upload", uploadFixture{})
		return r
	}

	t.Run("invalid max size", func(t *testing.T) {
		for _, size := range []int64{0, -1} {
			_, err := RequestSizeLimitMiddleware(RequestSizeLimitConfig{MaxBytes: size})
			assert.ErrorIs(t, err, ErrInvalidMaxSize)
		}
	})

	tests := []struct {
		name          string
		body          string
		unknownLength bool
		wantCode      int
		wantBody      string
	}{
		{name: "under the limit", body: "hello", wantCode: http.StatusOK, wantBody: "hello"},
		{name: "at the limit", body: strings.Repeat("a", 16), wantCode: http.StatusOK, wantBody: strings.Repeat("a", 16)},
		{name: "declared length over the limit", body: strings.Repeat("a", 17), wantCode: http.StatusRequestEntityTooLarge},
		{name: "unknown length under the limit", body: "hello", unknownLength: true, wantCode: http.StatusOK, wantBody: "hello"},
		{name: "unknown length over the limit", body: strings.Repeat("a", 116), unknownLength: true, wantCode: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setup(t, 16)

			req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(tt.body))
			if tt.unknownLength {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}

	t.Run("rejected before the handler runs", func(t *testing.T) {
		r := setup(t, 16)

		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(strings.Repeat("a", 32)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "close", w.Header().Get("Connection"))
		assert.Contains(t, w.Body.String(), http.StatusText(http.StatusRequestEntityTooLarge))
	})
}
