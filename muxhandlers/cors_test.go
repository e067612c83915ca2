package muxhandlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/swagdoc/mux"
)

type corsSpecFixture struct{}

func (corsSpecFixture) Get(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type corsOptionsFixture struct{}

func (corsOptionsFixture) Post(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusCreated)
}

func (corsOptionsFixture) Options(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func newCORSRouter(t *testing.T, cfg CORSConfig) *mux.Router {
	t.Helper()

	r := mux.NewRouter()
	r.Handle("/swagger/spec", corsSpecFixture{})
	r.Handle("/items", corsOptionsFixture{})

	mw, err := CORSMiddleware(r, cfg)
	require.NoError(t, err)
	r.Use(mw)
	return r
}

func corsRequest(method, target, origin string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func TestCORSMiddleware(t *testing.T) {
	t.Run("allowed origin on simple request", func(t *testing.T) {
		r := newCORSRouter(t, CORSConfig{
			AllowedOrigins: []string{"https://docs.example.com"},
			ExposeHeaders:  []string{"X-Request-ID"},
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, corsRequest(http.MethodGet, "/swagger/spec", "https://DOCS.example.com", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://DOCS.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
		assert.Contains(t, w.Header().Values("Vary"), "Origin")
	})

	t.Run("disallowed origin", func(t *testing.T) {
		r := newCORSRouter(t, CORSConfig{AllowedOrigins: []string{"https://docs.example.com"}})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, corsRequest(http.MethodGet, "/swagger/spec", "https://evil.example.org", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Values("Vary"), "Origin")
	})

	t.Run("wildcard origin", func(t *testing.T) {
		r := newCORSRouter(t, CORSConfig{AllowedOrigins: []string{"*"}})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, corsRequest(http.MethodGet, "/swagger/spec", "https://any.example.net", nil))

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Values("Vary"))
	})

	t.Run("subdomain pattern", func(t *testing.T) {
		r := newCORSRouter(t, CORSConfig{AllowedOrigins: []string{"https://*.example.com"}})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, corsRequest(http.MethodGet, "/swagger/spec", "https://ui.example.com", nil))
		assert.Equal(t, "https://ui.example.com", w.Header().Get("Access-Control-Allow-Origin"))

		w = httptest.NewRecorder()
		r.ServeHTTP(w, corsRequest(http.MethodGet, "/swagger/spec", "https://example.com", nil))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight for handler without options", func(t *testing.T) {
		r := newCORSRouter(t, CORSConfig{AllowedOrigins: []string{"https://docs.example.com"}, MaxAge: 600})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, corsRequest(http.MethodOptions, "/swagger/spec", "https://docs.example.com", map[string]string{
			"Access-Control-Request-Method":  "GET",
			"Access-Control-Request-Headers": "X-Custom",
		}))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://docs.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, HEAD", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "X-Custom", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("preflight for handler with options", func(t *testing.T) {
		r := newCORSRouter(t, CORSConfig{
			AllowedOrigins: []string{"https://docs.example.com"},
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, corsRequest(http.MethodOptions, "/items", "https://docs.example.com", map[string]string{
			"Access-Control-Request-Method": "POST",
		}))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, X-Request-ID", w.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("configured methods", func(t *testing.T) {
		r := newCORSRouter(t, CORSConfig{
			AllowedOrigins: []string{"https://docs.example.com"},
			AllowedMethods: []string{"GET"},
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, corsRequest(http.MethodOptions, "/items", "https://docs.example.com", map[string]string{
			"Access-Control-Request-Method": "GET",
		}))
		assert.Equal(t, "GET", w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("plain options is not a preflight", func(t *testing.T) {
		r := newCORSRouter(t, CORSConfig{AllowedOrigins: []string{"https://docs.example.com"}})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, corsRequest(http.MethodOptions, "/items", "", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, corsRequest(http.MethodOptions, "/swagger/spec", "", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("keeps previous method not allowed handler", func(t *testing.T) {
		r := mux.NewRouter()
		r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		r.Handle("/swagger/spec", corsSpecFixture{})

		mw, err := CORSMiddleware(r, CORSConfig{AllowedOrigins: []string{"*"}})
		require.NoError(t, err)
		r.Use(mw)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, corsRequest(http.MethodPost, "/swagger/spec", "https://a.example.com", nil))
		assert.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("credentials", func(t *testing.T) {
		r := newCORSRouter(t, CORSConfig{
			AllowedOrigins:   []string{"https://docs.example.com"},
			AllowCredentials: true,
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, corsRequest(http.MethodGet, "/swagger/spec", "https://docs.example.com", nil))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestCORSMiddlewareConfigErrors(t *testing.T) {
	_, err := CORSMiddleware(mux.NewRouter(), CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true})
	assert.ErrorIs(t, err, ErrWildcardCredentials)

	_, err = CORSMiddleware(mux.NewRouter(), CORSConfig{AllowedOrigins: []string{"https://*.*.example.com"}})
	assert.ErrorIs(t, err, ErrOriginPattern)
}
