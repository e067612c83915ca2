package mux

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemHandler struct{}

func (itemHandler) Get(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "get:"+strings.Join(Args(r), ","))
}

func (itemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

type postOnlyHandler struct{}

func (postOnlyHandler) Post(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusCreated)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter()
	require.NotNil(t, r)
	assert.Empty(t, r.Routes())
}

func TestRouterServeHTTP(t *testing.T) {
	t.Run("dispatches to verb method", func(t *testing.T) {
		r := NewRouter()
		r.Handle(`/items/([^/]+)`, itemHandler{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "get:42", w.Body.String())
	})

	t.Run("passes every capture group in order", func(t *testing.T) {
		r := NewRouter()
		r.Handle(`/items/([^/]+)/cases/([^/]+)`, itemHandler{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/a/cases/b", nil))

		assert.Equal(t, "get:a,b", w.Body.String())
	})

	t.Run("pattern is anchored", func(t *testing.T) {
		r := NewRouter()
		r.Handle(`/items`, itemHandler{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/extra", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 404 for unmatched path", func(t *testing.T) {
		r := NewRouter()
		r.Handle(`/items`, itemHandler{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notfound", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("uses custom NotFoundHandler", func(t *testing.T) {
		r := NewRouter()
		r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, "custom 404")
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notfound", nil))

		assert.Equal(t, "custom 404", w.Body.String())
	})

	t.Run("returns 405 with Allow header", func(t *testing.T) {
		r := NewRouter()
		r.Handle(`/items/([^/]+)`, itemHandler{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/items/1", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET, HEAD, DELETE", w.Header().Get("Allow"))
	})

	t.Run("uses custom MethodNotAllowedHandler", func(t *testing.T) {
		r := NewRouter()
		r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		r.Handle(`/items`, postOnlyHandler{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items", nil))

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Equal(t, "POST", w.Header().Get("Allow"))
	})

	t.Run("first matching route wins", func(t *testing.T) {
		r := NewRouter()
		r.HandleFunc(`/items/special`, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "special")
		})
		r.Handle(`/items/([^/]+)`, itemHandler{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/special", nil))

		assert.Equal(t, "special", w.Body.String())
	})

	t.Run("cleans dot segments", func(t *testing.T) {
		r := NewRouter()
		r.Handle(`/items/([^/]+)`, itemHandler{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/other/../items/7", nil))

		assert.Equal(t, "get:7", w.Body.String())
	})

	t.Run("skip clean keeps raw path", func(t *testing.T) {
		r := NewRouter().SkipClean(true)
		r.Handle(`/items/([^/]+)`, itemHandler{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/other/../items/7", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid pattern never matches", func(t *testing.T) {
		r := NewRouter()
		route := r.Handle(`/items/([^/]+`, itemHandler{})
		require.Error(t, route.GetError())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/1", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRouterMiddleware(t *testing.T) {
	t.Run("wraps matched handlers in order", func(t *testing.T) {
		r := NewRouter()
		var order []string
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, "first")
				next.ServeHTTP(w, req)
			})
		}, func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, "second")
				next.ServeHTTP(w, req)
			})
		})
		r.Handle(`/items`, itemHandler{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items", nil))

		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("not applied to unmatched requests", func(t *testing.T) {
		r := NewRouter()
		var called bool
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				called = true
				next.ServeHTTP(w, req)
			})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.False(t, called)
	})

	t.Run("cached handler is reused per method", func(t *testing.T) {
		r := NewRouter()
		var wraps int
		r.Use(func(next http.Handler) http.Handler {
			wraps++
			return next
		})
		r.Handle(`/items/([^/]+)`, itemHandler{})

		for range 3 {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))
		}
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/items/1", nil))

		assert.Equal(t, 2, wraps)
	})
}

func TestRouterWalk(t *testing.T) {
	r := NewRouter()
	r.Handle(`/a`, itemHandler{})
	r.Handle(`/b/([^/]+)`, itemHandler{})
	r.Handle(`/c`, postOnlyHandler{})

	t.Run("visits routes in registration order", func(t *testing.T) {
		var patterns []string
		err := r.Walk(func(route *Route) error {
			patterns = append(patterns, route.GetPattern())
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{`/a`, `/b/([^/]+)`, `/c`}, patterns)
	})

	t.Run("skip route stops without error", func(t *testing.T) {
		var visited int
		err := r.Walk(func(_ *Route) error {
			visited++
			return SkipRoute
		})
		require.NoError(t, err)
		assert.Equal(t, 1, visited)
	})

	t.Run("propagates errors", func(t *testing.T) {
		err := r.Walk(func(_ *Route) error {
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("routes returns a copy", func(t *testing.T) {
		routes := r.Routes()
		routes[0] = nil
		assert.NotNil(t, r.Routes()[0])
	})
}

func TestRouterGet(t *testing.T) {
	r := NewRouter()
	r.Handle(`/items`, itemHandler{}).Name("items")

	require.NotNil(t, r.Get("items"))
	assert.Equal(t, `/items`, r.Get("items").GetPattern())
	assert.Nil(t, r.Get("missing"))
}
