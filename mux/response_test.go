package mux

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseJSON(t *testing.T) {
	type item struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	t.Run("writes JSON with status code", func(t *testing.T) {
		w := httptest.NewRecorder()
		ResponseJSON(w, http.StatusCreated, item{Name: "test", Value: 42})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"name":"test","value":42}`, w.Body.String())
	})

	t.Run("writes null for nil", func(t *testing.T) {
		w := httptest.NewRecorder()
		ResponseJSON(w, http.StatusOK, nil)

		assert.Equal(t, "null\n", w.Body.String())
	})

	t.Run("writes 500 on encode error", func(t *testing.T) {
		w := httptest.NewRecorder()
		ResponseJSON(w, http.StatusOK, make(chan int))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotEqual(t, "application/json", w.Header().Get("Content-Type"))
	})
}

func TestResponseYAML(t *testing.T) {
	type item struct {
		Name  string `yaml:"name"`
		Value int    `yaml:"value"`
	}

	t.Run("writes YAML with status code", func(t *testing.T) {
		w := httptest.NewRecorder()
		ResponseYAML(w, http.StatusOK, item{Name: "test", Value: 42})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/x-yaml", w.Header().Get("Content-Type"))
		assert.YAMLEq(t, "name: test\nvalue: 42\n", w.Body.String())
	})
}
