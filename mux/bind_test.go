package mux

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindItem struct {
	Property1 string `json:"property1"`
	Property2 any    `json:"property2,omitempty"`
}

func TestBindJSON(t *testing.T) {
	newRequest := func(body string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
	}

	t.Run("decodes one value", func(t *testing.T) {
		var item bindItem
		require.NoError(t, BindJSON(newRequest(`{"property1": "a1", "property2": 7}`), &item))
		assert.Equal(t, "a1", item.Property1)
		assert.InDelta(t, 7, item.Property2, 0)
	})

	t.Run("trailing whitespace", func(t *testing.T) {
		var item bindItem
		assert.NoError(t, BindJSON(newRequest("{\"property1\": \"a1\"}\n\t "), &item))
	})

	t.Run("trailing data", func(t *testing.T) {
		var item bindItem
		err := BindJSON(newRequest(`{"property1": "a1"} {"property1": "a2"}`), &item)
		assert.ErrorIs(t, err, ErrTrailingData)
	})

	t.Run("unknown field", func(t *testing.T) {
		var item bindItem
		err := BindJSON(newRequest(`{"property1": "a1", "extra": 1}`), &item)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "extra")
	})

	t.Run("unknown field allowed", func(t *testing.T) {
		var item bindItem
		assert.NoError(t, BindJSON(newRequest(`{"property1": "a1", "extra": 1}`), &item, true))
	})

	t.Run("malformed", func(t *testing.T) {
		var item bindItem
		assert.Error(t, BindJSON(newRequest(`{`), &item))
		assert.Error(t, BindJSON(newRequest(``), &item))
	})

	t.Run("body over limit", func(t *testing.T) {
		req := newRequest(`{"property1": "` + strings.Repeat("x", 64) + `"}`)
		req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, 16)

		var item bindItem
		err := BindJSON(req, &item)
		require.Error(t, err)
		assert.True(t, BodyTooLarge(err))
	})

	t.Run("trailing data over limit", func(t *testing.T) {
		body := `{"property1": "a1"}` + strings.Repeat(" ", 8) + strings.Repeat("x", 64)
		req := newRequest(body)
		req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, 24)

		var item bindItem
		err := BindJSON(req, &item)
		require.Error(t, err)
		assert.True(t, BodyTooLarge(err))
	})
}
