package mux

import (
	"bytes"
	"encoding/json"
	"net/http"

	"gopkg.in/yaml.v3"
)

// ResponseJSON encodes v as JSON and writes it to the response with the given
// status code. The Content-Type header is set to "application/json".
// If encoding fails, an HTTP 500 Internal Server Error is written instead.
func ResponseJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

// ResponseYAML encodes v as YAML and writes it to the response with the given
// status code. The Content-Type header is set to "application/x-yaml".
// If encoding fails, an HTTP 500 Internal Server Error is written instead.
func ResponseYAML(w http.ResponseWriter, code int, v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(code)
	w.Write(data)
}
