package muxhandlers

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/vitalvas/swagdoc/mux"
)

// ErrNoAllowedTypes is returned when ContentTypeCheckConfig.AllowedTypes is
// empty.
var ErrNoAllowedTypes = errors.New("content type check: at least one allowed content type is required")

// ContentTypeCheckConfig configures ContentTypeCheckMiddleware.
type ContentTypeCheckConfig struct {
	// AllowedTypes is the set of acceptable media types. Matching is
	// case-insensitive and ignores parameters.
	AllowedTypes []string

	// Methods is the set of HTTP methods checked (default: POST, PUT, PATCH).
	Methods []string

	// Routes restricts the check to the routes with these names. When
	// empty, every route is checked.
	Routes []string
}

var defaultCheckedMethods = []string{
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
}

// ContentTypeCheckMiddleware answers 415 Unsupported Media Type when a
// checked request has a missing, malformed or unlisted Content-Type.
func ContentTypeCheckMiddleware(cfg ContentTypeCheckConfig) (mux.MiddlewareFunc, error) {
	if len(cfg.AllowedTypes) == 0 {
		return nil, ErrNoAllowedTypes
	}

	methods := cfg.Methods
	if methods == nil {
		methods = defaultCheckedMethods
	}

	methodSet := make(map[string]bool, len(methods))
	for _, m := range methods {
		methodSet[strings.ToUpper(m)] = true
	}

	allowed := make(map[string]bool, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[strings.ToLower(strings.TrimSpace(t))] = true
	}

	var routes map[string]bool
	if len(cfg.Routes) > 0 {
		routes = make(map[string]bool, len(cfg.Routes))
		for _, name := range cfg.Routes {
			routes[name] = true
		}
	}

	checked := func(r *http.Request) bool {
		if !methodSet[r.Method] {
			return false
		}
		if routes == nil {
			return true
		}
		route := mux.CurrentRoute(r)
		return route != nil && routes[route.GetName()]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if checked(r) {
				mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
				if err != nil || !allowed[strings.ToLower(mediaType)] {
					http.Error(w, http.StatusText(http.StatusUnsupportedMediaType), http.StatusUnsupportedMediaType)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}
