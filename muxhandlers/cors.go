package muxhandlers

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/vitalvas/swagdoc/mux"
)

// CORS configuration errors.
var (
	// ErrWildcardCredentials is returned when AllowedOrigins contains "*"
	// and AllowCredentials is true.
	ErrWildcardCredentials = errors.New("muxhandlers: wildcard origin cannot be used with credentials")

	// ErrOriginPattern is returned for an origin pattern with more than
	// one wildcard.
	ErrOriginPattern = errors.New("muxhandlers: origin pattern has more than one wildcard")
)

// CORSConfig configures the CORS middleware, typically to let a Swagger UI
// served from another origin fetch the documentation endpoints.
//
// See: https://fetch.spec.whatwg.org/#http-cors-protocol
type CORSConfig struct {
	// AllowedOrigins lists exact origins, "*", or subdomain patterns such
	// as "https://*.example.com". Origins are compared case-insensitively.
	AllowedOrigins []string

	// AllowedMethods overrides the methods advertised. When empty the
	// methods implemented by the matched route's handler are used.
	AllowedMethods []string

	// AllowedHeaders lists the request headers the client may send. When
	// empty the preflight's Access-Control-Request-Headers is reflected.
	AllowedHeaders []string

	// ExposeHeaders lists response headers readable by client code.
	ExposeHeaders []string

	// AllowCredentials sets Access-Control-Allow-Credentials: true.
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds; zero omits it.
	MaxAge int
}

// originMatcher checks request origins against the configured list.
type originMatcher struct {
	any      bool
	exact    []string
	prefixes []string
	suffixes []string
}

func newOriginMatcher(origins []string) (*originMatcher, error) {
	m := &originMatcher{}
	for _, origin := range origins {
		if origin == "*" {
			m.any = true
			continue
		}

		lower := strings.ToLower(origin)
		prefix, suffix, wildcard := strings.Cut(lower, "*")
		if !wildcard {
			m.exact = append(m.exact, lower)
			continue
		}
		if strings.Contains(suffix, "*") {
			return nil, ErrOriginPattern
		}
		m.prefixes = append(m.prefixes, prefix)
		m.suffixes = append(m.suffixes, suffix)
	}
	return m, nil
}

func (m *originMatcher) match(origin string) bool {
	if m.any {
		return true
	}

	lower := strings.ToLower(origin)
	if slices.Contains(m.exact, lower) {
		return true
	}
	for i, prefix := range m.prefixes {
		suffix := m.suffixes[i]
		if len(lower) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(lower, prefix) && strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// CORSMiddleware returns a middleware implementing the CORS protocol for
// the routes of r. Router middleware only runs for matched methods, so the
// router's MethodNotAllowedHandler is wrapped to answer preflight requests
// for handlers without an Options method.
func CORSMiddleware(r *mux.Router, cfg CORSConfig) (mux.MiddlewareFunc, error) {
	matcher, err := newOriginMatcher(cfg.AllowedOrigins)
	if err != nil {
		return nil, err
	}
	if matcher.any && cfg.AllowCredentials {
		return nil, ErrWildcardCredentials
	}

	c := &cors{router: r, cfg: cfg, origins: matcher}

	prev := r.MethodNotAllowedHandler
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if c.isPreflight(req) && c.origins.match(req.Header.Get("Origin")) {
			c.setOrigin(w, req.Header.Get("Origin"))
			c.preflight(w, req)
			return
		}

		if prev != nil {
			prev.ServeHTTP(w, req)
			return
		}
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			origin := req.Header.Get("Origin")
			if origin == "" || !c.origins.match(origin) {
				if !matcher.any {
					w.Header().Add("Vary", "Origin")
				}
				next.ServeHTTP(w, req)
				return
			}

			c.setOrigin(w, origin)

			if c.isPreflight(req) {
				c.preflight(w, req)
				return
			}

			if len(cfg.ExposeHeaders) > 0 {
				w.Header().Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
			}

			next.ServeHTTP(w, req)
		})
	}, nil
}

type cors struct {
	router  *mux.Router
	cfg     CORSConfig
	origins *originMatcher
}

func (c *cors) isPreflight(req *http.Request) bool {
	return req.Method == http.MethodOptions &&
		req.Header.Get("Origin") != "" &&
		req.Header.Get("Access-Control-Request-Method") != ""
}

func (c *cors) setOrigin(w http.ResponseWriter, origin string) {
	if c.origins.any {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}

	if c.cfg.AllowCredentials {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
}

func (c *cors) preflight(w http.ResponseWriter, req *http.Request) {
	if methods := c.methods(req); len(methods) > 0 {
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ", "))
	}

	if len(c.cfg.AllowedHeaders) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(c.cfg.AllowedHeaders, ", "))
	} else if requested := req.Header.Get("Access-Control-Request-Headers"); requested != "" {
		w.Header().Set("Access-Control-Allow-Headers", requested)
	}

	if c.cfg.MaxAge > 0 {
		w.Header().Set("Access-Control-Max-Age", strconv.Itoa(c.cfg.MaxAge))
	}

	w.Header().Add("Vary", "Access-Control-Request-Method")
	w.Header().Add("Vary", "Access-Control-Request-Headers")
	w.WriteHeader(http.StatusNoContent)
}

// methods returns the configured methods, or those implemented by the
// handler of the route matching the request path.
func (c *cors) methods(req *http.Request) []string {
	if len(c.cfg.AllowedMethods) > 0 {
		return c.cfg.AllowedMethods
	}

	route := mux.CurrentRoute(req)
	if route == nil {
		route, _, _ = c.router.Match(req)
	}
	if route == nil {
		return nil
	}
	return mux.AllowedMethods(route.GetHandler())
}
