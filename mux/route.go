package mux

import (
	"fmt"
	"regexp"
	"strings"
)

// Route binds a path pattern to a handler value.
type Route struct {
	pattern string
	re      *regexp.Regexp
	handler any
	name    string
	err     error
}

// newRoute compiles the pattern anchored at both ends. A pattern that is
// already anchored is left as is.
func newRoute(pattern string, handler any) *Route {
	route := &Route{pattern: pattern, handler: handler}

	expr := pattern
	if !strings.HasPrefix(expr, "^") {
		expr = "^" + expr
	}
	if !strings.HasSuffix(expr, "$") {
		expr += "$"
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		route.err = fmt.Errorf("mux: invalid pattern %q: %w", pattern, err)
		return route
	}
	route.re = re

	if handler == nil {
		route.err = fmt.Errorf("mux: nil handler for pattern %q", pattern)
	}

	return route
}

// Match reports whether the path matches the route pattern and returns
// the positional capture groups.
func (r *Route) Match(path string) ([]string, bool) {
	if r.err != nil {
		return nil, false
	}

	m := r.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}

	if len(m) == 1 {
		return nil, true
	}
	return m[1:], true
}

// Name sets the name for the route, used to look it up with Router.Get.
func (r *Route) Name(name string) *Route {
	r.name = name
	return r
}

// GetName returns the name for the route, if any.
func (r *Route) GetName() string {
	return r.name
}

// GetPattern returns the pattern the route was registered with.
func (r *Route) GetPattern() string {
	return r.pattern
}

// GetHandler returns the handler value bound to the route.
func (r *Route) GetHandler() any {
	return r.handler
}

// NumArgs returns the number of positional arguments the pattern captures.
func (r *Route) NumArgs() int {
	if r.re == nil {
		return 0
	}
	return r.re.NumSubexp()
}

// GetError returns an error resulting from building the route, if any.
func (r *Route) GetError() error {
	return r.err
}
