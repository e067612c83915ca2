package mux

import (
	"context"
	"errors"
	"net/http"
)

// routeContextKey is an unexported type for the single context key.
type routeContextKey struct{}

// ctxKey is the single context key used to store both route and args.
var ctxKey = routeContextKey{}

// routeContext holds the matched route and extracted positional arguments.
type routeContext struct {
	route *Route
	args  []string
}

// Args returns the positional arguments captured by the route pattern for
// the current request, in capture group order.
func Args(r *http.Request) []string {
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		return rc.args
	}
	return nil
}

// Arg returns the positional argument at index i and a boolean indicating
// whether it exists.
func Arg(r *http.Request, i int) (string, bool) {
	args := Args(r)
	if i < 0 || i >= len(args) {
		return "", false
	}
	return args[i], true
}

// CurrentRoute returns the matched route for the current request, if any.
func CurrentRoute(r *http.Request) *Route {
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		return rc.route
	}
	return nil
}

// SetArgs sets the positional arguments for the given request, returning
// the modified request. This is intended for testing route handlers.
func SetArgs(r *http.Request, args []string) *http.Request {
	var route *Route
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		route = rc.route
	}
	return setRouteContext(r, route, args)
}

func setRouteContext(r *http.Request, route *Route, args []string) *http.Request {
	ctx := context.WithValue(r.Context(), ctxKey, &routeContext{route: route, args: args})
	return r.WithContext(ctx)
}

// MiddlewareFunc is a function which receives an http.Handler and returns
// another http.Handler.
type MiddlewareFunc func(http.Handler) http.Handler

// Middleware allows MiddlewareFunc to implement the Middleware interface.
func (mw MiddlewareFunc) Middleware(handler http.Handler) http.Handler {
	return mw(handler)
}

// WalkFunc is the type of the function called for each route visited by Walk.
type WalkFunc func(route *Route) error

// ErrMethodMismatch is returned when the handler bound to a matching route
// does not implement the request method.
var ErrMethodMismatch = errors.New("method is not allowed")

// ErrNotFound is returned when no route match is found.
var ErrNotFound = errors.New("no matching route was found")

// SkipRoute is used as a return value from WalkFunc to skip the remaining
// routes without reporting an error.
var SkipRoute = errors.New("skip remaining routes") //nolint:revive,staticcheck // sentinel, not an error condition
