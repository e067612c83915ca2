package mux

import (
	"net/http"
	"strings"
	"sync"
)

// Router registers routes to be matched and dispatches a handler.
//
// It implements the http.Handler interface, so it can be registered to serve
// requests:
//
//	r := mux.NewRouter()
//	r.Handle(`/items/([^/]+)`, &ItemHandler{})
//	http.ListenAndServe(":8080", r)
type Router struct {
	// NotFoundHandler is called when no route matches.
	// If nil, http.NotFoundHandler() is used.
	NotFoundHandler http.Handler

	// MethodNotAllowedHandler is called when a route matches the path
	// but its handler does not implement the method. The Allow header is
	// always set before this handler is invoked.
	MethodNotAllowedHandler http.Handler

	routes      []*Route
	middlewares []MiddlewareFunc

	// handlerCache caches the middleware-wrapped handler per route and
	// method to avoid re-wrapping on every request.
	handlerCache sync.Map // map[handlerKey]http.Handler

	skipClean bool
}

type handlerKey struct {
	route  *Route
	method string
}

// NewRouter returns a new router instance.
func NewRouter() *Router {
	return &Router{}
}

// ServeHTTP dispatches the handler registered in the matched route.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if !r.skipClean {
		if cleaned := cleanPath(req.URL.Path); cleaned != req.URL.Path {
			u := *req.URL
			u.Path = cleaned
			u.RawPath = ""
			req = req.Clone(req.Context())
			req.URL = &u
		}
	}

	route, args, err := r.Match(req)
	switch err {
	case nil:
		req = setRouteContext(req, route, args)
		r.routeHandler(route, req.Method).ServeHTTP(w, req)
	case ErrMethodMismatch:
		w.Header().Set("Allow", strings.Join(AllowedMethods(route.handler), ", "))
		handler := r.MethodNotAllowedHandler
		if handler == nil {
			handler = defaultMethodNotAllowedHandler
		}
		handler.ServeHTTP(w, req)
	default:
		handler := r.NotFoundHandler
		if handler == nil {
			handler = defaultNotFoundHandler
		}
		handler.ServeHTTP(w, req)
	}
}

// Match finds the first route, in registration order, whose pattern matches
// the request path. It returns ErrMethodMismatch along with the route when
// the path matches but the handler does not implement the request method,
// and ErrNotFound when no pattern matches.
func (r *Router) Match(req *http.Request) (*Route, []string, error) {
	for _, route := range r.routes {
		args, ok := route.Match(req.URL.Path)
		if !ok {
			continue
		}
		if _, ok := HandlerMethod(route.handler, req.Method); !ok {
			return route, args, ErrMethodMismatch
		}
		return route, args, nil
	}
	return nil, nil, ErrNotFound
}

// routeHandler returns the middleware-wrapped handler for the route method.
func (r *Router) routeHandler(route *Route, method string) http.Handler {
	fn, _ := HandlerMethod(route.handler, method)
	if len(r.middlewares) == 0 {
		return fn
	}

	key := handlerKey{route: route, method: method}
	if cached, ok := r.handlerCache.Load(key); ok {
		return cached.(http.Handler)
	}

	wrapped := r.applyMiddleware(fn)
	r.handlerCache.Store(key, wrapped)
	return wrapped
}

// SkipClean defines the path cleaning behavior. When true, the path will not
// be cleaned (path.Clean will not be called).
func (r *Router) SkipClean(value bool) *Router {
	r.skipClean = value
	return r
}

// Handle registers a new route binding the pattern to a handler value. The
// handler exposes verb methods (see Getter, Poster, ...) or is a plain
// http.Handler. Build errors are reported by Route.GetError.
func (r *Router) Handle(pattern string, handler any) *Route {
	route := newRoute(pattern, handler)
	r.routes = append(r.routes, route)
	return route
}

// HandleFunc registers a new route serving every method with a function.
func (r *Router) HandleFunc(pattern string, f func(http.ResponseWriter, *http.Request)) *Route {
	return r.Handle(pattern, http.HandlerFunc(f))
}

// Get returns a route registered with the given name.
func (r *Router) Get(name string) *Route {
	for _, route := range r.routes {
		if route.name == name {
			return route
		}
	}
	return nil
}

// Routes returns the routing table in registration order.
func (r *Router) Routes() []*Route {
	routes := make([]*Route, len(r.routes))
	copy(routes, r.routes)
	return routes
}

// Walk calls walkFn for each route in registration order. Returning
// SkipRoute stops the walk without an error.
func (r *Router) Walk(walkFn WalkFunc) error {
	for _, route := range r.routes {
		err := walkFn(route)
		if err == SkipRoute {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// applyMiddleware wraps the handler with all registered middleware.
func (r *Router) applyMiddleware(handler http.Handler) http.Handler {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i].Middleware(handler)
	}
	return handler
}

// Use appends a MiddlewareFunc to the chain. Middleware is applied to
// matched handlers only.
func (r *Router) Use(mwf ...MiddlewareFunc) {
	r.middlewares = append(r.middlewares, mwf...)
	r.handlerCache.Range(func(key, _ any) bool {
		r.handlerCache.Delete(key)
		return true
	})
}
