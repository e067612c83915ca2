// Package mux implements a request router whose routes are regular
// expression path patterns bound to handler values.
//
// A pattern is matched against the whole request path; positional capture
// groups become the request's positional arguments:
//
//	r := mux.NewRouter()
//	r.Handle(`/items`, &ItemListHandler{})
//	r.Handle(`/items/([^/]+)`, &ItemHandler{})
//	http.ListenAndServe(":8080", r)
//
// A handler value exposes one method per HTTP verb it serves. The method
// names follow the verbs (Get, Head, Post, Put, Patch, Delete, Options) and
// have the http.HandlerFunc signature:
//
//	type ItemHandler struct{}
//
//	func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
//	    id, _ := mux.Arg(r, 0)
//	    ...
//	}
//
// A request whose path matches a route but whose verb is not implemented by
// the handler is answered with 405 Method Not Allowed and an Allow header
// listing the implemented verbs (RFC 9110 Section 15.5.6). HEAD falls back
// to Get when the handler has no Head method. A plain http.Handler value is
// served for every verb.
//
// # Routing Table
//
// The ordered routing table is available through Routes and Walk. Routes are
// visited in registration order, which is also the matching order:
//
//	_ = r.Walk(func(route *mux.Route) error {
//	    fmt.Println(route.GetPattern())
//	    return nil
//	})
//
// # Middleware
//
// Middleware registered with Use wraps matched handlers only:
//
//	r.Use(func(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
//	        next.ServeHTTP(w, req)
//	    })
//	})
package mux
