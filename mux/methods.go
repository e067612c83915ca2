package mux

import (
	"net/http"
	"strings"
)

// Getter is implemented by handlers serving GET.
type Getter interface {
	Get(http.ResponseWriter, *http.Request)
}

// HeadHandler is implemented by handlers serving HEAD.
type HeadHandler interface {
	Head(http.ResponseWriter, *http.Request)
}

// Poster is implemented by handlers serving POST.
type Poster interface {
	Post(http.ResponseWriter, *http.Request)
}

// Putter is implemented by handlers serving PUT.
type Putter interface {
	Put(http.ResponseWriter, *http.Request)
}

// Patcher is implemented by handlers serving PATCH.
type Patcher interface {
	Patch(http.ResponseWriter, *http.Request)
}

// Deleter is implemented by handlers serving DELETE.
type Deleter interface {
	Delete(http.ResponseWriter, *http.Request)
}

// Optioner is implemented by handlers serving OPTIONS.
type Optioner interface {
	Options(http.ResponseWriter, *http.Request)
}

// Methods lists the HTTP verbs a handler value can implement, in the order
// used for Allow headers.
var Methods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost,
	http.MethodPut, http.MethodPatch, http.MethodDelete,
	http.MethodOptions,
}

// HandlerMethod returns the function serving the given HTTP method on the
// handler value. The method name is matched case-insensitively, so both
// "GET" and "get" resolve the Get method. A plain http.Handler serves every
// method through ServeHTTP.
func HandlerMethod(handler any, method string) (http.HandlerFunc, bool) {
	if handler == nil {
		return nil, false
	}

	switch strings.ToUpper(method) {
	case http.MethodGet:
		if h, ok := handler.(Getter); ok {
			return h.Get, true
		}
	case http.MethodHead:
		if h, ok := handler.(HeadHandler); ok {
			return h.Head, true
		}
		if h, ok := handler.(Getter); ok {
			return h.Get, true
		}
	case http.MethodPost:
		if h, ok := handler.(Poster); ok {
			return h.Post, true
		}
	case http.MethodPut:
		if h, ok := handler.(Putter); ok {
			return h.Put, true
		}
	case http.MethodPatch:
		if h, ok := handler.(Patcher); ok {
			return h.Patch, true
		}
	case http.MethodDelete:
		if h, ok := handler.(Deleter); ok {
			return h.Delete, true
		}
	case http.MethodOptions:
		if h, ok := handler.(Optioner); ok {
			return h.Options, true
		}
	default:
		if h, ok := handler.(http.Handler); ok {
			return h.ServeHTTP, true
		}
		return nil, false
	}

	if h, ok := handler.(http.Handler); ok {
		return h.ServeHTTP, true
	}

	return nil, false
}

// AllowedMethods returns the HTTP methods implemented by the handler value,
// in the order of Methods.
func AllowedMethods(handler any) []string {
	allowed := make([]string, 0, len(Methods))
	for _, method := range Methods {
		if _, ok := HandlerMethod(handler, method); ok {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

// IsMethod reports whether name is one of the verbs in Methods,
// compared case-insensitively.
func IsMethod(name string) bool {
	upper := strings.ToUpper(name)
	for _, method := range Methods {
		if method == upper {
			return true
		}
	}
	return false
}
