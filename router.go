package edgelike

import (
	"net/http"
	"strings"
)

// Router dispatches a request to the single handler whose route matches, evaluated in a fixed
// priority order: exact (method, path) routes first, then (method, prefix) routes in registration
// order, then the not-found handler. First match wins. This mirrors how guest programs on the
// hosted platform branch on (method, path) pairs.
type Router struct {
	exact    []route
	prefixes []route
	notFound Handler
}

type route struct {
	method string
	path   string
	fn     Handler
}

// NewRouter returns a Router with the canonical not-found response: a 404 whose body reads "The
// page you requested could not be found".
func NewRouter() *Router {
	return &Router{
		notFound: func(h *Host, req *Request) (*Response, error) {
			return NewResponse(http.StatusNotFound, BodyFromString("The page you requested could not be found")), nil
		},
	}
}

// Exact registers fn for requests matching the method and literal path.
func (rt *Router) Exact(method, path string, fn Handler) *Router {
	rt.exact = append(rt.exact, route{method: method, path: path, fn: fn})
	return rt
}

// Prefix registers fn for requests whose path starts with prefix. Prefix routes are always
// evaluated after exact routes so they cannot shadow them.
func (rt *Router) Prefix(method, prefix string, fn Handler) *Router {
	rt.prefixes = append(rt.prefixes, route{method: method, path: prefix, fn: fn})
	return rt
}

// NotFound replaces the handler invoked when no route matches.
func (rt *Router) NotFound(fn Handler) *Router {
	rt.notFound = fn
	return rt
}

// Serve dispatches the request. It is itself a Handler, so a Router can be used directly as a
// guest program.
func (rt *Router) Serve(h *Host, req *Request) (*Response, error) {
	path := req.URL.Path

	for _, r := range rt.exact {
		if r.method == req.Method && r.path == path {
			return r.fn(h, req)
		}
	}

	for _, r := range rt.prefixes {
		if r.method == req.Method && strings.HasPrefix(path, r.path) {
			return r.fn(h, req)
		}
	}

	return rt.notFound(h, req)
}
