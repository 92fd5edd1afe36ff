package edgelike

import (
	"net/http"
)

// Handler is a guest program entrypoint. It receives the host capability set and the downstream
// request, and returns either the response to deliver or an error. A returned error, like a
// panic, is normalized by the instance into a generic server error response.
type Handler func(h *Host, req *Request) (*Response, error)

// Edgelike carries a guest program and its configuration and is capable of creating new
// instances ready to serve requests.
type Edgelike struct {
	program Handler
	opts    []Option
}

// New returns a new Edgelike ready to create new instances from.
func New(program Handler, opts ...Option) *Edgelike {
	return &Edgelike{program: program, opts: opts}
}

// ServeHTTP implements http.Handler, serving each incoming request with a fresh instance.
func (f *Edgelike) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.Instantiate().ServeHTTP(w, r)
}

// Instantiate returns an instance primed to serve a single request. Options supplied here are
// applied after, and so can override, the ones supplied to New.
func (f *Edgelike) Instantiate(opts ...Option) *Instance {
	i := newInstance(f.program)

	for _, o := range f.opts {
		o(i)
	}

	for _, o := range opts {
		o(i)
	}

	return i
}
