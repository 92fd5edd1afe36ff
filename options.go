package edgelike

import (
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Option is a functional option applied to an Instance when it's created.
type Option func(*Instance)

// newInstance returns an instance with the default capability set: 502 backends, fixture geo
// data, the built-in user agent parser, no dictionaries, and silent host logs.
func newInstance(program Handler) *Instance {
	i := &Instance{program: program}

	i.backends = map[string]http.Handler{}
	i.endpoints = []logEndpoint{}
	i.dictionaries = []*Dictionary{}

	// By default, any subrequests will return a 502
	i.defaultBackend = defaultBackend
	i.backendTimeout = defaultBackendTimeout

	// By default, all geo requests return the same data
	i.geolookup = DefaultGeo

	i.uaparser = defaultUserAgentParser

	// A failed sink write faults the request unless the embedder opts out
	i.logPolicy = FailFatal

	i.log = zap.NewNop()
	i.abilog = zap.NewNop()

	return i
}

// WithBackend registers an http.Handler to answer subrequests for the named backend.
func WithBackend(name string, h http.Handler) Option {
	return func(i *Instance) {
		i.backends[name] = h
	}
}

// WithDefaultBackend overrides the catch-all used for backend names that have no registered
// handler.
func WithDefaultBackend(fn func(name string) http.Handler) Option {
	return func(i *Instance) {
		i.defaultBackend = fn
	}
}

// WithBackendTimeout bounds how long a single subrequest may take before it is treated as
// ErrBackendUnavailable.
func WithBackendTimeout(d time.Duration) Option {
	return func(i *Instance) {
		i.backendTimeout = d
	}
}

// WithDictionary registers a named dictionary with the given lookup function.
func WithDictionary(name string, fn LookupFunc) Option {
	return func(i *Instance) {
		i.addDictionary(name, fn)
	}
}

// WithDictionaryMap registers a named dictionary backed by a fixed map.
func WithDictionaryMap(name string, entries map[string]string) Option {
	return WithDictionary(name, func(key string) (string, bool) {
		v, ok := entries[key]
		return v, ok
	})
}

// WithLogEndpoint registers a named log endpoint backed by the given writer. The registration
// owns the lock serializing writes, so a single WithLogEndpoint value shared across instances
// keeps lines from concurrent requests whole.
func WithLogEndpoint(name string, w io.Writer) Option {
	mu := new(sync.Mutex)
	return func(i *Instance) {
		i.addEndpoint(name, w, mu)
	}
}

// WithBestEffortLogs downgrades log endpoint write failures from request-fatal to a diagnostic
// entry in the host log.
func WithBestEffortLogs() Option {
	return func(i *Instance) {
		i.logPolicy = FailBestEffort
	}
}

// WithGeo overrides how client addresses resolve to geo records.
func WithGeo(fn GeoLookupFunc) Option {
	return func(i *Instance) {
		i.geolookup = fn
	}
}

// WithUserAgentParser overrides the user agent parser.
func WithUserAgentParser(fn UserAgentParser) Option {
	return func(i *Instance) {
		i.uaparser = fn
	}
}

// WithHostLogger routes host diagnostics (request lifecycle on log, per-capability call traces
// on abilog) to the supplied logger.
func WithHostLogger(log *zap.Logger) Option {
	return func(i *Instance) {
		i.log = log
		i.abilog = log.Named("abi")
	}
}
