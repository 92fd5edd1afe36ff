package edgelike

import (
	"context"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dchest/uniuri"
	"go.uber.org/zap"
)

// Instance runs the guest program for a single request and response pair. Everything on it is
// request-scoped except the capability tables copied in from options at instantiation time.
type Instance struct {
	program Handler

	// dsRequest is the downstream request, ie the one originated from the user agent
	dsRequest *Request

	// dsContext is the context from the downstream request, observed by subrequests
	dsContext context.Context

	// traceID correlates every log line emitted while serving one request
	traceID string

	// backends is used to issue subrequests
	backends       map[string]http.Handler
	defaultBackend func(name string) http.Handler
	backendTimeout time.Duration

	// endpoints receive log output from the guest program
	endpoints []logEndpoint
	logPolicy LogFailurePolicy

	// dictionaries are used to look up string values using string keys
	dictionaries []*Dictionary

	// geolookup is a function that accepts a net.IP and returns a Geo
	geolookup GeoLookupFunc

	uaparser UserAgentParser

	log    *zap.Logger
	abilog *zap.Logger
}

// ServeHTTP serves the supplied request and response pair. This is not safe to call twice.
func (i *Instance) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	i.traceID = uniuri.New()
	i.log = i.log.With(zap.String("trace_id", i.traceID))
	i.abilog = i.abilog.With(zap.String("trace_id", i.traceID))

	loops, ok := r.Header[http.CanonicalHeaderKey("cdn-loop")]
	if !ok {
		loops = []string{""}
	}

	if strings.Contains(strings.Join(loops, "\x00"), "edgelike") {
		// immediately respond with a loop detection
		w.WriteHeader(http.StatusLoopDetected)
		_, _ = w.Write([]byte("Loop detected! This request has already come through your edge program.\n"))
		_, _ = w.Write([]byte("You probably have a non-exhaustive backend handler?"))
		return
	}

	i.dsRequest = downstreamRequest(r)
	i.dsContext = r.Context()

	i.log.Debug("serving request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))

	resp, err := i.run(&Host{i: i}, i.dsRequest)
	if err == nil && resp == nil {
		// a normal return carrying no response is still a guest fault
		err = ErrNoResponse
	}
	if err != nil {
		i.log.Error("guest program failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Error running guest program.\n"))
		_, _ = w.Write([]byte(err.Error()))
		return
	}

	if werr := resp.sendDownstream(w); werr != nil {
		// The status line is already on the wire, all we can do is note it
		i.log.Warn("error writing response downstream", zap.Error(werr))
	}
}

// run invokes the guest program through the fault barrier: any panic raised inside the handler is
// caught here and converted into a GuestPanic error, never propagated to the caller. Every guest
// invocation passes through this barrier exactly once and is never retried.
func (i *Instance) run(h *Host, req *Request) (resp *Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			resp = nil
			err = &GuestPanic{Value: p, Stack: debug.Stack()}
		}
	}()

	return i.program(h, req)
}

// clientIP returns the downstream peer address, or nil when the host cannot determine one.
func (i *Instance) clientIP() net.IP {
	return i.dsRequest.clientIP()
}
