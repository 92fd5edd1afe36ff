package edgelike

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// defaultBackendTimeout bounds how long a subrequest may take. The hosted platform does not
// publish a limit, but an emulator must pick one so a stuck backend cannot wedge a request
// forever; expiry surfaces as ErrBackendUnavailable.
const defaultBackendTimeout = 30 * time.Second

// defaultBackend answers 502 for every backend name. It is what guests see until the embedder
// registers real backends.
func defaultBackend(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprintf(w, "Unknown backend '%s'. Did you configure your backends correctly?", name)
	})
}

// getBackendHandler resolves a backend name to its handler, falling back to the catch-all.
func (i *Instance) getBackendHandler(name string) http.Handler {
	if h, ok := i.backends[name]; ok {
		return h
	}

	return i.defaultBackend(name)
}

// sendBackend forwards the request, including any headers the guest added, to the named backend
// and returns its response verbatim. The call blocks until the backend responds, the configured
// timeout expires, or the downstream client hangs up; the latter two wrap ErrBackendUnavailable.
func (i *Instance) sendBackend(req *Request, backend string) (*Response, error) {
	if req.URL == nil {
		return nil, errors.New("request has no url")
	}

	ctx, cancel := context.WithTimeout(i.dsContext, i.backendTimeout)
	defer cancel()

	hr, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), req.Body)
	if err != nil {
		return nil, err
	}

	hr.Header = req.Header.Clone()
	if hr.Header == nil {
		hr.Header = make(http.Header)
	}

	// loop detection, checked at ingress by ServeHTTP
	hr.Header.Add("cdn-loop", "edgelike")

	if hr.Header.Get("content-length") == "" {
		if sz := req.Body.Size(); sz >= 0 {
			hr.Header.Set("content-length", fmt.Sprintf("%d", sz))
			hr.ContentLength = sz
		}
	}

	i.abilog.Debug("send",
		zap.String("backend", backend),
		zap.String("method", req.Method),
		zap.String("uri", req.URL.String()))

	handler := i.getBackendHandler(backend)

	// Run the handler against a recorder in a goroutine so we can bail out when the context
	// expires. A handler that never returns leaks its goroutine, which is the price of keeping
	// backends as plain http.Handlers.
	wr := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(wr, hr)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, errors.Wrapf(ErrBackendUnavailable, "backend %q: %s", backend, ctx.Err())
	}

	return fromHTTPResponse(wr.Result()), nil
}
