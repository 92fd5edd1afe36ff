package edgelike

import (
	"bytes"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
)

// LogFailurePolicy controls what happens when a write to a log endpoint fails. The hosted
// platform treats sink failures as fatal; FailFatal reproduces that per request by panicking into
// the fault barrier, while FailBestEffort records the failure and carries on.
type LogFailurePolicy int

const (
	FailFatal LogFailurePolicy = iota
	FailBestEffort
)

// Endpoint is a named, write-only, append-only event stream. Each Write emits exactly one line;
// writes are serialized so lines from concurrent requests never interleave mid-line.
type Endpoint struct {
	name string
	w    io.Writer

	// shared across every instance the endpoint registration is applied to
	mu *sync.Mutex

	policy LogFailurePolicy
	log    *zap.Logger
}

// Write implements io.Writer for an Endpoint. The data is written as a single line: trailing
// newlines are stripped, interior newlines escaped, and exactly one newline appended.
func (e *Endpoint) Write(data []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := LineWriter{e.w}.Write(data)
	if err != nil {
		if e.policy == FailFatal {
			check(err)
		}
		e.log.Warn("log endpoint write failed", zap.String("endpoint", e.name), zap.Error(err))
	}

	return n, err
}

// WriteString writes s to the endpoint as a single line.
func (e *Endpoint) WriteString(s string) (int, error) {
	return e.Write([]byte(s))
}

// logEndpoint is the registration record for a named endpoint. The writer and mutex live here so
// every per-request instance created from the same registration shares them.
type logEndpoint struct {
	name string
	w    io.Writer
	mu   *sync.Mutex
}

// reserved stream names cannot be used as log endpoint names
var reservedEndpointNames = []string{"stdout", "stderr", "stdin"}

func endpointNameReserved(name string) bool {
	for _, reserved := range reservedEndpointNames {
		if name == reserved {
			return true
		}
	}
	return false
}

// addEndpoint registers a named log endpoint backed by the given writer.
func (i *Instance) addEndpoint(name string, w io.Writer, mu *sync.Mutex) {
	i.endpoints = append(i.endpoints, logEndpoint{name: name, w: w, mu: mu})
}

// getEndpoint retrieves a configured endpoint by name. Unconfigured names fall back to the
// default writer: name-prefixed lines on stdout.
func (i *Instance) getEndpoint(name string) *Endpoint {
	for _, e := range i.endpoints {
		if e.name == name {
			return &Endpoint{name: name, w: e.w, mu: e.mu, policy: i.logPolicy, log: i.log}
		}
	}

	return &Endpoint{
		name:   name,
		w:      NewPrefixWriter(name, os.Stdout),
		mu:     &defaultEndpointMu,
		policy: i.logPolicy,
		log:    i.log,
	}
}

var defaultEndpointMu sync.Mutex

// LineWriter wraps an io.Writer to ensure each Write call ends with exactly one newline.
// Internal newlines are escaped to keep each log entry on a single line.
type LineWriter struct{ io.Writer }

// Write implements io.Writer for LineWriter. It strips trailing newlines, escapes internal
// newlines, and appends a single newline. The line goes out in a single write to the underlying
// writer so concurrent writers cannot interleave mid-line.
func (lw LineWriter) Write(data []byte) (int, error) {
	originalLen := len(data)

	data = bytes.TrimRight(data, "\n")
	// ReplaceAll copies, so appending below cannot clobber the caller's bytes
	data = bytes.ReplaceAll(data, []byte("\n"), []byte("\\n"))
	data = append(data, '\n')

	if n, err := lw.Writer.Write(data); err != nil {
		return n, err
	}

	// Return the original length to satisfy io.Writer semantics
	return originalLen, nil
}

// PrefixWriter wraps an io.Writer and prepends a prefix to each write operation.
type PrefixWriter struct {
	io.Writer
	prefix string
}

// Write implements io.Writer for PrefixWriter by prepending the prefix to the data.
func (w *PrefixWriter) Write(data []byte) (n int, err error) {
	l := len(data)
	msg := make([]byte, 0, len(w.prefix)+2+len(data))
	msg = append(msg, []byte(w.prefix+": ")...)
	msg = append(msg, data...)

	if n, err := w.Writer.Write(msg); err != nil {
		prefixLen := len(w.prefix) + 2
		if n <= prefixLen {
			return 0, err
		}
		return n - prefixLen, err
	}

	return l, nil
}

// NewPrefixWriter creates a new PrefixWriter that prepends the given prefix to all writes.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{Writer: w, prefix: prefix}
}
