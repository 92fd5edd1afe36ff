package edgelike

import (
	"net"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Host is the guest program's view of the platform. Each primitive maps to one hosted capability
// and keeps its semantics: backends by name, read-only dictionaries, named log endpoints, geo
// lookups over the downstream peer address, and opaque user agent parsing.
type Host struct {
	i *Instance
}

// Send forwards req to the named backend and returns its response verbatim. Headers the guest
// set on req travel with it. An unreachable or stuck backend yields ErrBackendUnavailable.
func (h *Host) Send(req *Request, backend string) (*Response, error) {
	return h.i.sendBackend(req, backend)
}

// ClientIP returns the downstream peer address, or nil when the host cannot determine one.
// Handlers that need geo data must check for nil before calling GeoLookup.
func (h *Host) ClientIP() net.IP {
	return h.i.clientIP()
}

// GeoLookup maps a client address to its geo record.
func (h *Host) GeoLookup(ip net.IP) Geo {
	h.i.abilog.Debug("geo_lookup", zap.String("ip", ip.String()))
	return h.i.geolookup(ip)
}

// Dictionary opens the named dictionary. Opening a dictionary that was never configured is an
// error, matching the invalid-handle outcome on the hosted platform.
func (h *Host) Dictionary(name string) (*Dictionary, error) {
	h.i.abilog.Debug("dictionary_open", zap.String("name", name))

	d := h.i.getDictionary(name)
	if d == nil {
		return nil, errors.Wrapf(ErrDictionaryNotFound, "no dictionary %q", name)
	}

	return d, nil
}

// Endpoint returns the named log endpoint. Names of the standard process streams are reserved
// and rejected. Endpoints that were never configured still work: they write name-prefixed lines
// to stdout.
func (h *Host) Endpoint(name string) (*Endpoint, error) {
	h.i.abilog.Debug("log_endpoint_get", zap.String("name", name))

	if endpointNameReserved(name) {
		return nil, errors.Wrapf(ErrEndpointReserved, "endpoint %q", name)
	}

	return h.i.getEndpoint(name), nil
}

// ParseUserAgent runs the configured user agent parser over uastring. Pass the empty string when
// the header is absent; never skip the call because of a missing header.
func (h *Host) ParseUserAgent(uastring string) (UserAgent, error) {
	h.i.abilog.Debug("uap_parse", zap.String("useragent", uastring))
	return h.i.uaparser(uastring)
}

// TraceID returns the identifier correlating log output for the current request.
func (h *Host) TraceID() string {
	return h.i.traceID
}
