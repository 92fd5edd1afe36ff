package edgelike

import (
	"net"
	"net/http"
	"net/url"
)

// Request is the guest-side view of an HTTP request. It is mutable: handlers may adjust the
// method, url, headers, and body in place before forwarding it to a backend. A request owns its
// body; forwarding it hands the body off to the backend.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   *Body

	// Host is the authority the downstream client addressed
	Host string

	// RemoteAddr is the network address of the downstream peer, when the host could determine
	// one. It may be empty.
	RemoteAddr string
}

// NewRequest returns a request suitable for sending to a backend.
func NewRequest(method, rawurl string) (*Request, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, err
	}

	return &Request{
		Method: method,
		URL:    u,
		Header: make(http.Header),
		Body:   NewBody(),
	}, nil
}

// downstreamRequest converts an incoming http.Request into the guest-side view.
func downstreamRequest(r *http.Request) *Request {
	// downstream requests don't carry host or scheme on their url, so fill them in from the
	// connection metadata before the guest sees them
	u := *r.URL
	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}

	var body *Body
	if r.Body != nil {
		body = BodyFromReader(r.Body)
	} else {
		body = NewBody()
	}

	return &Request{
		Method:     r.Method,
		URL:        &u,
		Header:     r.Header.Clone(),
		Body:       body,
		Host:       r.Host,
		RemoteAddr: r.RemoteAddr,
	}
}

// clientIP derives the downstream peer IP, or nil if the host cannot determine one.
func (r *Request) clientIP() net.IP {
	if r.RemoteAddr == "" {
		return nil
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// no port attached, try the whole thing
		host = r.RemoteAddr
	}

	return net.ParseIP(host)
}
