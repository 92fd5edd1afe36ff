package edgelike

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ReferenceProgram is the guest program used to validate host implementations against the
// platform contract. Every route exercises one primitive; the exact bytes and statuses matter,
// down to the unfriendly cases (an absent dictionary key faults the handler rather than producing
// a 404, a parse failure on /user-agent still answers 200). backend names the origin the
// forwarding routes send to.
func ReferenceProgram(backend string) Handler {
	rt := NewRouter()

	rt.Exact(http.MethodGet, "/simple-response", func(h *Host, req *Request) (*Response, error) {
		return NewResponse(http.StatusOK, BodyFromString("Hello, world!")), nil
	})

	rt.Exact(http.MethodGet, "/no-body", func(h *Host, req *Request) (*Response, error) {
		return NewResponse(http.StatusNoContent, NewBody()), nil
	})

	rt.Exact(http.MethodGet, "/user-agent", func(h *Host, req *Request) (*Response, error) {
		// An absent header parses the same as an empty string; parse failures render as the
		// literal string "error". Both are 200s, a parser failure is not a protocol error.
		ua, err := h.ParseUserAgent(req.Header.Get("user-agent"))

		var s string
		if err != nil {
			s = "error"
		} else {
			s = fmt.Sprintf("%s %s.%s.%s",
				ua.Family,
				orZero(ua.Major),
				orZero(ua.Minor),
				orZero(ua.Patch))
		}

		return NewResponse(http.StatusOK, BodyFromString(s)), nil
	})

	rt.Exact(http.MethodGet, "/append-header", func(h *Host, req *Request) (*Response, error) {
		req.Header.Set("test-header", "test-value")
		return h.Send(req, backend)
	})

	rt.Exact(http.MethodGet, "/append-body", func(h *Host, req *Request) (*Response, error) {
		body := BodyFromString("original\n")
		body.Append(BodyFromString("appended"))
		return NewResponse(http.StatusOK, body), nil
	})

	rt.Prefix(http.MethodGet, "/proxy", func(h *Host, req *Request) (*Response, error) {
		return h.Send(req, backend)
	})

	// This one is used for example purposes, not tests
	rt.Prefix(http.MethodGet, "/testdata", func(h *Host, req *Request) (*Response, error) {
		return h.Send(req, backend)
	})

	rt.Exact(http.MethodGet, "/panic!", func(h *Host, req *Request) (*Response, error) {
		panic("you told me to")
	})

	rt.Exact(http.MethodGet, "/geo", func(h *Host, req *Request) (*Response, error) {
		ip := h.ClientIP()
		if ip == nil {
			return NewResponse(http.StatusInternalServerError, NewBody()), nil
		}

		geo := h.GeoLookup(ip)
		payload, err := json.Marshal(map[string]string{"as_name": geo.ASName})
		check(err)

		return NewResponse(http.StatusOK, BodyFromBytes(payload)), nil
	})

	rt.Exact(http.MethodGet, "/log", func(h *Host, req *Request) (*Response, error) {
		endpoint, err := h.Endpoint("default")
		check(err)

		_, err = endpoint.WriteString("Hello from edgelike!")
		check(err)

		return NewResponse(http.StatusNoContent, NewBody()), nil
	})

	rt.Prefix(http.MethodGet, "/dictionary", func(h *Host, req *Request) (*Response, error) {
		// open the dictionary and get the key specified in the path
		parts := strings.Split(req.URL.Path[1:], "/")
		name, key := parts[1], parts[2]

		dict, err := h.Dictionary(name)
		check(err)

		value, err := dict.Get(key)
		check(err)

		return NewResponse(http.StatusOK, BodyFromString(value)), nil
	})

	return rt.Serve
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
