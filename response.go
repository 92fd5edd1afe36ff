package edgelike

import (
	"io"
	"net/http"
	"strconv"
)

// Response is the guest-side view of an HTTP response. Handlers construct one fresh per request,
// either synthetically or by forwarding to a backend; ownership transfers to the instance when
// the handler returns.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       *Body
}

// NewResponse returns a response with the supplied status code and body. A nil body is replaced
// with an empty one.
func NewResponse(status int, body *Body) *Response {
	if body == nil {
		body = NewBody()
	}

	return &Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       body,
	}
}

// fromHTTPResponse wraps a backend's http.Response verbatim: status, headers, and body pass
// through untouched.
func fromHTTPResponse(w *http.Response) *Response {
	var body *Body
	if w.Body != nil {
		body = BodyFromReader(w.Body)
	} else {
		body = NewBody()
	}

	if w.ContentLength >= 0 {
		body.length = w.ContentLength
	}

	return &Response{
		StatusCode: w.StatusCode,
		Header:     w.Header.Clone(),
		Body:       body,
	}
}

// sendDownstream writes the response out to the downstream client. This is the last thing an
// instance does with a request/response pair.
func (resp *Response) sendDownstream(w http.ResponseWriter) error {
	for name, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}

	if sz := resp.Body.Size(); sz >= 0 && w.Header().Get("content-length") == "" {
		w.Header().Set("content-length", strconv.FormatInt(sz, 10))
	}

	w.WriteHeader(resp.StatusCode)

	_, err := io.Copy(w, resp.Body)
	if cerr := resp.Body.Close(); err == nil {
		err = cerr
	}
	return err
}
