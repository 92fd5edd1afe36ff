package edgelike

import (
	"bytes"
	"io"
	"strings"
)

// Body is an ordered, appendable byte sequence used for request and response payloads. It could
// be readable or writable, but not both. For cases where it's connected to an underlying request
// or response body, the reader or writer properties reference the original. For new bodies, buf
// holds the contents and the reader or writer wraps it.
type Body struct {
	reader io.Reader
	writer io.Writer
	closer io.Closer

	// for bodies created outside of a request/response, buf holds the body content
	buf *bytes.Buffer

	// length is the number of bytes written into the body, when known
	length int64
}

// NewBody returns an empty Body backed by a buffer which can be read from or written to.
func NewBody() *Body {
	b := &Body{buf: new(bytes.Buffer)}
	b.reader = b.buf
	b.writer = b.buf
	return b
}

// BodyFromString returns a read-only Body whose contents are the bytes of s.
func BodyFromString(s string) *Body {
	b := &Body{reader: strings.NewReader(s), length: int64(len(s))}
	return b
}

// BodyFromBytes returns a read-only Body that owns the supplied byte slice.
func BodyFromBytes(p []byte) *Body {
	buf := bytes.NewBuffer(p)
	b := &Body{buf: buf, reader: buf, length: int64(len(p))}
	return b
}

// BodyFromReader returns a read-only Body whose reader and closer are connected to the supplied
// ReadCloser. Its size is unknown until the reader is drained.
func BodyFromReader(rdr io.ReadCloser) *Body {
	return &Body{reader: rdr, closer: rdr, length: -1}
}

// Read implements io.Reader for a Body
func (b *Body) Read(p []byte) (int, error) {
	if b.reader == nil {
		return 0, io.EOF
	}
	return b.reader.Read(p)
}

// Write implements io.Writer for a Body. Bodies constructed over fixed or streaming content are
// read-only and refuse writes, so Size can never overstate the readable bytes.
func (b *Body) Write(p []byte) (int, error) {
	if b.writer == nil {
		return 0, ErrBodyNotWritable
	}

	n, err := b.writer.Write(p)
	b.length += int64(n)
	return n, err
}

// Close implements io.Closer for a Body
func (b *Body) Close() error {
	if b.closer != nil {
		return b.closer.Close()
	}
	return nil
}

// Append arranges for other's bytes to be read after the current contents, in call order. The
// existing contents are not copied; the reader is replaced with a multireader that reads first
// from the original reader and then from the source.
func (b *Body) Append(other *Body) {
	if other == nil {
		return
	}

	b.reader = io.MultiReader(b.reader, other)
	if b.length >= 0 && other.length >= 0 {
		b.length += other.length
	} else {
		b.length = -1
	}
}

// Size returns the number of bytes in the body, or -1 when the length is unknown (for example, a
// body streaming from a downstream request).
func (b *Body) Size() int64 {
	return b.length
}
