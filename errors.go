package edgelike

import (
	"errors"
	"fmt"
)

// These are the failure conditions a guest program can observe from the host primitives. They
// mirror the status codes the hosted platform returns from its ABI calls, but expressed as Go
// errors so guests can handle or propagate them like any other error.
var (
	// ErrBackendUnavailable means a subrequest could not be completed, either because the
	// backend never responded within the configured timeout or the downstream client hung up
	// while we were waiting on it.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrDictionaryNotFound means no dictionary is configured under the requested name.
	ErrDictionaryNotFound = errors.New("dictionary not found")

	// ErrKeyAbsent means a dictionary has no entry for the requested key. Note that this is
	// distinct from a key holding an empty value.
	ErrKeyAbsent = errors.New("dictionary key absent")

	// ErrEndpointReserved means a log endpoint name collides with a reserved stream name.
	ErrEndpointReserved = errors.New("log endpoint name is reserved")

	// ErrNoResponse means a guest program returned neither a response nor an error. The
	// instance treats it as a guest fault so delivery never dereferences a missing response.
	ErrNoResponse = errors.New("guest program returned no response")

	// ErrBodyNotWritable means a write was attempted on a body constructed over fixed or
	// streaming content, which only supports reading.
	ErrBodyNotWritable = errors.New("body is not writable")
)

// GuestPanic is the caught form of an abnormal guest termination. The instance converts any panic
// raised during a guest invocation into one of these, which the serve loop then renders as a
// generic server error. It never escapes the instance.
type GuestPanic struct {
	// Value is whatever was passed to panic()
	Value interface{}

	// Stack is the guest goroutine stack captured at recovery time
	Stack []byte
}

func (p *GuestPanic) Error() string {
	return fmt.Sprintf("guest program panicked: %v", p.Value)
}

// check panics on a non-nil error. Guest programs use it for operations that the platform
// contract treats as must-succeed; the resulting panic is caught at the instance boundary and
// becomes a server error response.
func check(err error) {
	if err != nil {
		panic(err)
	}
}
