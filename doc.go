// package edgelike is a Go emulation of an edge-compute host platform.
//
// It is designed to be used as an `http.Handler`, and has a `ServeHTTP` method to accomodate.
// The platform contract is designed around a single instance handling a single request and
// response pair. This package is thus designed accordingly, with each incoming HTTP request being
// passed to a fresh instance of the guest program.
//
// A guest program is a plain Go function that receives the downstream request and a Host, which
// exposes the platform primitives: sending requests to named backends, opening dictionaries,
// writing to log endpoints, geographic lookups, and user agent parsing. On a real edge network the
// host sits on the other side of an ABI; here both sides are native Go, which makes it possible to
// run and test guest programs locally without a live edge network. The semantics of each primitive
// are kept byte- and status-compatible with the hosted platform, including the less friendly edge
// cases (absent dictionary keys fault the handler, a missing client address short-circuits geo
// handlers, a panicking handler is converted into a generic server error).
//
// The public surface area of this package is intentionally small, as it is designed to operate on
// a single (request, response) pair and any fiddling with the internals can cause serious
// side-effects.
//
// BACKENDS / ORIGINS
//
// On the hosted platform you are expected to configure origins. These origins define where your
// requests will go once they pass through the data plane, and you cannot send requests to any
// origin not defined in your service configuration. Guest programs have this same limitation: in
// order to issue a request, a program must select a backend by name.
//
// In edgelike, the caller provides an http.Handler per backend name via WithBackend, or a
// catch-all via WithDefaultBackend. The default implementation answers 502 Bad Gateway for every
// backend, which is usually the first thing you want to replace.
package edgelike
