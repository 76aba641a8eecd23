// Package server wires the Fiber application around the static handler: it
// owns the mount registry (ordered URL-prefix routing over one listen port),
// the request-ID middleware and the fallthrough chain that tries each
// matching mount until one handles the request. Handler implementations live
// elsewhere and plug in through the StaticHandler interface, which keeps this
// package testable with fakes.
package server
