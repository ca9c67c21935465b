// Package sink contains concrete implementations of the core.Sink contract.
//
// The canonical Sink and WriteHandle interfaces live in the core package to
// keep domain contracts central. Implementations here cover the two buffering
// modes a storage adapter can be constructed with: Memory (ephemeral, bytes
// held in process and released after the upload) and File (persistent, the
// finalized payload is retained at a fixed local path).
//
// Callers should depend on the core interfaces rather than these concrete
// types so alternative spooling strategies can be substituted in tests or
// production.
package sink
