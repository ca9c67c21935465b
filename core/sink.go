package core

import "io"

// Producer serializes an in-memory artifact (full model, parameter set,
// optimizer state, training history, ...) by writing its byte representation
// to w. It is invoked once per write against a fresh handle and must not
// retain w after returning.
type Producer func(w io.Writer) error

// WriteHandle accumulates the bytes of a single artifact write. Write may be
// called any number of times; Finalize completes the write exactly once and
// returns the full payload. After Finalize or Abort the handle is spent and
// further writes fail.
type WriteHandle interface {
	io.Writer

	// Finalize completes the write and returns the accumulated payload.
	// Persistent sinks additionally leave the payload durably at their
	// local path before returning.
	Finalize() ([]byte, error)

	// Abort releases the handle without producing a payload, used when the
	// serialization producer fails midway. Persistent sinks discard the
	// partial output and keep any previously finalized copy intact. Abort
	// after Finalize is a no-op.
	Abort() error
}

// Sink hands out independent write handles under a resolved destination name.
// Implementations are either ephemeral (in-memory buffer whose contents are
// released once the payload has been consumed) or persistent (a named local
// file retained after the upload). A sink must support being opened
// repeatedly within one process lifetime with no byte carry-over between
// handles.
type Sink interface {
	Open(name string) (WriteHandle, error)
}
