package testutil

import (
	"github.com/hupe1980/modelkeep/core"
	"github.com/hupe1980/modelkeep/sink"
)

// FlakySink wraps an inner sink and injects failures at configurable points,
// used to exercise the adapter's sink-failure paths without touching the
// filesystem.
type FlakySink struct {
	inner       core.Sink
	OpenErr     error // returned by Open while set
	FinalizeErr error // returned by Finalize of handles opened while set
}

// NewFlakySink wraps inner (defaults to the in-memory sink when nil).
func NewFlakySink(inner core.Sink) *FlakySink {
	if inner == nil {
		inner = sink.NewMemory()
	}
	return &FlakySink{inner: inner}
}

// Open fails with OpenErr when set, otherwise delegates and wraps the handle
// so FinalizeErr can fire later.
func (s *FlakySink) Open(name string) (core.WriteHandle, error) {
	if s.OpenErr != nil {
		return nil, core.NewSinkError(name, s.OpenErr)
	}
	h, err := s.inner.Open(name)
	if err != nil {
		return nil, err
	}
	return &flakyHandle{WriteHandle: h, sink: s, name: name}, nil
}

type flakyHandle struct {
	core.WriteHandle
	sink *FlakySink
	name string
}

func (h *flakyHandle) Finalize() ([]byte, error) {
	if h.sink.FinalizeErr != nil {
		_ = h.WriteHandle.Abort()
		return nil, core.NewSinkError(h.name, h.sink.FinalizeErr)
	}
	return h.WriteHandle.Finalize()
}

var _ core.Sink = (*FlakySink)(nil)
