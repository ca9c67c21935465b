package sink

import (
	"bytes"

	"github.com/hupe1980/modelkeep/core"
)

// Memory is the ephemeral byte sink: each handle accumulates bytes in an
// in-process buffer that is released once the payload has been consumed.
// Opening never fails, which makes it the default sink for adapters that do
// not need a durable local copy of their checkpoints.
type Memory struct{}

// NewMemory returns the ephemeral in-memory sink.
func NewMemory() *Memory { return &Memory{} }

// Open returns a fresh buffering handle. The resolved name is carried only
// for error reporting; handles from separate opens never share bytes.
func (m *Memory) Open(name string) (core.WriteHandle, error) {
	return &memoryHandle{name: name}, nil
}

type memoryHandle struct {
	name  string
	buf   bytes.Buffer
	spent bool
}

func (h *memoryHandle) Write(p []byte) (int, error) {
	if h.spent {
		return 0, core.NewSinkError(h.name, ErrHandleSpent)
	}
	return h.buf.Write(p)
}

func (h *memoryHandle) Finalize() ([]byte, error) {
	if h.spent {
		return nil, core.NewSinkError(h.name, ErrHandleSpent)
	}
	h.spent = true
	return h.buf.Bytes(), nil
}

func (h *memoryHandle) Abort() error {
	h.spent = true
	h.buf.Reset()
	return nil
}
