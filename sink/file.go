package sink

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/modelkeep/core"
)

// File is the persistent byte sink: every finalized write leaves the payload
// at a fixed local path, overwriting the previous checkpoint. Bytes are
// spooled to a temporary sibling file first and renamed into place on
// Finalize, so an aborted or failed write never clobbers the last durable
// copy.
//
// The path must be unique per adapter instance; two adapters sharing one path
// would overwrite each other's checkpoints.
type File struct {
	path string
	perm os.FileMode
}

// FileOptions configures a persistent sink.
type FileOptions struct {
	// Perm is the file mode for the durable copy (default 0o644).
	Perm os.FileMode
}

// NewFile returns a persistent sink that stores finalized payloads at path.
func NewFile(path string, optFns ...func(*FileOptions)) *File {
	opts := FileOptions{Perm: 0o644}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &File{path: path, perm: opts.Perm}
}

// Path returns the local path finalized payloads are stored at.
func (f *File) Path() string { return f.path }

// Open creates the temporary spool file for one write. Failure to create it
// (missing directory, permissions) surfaces as a *core.SinkError.
func (f *File) Open(name string) (core.WriteHandle, error) {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, core.NewSinkError(name, fmt.Errorf("create local directory: %w", err))
		}
	}
	tmp, err := os.OpenFile(f.path+".tmp", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.perm)
	if err != nil {
		return nil, core.NewSinkError(name, fmt.Errorf("open local copy: %w", err))
	}
	return &fileHandle{name: name, path: f.path, tmp: tmp}, nil
}

type fileHandle struct {
	name  string
	path  string
	tmp   *os.File
	buf   bytes.Buffer
	spent bool
}

func (h *fileHandle) Write(p []byte) (int, error) {
	if h.spent {
		return 0, core.NewSinkError(h.name, ErrHandleSpent)
	}
	n, err := h.tmp.Write(p)
	if n > 0 {
		h.buf.Write(p[:n])
	}
	if err != nil {
		return n, core.NewSinkError(h.name, fmt.Errorf("write local copy: %w", err))
	}
	return n, nil
}

func (h *fileHandle) Finalize() ([]byte, error) {
	if h.spent {
		return nil, core.NewSinkError(h.name, ErrHandleSpent)
	}
	h.spent = true
	if err := h.tmp.Sync(); err != nil {
		h.discard()
		return nil, core.NewSinkError(h.name, fmt.Errorf("sync local copy: %w", err))
	}
	if err := h.tmp.Close(); err != nil {
		_ = os.Remove(h.tmp.Name())
		return nil, core.NewSinkError(h.name, fmt.Errorf("close local copy: %w", err))
	}
	if err := os.Rename(h.tmp.Name(), h.path); err != nil {
		_ = os.Remove(h.tmp.Name())
		return nil, core.NewSinkError(h.name, fmt.Errorf("replace local copy: %w", err))
	}
	return h.buf.Bytes(), nil
}

func (h *fileHandle) Abort() error {
	if h.spent {
		return nil
	}
	h.spent = true
	h.buf.Reset()
	if err := h.tmp.Close(); err != nil {
		_ = os.Remove(h.tmp.Name())
		return core.NewSinkError(h.name, fmt.Errorf("close local copy: %w", err))
	}
	if err := os.Remove(h.tmp.Name()); err != nil {
		return core.NewSinkError(h.name, fmt.Errorf("discard local copy: %w", err))
	}
	return nil
}

func (h *fileHandle) discard() {
	_ = h.tmp.Close()
	_ = os.Remove(h.tmp.Name())
}
