package saver

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/modelkeep/core"
)

// ErrStaleSave is returned by PendingSave.Close when another save completed
// on the same Saver after the handle was opened. Publishing the stale handle
// would reorder URLs, so it is rejected and its bytes are discarded.
var ErrStaleSave = errors.New("pending save is stale: a newer save completed on this saver")

// ErrSaveClosed is returned when a PendingSave is written to after Close.
var ErrSaveClosed = errors.New("pending save already closed")

type startedAt time.Time

func (s startedAt) elapsed() time.Duration { return time.Since(time.Time(s)) }

// PendingSave is the stream-like handle a Saver hands out to callers that
// want to drive serialization themselves instead of passing a Producer. It
// satisfies io.WriteCloser: Write spools bytes through the saver's sink and
// Close finalizes, uploads and records the URL in one step. Saver.Save is a
// thin wrapper over Open / Write / Close.
type PendingSave struct {
	saver   *Saver
	ctx     context.Context
	handle  core.WriteHandle
	name    string
	seq     int
	gen     uint64
	started startedAt
	closed  bool
	url     string
	hasURL  bool
}

// Open resolves the destination name from the current counter and opens a
// sink handle for one save. The returned PendingSave must be finished with
// Close (or discarded via Abort); an open handle holds the sink's spool
// resources. The context is retained for the upload performed by Close.
func (s *Saver) Open(ctx context.Context) (*PendingSave, error) {
	s.mu.Lock()
	name := s.template.Resolve(s.counter)
	seq := s.counter
	gen := s.gen
	s.mu.Unlock()

	h, err := s.opts.Sink.Open(name)
	if err != nil {
		s.observeFailure(name, err)
		return nil, err
	}

	return &PendingSave{
		saver:   s,
		ctx:     ctx,
		handle:  h,
		name:    name,
		seq:     seq,
		gen:     gen,
		started: startedAt(time.Now()),
	}, nil
}

// Name returns the resolved destination name this save will publish under.
func (p *PendingSave) Name() string { return p.name }

// Write spools payload bytes into the underlying sink handle.
func (p *PendingSave) Write(b []byte) (int, error) {
	if p.closed {
		return 0, ErrSaveClosed
	}
	return p.handle.Write(b)
}

// Close finalizes the spooled bytes and performs the synchronous upload. On
// success the saver's latest URL and counter advance and URL reports the
// upload location. On failure the saver is untouched and the error surfaces;
// a handle overtaken by a newer completed save fails with ErrStaleSave.
// Close is a no-op after the first call.
func (p *PendingSave) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	// Reject stale handles before Finalize so a persistent sink never
	// replaces its durable copy with overtaken bytes. commit re-checks under
	// the same lock that guards the upload.
	if p.saver.stale(p.gen) {
		p.abort(nil)
		return ErrStaleSave
	}

	payload, err := p.handle.Finalize()
	if err != nil {
		p.saver.observeFailure(p.name, err)
		return err
	}

	url, err := p.saver.commit(p.ctx, p.gen, p.name, p.seq, payload, p.started)
	if err != nil {
		return err
	}

	p.url = url
	p.hasURL = true

	return nil
}

// Abort discards the pending save without uploading. The sink handle is
// released and, for persistent sinks, the previous durable copy stays
// intact. Abort after Close is a no-op.
func (p *PendingSave) Abort() error {
	if p.closed {
		return nil
	}
	p.abort(nil)
	return nil
}

// URL returns the upload location after a successful Close.
func (p *PendingSave) URL() (string, bool) { return p.url, p.hasURL }

// abort releases the handle after a producer or caller failure. cause, when
// non-nil, is reported to the observer; the sink's own abort error is
// secondary and only logged.
func (p *PendingSave) abort(cause error) {
	p.closed = true
	if err := p.handle.Abort(); err != nil {
		p.saver.opts.Logger.Warn("abort of pending save failed stream=%s name=%s error=%v",
			p.saver.opts.Stream, p.name, err)
	}
	if cause != nil {
		p.saver.observeFailure(p.name, cause)
	}
}
