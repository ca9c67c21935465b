package saver

import (
	"context"
	"sync"

	"github.com/hupe1980/modelkeep/core"
	"github.com/hupe1980/modelkeep/logging"
	"github.com/hupe1980/modelkeep/sink"
)

// DefaultStream is the stream label used when none is configured. The label
// only shapes log lines and observer events; it never reaches the remote
// store.
const DefaultStream = "artifact"

// Options configures a Saver.
type Options struct {
	// Stream is the logical artifact stream label attached to log lines and
	// observer events (default DefaultStream).
	Stream string

	// Sink spools the serialized bytes of each save. Defaults to the
	// ephemeral in-memory sink; pass a sink.File to additionally keep a
	// durable local copy of the last checkpoint.
	Sink core.Sink

	// Credential is handed through to the uploader on every save. The saver
	// never inspects it.
	Credential core.Credential

	// Verbose emits an Info notice through Logger after every successful
	// upload, naming the resulting URL.
	Verbose bool

	// Logger receives verbose notices and debug output (default NoOpLogger).
	Logger logging.Logger

	// Observer, when set, receives a notification per completed save,
	// successful or failed.
	Observer core.UploadObserver
}

// Saver is the storage adapter for one artifact stream. All methods are safe
// for concurrent use; saves serialize fully per instance so at most one
// upload is in flight per Saver at any time.
type Saver struct {
	uploader core.Uploader
	template core.NameTemplate
	opts     Options

	mu      sync.Mutex
	counter int    // next slot value for templated names; frozen at 0 otherwise
	saves   int    // successful saves, templated or not
	gen     uint64 // bumped per successful save; guards stale pending handles
	url     string
	hasURL  bool
}

// New builds a Saver publishing through uploader under names resolved from
// template. The template is validated here: a malformed or multi-slot
// template fails construction with a *core.ConfigError, never the first save.
func New(uploader core.Uploader, template string, optFns ...func(o *Options)) (*Saver, error) {
	opts := Options{
		Stream: DefaultStream,
		Sink:   sink.NewMemory(),
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Stream == "" {
		opts.Stream = DefaultStream
	}
	if opts.Sink == nil {
		opts.Sink = sink.NewMemory()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if uploader == nil {
		return nil, core.NewConfigError("uploader", "uploader must not be nil")
	}

	tmpl, err := core.ParseNameTemplate(template)
	if err != nil {
		return nil, err
	}

	return &Saver{uploader: uploader, template: tmpl, opts: opts}, nil
}

// Save runs one full checkpoint write: resolve the destination name, spool
// the producer's bytes through the sink, upload the finalized payload and
// record the returned URL. On any failure the error surfaces to the caller
// and the saver's state is untouched, so the next Save retries under the
// same resolved name.
func (s *Saver) Save(ctx context.Context, produce core.Producer) error {
	p, err := s.Open(ctx)
	if err != nil {
		return err
	}

	if err := produce(p); err != nil {
		p.abort(err)
		return err
	}

	return p.Close()
}

// LatestURL returns the canonical URL of the most recent successful upload.
// It is absent until the first success and is never cleared by later
// failures.
func (s *Saver) LatestURL() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url, s.hasURL
}

// Count returns the number of successful saves. For templated names this is
// also the counter value the next resolve will consume.
func (s *Saver) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Stream returns the logical stream label.
func (s *Saver) Stream() string { return s.opts.Stream }

// Template returns the destination name template.
func (s *Saver) Template() core.NameTemplate { return s.template }

// commit publishes a finalized payload under name and, on success, advances
// the saver's state. Called with the pending save's generation snapshot so a
// handle that was overtaken by a newer completed save is rejected instead of
// publishing out of order.
func (s *Saver) commit(ctx context.Context, gen uint64, name string, seq int, payload []byte, started startedAt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return "", ErrStaleSave
	}

	res, err := s.uploader.Upload(ctx, payload, name, s.opts.Credential)
	if err != nil {
		s.observeFailure(name, err)
		return "", err
	}

	s.url = res.URL
	s.hasURL = true
	s.gen++
	s.saves++
	if s.template.Templated() {
		s.counter++
	}

	if s.opts.Verbose {
		s.opts.Logger.Info("checkpoint uploaded stream=%s name=%s bytes=%d url=%s",
			s.opts.Stream, name, len(payload), res.URL)
	}
	if s.opts.Observer != nil {
		s.opts.Observer.UploadSucceeded(core.NewUploadEvent(
			s.opts.Stream, name, res.URL, int64(len(payload)), seq, started.elapsed(),
		))
	}

	return res.URL, nil
}

// stale reports whether a save completed since gen was snapshotted.
func (s *Saver) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen != gen
}

func (s *Saver) observeFailure(name string, err error) {
	if s.opts.Observer != nil {
		s.opts.Observer.UploadFailed(core.NewFailureEvent(s.opts.Stream, name, err))
	}
}
