// Package modelkeep provides a high-level façade over the per-stream storage
// adapters (savers, sinks, uploaders & logging) enabling concise checkpoint
// wiring for a whole training run. Most applications interact with this
// package by:
//  1. Creating a Checkpointer via New() with the remote uploader of choice
//  2. Registering one target per artifact stream (model, params, optimizer, ...)
//  3. Saving at decision points (Save for several streams, SaveStream for one)
//
// The façade delegates the actual write-spool-upload cycle to saver.Saver
// while keeping setup and usage ergonomics concise. All defaults are safe for
// local development and testing; production deployments typically supply a
// GitHub or S3 uploader, persistent sinks and a structured logger.
package modelkeep

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/modelkeep/core"
	"github.com/hupe1980/modelkeep/logging"
	"github.com/hupe1980/modelkeep/saver"
)

// Conventional stream names for the artifacts a training run typically
// checkpoints. Any other label works; these only establish a shared
// vocabulary between training code and tooling.
const (
	StreamModel     = "model"     // full serialized model
	StreamParams    = "params"    // parameter-only weights
	StreamOptimizer = "optimizer" // optimizer state
	StreamCriterion = "criterion" // loss/criterion state
	StreamHistory   = "history"   // per-epoch metric history
)

// ErrUnknownStream is returned when a save names a stream that was never
// registered as a target.
var ErrUnknownStream = fmt.Errorf("unknown artifact stream")

// Options configures the Checkpointer instance. Everything set here is shared
// by all registered targets.
type Options struct {
	// Credential is handed through to the uploader on every save.
	Credential core.Credential

	// Verbose emits an Info notice per successful upload.
	Verbose bool

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Observer receives upload success/failure notifications for all
	// streams, e.g. a metrics.Recorder.
	Observer core.UploadObserver
}

// TargetOptions configures one registered artifact stream.
type TargetOptions struct {
	// Sink overrides the default ephemeral in-memory sink, e.g.
	// sink.NewFile(path) to keep a durable local copy.
	Sink core.Sink
}

// Checkpointer is the high-level façade aggregating one saver per artifact
// stream behind a single uploader and shared configuration.
type Checkpointer struct {
	uploader core.Uploader
	opts     Options

	mu     sync.RWMutex
	order  []string // registration order, drives multi-stream saves
	savers map[string]*saver.Saver
	paths  map[string]string // persistent local path -> stream, for uniqueness
}

// New creates a Checkpointer publishing through the given uploader.
func New(uploader core.Uploader, optFns ...func(o *Options)) *Checkpointer {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Checkpointer{
		uploader: uploader,
		opts:     opts,
		savers:   make(map[string]*saver.Saver),
		paths:    make(map[string]string),
	}
}

// AddTarget registers one artifact stream under a destination name template.
// It fails with a *core.ConfigError on a malformed template, a duplicate
// stream or a persistent local path already claimed by another target.
func (c *Checkpointer) AddTarget(stream, template string, optFns ...func(o *TargetOptions)) error {
	topts := TargetOptions{}
	for _, fn := range optFns {
		fn(&topts)
	}

	if stream == "" {
		return core.NewConfigError("stream", "stream name must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.savers[stream]; exists {
		return core.NewConfigError("stream", fmt.Sprintf("stream %q already registered", stream))
	}

	// Two targets spooling into the same local file would clobber each
	// other's durable copies.
	var localPath string
	if p, ok := topts.Sink.(interface{ Path() string }); ok {
		localPath = p.Path()
		if other, taken := c.paths[localPath]; taken {
			return core.NewConfigError("local_storage",
				fmt.Sprintf("local path %q already used by stream %q", localPath, other))
		}
	}

	s, err := saver.New(c.uploader, template, func(o *saver.Options) {
		o.Stream = stream
		o.Credential = c.opts.Credential
		o.Verbose = c.opts.Verbose
		o.Logger = c.opts.Logger
		o.Observer = c.opts.Observer
		if topts.Sink != nil {
			o.Sink = topts.Sink
		}
	})
	if err != nil {
		return err
	}

	c.savers[stream] = s
	c.order = append(c.order, stream)
	if localPath != "" {
		c.paths[localPath] = stream
	}

	return nil
}

// Save writes the given streams in registration order. Streams without a
// producer are skipped; a producer for an unregistered stream fails before
// anything is written. The first failing stream stops the sequence and its
// error propagates, leaving later streams untouched; the training loop
// decides whether to abort or continue.
func (c *Checkpointer) Save(ctx context.Context, producers map[string]core.Producer) error {
	c.mu.RLock()
	order := make([]string, len(c.order))
	copy(order, c.order)
	savers := make(map[string]*saver.Saver, len(c.savers))
	for stream, s := range c.savers {
		savers[stream] = s
	}
	c.mu.RUnlock()

	for stream := range producers {
		if _, ok := savers[stream]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownStream, stream)
		}
	}

	for _, stream := range order {
		produce, ok := producers[stream]
		if !ok {
			continue
		}
		if err := savers[stream].Save(ctx, produce); err != nil {
			return fmt.Errorf("stream %q: %w", stream, err)
		}
	}

	return nil
}

// SaveStream writes a single registered stream.
func (c *Checkpointer) SaveStream(ctx context.Context, stream string, produce core.Producer) error {
	s, ok := c.Saver(stream)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStream, stream)
	}
	return s.Save(ctx, produce)
}

// Saver returns the underlying saver for a stream, e.g. to open a streaming
// PendingSave handle directly.
func (c *Checkpointer) Saver(stream string) (*saver.Saver, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.savers[stream]
	return s, ok
}

// LatestURL returns the most recent successful upload URL for a stream.
func (c *Checkpointer) LatestURL(stream string) (string, bool) {
	s, ok := c.Saver(stream)
	if !ok {
		return "", false
	}
	return s.LatestURL()
}

// URLs returns the latest URL per stream, omitting streams that have not
// uploaded successfully yet.
func (c *Checkpointer) URLs() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	urls := make(map[string]string, len(c.savers))
	for stream, s := range c.savers {
		if url, ok := s.LatestURL(); ok {
			urls[stream] = url
		}
	}
	return urls
}

// Streams returns the registered stream names in registration order.
func (c *Checkpointer) Streams() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
