// Package logging provides a minimal logging interface and adapters for ModelKeep.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that savers and uploaders use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ZapAdapter wrapping go.uber.org/zap
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	s, err := saver.New(uploader, "model-{}.pkl", func(o *saver.Options) {
//		o.Logger = logger
//		o.Verbose = true
//	})
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
