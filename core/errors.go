package core

import (
	"errors"
	"fmt"
)

// ErrContainerNotFound signals that the remote container (repository, bucket,
// ...) addressed by an uploader does not exist and auto-creation is disabled.
// Uploaders wrap it inside an *UploadError so callers can detect the case via
// errors.Is while still handling the failure like any other upload failure.
var ErrContainerNotFound = errors.New("remote container not found")

// ConfigError reports an invalid component configuration: a malformed name
// template, a duplicate stream, an unusable local path. It is raised at
// construction time only; a successfully constructed component never produces
// it during writes.
type ConfigError struct {
	Field   string // configuration field that failed validation
	Message string // human-readable description
}

// NewConfigError creates a ConfigError for the given field.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error [%s]: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// SinkError reports a local byte-sink failure (open, write or finalize). The
// write that produced it fails; adapter state stays untouched.
type SinkError struct {
	Name string // resolved destination name the sink was opened for
	Err  error  // underlying I/O error
}

// NewSinkError wraps err as a sink failure for the given resolved name.
func NewSinkError(name string, err error) *SinkError {
	return &SinkError{Name: name, Err: err}
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink error for %q: %v", e.Name, e.Err)
}

// Unwrap exposes the underlying I/O error for errors.Is / errors.As.
func (e *SinkError) Unwrap() error { return e.Err }

// UploadError reports a remote upload failure: network trouble, rejected
// credentials or a remote-side refusal. The write that produced it fails; the
// adapter's counter and latest URL stay untouched, so the next attempt reuses
// the same resolved name.
type UploadError struct {
	Dest string // destination path the upload addressed
	Err  error  // underlying cause
}

// NewUploadError wraps err as an upload failure for the given destination.
func NewUploadError(dest string, err error) *UploadError {
	return &UploadError{Dest: dest, Err: err}
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %q failed: %v", e.Dest, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *UploadError) Unwrap() error { return e.Err }
