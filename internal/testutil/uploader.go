package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/hupe1980/modelkeep/core"
)

// UploadCall records one Upload invocation seen by a ScriptedUploader.
type UploadCall struct {
	Dest    string
	Payload []byte
	Cred    core.Credential
}

// ScriptedUploader is a core.Uploader test double replaying a fixed sequence
// of outcomes. Example:
//
//	up := NewScriptedUploader().Succeed().Fail(errBoom).Succeed()
//
// makes the first upload succeed, the second fail with errBoom (wrapped in a
// *core.UploadError) and the third succeed again. Once the script is
// exhausted every further upload succeeds. Successful uploads return
// "test://<dest>" and the full call history is kept for assertions.
type ScriptedUploader struct {
	mu     sync.Mutex
	script []error // nil entry = success
	calls  []UploadCall
}

// NewScriptedUploader returns an uploader with an empty script, i.e. every
// upload succeeds.
func NewScriptedUploader() *ScriptedUploader {
	return &ScriptedUploader{}
}

// Succeed appends a successful outcome to the script (chainable).
func (u *ScriptedUploader) Succeed() *ScriptedUploader {
	u.script = append(u.script, nil)
	return u
}

// Fail appends a failing outcome to the script (chainable). err is wrapped
// in a *core.UploadError like a real backend would.
func (u *ScriptedUploader) Fail(err error) *ScriptedUploader {
	u.script = append(u.script, err)
	return u
}

// Upload pops the next scripted outcome and records the call.
func (u *ScriptedUploader) Upload(_ context.Context, payload []byte, dest string, cred core.Credential) (core.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	cp := make([]byte, len(payload))
	copy(cp, payload)
	u.calls = append(u.calls, UploadCall{Dest: dest, Payload: cp, Cred: cred})

	var outcome error
	if len(u.script) > 0 {
		outcome = u.script[0]
		u.script = u.script[1:]
	}
	if outcome != nil {
		return core.UploadResult{}, core.NewUploadError(dest, outcome)
	}
	return core.UploadResult{URL: "test://" + dest}, nil
}

// Calls returns a snapshot of the recorded upload calls.
func (u *ScriptedUploader) Calls() []UploadCall {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]UploadCall, len(u.calls))
	copy(out, u.calls)
	return out
}

// Dests returns just the destination names of the recorded calls, in order.
func (u *ScriptedUploader) Dests() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, len(u.calls))
	for i, c := range u.calls {
		out[i] = c.Dest
	}
	return out
}

// RecordingObserver collects upload observer notifications for assertions.
type RecordingObserver struct {
	mu        sync.Mutex
	Successes []core.UploadEvent
	Failures  []core.FailureEvent
}

// UploadSucceeded records a success event.
func (o *RecordingObserver) UploadSucceeded(ev core.UploadEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Successes = append(o.Successes, ev)
}

// UploadFailed records a failure event.
func (o *RecordingObserver) UploadFailed(ev core.FailureEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Failures = append(o.Failures, ev)
}

// Counts returns the number of recorded successes and failures.
func (o *RecordingObserver) Counts() (successes, failures int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.Successes), len(o.Failures)
}

var _ core.UploadObserver = (*RecordingObserver)(nil)

// BytesProducer returns a core.Producer writing the given payload.
func BytesProducer(payload []byte) core.Producer {
	return func(w io.Writer) error {
		_, err := w.Write(payload)
		return err
	}
}

// StringProducer returns a core.Producer writing the given string.
func StringProducer(payload string) core.Producer {
	return BytesProducer([]byte(payload))
}

// FailingProducer returns a core.Producer that fails without writing.
func FailingProducer(err error) core.Producer {
	return func(io.Writer) error {
		return fmt.Errorf("serialize artifact: %w", err)
	}
}
