package core

import (
	"time"

	"github.com/google/uuid"
)

// UploadEvent describes one successful artifact upload. Events are handed to
// observers after the adapter's state has been updated and should be treated
// as immutable.
type UploadEvent struct {
	ID        string        `json:"id"`
	Stream    string        `json:"stream"`    // logical artifact stream label
	Name      string        `json:"name"`      // resolved destination name
	URL       string        `json:"url"`       // canonical remote location
	Size      int64         `json:"size"`      // payload size in bytes
	Seq       int           `json:"seq"`       // counter value this write consumed
	Duration  time.Duration `json:"duration"`  // sink open through upload return
	Timestamp time.Time     `json:"timestamp"` // UTC completion time
}

// FailureEvent describes one failed artifact write, whether the sink or the
// upload stage broke. The adapter's state is unchanged when it fires.
type FailureEvent struct {
	Stream    string    `json:"stream"`
	Name      string    `json:"name"`
	Err       error     `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// UploadObserver receives success and failure notifications from a storage
// adapter. Observers run synchronously on the calling goroutine between the
// state update and the return of the write; implementations should be fast,
// must not panic, and must not call back into the adapter.
type UploadObserver interface {
	UploadSucceeded(UploadEvent)
	UploadFailed(FailureEvent)
}

// NewUploadEvent stamps identity and completion time onto an upload
// notification.
func NewUploadEvent(stream, name, url string, size int64, seq int, dur time.Duration) UploadEvent {
	return UploadEvent{
		ID:        NewID(),
		Stream:    stream,
		Name:      name,
		URL:       url,
		Size:      size,
		Seq:       seq,
		Duration:  dur,
		Timestamp: time.Now().UTC(),
	}
}

// NewFailureEvent stamps the failure time onto a failure notification.
func NewFailureEvent(stream, name string, err error) FailureEvent {
	return FailureEvent{Stream: stream, Name: name, Err: err, Timestamp: time.Now().UTC()}
}

// NewID returns a new unique identifier (UUID v4) for events and runs.
func NewID() string { return uuid.NewString() }
