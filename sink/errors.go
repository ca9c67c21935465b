package sink

import "errors"

// ErrHandleSpent is returned when a write handle is used after Finalize or
// Abort. Handles are single-shot; open a fresh one per checkpoint write.
var ErrHandleSpent = errors.New("write handle already finalized or aborted")
