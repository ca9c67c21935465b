package remote

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/modelkeep/core"
)

// InMemory is a trivial in‑process Uploader implementation useful for tests,
// examples and single‑process prototypes. It keeps uploaded payloads in a map
// guarded by an RWMutex. Data is copied on upload / retrieval to avoid
// accidental external mutation of internal buffers.
//
// Layout: destination name -> raw bytes
//
// The container name only shapes the returned URL (mem://<container>/<dest>);
// there is no real remote side. Failure injection toggles let callers script
// remote error conditions without a network.
type InMemory struct {
	mu        sync.RWMutex
	container string
	objects   map[string][]byte
	missing   bool
	failWith  error
	lastCred  core.Credential
}

// NewInMemory returns an empty in‑memory uploader addressing the given
// container name.
func NewInMemory(container string) *InMemory {
	return &InMemory{
		container: container,
		objects:   make(map[string][]byte),
	}
}

// Upload stores (or overwrites) the payload under dest and returns the
// canonical mem:// URL. The input slice is copied before storage.
func (u *InMemory) Upload(_ context.Context, payload []byte, dest string, cred core.Credential) (core.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.lastCred = cred
	if u.missing {
		return core.UploadResult{}, core.NewUploadError(dest, fmt.Errorf("container %q: %w", u.container, core.ErrContainerNotFound))
	}
	if u.failWith != nil {
		return core.UploadResult{}, core.NewUploadError(dest, u.failWith)
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	u.objects[dest] = cp
	return core.UploadResult{URL: fmt.Sprintf("mem://%s/%s", u.container, dest)}, nil
}

// SetContainerMissing toggles simulation of a missing container. While set,
// every Upload fails with an UploadError wrapping core.ErrContainerNotFound.
func (u *InMemory) SetContainerMissing(missing bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.missing = missing
}

// FailWith makes subsequent uploads fail with the given error (wrapped in an
// UploadError). Pass nil to restore normal behavior.
func (u *InMemory) FailWith(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.failWith = err
}

// Payload returns a copy of the stored bytes for dest.
func (u *InMemory) Payload(dest string) ([]byte, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	data, ok := u.objects[dest]
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true
}

// Names returns the stored destination names in sorted order. The slice is
// a snapshot and safe for caller mutation.
func (u *InMemory) Names() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	names := make([]string, 0, len(u.objects))
	for name := range u.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LastCredential reports the credential seen by the most recent Upload call.
func (u *InMemory) LastCredential() core.Credential {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.lastCred
}
