package core

import "context"

// Credential is an opaque bearer credential for a remote store. The core
// passes it through untouched and never reads it from the process
// environment; callers decide where it comes from and hand it to the adapter
// explicitly.
type Credential string

// Empty reports whether no credential was provided.
func (c Credential) Empty() bool { return c == "" }

// UploadResult carries the canonical location of a successfully uploaded
// artifact. A failed upload produces no result and no partial state.
type UploadResult struct {
	URL string `json:"url"`
}

// Uploader publishes a complete artifact payload to a remote store. The call
// is synchronous: it returns only once the remote side has accepted the
// bytes, or with an *UploadError describing why it did not. The remote
// container (repository, bucket, ...) is fixed when the uploader is
// constructed; dest addresses a path inside that container. The whole payload
// travels in a single call; uploaders must not ask the caller for chunks.
//
// Implementations must be substitutable (test doubles, alternative backends)
// without changes to calling code.
type Uploader interface {
	Upload(ctx context.Context, payload []byte, dest string, cred Credential) (UploadResult, error)
}
