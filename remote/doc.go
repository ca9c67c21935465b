// Package remote contains concrete implementations of the core.Uploader.
//
// The canonical Uploader interface lives in the core package to avoid
// dependency cycles and keep domain contracts central. Implementation packages
// like this one (in‑memory, repository hosting services, object stores)
// provide upload backends that can be swapped without touching calling code.
//
// Only lightweight implementation specific types should live here. Callers
// should depend on the core interface rather than concrete types so they can
// substitute alternative destinations in tests or production. Backends that
// pull heavier SDKs live in subpackages (remote/github, remote/s3) so that
// minimal builds do not pay for them.
package remote
