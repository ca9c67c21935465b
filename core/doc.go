// Package core provides the foundational domain types and interfaces used by
// ModelKeep. It defines the core abstractions for:
//
//   - Sinks (byte accumulation per write, ephemeral or persistent)
//   - Uploaders (synchronous publication of payloads to a remote store)
//   - Name templates (literal or counter-slotted destination names)
//   - Upload events and observers (success / failure notification hooks)
//   - The error taxonomy shared by every storage component
//
// The package intentionally keeps implementation concerns (concrete sinks,
// remote backends, the storage adapter itself) out of scope, exposing small
// interfaces to enable custom backends and extensions. All exported
// identifiers include concise documentation to aid discoverability and
// external consumption.
package core
