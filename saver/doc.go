// Package saver implements the storage adapter at the heart of ModelKeep: a
// Saver binds one logical artifact stream (the full model, the parameter set,
// the optimizer state, ...) to a byte sink and a remote uploader. Every save
// resolves the destination name from the configured template, spools the
// serialized artifact through the sink, publishes the payload synchronously
// and records the resulting canonical URL.
//
// A Saver is deliberately synchronous: the caller blocks for the full
// duration of serialization plus upload, so URLs observed through LatestURL
// always reflect saves in call order. Failed saves leave the adapter
// untouched: the name counter is not consumed and the previous URL stays in
// place, making a retry under the same resolved name safe.
//
// Savers are constructed once per artifact stream and reused for the whole
// training run. They do not decide when to save; that is the job of the
// trigger package or any other caller-side collaborator.
package saver
