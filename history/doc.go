// Package history keeps an ordered, thread-safe record of per-epoch training
// metrics. Besides answering queries (last epoch, best epoch for a metric)
// it knows how to serialize itself, so a run's history can be checkpointed
// through a saver like any other artifact stream.
package history
