// Package trigger provides the caller-side collaborators that decide when a
// checkpoint is saved. The storage adapter in package saver never depends on
// them; a trigger simply wraps a save function and invokes it at its
// decision points:
//
//   - TrainEnd fires exactly once when the training run finishes.
//   - MetricImprovement fires whenever an observed metric improves on the
//     best value seen so far, at most once per epoch observation.
//
// Both triggers treat a failed save as not having fired, so the training
// loop can retry on the next opportunity without losing a checkpoint slot.
package trigger
