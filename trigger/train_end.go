package trigger

import (
	"context"
	"sync"
)

// SaveFunc persists one checkpoint. Triggers do not care how: it is usually
// a closure over saver.Save or modelkeep.Checkpointer.Save.
type SaveFunc func(ctx context.Context) error

// TrainEnd saves exactly once at the end of a training run. Finish is
// idempotent after the first success; a failed save leaves the trigger
// unfired so the loop can call Finish again.
type TrainEnd struct {
	mu    sync.Mutex
	save  SaveFunc
	fired bool
}

// NewTrainEnd returns a trigger invoking save on Finish.
func NewTrainEnd(save SaveFunc) *TrainEnd {
	return &TrainEnd{save: save}
}

// Finish fires the save if it has not succeeded yet. Calls after a success
// are no-ops; the error of a failed save propagates and the trigger stays
// armed.
func (t *TrainEnd) Finish(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fired {
		return nil
	}
	if err := t.save(ctx); err != nil {
		return err
	}
	t.fired = true

	return nil
}

// Fired reports whether the end-of-training save has succeeded.
func (t *TrainEnd) Fired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}
