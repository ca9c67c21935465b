package trigger

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrMetricMissing is returned by Observe when the watched metric is not
// present in the reported values.
var ErrMetricMissing = errors.New("watched metric missing from observation")

// Mode determines the direction of improvement for a watched metric.
type Mode int

const (
	// Min treats smaller values as better (losses, error rates). Default.
	Min Mode = iota
	// Max treats larger values as better (accuracy, F1, reward).
	Max
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case Min:
		return "min"
	case Max:
		return "max"
	default:
		return "unknown"
	}
}

// MetricOptions configures a MetricImprovement trigger.
type MetricOptions struct {
	// Mode is the improvement direction (default Min).
	Mode Mode

	// Threshold is the minimum delta over the best value required to count
	// as an improvement. Zero means any strict improvement fires; equal
	// values never fire.
	Threshold float64
}

// MetricImprovement saves whenever a watched metric improves on the best
// value seen so far. The loop reports metrics once per epoch through
// Observe, so the trigger fires at most once per epoch. The best value only
// advances after a successful save: a failed save is retried on the next
// improving observation, including one reporting the same value again.
type MetricImprovement struct {
	mu      sync.Mutex
	metric  string
	save    SaveFunc
	opts    MetricOptions
	best    float64
	hasBest bool
}

// NewMetricImprovement returns a trigger watching the named metric.
func NewMetricImprovement(metric string, save SaveFunc, optFns ...func(o *MetricOptions)) *MetricImprovement {
	opts := MetricOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &MetricImprovement{metric: metric, save: save, opts: opts}
}

// Observe reports one epoch's metric values. It returns whether a save
// fired. The very first observation always counts as an improvement. A
// missing watched metric is an error wrapping ErrMetricMissing.
func (t *MetricImprovement) Observe(ctx context.Context, values map[string]float64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	value, ok := values[t.metric]
	if !ok {
		return false, fmt.Errorf("metric %q: %w", t.metric, ErrMetricMissing)
	}

	if !t.improved(value) {
		return false, nil
	}
	if err := t.save(ctx); err != nil {
		return false, err
	}

	t.best = value
	t.hasBest = true

	return true, nil
}

func (t *MetricImprovement) improved(value float64) bool {
	if !t.hasBest {
		return true
	}
	if t.opts.Mode == Max {
		return value > t.best+t.opts.Threshold
	}
	return value < t.best-t.opts.Threshold
}

// Best returns the metric value of the last successful save.
func (t *MetricImprovement) Best() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.best, t.hasBest
}

// Metric returns the watched metric name.
func (t *MetricImprovement) Metric() string { return t.metric }
