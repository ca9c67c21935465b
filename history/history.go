package history

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/hupe1980/modelkeep/core"
)

// Mode determines the direction in which Best compares metric values.
type Mode int

const (
	// Min selects the epoch with the smallest value (losses).
	Min Mode = iota
	// Max selects the epoch with the largest value (scores).
	Max
)

// Epoch is one recorded observation: a monotonically increasing index, the
// metric values reported for it and the wall-clock time of recording.
type Epoch struct {
	Index     int                `json:"epoch"`
	Values    map[string]float64 `json:"values"`
	Timestamp time.Time          `json:"timestamp"`
}

// clone returns a deep copy so callers can never mutate recorded state.
func (e Epoch) clone() Epoch {
	values := make(map[string]float64, len(e.Values))
	for k, v := range e.Values {
		values[k] = v
	}
	return Epoch{Index: e.Index, Values: values, Timestamp: e.Timestamp}
}

// History is a thread-safe ordered record of training epochs. The zero value
// is not usable; construct with New.
type History struct {
	mu     sync.RWMutex
	epochs []Epoch
}

// New returns an empty history.
func New() *History {
	return &History{}
}

// Record appends one epoch with the given metric values and returns the
// stored epoch. The values map is copied on the way in.
func (h *History) Record(values map[string]float64) Epoch {
	h.mu.Lock()
	defer h.mu.Unlock()

	ep := Epoch{
		Index:     len(h.epochs),
		Values:    values,
		Timestamp: time.Now().UTC(),
	}.clone()
	h.epochs = append(h.epochs, ep)

	return ep.clone()
}

// Len returns the number of recorded epochs.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.epochs)
}

// Epoch returns the i-th recorded epoch (0-based).
func (h *History) Epoch(i int) (Epoch, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.epochs) {
		return Epoch{}, false
	}
	return h.epochs[i].clone(), true
}

// Last returns the most recently recorded epoch.
func (h *History) Last() (Epoch, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.epochs) == 0 {
		return Epoch{}, false
	}
	return h.epochs[len(h.epochs)-1].clone(), true
}

// Best returns the epoch with the best value for the given metric. Epochs
// not reporting the metric are skipped; ties keep the earliest epoch.
func (h *History) Best(metric string, mode Mode) (Epoch, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	bestIdx := -1
	var bestVal float64
	for i, ep := range h.epochs {
		v, ok := ep.Values[metric]
		if !ok {
			continue
		}
		better := bestIdx == -1 ||
			(mode == Min && v < bestVal) ||
			(mode == Max && v > bestVal)
		if better {
			bestIdx, bestVal = i, v
		}
	}
	if bestIdx == -1 {
		return Epoch{}, false
	}
	return h.epochs[bestIdx].clone(), true
}

// JSON returns the full history as a JSON array of epochs.
func (h *History) JSON() ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.epochs == nil {
		return json.Marshal([]Epoch{})
	}
	return json.Marshal(h.epochs)
}

// Producer returns a core.Producer serializing the history, so it can be
// checkpointed through a saver like the model itself. The snapshot is taken
// when the producer runs, not when it is created.
func (h *History) Producer() core.Producer {
	return func(w io.Writer) error {
		data, err := h.JSON()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
}
