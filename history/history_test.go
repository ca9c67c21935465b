package history

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/hupe1980/modelkeep/remote"
	"github.com/hupe1980/modelkeep/saver"
)

func TestHistory_RecordAndQuery(t *testing.T) {
	h := New()

	if h.Len() != 0 {
		t.Fatalf("len = %d, want 0", h.Len())
	}
	if _, ok := h.Last(); ok {
		t.Fatal("last on empty history")
	}

	h.Record(map[string]float64{"loss": 0.9, "acc": 0.5})
	h.Record(map[string]float64{"loss": 0.4, "acc": 0.8})
	h.Record(map[string]float64{"loss": 0.6, "acc": 0.7})

	if h.Len() != 3 {
		t.Fatalf("len = %d, want 3", h.Len())
	}

	last, ok := h.Last()
	if !ok || last.Index != 2 {
		t.Fatalf("last = %+v, ok = %v", last, ok)
	}

	ep, ok := h.Epoch(1)
	if !ok || ep.Values["loss"] != 0.4 {
		t.Fatalf("epoch(1) = %+v, ok = %v", ep, ok)
	}
	if _, ok := h.Epoch(3); ok {
		t.Fatal("epoch(3) should be out of range")
	}
}

func TestHistory_RecordCopiesValues(t *testing.T) {
	h := New()
	values := map[string]float64{"loss": 1.0}
	h.Record(values)

	values["loss"] = 99.0

	ep, _ := h.Epoch(0)
	if ep.Values["loss"] != 1.0 {
		t.Fatalf("recorded value mutated to %v", ep.Values["loss"])
	}

	// Mutating the returned copy must not affect stored state either.
	ep.Values["loss"] = 42.0
	again, _ := h.Epoch(0)
	if again.Values["loss"] != 1.0 {
		t.Fatalf("stored value mutated to %v", again.Values["loss"])
	}
}

func TestHistory_Best(t *testing.T) {
	h := New()
	h.Record(map[string]float64{"loss": 0.9})
	h.Record(map[string]float64{"loss": 0.4, "acc": 0.8})
	h.Record(map[string]float64{"loss": 0.4, "acc": 0.9})

	best, ok := h.Best("loss", Min)
	if !ok || best.Index != 1 {
		t.Fatalf("best(loss, min) = %+v, want epoch 1 (earliest tie)", best)
	}

	best, ok = h.Best("acc", Max)
	if !ok || best.Index != 2 {
		t.Fatalf("best(acc, max) = %+v, want epoch 2", best)
	}

	if _, ok := h.Best("f1", Max); ok {
		t.Fatal("best on unreported metric should be absent")
	}
}

func TestHistory_JSONRoundTrip(t *testing.T) {
	h := New()
	h.Record(map[string]float64{"loss": 0.5})

	data, err := h.JSON()
	if err != nil {
		t.Fatalf("json: %v", err)
	}

	var epochs []Epoch
	if err := json.Unmarshal(data, &epochs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(epochs) != 1 || epochs[0].Values["loss"] != 0.5 {
		t.Fatalf("round trip = %+v", epochs)
	}
}

func TestHistory_EmptyJSONIsArray(t *testing.T) {
	data, err := New().JSON()
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("empty history json = %s, want []", data)
	}
}

func TestHistory_ProducerCheckpointsThroughSaver(t *testing.T) {
	h := New()
	h.Record(map[string]float64{"loss": 0.9})

	up := remote.NewInMemory("ckpts")
	s, err := saver.New(up, "history.json")
	if err != nil {
		t.Fatalf("new saver: %v", err)
	}

	producer := h.Producer()

	// Recorded after the producer was created; the snapshot happens at save
	// time, so this epoch must be included.
	h.Record(map[string]float64{"loss": 0.4})

	if err := s.Save(context.Background(), producer); err != nil {
		t.Fatalf("save: %v", err)
	}

	payload, ok := up.Payload("history.json")
	if !ok {
		t.Fatal("history not uploaded")
	}

	direct, _ := h.JSON()
	if !bytes.Equal(payload, direct) {
		t.Fatalf("uploaded %s, want %s", payload, direct)
	}

	var epochs []Epoch
	if err := json.Unmarshal(payload, &epochs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(epochs) != 2 {
		t.Fatalf("uploaded %d epochs, want 2", len(epochs))
	}
}
