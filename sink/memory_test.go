package sink

import (
	"errors"
	"testing"

	"github.com/hupe1980/modelkeep/core"
)

// Interface compliance (compile-time assertions)
var _ core.Sink = (*Memory)(nil)

func TestMemory_AccumulatesWrites(t *testing.T) {
	s := NewMemory()
	h, err := s.Open("weights.pt")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, chunk := range []string{"alpha", "-", "beta"} {
		if _, err := h.Write([]byte(chunk)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	payload, err := h.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if string(payload) != "alpha-beta" {
		t.Fatalf("payload = %q", payload)
	}
}

func TestMemory_HandlesAreIndependent(t *testing.T) {
	s := NewMemory()
	first, _ := s.Open("weights.pt")
	if _, err := first.Write([]byte("one")); err != nil {
		t.Fatal(err)
	}
	if _, err := first.Finalize(); err != nil {
		t.Fatal(err)
	}
	second, _ := s.Open("weights.pt")
	if _, err := second.Write([]byte("two")); err != nil {
		t.Fatal(err)
	}
	payload, err := second.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	if string(payload) != "two" { // no carry-over from the first handle
		t.Fatalf("payload = %q", payload)
	}
}

func TestMemory_SpentHandleRejectsUse(t *testing.T) {
	s := NewMemory()
	h, _ := s.Open("weights.pt")
	if _, err := h.Finalize(); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Write([]byte("late")); !errors.Is(err, ErrHandleSpent) {
		t.Fatalf("expected ErrHandleSpent, got %v", err)
	}
	if _, err := h.Finalize(); !errors.Is(err, ErrHandleSpent) {
		t.Fatalf("expected ErrHandleSpent on double finalize, got %v", err)
	}
	if err := h.Abort(); err != nil { // abort after finalize is a no-op
		t.Fatalf("abort: %v", err)
	}
}

func TestMemory_AbortDiscardsBytes(t *testing.T) {
	s := NewMemory()
	h, _ := s.Open("weights.pt")
	if _, err := h.Write([]byte("partial")); err != nil {
		t.Fatal(err)
	}
	if err := h.Abort(); err != nil {
		t.Fatalf("abort: %v", err)
	}
	if _, err := h.Finalize(); !errors.Is(err, ErrHandleSpent) {
		t.Fatalf("expected ErrHandleSpent after abort, got %v", err)
	}
}
