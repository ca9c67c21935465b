package core

import (
	"errors"
	"testing"
)

func TestParseNameTemplate_Literal(t *testing.T) {
	tmpl, err := ParseNameTemplate("weights.pt")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tmpl.Templated() {
		t.Fatalf("expected literal template")
	}
	// literal names resolve identically for every counter value
	for _, c := range []int{0, 1, 7} {
		if got := tmpl.Resolve(c); got != "weights.pt" {
			t.Fatalf("Resolve(%d) = %q, want weights.pt", c, got)
		}
	}
	if tmpl.Raw() != "weights.pt" {
		t.Fatalf("Raw() = %q", tmpl.Raw())
	}
}

func TestParseNameTemplate_SingleSlot(t *testing.T) {
	tmpl, err := ParseNameTemplate("model-{}.pkl")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !tmpl.Templated() {
		t.Fatalf("expected templated name")
	}
	if got := tmpl.Resolve(0); got != "model-0.pkl" {
		t.Fatalf("Resolve(0) = %q", got)
	}
	if got := tmpl.Resolve(12); got != "model-12.pkl" {
		t.Fatalf("Resolve(12) = %q", got)
	}
}

func TestParseNameTemplate_Invalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"two slots", "model-{}-{}.bin"},
		{"numbered slot", "model-{0}.bin"},
		{"named slot", "model-{epoch}.bin"},
		{"dangling open", "model-{.bin"},
		{"dangling close", "model-}.bin"},
		{"open at end", "model-{"},
		{"close at start", "}model"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseNameTemplate(tc.raw)
			if err == nil {
				t.Fatalf("expected error for %q", tc.raw)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T: %v", err, err)
			}
		})
	}
}

func TestParseNameTemplate_SlotAtEdges(t *testing.T) {
	for raw, want := range map[string]string{
		"{}":        "3",
		"{}.pt":     "3.pt",
		"epoch-{}":  "epoch-3",
		"a/b/{}.gz": "a/b/3.gz",
	} {
		tmpl, err := ParseNameTemplate(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got := tmpl.Resolve(3); got != want {
			t.Fatalf("Resolve(3) on %q = %q, want %q", raw, got, want)
		}
	}
}
