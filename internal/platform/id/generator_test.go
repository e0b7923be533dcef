package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestRandomGenerator_NewID(t *testing.T) {
	t.Parallel()

	gen := NewRandomGenerator()
	a, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	b, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct ids")
	}
	parsed, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("expected uuid, got %q: %v", a, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected version 4 uuid, got %d", parsed.Version())
	}
}

func TestStatic_NewID(t *testing.T) {
	t.Parallel()

	got, err := Static("run-1").NewID()
	if err != nil || got != "run-1" {
		t.Fatalf("unexpected static id %q err=%v", got, err)
	}
}
