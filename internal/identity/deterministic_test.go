package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestDeterministicIsStable(t *testing.T) {
	a := Deterministic("journal", "s1", "1")
	if a == uuid.Nil {
		t.Fatal("expected a non-nil id")
	}
	if b := Deterministic("journal", "s1", "1"); a != b {
		t.Fatalf("expected stable id, got %s and %s", a, b)
	}
	if c := Deterministic("journal", "s1", "2"); a == c {
		t.Fatal("different parts must not share an id")
	}
	if d := Deterministic("journal", "s11"); d == Deterministic("journal", "s1", "1") {
		t.Fatal("part boundaries must be part of the key")
	}
}

func TestDeterministicEmptyParts(t *testing.T) {
	if got := Deterministic(" ", ""); got != uuid.Nil {
		t.Fatalf("expected uuid.Nil, got %s", got)
	}
}

func TestJournalEntryUUIDVariesBySession(t *testing.T) {
	s1, s2 := uuid.New(), uuid.New()
	if JournalEntryUUID(s1, 1) == JournalEntryUUID(s2, 1) {
		t.Fatal("entries of different sessions must not collide")
	}
	if JournalEntryUUID(s1, 1) != JournalEntryUUID(s1, 1) {
		t.Fatal("entry ids must be deterministic")
	}
}
