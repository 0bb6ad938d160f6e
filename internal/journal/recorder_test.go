package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-cms-authoring/internal/identity"
	"github.com/google/uuid"
)

func TestRecorderNumbersEventsPerSession(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := NewRecorder(NewMemoryRepository(), WithClock(func() time.Time { return fixed }))
	ctx := context.Background()
	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")

	if _, err := rec.Record(ctx, a, Event{Type: EventGeneration, Detail: map[string]any{"fields": 3}}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := rec.Record(ctx, b, Event{Type: EventGeneration}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	second, err := rec.Record(ctx, a, Event{Type: EventItemCreated, ContentItemID: "{C}"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if second.Sequence != 2 || second.ID != identity.JournalEntryUUID(a, 2) || !second.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected entry %+v", second)
	}

	entries, err := rec.List(ctx, a)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].Type != EventGeneration || entries[1].Type != EventItemCreated {
		t.Fatalf("unexpected entries %+v", entries)
	}
	entries[0].Detail["fields"] = 99
	again, _ := rec.List(ctx, a)
	if again[0].Detail["fields"] != 3 {
		t.Fatal("memory repository leaked internal state")
	}
}

func TestRecorderRequiresSession(t *testing.T) {
	if _, err := NewRecorder(NewMemoryRepository()).Record(context.Background(), uuid.Nil, Event{}); !errors.Is(err, ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
}
