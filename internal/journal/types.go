package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EventType names a journaled session event.
type EventType string

const (
	EventGeneration      EventType = "generation"
	EventItemCreated     EventType = "item_created"
	EventLayoutPersisted EventType = "layout_persisted"
)

// Entry is one append-only record of an authoring session.
type Entry struct {
	bun.BaseModel `bun:"table:authoring_journal,alias:aj"`

	ID                  uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	SessionID           uuid.UUID      `bun:"session_id,notnull,type:uuid" json:"session_id"`
	Sequence            int            `bun:"sequence,notnull" json:"sequence"`
	Type                EventType      `bun:"event_type,notnull" json:"type"`
	PageItemID          string         `bun:"page_item_id" json:"page_item_id,omitempty"`
	RenderingInstanceID string         `bun:"rendering_instance_id" json:"rendering_instance_id,omitempty"`
	ComponentID         string         `bun:"component_id" json:"component_id,omitempty"`
	ContentItemID       string         `bun:"content_item_id" json:"content_item_id,omitempty"`
	ContentItemPath     string         `bun:"content_item_path" json:"content_item_path,omitempty"`
	Detail              map[string]any `bun:"detail,type:jsonb" json:"detail,omitempty"`
	CreatedAt           time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Repository stores journal entries.
type Repository interface {
	Append(ctx context.Context, entry *Entry) (*Entry, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*Entry, error)
}

type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
