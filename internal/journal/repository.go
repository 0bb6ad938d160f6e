package journal

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewEntryRepository creates a go-repository-bun repository for entries.
func NewEntryRepository(db *bun.DB) repository.Repository[*Entry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Entry]{
		NewRecord:          func() *Entry { return &Entry{} },
		GetID:              func(e *Entry) uuid.UUID { return e.ID },
		SetID:              func(e *Entry, id uuid.UUID) { e.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(e *Entry) string { return e.ID.String() },
	})
}

// Migrate creates the journal table when it does not exist.
func Migrate(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*Entry)(nil)).IfNotExists().Exec(ctx)
	return err
}
