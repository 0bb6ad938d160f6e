package journal

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const journalNamespace = "authoring_journal"

// BunRepository implements Repository with optional caching.
type BunRepository struct {
	repo         repository.Repository[*Entry]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunRepository creates a journal repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a journal repository with caching
// services. Appends invalidate cached listings.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewEntryRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = journalNamespace + cache.KeySeparator
	}
	return &BunRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunRepository) Append(ctx context.Context, entry *Entry) (*Entry, error) {
	record, err := r.repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("journal repository error: %w", err)
	}
	if err := r.InvalidateCache(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*Entry, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.session_id = ?", sessionID).OrderExpr("?TableAlias.sequence ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "journal_entry", sessionID.String())
	}
	return records, nil
}

// GetByID returns one entry.
func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "journal_entry", id.String())
	}
	return record, nil
}

func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
