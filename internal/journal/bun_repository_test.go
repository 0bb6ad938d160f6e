package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-cms-authoring/internal/journal"
	"github.com/goliatone/go-cms-authoring/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db := testsupport.NewSQLiteDB(t)
	if err := journal.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestBunRepositoryWithCache(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	repo := journal.NewBunRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())
	rec := journal.NewRecorder(repo)

	session := uuid.MustParse("00000000-0000-0000-0000-0000000000c1")
	other := uuid.MustParse("00000000-0000-0000-0000-0000000000c2")
	if _, err := rec.Record(ctx, session, journal.Event{Type: journal.EventGeneration, ComponentID: "{HERO}", Detail: map[string]any{"matched": 2}}); err != nil {
		t.Fatalf("record generation: %v", err)
	}
	if _, err := rec.Record(ctx, other, journal.Event{Type: journal.EventGeneration}); err != nil {
		t.Fatalf("record other: %v", err)
	}
	created, err := rec.Record(ctx, session, journal.Event{
		Type:                journal.EventItemCreated,
		RenderingInstanceID: "{UID}",
		ContentItemID:       "{ITEM}",
		ContentItemPath:     "/sitecore/content/Data/hero",
	})
	if err != nil {
		t.Fatalf("record item: %v", err)
	}

	entries, err := rec.List(ctx, session)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Sequence != 1 || entries[1].Sequence != 2 || entries[1].ContentItemID != "{ITEM}" {
		t.Fatalf("unexpected entries %+v %+v", entries[0], entries[1])
	}

	fetched, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if fetched.ContentItemPath != "/sitecore/content/Data/hero" {
		t.Fatalf("unexpected entry %+v", fetched)
	}
}

func TestBunRepositoryGetByIDNotFound(t *testing.T) {
	repo := journal.NewBunRepository(newTestDB(t))
	_, err := repo.GetByID(context.Background(), uuid.MustParse("00000000-0000-0000-0000-0000000000ff"))
	if err == nil {
		t.Fatal("expected error for missing entry")
	}
}

func TestBunRepositoryListReflectsAppendsThroughCache(t *testing.T) {
	ctx := context.Background()
	cacheService, err := repocache.NewCacheService(repocache.DefaultConfig())
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	repo := journal.NewBunRepositoryWithCache(newTestDB(t), cacheService, repocache.NewDefaultKeySerializer())
	rec := journal.NewRecorder(repo)
	session := uuid.MustParse("00000000-0000-0000-0000-0000000000d1")

	for want := 1; want <= 2; want++ {
		if _, err := rec.Record(ctx, session, journal.Event{Type: journal.EventGeneration}); err != nil {
			t.Fatalf("record %d: %v", want, err)
		}
		entries, err := repo.ListBySession(ctx, session)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(entries) != want {
			t.Fatalf("expected %d entries after append, got %d", want, len(entries))
		}
	}
}
