package journal

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// NewMemoryRepository returns an in-memory journal repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{bySession: map[uuid.UUID][]*Entry{}}
}

type memoryRepository struct {
	mu        sync.RWMutex
	bySession map[uuid.UUID][]*Entry
}

func (m *memoryRepository) Append(_ context.Context, entry *Entry) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneEntry(entry)
	m.bySession[cloned.SessionID] = append(m.bySession[cloned.SessionID], cloned)
	return cloneEntry(cloned), nil
}

func (m *memoryRepository) ListBySession(_ context.Context, sessionID uuid.UUID) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.bySession[sessionID]
	out := make([]*Entry, 0, len(records))
	for _, record := range records {
		out = append(out, cloneEntry(record))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func cloneEntry(entry *Entry) *Entry {
	if entry == nil {
		return nil
	}
	cloned := *entry
	if entry.Detail != nil {
		cloned.Detail = maps.Clone(entry.Detail)
	}
	return &cloned
}
