package journal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-cms-authoring/internal/identity"
	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
	"github.com/google/uuid"
)

var ErrSessionRequired = errors.New("journal: session id required")

// Event is the caller supplied part of an entry.
type Event struct {
	Type                EventType
	PageItemID          string
	RenderingInstanceID string
	ComponentID         string
	ContentItemID       string
	ContentItemPath     string
	Detail              map[string]any
}

// Recorder numbers events per session and appends them to a repository.
// Entry ids are derived from the session id and sequence.
type Recorder struct {
	repo   Repository
	logger interfaces.Logger
	now    func() time.Time

	mu        sync.Mutex
	sequences map[uuid.UUID]int
}

type RecorderOption func(*Recorder)

// WithLogger sets the recorder logger.
func WithLogger(logger interfaces.Logger) RecorderOption {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if clock != nil {
			r.now = clock
		}
	}
}

// NewRecorder returns a Recorder writing to repo.
func NewRecorder(repo Repository, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		repo:      repo,
		logger:    logging.NoOp(),
		now:       func() time.Time { return time.Now().UTC() },
		sequences: map[uuid.UUID]int{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Record appends event to the session journal.
func (r *Recorder) Record(ctx context.Context, sessionID uuid.UUID, event Event) (*Entry, error) {
	if sessionID == uuid.Nil {
		return nil, ErrSessionRequired
	}
	r.mu.Lock()
	r.sequences[sessionID]++
	sequence := r.sequences[sessionID]
	r.mu.Unlock()

	entry := &Entry{
		ID:                  identity.JournalEntryUUID(sessionID, sequence),
		SessionID:           sessionID,
		Sequence:            sequence,
		Type:                event.Type,
		PageItemID:          event.PageItemID,
		RenderingInstanceID: event.RenderingInstanceID,
		ComponentID:         event.ComponentID,
		ContentItemID:       event.ContentItemID,
		ContentItemPath:     event.ContentItemPath,
		Detail:              event.Detail,
		CreatedAt:           r.now(),
	}
	stored, err := r.repo.Append(ctx, entry)
	if err != nil {
		r.logger.Error("journal.append.failed", "session_id", sessionID.String(), "type", string(event.Type), "error", err)
		return nil, err
	}
	r.logger.Debug("journal.appended", "session_id", sessionID.String(), "type", string(event.Type), "sequence", sequence)
	return stored, nil
}

// List returns the session entries in sequence order.
func (r *Recorder) List(ctx context.Context, sessionID uuid.UUID) ([]*Entry, error) {
	return r.repo.ListBySession(ctx, sessionID)
}
