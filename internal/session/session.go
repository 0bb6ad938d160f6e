package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-authoring/internal/bindings"
	"github.com/goliatone/go-cms-authoring/internal/components"
	"github.com/goliatone/go-cms-authoring/internal/generation"
	"github.com/goliatone/go-cms-authoring/internal/identity"
	"github.com/goliatone/go-cms-authoring/internal/items"
	"github.com/goliatone/go-cms-authoring/internal/journal"
	"github.com/goliatone/go-cms-authoring/internal/layout"
	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/internal/reconcile"
	"github.com/goliatone/go-cms-authoring/internal/sourcedoc"
	"github.com/goliatone/go-cms-authoring/internal/templates"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	ErrDependencyMissing   = errors.New("session: required dependency missing")
	ErrPageItemRequired    = errors.New("session: page item id required")
	ErrComponentRequired   = errors.New("session: component or instance id required")
	ErrNoDataShape         = errors.New("session: component has no datasource template")
	ErrNoPageBaseTemplates = errors.New("session: page template has no configured base templates")
)

// Dependencies are the services a session drives. Journal and Extractor are
// optional.
type Dependencies struct {
	Templates  templates.Service
	Resolver   components.Resolver
	Gateway    generation.Gateway
	Items      items.Service
	Reconciler *reconcile.Reconciler
	Journal    *journal.Recorder
	Extractor  interfaces.TextExtractor
}

// Settings tune the pipeline.
type Settings struct {
	Concurrency       int
	TextFieldTypes    []string
	PageBaseTemplates []string
	BaseBucket        string
	PageNameField     string
	SourceCharBudget  int
}

// DefaultSettings mirrors the runtime configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		Concurrency:       4,
		TextFieldTypes:    generation.DefaultTextFieldTypes,
		PageBaseTemplates: []string{"Page", "_SEO Metadata"},
		BaseBucket:        "BaseTemplate",
		PageNameField:     "Title",
		SourceCharBudget:  sourcedoc.DefaultCharBudget,
	}
}

// Session holds the state of one page authoring run: the component cache,
// the accumulated datasource bindings and the page name. It is owned by the
// caller and never shared through package state.
type Session struct {
	id         uuid.UUID
	pageItemID string
	deps       Dependencies
	settings   Settings
	logger     interfaces.Logger

	cache   *components.Cache
	planner *bindings.Planner

	mu         sync.RWMutex
	pageName   string
	placements map[string]layout.RenderingAssignment
}

type Option func(*Session)

// WithID fixes the session id. A random id is used otherwise.
func WithID(id uuid.UUID) Option {
	return func(s *Session) {
		if id != uuid.Nil {
			s.id = id
		}
	}
}

// WithPageItem sets the page item whose layout the session edits.
func WithPageItem(itemID string) Option {
	return func(s *Session) {
		s.pageItemID = identity.Normalize(itemID)
	}
}

// WithSettings overrides DefaultSettings. Zero fields keep their defaults.
func WithSettings(settings Settings) Option {
	return func(s *Session) {
		if settings.Concurrency > 0 {
			s.settings.Concurrency = settings.Concurrency
		}
		if len(settings.TextFieldTypes) > 0 {
			s.settings.TextFieldTypes = settings.TextFieldTypes
		}
		if len(settings.PageBaseTemplates) > 0 {
			s.settings.PageBaseTemplates = settings.PageBaseTemplates
		}
		if settings.BaseBucket != "" {
			s.settings.BaseBucket = settings.BaseBucket
		}
		if settings.PageNameField != "" {
			s.settings.PageNameField = settings.PageNameField
		}
		if settings.SourceCharBudget > 0 {
			s.settings.SourceCharBudget = settings.SourceCharBudget
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New validates deps and returns an empty session.
func New(deps Dependencies, opts ...Option) (*Session, error) {
	switch {
	case deps.Templates == nil:
		return nil, fmt.Errorf("%w: templates service", ErrDependencyMissing)
	case deps.Resolver == nil:
		return nil, fmt.Errorf("%w: component resolver", ErrDependencyMissing)
	case deps.Gateway == nil:
		return nil, fmt.Errorf("%w: generation gateway", ErrDependencyMissing)
	case deps.Items == nil:
		return nil, fmt.Errorf("%w: items service", ErrDependencyMissing)
	}
	if deps.Reconciler == nil {
		deps.Reconciler = reconcile.New()
	}

	s := &Session{
		id:         uuid.New(),
		deps:       deps,
		settings:   DefaultSettings(),
		logger:     logging.NoOp(),
		cache:      components.NewCache(),
		placements: map[string]layout.RenderingAssignment{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = logging.WithSession(s.logger, s.id.String(), s.pageItemID)
	s.planner = bindings.NewPlanner(bindings.WithLogger(s.logger))
	return s, nil
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) PageItemID() string { return s.pageItemID }

// PageName is the value of the page name field from the last page
// generation, or the value set through SetPageName.
func (s *Session) PageName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageName
}

func (s *Session) SetPageName(name string) {
	s.mu.Lock()
	s.pageName = strings.TrimSpace(name)
	s.mu.Unlock()
}

// Bindings returns a copy of the recorded datasource bindings.
func (s *Session) Bindings() []layout.DatasourceBinding {
	return s.planner.Bindings()
}

func (s *Session) journal(ctx context.Context, event journal.Event) {
	if s.deps.Journal == nil {
		return
	}
	if event.PageItemID == "" {
		event.PageItemID = s.pageItemID
	}
	if _, err := s.deps.Journal.Record(ctx, s.id, event); err != nil {
		s.logger.Warn("session.journal.failed", "type", string(event.Type), "error", err)
	}
}

// componentFor maps a rendering instance id seen by Discover to its
// component id. Any other value is returned unchanged.
func (s *Session) componentFor(ref string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if placement, ok := s.placements[identity.HexKey(ref)]; ok {
		return placement.ComponentID
	}
	return ref
}
