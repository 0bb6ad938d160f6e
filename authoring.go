package authoring

import (
	"context"

	"github.com/goliatone/go-cms-authoring/internal/bindings"
	commands "github.com/goliatone/go-cms-authoring/internal/commands/authoring"
	"github.com/goliatone/go-cms-authoring/internal/components"
	"github.com/goliatone/go-cms-authoring/internal/di"
	"github.com/goliatone/go-cms-authoring/internal/domain"
	"github.com/goliatone/go-cms-authoring/internal/generation"
	"github.com/goliatone/go-cms-authoring/internal/items"
	"github.com/goliatone/go-cms-authoring/internal/journal"
	"github.com/goliatone/go-cms-authoring/internal/layout"
	"github.com/goliatone/go-cms-authoring/internal/reconcile"
	"github.com/goliatone/go-cms-authoring/internal/session"
	"github.com/goliatone/go-cms-authoring/internal/templates"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
	"github.com/uptrace/bun"
)

// FieldDescriptor exports the template field descriptor.
type FieldDescriptor = domain.FieldDescriptor

// ComponentDescriptor exports the resolved component descriptor.
type ComponentDescriptor = domain.ComponentDescriptor

// GenerationItem exports one normalized generation result item.
type GenerationItem = domain.GenerationItem

// RenderingAssignment exports a component placement read from a layout.
type RenderingAssignment = layout.RenderingAssignment

// DatasourceBinding exports a rendering to content item binding.
type DatasourceBinding = layout.DatasourceBinding

// ApplyResult exports the outcome of writing bindings into a layout.
type ApplyResult = layout.ApplyResult

// SkippedBinding exports a binding left out of a layout and the reason.
type SkippedBinding = layout.SkippedBinding

// Planner exports the datasource binding planner.
type Planner = bindings.Planner

// TemplateService exports the template walker contract.
type TemplateService = templates.Service

// ComponentResolver exports the component resolver contract.
type ComponentResolver = components.Resolver

// GenerationGateway exports the generation gateway contract.
type GenerationGateway = generation.Gateway

// ItemService exports the content item contract.
type ItemService = items.Service

// Session exports the authoring session.
type Session = session.Session

// SessionOption exports session options.
type SessionOption = session.Option

// Source exports the generation source description.
type Source = session.Source

// GenerateOptions exports reconciliation options for a generation.
type GenerateOptions = session.GenerateOptions

// SaveRequest exports the datasource save request.
type SaveRequest = session.SaveRequest

// ReconcileOptions exports field reconciliation options.
type ReconcileOptions = reconcile.Options

// CommandHandlers exports the go-command handlers.
type CommandHandlers = commands.Handlers

// Reconciliation strategies.
const (
	MatchByName        = reconcile.ByName
	MatchBySectionName = reconcile.BySectionName
)

var (
	ErrMalformedDocument  = layout.ErrMalformedDocument
	ErrTemplateNotFound   = templates.ErrTemplateNotFound
	ErrComponentNotFound  = components.ErrComponentNotFound
	ErrServiceUnavailable = generation.ErrServiceUnavailable
	ErrSessionNotFound    = session.ErrSessionNotFound
)

// UserMessage is the author facing text for generation failures.
const UserMessage = generation.UserMessage

// Module is the top level authoring runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// WithLoggerProvider routes every module logger through provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) di.Option {
	return di.WithLoggerProvider(provider)
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// NewSession opens and registers a session editing pageItemID.
func (m *Module) NewSession(pageItemID string, opts ...SessionOption) (*Session, error) {
	return m.container.NewSession(pageItemID, opts...)
}

// Templates returns the template walker.
func (m *Module) Templates() TemplateService {
	return m.container.TemplateService()
}

// Components returns the component resolver.
func (m *Module) Components() ComponentResolver {
	return m.container.ComponentResolver()
}

// Items returns the content item service.
func (m *Module) Items() ItemService {
	return m.container.ItemService()
}

// Commands returns the go-command handlers bound to the module sessions.
func (m *Module) Commands() CommandHandlers {
	return m.container.Commands()
}

// Journal returns the session journal, or nil when disabled.
func (m *Module) Journal() *journal.Recorder {
	return m.container.Journal()
}

// ParseLayout reads the rendering assignments of a layout document.
func ParseLayout(text string) ([]RenderingAssignment, error) {
	return layout.Parse(text)
}

// ApplyBindings writes datasource bindings into a layout document. Bindings
// with invalid identifiers are reported in ApplyResult.Skipped. Use
// Module.ApplyBindings to have them logged as well.
func ApplyBindings(text string, bindings []DatasourceBinding) (ApplyResult, error) {
	return layout.ApplyBindings(text, bindings)
}

// NewPlanner returns an empty datasource binding planner that logs nowhere.
func NewPlanner() *Planner {
	return bindings.NewPlanner()
}

// ApplyBindings writes datasource bindings into a layout document, logging
// skipped bindings through the module logger provider.
func (m *Module) ApplyBindings(text string, bindings []DatasourceBinding) (ApplyResult, error) {
	return m.container.LayoutCodec().ApplyBindings(text, bindings)
}

// NewPlanner returns an empty datasource binding planner that logs through
// the module logger provider.
func (m *Module) NewPlanner() *Planner {
	return m.container.NewPlanner()
}

// MigrateJournal creates the journal table in db.
func MigrateJournal(ctx context.Context, db *bun.DB) error {
	return journal.Migrate(ctx, db)
}
