package authoringcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-authoring/internal/domain"
	"github.com/goliatone/go-cms-authoring/internal/reconcile"
	"github.com/goliatone/go-cms-authoring/internal/session"
	"github.com/google/uuid"
)

const (
	generateComponentMessageType = "authoring.generate.component"
	generatePageMessageType      = "authoring.generate.page"
	saveDatasourceMessageType    = "authoring.datasource.save"
	persistLayoutMessageType     = "authoring.layout.persist"
)

// ResultCallback receives the outcome of a command. It is optional and runs
// synchronously from the handler.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope carries whichever result the command produced.
type ResultEnvelope struct {
	Generated *session.Generated
	Saved     *session.Saved
	Persisted *session.Persisted
	Metadata  map[string]any
}

// SourceInput describes the source material of a generation command.
type SourceInput struct {
	DocumentRef    string `json:"document_ref"`
	Instruction    string `json:"instruction,omitempty"`
	StyleReference string `json:"style_reference,omitempty"`
	Text           string `json:"text,omitempty"`
}

func (s SourceInput) source() session.Source {
	return session.Source{
		DocumentRef:    strings.TrimSpace(s.DocumentRef),
		Instruction:    strings.TrimSpace(s.Instruction),
		StyleReference: strings.TrimSpace(s.StyleReference),
		Text:           s.Text,
	}
}

// MatchInput selects the reconciliation strategy by name.
type MatchInput struct {
	Strategy       string `json:"strategy,omitempty"`
	DropUnmatched  bool   `json:"drop_unmatched,omitempty"`
	FirstMatchWins bool   `json:"first_match_wins,omitempty"`
}

func (m MatchInput) options() session.GenerateOptions {
	opts := reconcile.Options{DropUnmatched: m.DropUnmatched}
	if strings.EqualFold(strings.TrimSpace(m.Strategy), reconcile.BySectionName.String()) {
		opts.Strategy = reconcile.BySectionName
	}
	if m.FirstMatchWins {
		opts.Duplicates = reconcile.FirstMatchWins
	}
	return session.GenerateOptions{Reconcile: opts}
}

func (m MatchInput) validate(prefix string, errs validation.Errors) {
	switch strings.ToLower(strings.TrimSpace(m.Strategy)) {
	case "", reconcile.ByName.String(), reconcile.BySectionName.String():
	default:
		errs["strategy"] = validation.NewError(prefix+".strategy_invalid", "strategy must be by_name or by_section_name")
	}
}

func validateSource(prefix string, src SourceInput, errs validation.Errors) {
	if strings.TrimSpace(src.DocumentRef) == "" && strings.TrimSpace(src.Text) == "" {
		errs["source"] = validation.NewError(prefix+".source_required", "document_ref or text is required")
	}
}

// GenerateComponentCommand generates the datasource fields of one component.
type GenerateComponentCommand struct {
	SessionID      uuid.UUID      `json:"session_id"`
	ComponentRef   string         `json:"component_ref"`
	Source         SourceInput    `json:"source"`
	Match          MatchInput     `json:"match"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (GenerateComponentCommand) Type() string { return generateComponentMessageType }

// Validate ensures the command names a session, a component and a source.
func (m GenerateComponentCommand) Validate() error {
	errs := validation.Errors{}
	if m.SessionID == uuid.Nil {
		errs["session_id"] = validation.NewError("authoring.generate.component.session_required", "session_id is required")
	}
	if strings.TrimSpace(m.ComponentRef) == "" {
		errs["component_ref"] = validation.NewError("authoring.generate.component.component_required", "component_ref is required")
	}
	validateSource("authoring.generate.component", m.Source, errs)
	m.Match.validate("authoring.generate.component", errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// GeneratePageCommand generates the fields a page inherits from its base
// templates.
type GeneratePageCommand struct {
	SessionID      uuid.UUID      `json:"session_id"`
	PageTemplateID string         `json:"page_template_id"`
	Source         SourceInput    `json:"source"`
	Match          MatchInput     `json:"match"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (GeneratePageCommand) Type() string { return generatePageMessageType }

// Validate ensures the command names a session, a page template and a source.
func (m GeneratePageCommand) Validate() error {
	errs := validation.Errors{}
	if m.SessionID == uuid.Nil {
		errs["session_id"] = validation.NewError("authoring.generate.page.session_required", "session_id is required")
	}
	if strings.TrimSpace(m.PageTemplateID) == "" {
		errs["page_template_id"] = validation.NewError("authoring.generate.page.template_required", "page_template_id is required")
	}
	validateSource("authoring.generate.page", m.Source, errs)
	m.Match.validate("authoring.generate.page", errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SaveDatasourceCommand creates the datasource item of one rendering.
type SaveDatasourceCommand struct {
	SessionID      uuid.UUID                `json:"session_id"`
	InstanceID     string                   `json:"instance_id"`
	ComponentID    string                   `json:"component_id,omitempty"`
	ItemName       string                   `json:"item_name,omitempty"`
	ParentID       string                   `json:"parent_id,omitempty"`
	Fields         []domain.FieldDescriptor `json:"fields"`
	ResultCallback ResultCallback           `json:"-"`
}

// Type implements command.Message.
func (SaveDatasourceCommand) Type() string { return saveDatasourceMessageType }

// Validate ensures the command names a session, an instance and some fields.
func (m SaveDatasourceCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.SessionID, validation.By(requireSession)),
		validation.Field(&m.InstanceID, validation.Required.Error("instance_id is required")),
		validation.Field(&m.Fields, validation.Required.Error("at least one field is required")),
	)
}

func requireSession(value any) error {
	if id, _ := value.(uuid.UUID); id == uuid.Nil {
		return validation.NewError("authoring.session_required", "session_id is required")
	}
	return nil
}

// PersistLayoutCommand writes the recorded bindings into the page layout.
type PersistLayoutCommand struct {
	SessionID      uuid.UUID      `json:"session_id"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (PersistLayoutCommand) Type() string { return persistLayoutMessageType }

// Validate ensures the command names a session.
func (m PersistLayoutCommand) Validate() error {
	if m.SessionID == uuid.Nil {
		return validation.Errors{
			"session_id": validation.NewError("authoring.layout.persist.session_required", "session_id is required"),
		}
	}
	return nil
}
