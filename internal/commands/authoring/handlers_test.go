package authoringcmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-authoring/internal/commands"
	"github.com/goliatone/go-cms-authoring/internal/domain"
	"github.com/goliatone/go-cms-authoring/internal/generation"
	"github.com/goliatone/go-cms-authoring/internal/items"
	"github.com/goliatone/go-cms-authoring/internal/session"
	"github.com/goliatone/go-cms-authoring/internal/templates"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const (
	componentID = "{AAAAAAAA-0000-0000-0000-000000000001}"
	instanceID  = "{BBBBBBBB-0000-0000-0000-000000000001}"
	itemID      = "{CCCCCCCC-0000-0000-0000-000000000001}"
	layoutXML   = `<r xmlns:s="s"><d><r uid="` + instanceID + `" s:id="` + componentID + `" /></d></r>`
)

type fakeResolver struct{}

func (fakeResolver) Resolve(context.Context, string) (domain.ComponentDescriptor, error) {
	return domain.ComponentDescriptor{ID: componentID, Name: "Hero", DataShapeRef: "{TEMPLATE}"}, nil
}

type fakeTemplates struct{}

func (fakeTemplates) ListFields(context.Context, string) ([]domain.FieldDescriptor, error) {
	return []domain.FieldDescriptor{{Section: "Content", Name: "Heading", Type: domain.FieldTypeSingleLineText}}, nil
}

func (fakeTemplates) ListBaseTemplates(context.Context, string) ([]templates.BaseTemplate, error) {
	return nil, nil
}

func (fakeTemplates) Browse(context.Context, string) (*templates.Catalog, error) {
	return &templates.Catalog{}, nil
}

type fakeGateway struct {
	err error
}

func (g fakeGateway) Generate(context.Context, generation.Request) ([]domain.GenerationItem, error) {
	if g.err != nil {
		return nil, g.err
	}
	return []domain.GenerationItem{{Name: "Heading", Value: "Hello"}}, nil
}

type fakeItems struct {
	layout string
}

func (f *fakeItems) ResolveTemplateID(context.Context, string) (string, error) {
	return "{DDDDDDDD-0000-0000-0000-000000000001}", nil
}

func (f *fakeItems) ResolveParent(context.Context, items.ParentHint) (string, error) {
	return "{EEEEEEEE-0000-0000-0000-000000000001}", nil
}

func (f *fakeItems) Create(_ context.Context, input items.CreateInput) (*items.Item, error) {
	return &items.Item{ItemID: itemID, Name: input.Name}, nil
}

func (f *fakeItems) GetLayout(context.Context, string) (string, error) { return f.layout, nil }

func (f *fakeItems) UpdateLayout(_ context.Context, _ string, text string) error {
	f.layout = text
	return nil
}

func (f *fakeItems) FormatValue(_ domain.FieldDescriptor, raw string) (string, error) {
	return raw, nil
}

func newRegistry(t *testing.T, gateway generation.Gateway) (*session.Registry, *session.Session, *fakeItems) {
	t.Helper()
	store := &fakeItems{layout: layoutXML}
	s, err := session.New(session.Dependencies{
		Templates: fakeTemplates{},
		Resolver:  fakeResolver{},
		Gateway:   gateway,
		Items:     store,
	}, session.WithPageItem("{10000000-0000-0000-0000-000000000000}"))
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	reg := session.NewRegistry()
	reg.Add(s)
	return reg, s, store
}

func TestGenerateComponentHandlerReturnsFields(t *testing.T) {
	reg, s, _ := newRegistry(t, fakeGateway{})
	handler := NewGenerateComponentHandler(reg, nil)

	var envelope ResultEnvelope
	err := handler.Execute(context.Background(), GenerateComponentCommand{
		SessionID:      s.ID(),
		ComponentRef:   componentID,
		Source:         SourceInput{DocumentRef: "https://blob.example/brief.pdf"},
		ResultCallback: func(env ResultEnvelope) { envelope = env },
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if envelope.Generated == nil || envelope.Generated.Fields[0].Value != "Hello" {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
	if envelope.Metadata["operation"] != "generate_component" {
		t.Fatalf("unexpected metadata %v", envelope.Metadata)
	}
}

func TestGenerateComponentHandlerReportsBusyService(t *testing.T) {
	busy := fmt.Errorf("%w: timeout", generation.ErrServiceUnavailable)
	reg, s, _ := newRegistry(t, fakeGateway{err: busy})
	handler := NewGenerateComponentHandler(reg, nil)

	err := handler.Execute(context.Background(), GenerateComponentCommand{
		SessionID:    s.ID(),
		ComponentRef: componentID,
		Source:       SourceInput{Text: "brief"},
	})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if msg, ok := commands.UserMessage(err); !ok || msg != generation.UserMessage {
		t.Fatalf("expected busy message, got %q", msg)
	}
}

func TestGenerateComponentCommandValidation(t *testing.T) {
	handler := NewGenerateComponentHandler(session.NewRegistry(), nil)
	err := handler.Execute(context.Background(), GenerateComponentCommand{Match: MatchInput{Strategy: "fuzzy"}})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestUnknownSessionFails(t *testing.T) {
	handler := NewPersistLayoutHandler(session.NewRegistry(), nil)
	err := handler.Execute(context.Background(), PersistLayoutCommand{SessionID: uuid.New()})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestSaveAndPersistHandlers(t *testing.T) {
	reg, s, store := newRegistry(t, fakeGateway{})
	ctx := context.Background()
	if _, err := s.Discover(ctx, layoutXML); err != nil {
		t.Fatalf("Discover: %v", err)
	}
	handlers := NewHandlers(reg, nil)

	var saved ResultEnvelope
	err := handlers.SaveDatasource.Execute(ctx, SaveDatasourceCommand{
		SessionID:      s.ID(),
		InstanceID:     instanceID,
		Fields:         []domain.FieldDescriptor{{Name: "Heading", Value: "Hello"}},
		ResultCallback: func(env ResultEnvelope) { saved = env },
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Saved == nil || saved.Saved.Item.ItemID != itemID {
		t.Fatalf("unexpected save envelope %+v", saved)
	}

	var persisted ResultEnvelope
	err = handlers.PersistLayout.Execute(ctx, PersistLayoutCommand{
		SessionID:      s.ID(),
		ResultCallback: func(env ResultEnvelope) { persisted = env },
	})
	if err != nil {
		t.Fatalf("persist: %v", err)
	}
	if persisted.Persisted == nil || !persisted.Persisted.Written {
		t.Fatalf("expected layout write, got %+v", persisted)
	}
	if store.layout == layoutXML {
		t.Fatal("expected layout to change")
	}
}

func TestSaveDatasourceCommandValidation(t *testing.T) {
	err := SaveDatasourceCommand{}.Validate()
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	for _, key := range []string{"session_id", "instance_id", "fields"} {
		if _, ok := errs[key]; !ok {
			t.Fatalf("expected %s error, got %v", key, errs)
		}
	}
}
