package session

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-authoring/internal/domain"
	"github.com/goliatone/go-cms-authoring/internal/items"
	"github.com/goliatone/go-cms-authoring/internal/journal"
	"github.com/goliatone/go-cms-authoring/internal/layout"
)

// SaveRequest creates the datasource item of one rendering. Fields carry the
// values to store; ComponentID may be empty when Discover saw InstanceID.
type SaveRequest struct {
	InstanceID  string
	ComponentID string
	ItemName    string
	ParentID    string
	Fields      []domain.FieldDescriptor
}

// Saved is a created datasource item and the binding recorded for it.
type Saved struct {
	Item    *items.Item
	Binding layout.DatasourceBinding
}

// SaveDatasource creates a content item for a rendering and records the
// binding. Repeating the call creates another item.
func (s *Session) SaveDatasource(ctx context.Context, req SaveRequest) (*Saved, error) {
	if strings.TrimSpace(req.InstanceID) == "" {
		return nil, ErrComponentRequired
	}
	componentRef := req.ComponentID
	if strings.TrimSpace(componentRef) == "" {
		componentRef = s.componentFor(req.InstanceID)
	}
	component, err := s.cache.Resolve(ctx, s.deps.Resolver, componentRef)
	if err != nil {
		return nil, err
	}

	templateID, err := s.deps.Items.ResolveTemplateID(ctx, component.DataShapeRef)
	if err != nil {
		return nil, err
	}
	parentID, err := s.deps.Items.ResolveParent(ctx, items.ParentHint{
		ExplicitID: req.ParentID,
		Location:   component.DataLocationHint,
	})
	if err != nil {
		return nil, err
	}

	values := make([]items.FieldValue, 0, len(req.Fields))
	for _, field := range req.Fields {
		if strings.TrimSpace(field.Name) == "" {
			continue
		}
		value, err := s.deps.Items.FormatValue(field, field.Value)
		if err != nil {
			return nil, err
		}
		values = append(values, items.FieldValue{Name: field.Name, Value: value})
	}

	name := strings.TrimSpace(req.ItemName)
	if name == "" {
		name = items.DefaultItemName(s.PageName(), firstNonEmpty(component.DisplayName, component.Name))
	}
	item, err := s.deps.Items.Create(ctx, items.CreateInput{
		Name:       name,
		ParentID:   parentID,
		TemplateID: templateID,
		Fields:     values,
	})
	if err != nil {
		return nil, err
	}

	binding, err := s.planner.RecordBinding(req.InstanceID, item.ItemID, item.Path)
	if err != nil {
		return nil, err
	}
	s.journal(ctx, journal.Event{
		Type:                journal.EventItemCreated,
		RenderingInstanceID: binding.RenderingInstanceID,
		ComponentID:         component.ID,
		ContentItemID:       item.ItemID,
		ContentItemPath:     item.Path,
		Detail:              map[string]any{"fields": len(values), "name": name},
	})
	s.logger.Info("session.datasource.saved", "instance_id", req.InstanceID, "item_id", item.ItemID)
	return &Saved{Item: item, Binding: binding}, nil
}

// Persisted reports a layout write.
type Persisted struct {
	Written bool
	Updated int
	Skipped []layout.SkippedBinding
}

// PersistLayout applies every recorded binding to the page layout and writes
// it back when the text changed.
func (s *Session) PersistLayout(ctx context.Context) (*Persisted, error) {
	if s.pageItemID == "" {
		return nil, ErrPageItemRequired
	}
	current, err := s.deps.Items.GetLayout(ctx, s.pageItemID)
	if err != nil {
		return nil, err
	}
	result, err := s.planner.ApplyAll(current)
	if err != nil {
		return nil, err
	}

	out := &Persisted{Updated: result.Updated, Skipped: result.Skipped}
	if result.Text == current {
		s.logger.Debug("session.layout.unchanged", "bindings", s.planner.Len())
		return out, nil
	}
	if err := s.deps.Items.UpdateLayout(ctx, s.pageItemID, result.Text); err != nil {
		return nil, err
	}
	out.Written = true
	s.journal(ctx, journal.Event{
		Type:   journal.EventLayoutPersisted,
		Detail: map[string]any{"updated": result.Updated, "skipped": len(result.Skipped)},
	})
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
