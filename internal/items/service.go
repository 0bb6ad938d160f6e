package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-authoring/internal/components"
	"github.com/goliatone/go-cms-authoring/internal/domain"
	"github.com/goliatone/go-cms-authoring/internal/graphql"
	"github.com/goliatone/go-cms-authoring/internal/identity"
	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/internal/richtext"
	"github.com/goliatone/go-cms-authoring/internal/templates"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
)

const defaultLayoutField = "__Final Renderings"

type ServiceOption func(*service)

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLanguage sets the language used for lookups and writes.
func WithLanguage(language string) ServiceOption {
	return func(s *service) {
		if strings.TrimSpace(language) != "" {
			s.language = strings.TrimSpace(language)
		}
	}
}

// WithLayoutField sets the layout field name.
func WithLayoutField(name string) ServiceOption {
	return func(s *service) {
		if strings.TrimSpace(name) != "" {
			s.layoutField = strings.TrimSpace(name)
		}
	}
}

// WithDefaultParent sets the parent used when no hint resolves.
func WithDefaultParent(id string) ServiceOption {
	return func(s *service) {
		s.defaultParent = strings.TrimSpace(id)
	}
}

// WithRichText sets the converter applied to Rich Text values.
func WithRichText(converter *richtext.Converter) ServiceOption {
	return func(s *service) {
		if converter != nil {
			s.richText = converter
		}
	}
}

type service struct {
	client        interfaces.AuthoringClient
	logger        interfaces.Logger
	language      string
	layoutField   string
	defaultParent string
	richText      *richtext.Converter
}

// NewService returns an items service backed by client.
func NewService(client interfaces.AuthoringClient, opts ...ServiceOption) Service {
	s := &service{
		client:      client,
		logger:      logging.NoOp(),
		language:    graphql.DefaultLanguage,
		layoutField: defaultLayoutField,
		richText:    richtext.NewConverter(richtext.FormatMarkdown, richtext.Options{Sanitize: true}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type itemIDResponse struct {
	Item *struct {
		ItemID string `json:"itemId"`
	} `json:"item"`
}

func (s *service) lookupID(ctx context.Context, where graphql.Where) (string, error) {
	var resp itemIDResponse
	err := s.client.Execute(ctx, graphql.ItemIDByPathQuery, map[string]any{"where": where}, &resp)
	if errors.Is(err, graphql.ErrEmptyResponse) || (err == nil && (resp.Item == nil || resp.Item.ItemID == "")) {
		return "", ErrItemNotFound
	}
	if err != nil {
		return "", err
	}
	return identity.Normalize(resp.Item.ItemID), nil
}

// ResolveTemplateID cleans ref and returns braced ids as is, looking up paths.
func (s *service) ResolveTemplateID(ctx context.Context, ref string) (string, error) {
	cleaned := components.CleanTemplateRef(ref)
	if cleaned == "" {
		return "", fmt.Errorf("%w: empty datasource template", templates.ErrTemplateRefRequired)
	}
	if identity.IsBracedGUID(cleaned) {
		return identity.Normalize(cleaned), nil
	}
	id, err := s.lookupID(ctx, graphql.Where{Path: cleaned, Language: s.language})
	if errors.Is(err, ErrItemNotFound) {
		return "", fmt.Errorf("%w: %s", templates.ErrTemplateNotFound, cleaned)
	}
	return id, err
}

func (s *service) ResolveParent(ctx context.Context, hint ParentHint) (string, error) {
	if id := strings.TrimSpace(hint.ExplicitID); id != "" {
		return identity.Normalize(id), nil
	}
	location := strings.TrimSpace(hint.Location)
	switch {
	case identity.IsBracedGUID(location):
		return identity.Normalize(location), nil
	case strings.HasPrefix(location, "/sitecore/"):
		id, err := s.lookupID(ctx, graphql.Where{Path: location, Language: s.language})
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrItemNotFound) {
			return "", err
		}
		s.logger.Warn("items.parent.location_not_found", "location", location)
	}
	if s.defaultParent != "" {
		return identity.Normalize(s.defaultParent), nil
	}
	return "", ErrParentUnresolved
}

type createResponse struct {
	CreateItem *struct {
		Item *Item `json:"item"`
	} `json:"createItem"`
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Item, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(input.ParentID) == "" {
		return nil, ErrParentUnresolved
	}
	if strings.TrimSpace(input.TemplateID) == "" {
		return nil, templates.ErrTemplateRefRequired
	}
	fields := input.Fields
	if fields == nil {
		fields = []FieldValue{}
	}

	var resp createResponse
	err := s.client.Execute(ctx, graphql.CreateItemMutation, map[string]any{
		"name":       name,
		"parentId":   identity.Normalize(input.ParentID),
		"templateId": identity.Normalize(input.TemplateID),
		"language":   s.language,
		"fields":     fields,
	}, &resp)
	if err != nil && !errors.Is(err, graphql.ErrEmptyResponse) {
		return nil, err
	}
	if resp.CreateItem == nil || resp.CreateItem.Item == nil || resp.CreateItem.Item.ItemID == "" {
		return nil, ErrItemNotCreated
	}
	item := resp.CreateItem.Item
	item.ItemID = identity.Normalize(item.ItemID)
	s.logger.Info("items.created", "item_id", item.ItemID, "path", item.Path, "template_id", input.TemplateID, "fields", len(fields))
	return item, nil
}

type fieldResponse struct {
	Item *struct {
		ItemID string `json:"itemId"`
		Field  *struct {
			Value string `json:"value"`
		} `json:"field"`
	} `json:"item"`
}

func (s *service) GetLayout(ctx context.Context, itemID string) (string, error) {
	if strings.TrimSpace(itemID) == "" {
		return "", ErrItemIDRequired
	}
	var resp fieldResponse
	err := s.client.Execute(ctx, graphql.ItemFieldQuery, map[string]any{
		"where": graphql.WhereByID(itemID, s.language),
		"field": s.layoutField,
	}, &resp)
	if errors.Is(err, graphql.ErrEmptyResponse) || (err == nil && resp.Item == nil) {
		return "", fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if err != nil {
		return "", err
	}
	if resp.Item.Field == nil {
		return "", nil
	}
	return resp.Item.Field.Value, nil
}

type updateResponse struct {
	UpdateItem *struct {
		Item *struct {
			ItemID string `json:"itemId"`
		} `json:"item"`
	} `json:"updateItem"`
}

func (s *service) UpdateLayout(ctx context.Context, itemID, layoutXML string) error {
	if strings.TrimSpace(itemID) == "" {
		return ErrItemIDRequired
	}
	var resp updateResponse
	err := s.client.Execute(ctx, graphql.UpdateFieldMutation, map[string]any{
		"itemId":   identity.Normalize(itemID),
		"language": s.language,
		"field":    s.layoutField,
		"value":    layoutXML,
	}, &resp)
	if errors.Is(err, graphql.ErrEmptyResponse) || (err == nil && (resp.UpdateItem == nil || resp.UpdateItem.Item == nil)) {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if err != nil {
		return err
	}
	s.logger.Info("items.layout.updated", "item_id", identity.Normalize(itemID), "field", s.layoutField)
	return nil
}

// FormatValue converts a raw value into the stored form for field.
func (s *service) FormatValue(field domain.FieldDescriptor, raw string) (string, error) {
	switch {
	case field.Type.Is(domain.FieldTypeCheckbox):
		return CheckboxValue(raw), nil
	case field.Type.Is(domain.FieldTypeRichText):
		return s.richText.Convert(raw)
	default:
		return raw, nil
	}
}

// CheckboxValue maps truthy input to "1" and everything else to "0".
func CheckboxValue(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on", "checked":
		return "1"
	default:
		return "0"
	}
}
