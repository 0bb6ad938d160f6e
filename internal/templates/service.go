package templates

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-cms-authoring/internal/domain"
	"github.com/goliatone/go-cms-authoring/internal/graphql"
	"github.com/goliatone/go-cms-authoring/internal/identity"
	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultDatabase    = "master"
	defaultLayoutField = "__Final Renderings"
	standardValuesName = "__Standard Values"
)

type ServiceOption func(*service)

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLanguage sets the language used for item lookups.
func WithLanguage(language string) ServiceOption {
	return func(s *service) {
		if strings.TrimSpace(language) != "" {
			s.language = strings.TrimSpace(language)
		}
	}
}

// WithDatabase sets the database queried for base templates.
func WithDatabase(database string) ServiceOption {
	return func(s *service) {
		if strings.TrimSpace(database) != "" {
			s.database = strings.TrimSpace(database)
		}
	}
}

// WithLayoutField sets the field read from standard values when browsing.
func WithLayoutField(name string) ServiceOption {
	return func(s *service) {
		if strings.TrimSpace(name) != "" {
			s.layoutField = strings.TrimSpace(name)
		}
	}
}

// WithFieldCache keeps up to size field lists in an LRU cache shared by all
// callers of the service. A size of zero disables caching.
func WithFieldCache(size int) ServiceOption {
	return func(s *service) {
		if size <= 0 {
			s.fields = nil
			return
		}
		cache, err := lru.New[string, []domain.FieldDescriptor](size)
		if err == nil {
			s.fields = cache
		}
	}
}

type service struct {
	client      interfaces.AuthoringClient
	logger      interfaces.Logger
	language    string
	database    string
	layoutField string
	fields      *lru.Cache[string, []domain.FieldDescriptor]
}

// NewService returns a template service backed by client.
func NewService(client interfaces.AuthoringClient, opts ...ServiceOption) Service {
	s := &service{
		client:      client,
		logger:      logging.NoOp(),
		language:    graphql.DefaultLanguage,
		database:    defaultDatabase,
		layoutField: defaultLayoutField,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type nameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type valueField struct {
	Value string `json:"value"`
}

type fieldsResponse struct {
	Item *struct {
		ItemID   string `json:"itemId"`
		Name     string `json:"name"`
		Path     string `json:"path"`
		Children struct {
			Nodes []struct {
				Name     string `json:"name"`
				Children struct {
					Nodes []struct {
						ItemID           string      `json:"itemId"`
						Name             string      `json:"name"`
						ShortDescription *valueField `json:"shortDescription"`
						LongDescription  *valueField `json:"longDescription"`
						Fields           struct {
							Nodes []nameValue `json:"nodes"`
						} `json:"fields"`
					} `json:"nodes"`
				} `json:"children"`
			} `json:"nodes"`
		} `json:"children"`
	} `json:"item"`
}

func (s *service) ListFields(ctx context.Context, templateRef string) ([]domain.FieldDescriptor, error) {
	ref := strings.TrimSpace(templateRef)
	if ref == "" {
		return nil, ErrTemplateRefRequired
	}
	key := cacheKey(ref)
	if s.fields != nil {
		if cached, ok := s.fields.Get(key); ok {
			return slices.Clone(cached), nil
		}
	}

	var resp fieldsResponse
	err := s.client.Execute(ctx, graphql.TemplateFieldsQuery, map[string]any{
		"where": graphql.WhereByPathOrID(ref, s.language),
	}, &resp)
	if err := notFound(err, ref); err != nil {
		return nil, err
	}
	if resp.Item == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, ref)
	}

	var out []domain.FieldDescriptor
	for _, section := range resp.Item.Children.Nodes {
		for _, node := range section.Children.Nodes {
			name := strings.TrimSpace(node.Name)
			if name == "" {
				continue
			}
			meta := make(map[string]string, len(node.Fields.Nodes))
			for _, nv := range node.Fields.Nodes {
				if k := strings.ToLower(strings.TrimSpace(nv.Name)); k != "" {
					meta[k] = nv.Value
				}
			}
			field := domain.FieldDescriptor{
				Section:     section.Name,
				Name:        name,
				Type:        domain.FieldType(meta["type"]),
				Source:      meta["source"],
				Shared:      meta["shared"] == "1",
				Unversioned: meta["unversioned"] == "1",
				ShortHelp:   firstNonEmpty(valueOf(node.ShortDescription), meta["__short description"]),
				LongHelp:    firstNonEmpty(valueOf(node.LongDescription), meta["__long description"]),
			}
			out = append(out, field)
		}
	}
	if out == nil {
		out = []domain.FieldDescriptor{}
	}

	s.logger.Debug("templates.fields.listed", "template", ref, "count", len(out))
	if s.fields != nil {
		s.fields.Add(key, slices.Clone(out))
	}
	return out, nil
}

type baseTemplatesResponse struct {
	ItemTemplate *struct {
		Name          string `json:"name"`
		FullName      string `json:"fullName"`
		TemplateID    string `json:"templateId"`
		BaseTemplates struct {
			Edges []struct {
				Node struct {
					Name       string `json:"name"`
					FullName   string `json:"fullName"`
					TemplateID string `json:"templateId"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"baseTemplates"`
	} `json:"itemTemplate"`
}

func (s *service) ListBaseTemplates(ctx context.Context, templateID string) ([]BaseTemplate, error) {
	id := strings.TrimSpace(templateID)
	if id == "" {
		return nil, ErrTemplateRefRequired
	}
	var resp baseTemplatesResponse
	err := s.client.Execute(ctx, graphql.BaseTemplatesQuery, map[string]any{
		"database":   s.database,
		"templateId": identity.Normalize(id),
	}, &resp)
	if err := notFound(err, id); err != nil {
		return nil, err
	}
	if resp.ItemTemplate == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	out := make([]BaseTemplate, 0, len(resp.ItemTemplate.BaseTemplates.Edges))
	for _, edge := range resp.ItemTemplate.BaseTemplates.Edges {
		out = append(out, BaseTemplate{
			Name:       edge.Node.Name,
			FullName:   edge.Node.FullName,
			TemplateID: identity.Normalize(edge.Node.TemplateID),
		})
	}
	return out, nil
}

type templateRef struct {
	Name               string `json:"name"`
	StandardValuesItem *struct {
		Name  string      `json:"name"`
		Field *valueField `json:"field"`
	} `json:"standardValuesItem"`
}

func (t *templateRef) layout() string {
	if t == nil || t.StandardValuesItem == nil {
		return ""
	}
	return valueOf(t.StandardValuesItem.Field)
}

type childrenResponse struct {
	Item *struct {
		Path     string `json:"path"`
		Children struct {
			Nodes []struct {
				Name        string       `json:"name"`
				DisplayName string       `json:"displayName"`
				ItemID      string       `json:"itemId"`
				Path        string       `json:"path"`
				Template    *templateRef `json:"template"`
				Children    struct {
					Nodes []struct {
						Name        string       `json:"name"`
						DisplayName string       `json:"displayName"`
						ItemID      string       `json:"itemId"`
						Template    *templateRef `json:"template"`
					} `json:"nodes"`
				} `json:"children"`
			} `json:"nodes"`
		} `json:"children"`
	} `json:"item"`
}

func (s *service) Browse(ctx context.Context, path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrTemplateRefRequired
	}
	var resp childrenResponse
	err := s.client.Execute(ctx, graphql.TemplateChildrenQuery, map[string]any{
		"where":       graphql.WhereByPathOrID(path, s.language),
		"layoutField": s.layoutField,
	}, &resp)
	if err := notFound(err, path); err != nil {
		return nil, err
	}
	if resp.Item == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
	}

	catalog := &Catalog{
		Path:          firstNonEmpty(resp.Item.Path, path),
		Folders:       []Folder{},
		PageTemplates: []PageTemplate{},
	}
	for _, child := range resp.Item.Children.Nodes {
		name := firstNonEmpty(child.DisplayName, child.Name)
		direct := child.Template.layout()
		indirect := ""
		for _, grandchild := range child.Children.Nodes {
			if grandchild.Name == standardValuesName || grandchild.DisplayName == standardValuesName {
				indirect = grandchild.Template.layout()
				break
			}
		}
		layout := firstNonEmpty(direct, indirect)
		templateName := ""
		if child.Template != nil {
			templateName = child.Template.Name
		}

		switch {
		case layout != "":
			catalog.PageTemplates = append(catalog.PageTemplates, PageTemplate{
				Name:            name,
				ItemID:          identity.Normalize(child.ItemID),
				FinalRenderings: layout,
			})
		case strings.Contains(strings.ToLower(templateName), "folder") || len(child.Children.Nodes) > 0:
			catalog.Folders = append(catalog.Folders, Folder{
				Name:   name,
				ItemID: identity.Normalize(child.ItemID),
				Path:   child.Path,
			})
		}
	}
	s.logger.Debug("templates.catalog.browsed", "path", path, "folders", len(catalog.Folders), "page_templates", len(catalog.PageTemplates))
	return catalog, nil
}

func notFound(err error, ref string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, graphql.ErrEmptyResponse) {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, ref)
	}
	return err
}

func cacheKey(ref string) string {
	if identity.IsBracedGUID(ref) {
		return identity.HexKey(ref)
	}
	return strings.ToLower(ref)
}

func valueOf(v *valueField) string {
	if v == nil {
		return ""
	}
	return v.Value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
