package components

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-authoring/internal/domain"
	"github.com/goliatone/go-cms-authoring/internal/graphql"
	"github.com/goliatone/go-cms-authoring/internal/identity"
	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
)

var (
	ErrComponentNotFound    = errors.New("components: component not found")
	ErrComponentRefRequired = errors.New("components: component reference required")
)

// Resolver looks up rendering definitions.
type Resolver interface {
	Resolve(ctx context.Context, componentRef string) (domain.ComponentDescriptor, error)
}

type ResolverOption func(*resolver)

// WithLogger sets the resolver logger.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLanguage sets the lookup language.
func WithLanguage(language string) ResolverOption {
	return func(r *resolver) {
		if strings.TrimSpace(language) != "" {
			r.language = strings.TrimSpace(language)
		}
	}
}

type resolver struct {
	client   interfaces.AuthoringClient
	logger   interfaces.Logger
	language string
}

// NewResolver returns a Resolver backed by client.
func NewResolver(client interfaces.AuthoringClient, opts ...ResolverOption) Resolver {
	r := &resolver{client: client, logger: logging.NoOp(), language: graphql.DefaultLanguage}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

type renderingResponse struct {
	Item *struct {
		ItemID             string `json:"itemId"`
		Name               string `json:"name"`
		DisplayName        string `json:"displayName"`
		Path               string `json:"path"`
		DatasourceLocation *struct {
			Value string `json:"value"`
		} `json:"datasourceLocation"`
		DatasourceTemplate *struct {
			Value string `json:"value"`
		} `json:"datasourceTemplate"`
	} `json:"item"`
}

func (r *resolver) Resolve(ctx context.Context, componentRef string) (domain.ComponentDescriptor, error) {
	ref := strings.TrimSpace(componentRef)
	if ref == "" {
		return domain.ComponentDescriptor{}, ErrComponentRefRequired
	}

	var resp renderingResponse
	err := r.client.Execute(ctx, graphql.RenderingInfoQuery, map[string]any{
		"where": graphql.WhereByPathOrID(ref, r.language),
	}, &resp)
	if errors.Is(err, graphql.ErrEmptyResponse) || (err == nil && resp.Item == nil) {
		return domain.ComponentDescriptor{}, fmt.Errorf("%w: %s", ErrComponentNotFound, ref)
	}
	if err != nil {
		return domain.ComponentDescriptor{}, err
	}

	item := resp.Item
	descriptor := domain.ComponentDescriptor{
		ID:          identity.Normalize(firstNonEmpty(item.ItemID, ref)),
		Name:        firstNonEmpty(item.Name, identity.Normalize(ref)),
		DisplayName: firstNonEmpty(item.DisplayName, item.Name),
		Path:        item.Path,
	}
	if item.DatasourceTemplate != nil {
		descriptor.DataShapeRef = CleanTemplateRef(item.DatasourceTemplate.Value)
	}
	if item.DatasourceLocation != nil {
		descriptor.DataLocationHint = strings.TrimSpace(item.DatasourceLocation.Value)
	}
	r.logger.Debug("components.resolved", "component_id", descriptor.ID, "name", descriptor.Name, "data_shape_ref", descriptor.DataShapeRef)
	return descriptor, nil
}

// CleanTemplateRef drops everything after the first '|' and strips
// surrounding quotes from a datasource template value.
func CleanTemplateRef(raw string) string {
	value, _, _ := strings.Cut(raw, "|")
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, `"`)
	value = strings.TrimPrefix(value, `'`)
	value = strings.TrimSuffix(value, `"`)
	value = strings.TrimSuffix(value, `'`)
	return strings.TrimSpace(value)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
