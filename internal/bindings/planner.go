package bindings

import (
	"errors"
	"slices"
	"strings"

	"github.com/goliatone/go-cms-authoring/internal/layout"
	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
)

var ErrInstanceIDRequired = errors.New("bindings: rendering instance id required")

// Planner accumulates the datasource bindings of one authoring session. It
// only appends; a later binding for the same instance wins when applied.
type Planner struct {
	codec    *layout.Codec
	logger   interfaces.Logger
	bindings []layout.DatasourceBinding
}

type Option func(*Planner)

// WithLogger sets the planner logger, also used by its codec.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPlanner returns an empty planner.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.codec = layout.NewCodec(layout.WithLogger(p.logger))
	return p
}

// RecordBinding appends a binding. Identifier validation happens when the
// binding is applied.
func (p *Planner) RecordBinding(renderingInstanceID, contentItemID, contentItemPath string) (layout.DatasourceBinding, error) {
	if strings.TrimSpace(renderingInstanceID) == "" {
		return layout.DatasourceBinding{}, ErrInstanceIDRequired
	}
	binding := layout.DatasourceBinding{
		RenderingInstanceID: strings.TrimSpace(renderingInstanceID),
		ContentItemID:       strings.TrimSpace(contentItemID),
		ContentItemPath:     strings.TrimSpace(contentItemPath),
	}
	p.bindings = append(p.bindings, binding)
	p.logger.Debug("bindings.recorded",
		"rendering_instance_id", binding.RenderingInstanceID,
		"content_item_id", binding.ContentItemID,
		"count", len(p.bindings),
	)
	return binding, nil
}

// Bindings returns a copy of the recorded bindings in order.
func (p *Planner) Bindings() []layout.DatasourceBinding {
	return slices.Clone(p.bindings)
}

// Len reports the number of recorded bindings.
func (p *Planner) Len() int {
	return len(p.bindings)
}

// ApplyAll writes every recorded binding into text. It does not change the
// planner, so repeated calls with the same input give the same output.
func (p *Planner) ApplyAll(text string) (layout.ApplyResult, error) {
	return p.codec.ApplyBindings(text, p.bindings)
}
