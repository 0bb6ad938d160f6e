package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-authoring/internal/domain"
	"github.com/goliatone/go-cms-authoring/internal/generation"
	"github.com/goliatone/go-cms-authoring/internal/journal"
	"github.com/goliatone/go-cms-authoring/internal/reconcile"
	"github.com/goliatone/go-cms-authoring/internal/sourcedoc"
	"github.com/goliatone/go-cms-authoring/internal/templates"
)

// Source describes the material a generation call works from. Text, when
// set, is prepared and sent with the document reference; otherwise the
// configured extractor is asked for the text of DocumentRef.
type Source struct {
	DocumentRef    string
	Instruction    string
	StyleReference string
	Text           string
}

// GenerateOptions picks how generated values are matched onto fields.
type GenerateOptions struct {
	Reconcile reconcile.Options
}

// Generated is the reconciled field list of one generation call.
type Generated struct {
	Component domain.ComponentDescriptor
	Fields    []domain.FieldDescriptor
	Matched   int
	Unmatched int
}

// GenerateComponentFields fills the datasource fields of a component. ref is
// a component id or a rendering instance id seen by Discover.
func (s *Session) GenerateComponentFields(ctx context.Context, ref string, src Source, opts GenerateOptions) (*Generated, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, ErrComponentRequired
	}
	component, err := s.cache.Resolve(ctx, s.deps.Resolver, s.componentFor(ref))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(component.DataShapeRef) == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoDataShape, component.ID)
	}
	fields, err := s.deps.Templates.ListFields(ctx, component.DataShapeRef)
	if err != nil {
		return nil, err
	}

	out, err := s.generate(ctx, fields, src, opts)
	if err != nil {
		return nil, err
	}
	out.Component = component
	s.journal(ctx, journal.Event{
		Type:        journal.EventGeneration,
		ComponentID: component.ID,
		Detail: map[string]any{
			"scope":     "component",
			"strategy":  opts.Reconcile.Strategy.String(),
			"matched":   out.Matched,
			"unmatched": out.Unmatched,
		},
	})
	return out, nil
}

// GeneratePageFields fills the fields a page inherits from its configured
// base templates and records the page name. Call it before saving component
// datasources so their default names can use the page name.
func (s *Session) GeneratePageFields(ctx context.Context, pageTemplateID string, src Source, opts GenerateOptions) (*Generated, error) {
	if strings.TrimSpace(pageTemplateID) == "" {
		return nil, templates.ErrTemplateRefRequired
	}
	bases, err := s.deps.Templates.ListBaseTemplates(ctx, pageTemplateID)
	if err != nil {
		return nil, err
	}

	var sets [][]domain.FieldDescriptor
	for _, base := range s.pageBases(bases) {
		fields, err := s.deps.Templates.ListFields(ctx, base.TemplateID)
		if err != nil {
			return nil, err
		}
		sets = append(sets, fields)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPageBaseTemplates, pageTemplateID)
	}
	merged := templates.MergeFieldSets(templates.MergeOptions{
		Bucket: s.settings.BaseBucket,
		Policy: templates.FirstSeenWins,
	}, sets...)

	out, err := s.generate(ctx, merged, src, opts)
	if err != nil {
		return nil, err
	}
	for _, field := range out.Fields {
		if strings.EqualFold(field.Name, s.settings.PageNameField) && strings.TrimSpace(field.Value) != "" {
			s.SetPageName(field.Value)
			break
		}
	}
	s.journal(ctx, journal.Event{
		Type: journal.EventGeneration,
		Detail: map[string]any{
			"scope":            "page",
			"page_template_id": pageTemplateID,
			"page_name":        s.PageName(),
			"matched":          out.Matched,
			"unmatched":        out.Unmatched,
		},
	})
	return out, nil
}

// pageBases picks the configured page base templates in configuration order,
// so the first configured base wins field name clashes whatever order the
// CMS lists them in.
func (s *Session) pageBases(bases []templates.BaseTemplate) []templates.BaseTemplate {
	out := make([]templates.BaseTemplate, 0, len(s.settings.PageBaseTemplates))
	for _, name := range s.settings.PageBaseTemplates {
		name = strings.TrimSpace(name)
		for _, base := range bases {
			if strings.EqualFold(name, strings.TrimSpace(base.Name)) {
				out = append(out, base)
				break
			}
		}
	}
	return out
}

func (s *Session) generate(ctx context.Context, fields []domain.FieldDescriptor, src Source, opts GenerateOptions) (*Generated, error) {
	manifest := generation.BuildManifest(fields, generation.ManifestOptions{
		AllowedTypes:     s.settings.TextFieldTypes,
		IncludeReference: opts.Reconcile.Strategy == reconcile.BySectionName,
	})
	if len(manifest) == 0 {
		return nil, generation.ErrManifestEmpty
	}

	text, err := s.documentText(ctx, src)
	if err != nil {
		return nil, err
	}
	generated, err := s.deps.Gateway.Generate(ctx, generation.Request{
		Manifest:          manifest,
		SourceDocumentRef: src.DocumentRef,
		Instruction:       src.Instruction,
		StyleReference:    src.StyleReference,
		DocumentText:      text,
	})
	if err != nil {
		s.logger.Error("session.generation.failed", "error", err)
		return nil, err
	}

	result := s.deps.Reconciler.Reconcile(fields, generated, opts.Reconcile)
	return &Generated{
		Fields:    result.Fields,
		Matched:   result.Matched,
		Unmatched: result.Unmatched,
	}, nil
}

func (s *Session) documentText(ctx context.Context, src Source) (string, error) {
	if strings.TrimSpace(src.Text) != "" {
		return sourcedoc.Prepare(src.Text, s.settings.SourceCharBudget).Text, nil
	}
	if s.deps.Extractor == nil || strings.TrimSpace(src.DocumentRef) == "" {
		return "", nil
	}
	doc, err := sourcedoc.Extract(ctx, s.deps.Extractor, src.DocumentRef, s.settings.SourceCharBudget)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}
