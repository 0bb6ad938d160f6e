package reconcile

import (
	"strings"

	"github.com/goliatone/go-cms-authoring/internal/domain"
	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
)

// MatchStrategy selects how generated items are keyed against fields.
type MatchStrategy int

const (
	// ByName matches the item name against the field name.
	ByName MatchStrategy = iota
	// BySectionName matches the item reference against
	// lower(section)+"_"+lower(name).
	BySectionName
)

func (s MatchStrategy) String() string {
	if s == BySectionName {
		return "by_section_name"
	}
	return "by_name"
}

// DuplicatePolicy picks the generated item used when several share a key.
type DuplicatePolicy int

const (
	LastMatchWins DuplicatePolicy = iota
	FirstMatchWins
)

// Options configures one reconciliation.
type Options struct {
	Strategy      MatchStrategy
	DropUnmatched bool
	Duplicates    DuplicatePolicy
}

// Result pairs the reconciled fields with match counts.
type Result struct {
	Fields    []domain.FieldDescriptor
	Matched   int
	Unmatched int
}

// Reconciler merges generated items onto field descriptors.
type Reconciler struct {
	logger interfaces.Logger
}

type Option func(*Reconciler)

// WithLogger sets the reconciler logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns a Reconciler.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Reconcile overlays generated values onto original. A matched field takes
// the item value and, when present, its display name and type; section and
// name never change. Unmatched fields are dropped or kept with an empty value
// according to opts.DropUnmatched. Output follows original order.
func (r *Reconciler) Reconcile(original []domain.FieldDescriptor, generated []domain.GenerationItem, opts Options) Result {
	index := make(map[string]domain.GenerationItem, len(generated))
	for _, item := range generated {
		key := itemKey(item, opts.Strategy)
		if key == "" {
			continue
		}
		if _, exists := index[key]; exists && opts.Duplicates == FirstMatchWins {
			continue
		}
		index[key] = item
	}

	res := Result{Fields: make([]domain.FieldDescriptor, 0, len(original))}
	for _, field := range original {
		item, ok := index[fieldKey(field, opts.Strategy)]
		if !ok {
			res.Unmatched++
			if opts.DropUnmatched {
				continue
			}
			field.Value = ""
			res.Fields = append(res.Fields, field)
			continue
		}
		res.Matched++
		res.Fields = append(res.Fields, overlay(field, item))
	}

	r.logger.Debug("reconcile.completed",
		"strategy", opts.Strategy.String(),
		"drop_unmatched", opts.DropUnmatched,
		"matched", res.Matched,
		"unmatched", res.Unmatched,
	)
	return res
}

// Reconcile runs a Reconciler without logging.
func Reconcile(original []domain.FieldDescriptor, generated []domain.GenerationItem, opts Options) []domain.FieldDescriptor {
	return New().Reconcile(original, generated, opts).Fields
}

func overlay(field domain.FieldDescriptor, item domain.GenerationItem) domain.FieldDescriptor {
	field.Value = item.Value
	if strings.TrimSpace(item.DisplayName) != "" {
		field.DisplayName = item.DisplayName
	}
	if strings.TrimSpace(item.Type) != "" {
		field.Type = domain.FieldType(item.Type)
	}
	return field
}

func fieldKey(field domain.FieldDescriptor, strategy MatchStrategy) string {
	if strategy == BySectionName {
		return normalizeReference(field.ReferenceKey())
	}
	return strings.ToLower(strings.TrimSpace(field.Name))
}

func itemKey(item domain.GenerationItem, strategy MatchStrategy) string {
	if strategy == BySectionName {
		if ref := strings.TrimSpace(item.Reference); ref != "" {
			return normalizeReference(ref)
		}
		if strings.TrimSpace(item.Section) != "" && strings.TrimSpace(item.Name) != "" {
			return normalizeReference(domain.ReferenceKey(item.Section, item.Name))
		}
		return ""
	}
	return strings.ToLower(strings.TrimSpace(item.Name))
}

// normalizeReference lower-cases and accepts "." as the section separator.
func normalizeReference(ref string) string {
	ref = strings.ToLower(strings.TrimSpace(ref))
	return strings.Replace(ref, ".", "_", 1)
}
