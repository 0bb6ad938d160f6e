package templates

import (
	"context"
	"errors"

	"github.com/goliatone/go-cms-authoring/internal/domain"
)

// Service reads template definitions from the authoring endpoint.
type Service interface {
	// ListFields returns the fields of templateRef, a path or braced id,
	// grouped by section as encountered. Nameless fields are skipped.
	ListFields(ctx context.Context, templateRef string) ([]domain.FieldDescriptor, error)
	// ListBaseTemplates returns the direct base templates of templateID.
	ListBaseTemplates(ctx context.Context, templateID string) ([]BaseTemplate, error)
	// Browse lists the folders and page templates under path.
	Browse(ctx context.Context, path string) (*Catalog, error)
}

var (
	ErrTemplateNotFound    = errors.New("templates: template not found")
	ErrTemplateRefRequired = errors.New("templates: template reference required")
)

// BaseTemplate is one direct ancestor of a template.
type BaseTemplate struct {
	Name       string `json:"name"`
	FullName   string `json:"full_name"`
	TemplateID string `json:"template_id"`
}

// Catalog is one level of the template tree.
type Catalog struct {
	Path          string         `json:"path"`
	Folders       []Folder       `json:"folders"`
	PageTemplates []PageTemplate `json:"page_templates"`
}

// Folder is a navigable template folder.
type Folder struct {
	Name   string `json:"name"`
	ItemID string `json:"item_id"`
	Path   string `json:"path"`
}

// PageTemplate is a template whose standard values carry a layout.
type PageTemplate struct {
	Name            string `json:"name"`
	ItemID          string `json:"item_id"`
	FinalRenderings string `json:"final_renderings"`
}

// MergePolicy picks which duplicate survives when field sets are merged.
type MergePolicy int

const (
	// FirstSeenWins keeps the earliest descriptor for a (section, name) key.
	FirstSeenWins MergePolicy = iota
	// LastSeenWins replaces the descriptor with later ones, keeping the
	// position of the first occurrence.
	LastSeenWins
)

// MergeOptions configures MergeFieldSets. When Bucket is set every
// descriptor is moved into that section before keys are compared.
type MergeOptions struct {
	Bucket string
	Policy MergePolicy
}
