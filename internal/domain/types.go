package domain

import "strings"

// FieldType is the field type name reported by the CMS, e.g. "Single-Line Text".
type FieldType string

const (
	// FieldTypeSingleLineText is a plain one-line text field.
	FieldTypeSingleLineText FieldType = "Single-Line Text"
	// FieldTypeMultiLineText is a plain multi-line text field.
	FieldTypeMultiLineText FieldType = "Multi-Line Text"
	// FieldTypeRichText holds HTML.
	FieldTypeRichText FieldType = "Rich Text"
	// FieldTypeCheckbox stores "1" or "0".
	FieldTypeCheckbox FieldType = "Checkbox"
	FieldTypeImage    FieldType = "Image"
	FieldTypeLink     FieldType = "General Link"
)

// Is compares field types ignoring case and surrounding space.
func (t FieldType) Is(other FieldType) bool {
	return strings.EqualFold(strings.TrimSpace(string(t)), strings.TrimSpace(string(other)))
}

// FieldDescriptor describes one template field, grouped by section. Value is
// empty until a generated or user value is reconciled onto it.
type FieldDescriptor struct {
	Section     string    `json:"section"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name,omitempty"`
	Type        FieldType `json:"type"`
	Source      string    `json:"source,omitempty"`
	Shared      bool      `json:"shared,omitempty"`
	Unversioned bool      `json:"unversioned,omitempty"`
	ShortHelp   string    `json:"short_help,omitempty"`
	LongHelp    string    `json:"long_help,omitempty"`
	Value       string    `json:"value,omitempty"`
}

// ReferenceKey is lower(section) + "_" + lower(name).
func (f FieldDescriptor) ReferenceKey() string {
	return ReferenceKey(f.Section, f.Name)
}

// ReferenceKey builds the section-qualified key used to match generated
// values back onto fields.
func ReferenceKey(section, name string) string {
	return strings.ToLower(strings.TrimSpace(section)) + "_" + strings.ToLower(strings.TrimSpace(name))
}

// ComponentDescriptor is a resolved rendering definition. DataShapeRef is the
// cleaned datasource template reference, a path or braced id.
type ComponentDescriptor struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	DisplayName      string `json:"display_name"`
	Path             string `json:"path"`
	DataShapeRef     string `json:"data_shape_ref,omitempty"`
	DataLocationHint string `json:"data_location_hint,omitempty"`
}

// GenerationItem is one value returned by the content generation service.
type GenerationItem struct {
	Section     string `json:"section,omitempty"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Reference   string `json:"reference,omitempty"`
	Type        string `json:"type,omitempty"`
	Value       string `json:"value"`
}
