package generation

import (
	"strings"

	"github.com/goliatone/go-cms-authoring/internal/domain"
)

// DefaultTextFieldTypes are the field types eligible for prose generation.
var DefaultTextFieldTypes = []string{
	string(domain.FieldTypeSingleLineText),
	string(domain.FieldTypeRichText),
	string(domain.FieldTypeMultiLineText),
}

// ManifestOptions shapes a manifest. IncludeReference sends the
// section-qualified reference with each entry; leave it false when the
// service builds references itself or matching is by bare name.
type ManifestOptions struct {
	AllowedTypes     []string
	IncludeReference bool
}

// BuildManifest keeps fields whose type is in the allow-list, comparing
// case-insensitively, and preserves their order.
func BuildManifest(fields []domain.FieldDescriptor, opts ManifestOptions) []ManifestEntry {
	allowed := opts.AllowedTypes
	if len(allowed) == 0 {
		allowed = DefaultTextFieldTypes
	}

	out := make([]ManifestEntry, 0, len(fields))
	for _, field := range fields {
		if !allowedType(field.Type, allowed) {
			continue
		}
		entry := ManifestEntry{
			Name:        field.Name,
			DisplayName: field.DisplayName,
			Type:        string(field.Type),
			Section:     field.Section,
		}
		if entry.DisplayName == "" {
			entry.DisplayName = field.Name
		}
		if opts.IncludeReference {
			entry.Reference = field.ReferenceKey()
		}
		out = append(out, entry)
	}
	return out
}

// Eligible reports whether field would be included by BuildManifest.
func Eligible(field domain.FieldDescriptor, allowed []string) bool {
	if len(allowed) == 0 {
		allowed = DefaultTextFieldTypes
	}
	return allowedType(field.Type, allowed)
}

func allowedType(t domain.FieldType, allowed []string) bool {
	for _, candidate := range allowed {
		if t.Is(domain.FieldType(candidate)) {
			return true
		}
	}
	return false
}

// ClearReferences returns a copy of manifest with every reference removed.
func ClearReferences(manifest []ManifestEntry) []ManifestEntry {
	out := make([]ManifestEntry, len(manifest))
	for i, entry := range manifest {
		entry.Reference = ""
		out[i] = entry
	}
	return out
}

func trimmed(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
