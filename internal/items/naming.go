package items

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// DefaultItemName derives a datasource item name from the page name and the
// component name. It falls back to the component name, then "content".
func DefaultItemName(pageName, componentName string) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{pageName, componentName} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	candidate := strings.Join(parts, " ")
	if candidate == "" {
		return "content"
	}
	normalized, err := slug.Normalize(candidate)
	if err != nil || normalized == "" {
		return candidate
	}
	return normalized
}
