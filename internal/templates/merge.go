package templates

import (
	"strings"

	"github.com/goliatone/go-cms-authoring/internal/domain"
)

// MergeFieldSets concatenates sets in call order and removes duplicate
// (section, name) keys according to opts.Policy. Names are compared
// case-insensitively.
func MergeFieldSets(opts MergeOptions, sets ...[]domain.FieldDescriptor) []domain.FieldDescriptor {
	bucket := strings.TrimSpace(opts.Bucket)
	index := map[string]int{}
	var out []domain.FieldDescriptor
	for _, set := range sets {
		for _, field := range set {
			if bucket != "" {
				field.Section = bucket
			}
			key := strings.ToLower(field.Section) + "\x00" + strings.ToLower(strings.TrimSpace(field.Name))
			if pos, ok := index[key]; ok {
				if opts.Policy == LastSeenWins {
					out[pos] = field
				}
				continue
			}
			index[key] = len(out)
			out = append(out, field)
		}
	}
	if out == nil {
		return []domain.FieldDescriptor{}
	}
	return out
}

// ParentPath returns the parent of path, or false when path is root or has
// no parent.
func ParentPath(path, root string) (string, bool) {
	trimmed := strings.TrimRight(strings.TrimSpace(path), "/")
	if trimmed == "" || strings.EqualFold(trimmed, strings.TrimRight(root, "/")) {
		return "", false
	}
	idx := strings.LastIndex(trimmed, "/")
	if idx <= 0 {
		return "", false
	}
	return trimmed[:idx], true
}
