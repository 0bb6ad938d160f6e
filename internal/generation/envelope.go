package generation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-cms-authoring/internal/domain"
)

// envelopeKeys are the members that may wrap the result array, in lookup
// order. Observed shapes include {result}, {data:{result}}, {summary:{result}}
// and {summary:{summary:{result}}}.
var envelopeKeys = []string{"result", "data", "summary"}

const maxEnvelopeDepth = 4

// Normalize extracts the flat list of raw result items from any supported
// envelope. A bare top-level array is accepted as the result itself.
func Normalize(body []byte) ([]any, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", ErrServiceUnavailable, err)
	}
	items, ok := findResult(decoded, 0)
	if !ok {
		return nil, fmt.Errorf("%w: response has no result array", ErrServiceUnavailable)
	}
	return items, nil
}

func findResult(node any, depth int) ([]any, bool) {
	if depth > maxEnvelopeDepth {
		return nil, false
	}
	switch v := node.(type) {
	case []any:
		return v, true
	case map[string]any:
		for _, key := range envelopeKeys {
			child, ok := v[key]
			if !ok || child == nil {
				continue
			}
			if items, ok := findResult(child, depth+1); ok {
				return items, true
			}
		}
		return nil, false
	case string:
		// Some deployments return the result JSON as a string.
		trimmed := strings.TrimSpace(v)
		if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
			return nil, false
		}
		var nested any
		if err := json.Unmarshal([]byte(trimmed), &nested); err != nil {
			return nil, false
		}
		return findResult(nested, depth+1)
	default:
		return nil, false
	}
}

// toItem converts a validated raw item.
func toItem(raw map[string]any) domain.GenerationItem {
	return domain.GenerationItem{
		Section:     stringify(raw["section"]),
		Name:        stringify(raw["name"]),
		DisplayName: stringify(raw["display_name"]),
		Reference:   stringify(raw["reference"]),
		Type:        stringify(raw["type"]),
		Value:       stringify(raw["value"]),
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		encoded, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(encoded)
	}
}
