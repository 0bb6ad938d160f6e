package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidIdentifier reports a value that is not a 32 hex digit GUID once
// braces and dashes are removed.
var ErrInvalidIdentifier = errors.New("identity: invalid identifier")

// HexKey strips braces and dashes, trims, and lower-cases value. Two GUIDs are
// the same item when their hex keys are equal.
func HexKey(value string) string {
	replacer := strings.NewReplacer("{", "", "}", "", "-", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(value)))
}

// CanonicalGUID returns value in braced, dashed, upper-case form, e.g.
// {43C1BC5D-831F-47F8-9D03-D3BA6602A0FD}.
func CanonicalGUID(value string) (string, error) {
	key := HexKey(value)
	if len(key) != 32 {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, value)
	}
	parsed, err := uuid.Parse(key)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, value)
	}
	return "{" + strings.ToUpper(parsed.String()) + "}", nil
}

// IsBracedGUID reports whether value looks like a `{...}` item id. It does not
// validate the digits.
func IsBracedGUID(value string) bool {
	v := strings.TrimSpace(value)
	return len(v) > 2 && strings.HasPrefix(v, "{") && strings.HasSuffix(v, "}")
}

// Normalize upper-cases and trims an item id so it can be used as a lookup key
// for values that arrive in mixed case from layout documents and GraphQL.
func Normalize(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// SameItem reports whether a and b name the same item, ignoring case, braces
// and dashes. Empty values never match.
func SameItem(a, b string) bool {
	ka, kb := HexKey(a), HexKey(b)
	return ka != "" && ka == kb
}
