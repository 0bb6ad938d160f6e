package graphql

import (
	"strings"

	"github.com/goliatone/go-cms-authoring/internal/identity"
)

// DefaultLanguage is used for item lookups when none is configured.
const DefaultLanguage = "en"

// Where is the ItemQueryInput used to address an item by path or id.
type Where struct {
	Path     string `json:"path,omitempty"`
	ItemID   string `json:"itemId,omitempty"`
	Language string `json:"language,omitempty"`
}

// WhereByID addresses an item by id.
func WhereByID(id, language string) Where {
	return Where{ItemID: identity.Normalize(id), Language: languageOrDefault(language)}
}

// WhereByPathOrID addresses a braced GUID by id and anything else by path.
func WhereByPathOrID(ref, language string) Where {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "/sitecore/") && identity.IsBracedGUID(ref) {
		return WhereByID(ref, language)
	}
	return Where{Path: ref, Language: languageOrDefault(language)}
}

func languageOrDefault(language string) string {
	if strings.TrimSpace(language) == "" {
		return DefaultLanguage
	}
	return language
}
