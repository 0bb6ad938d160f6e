package sourcedoc

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
)

// DefaultCharBudget bounds the source text sent with a generation request.
const DefaultCharBudget = 30000

// Document is source text ready to be sent for generation.
type Document struct {
	Text      string
	Meta      map[string]any
	Runes     int
	Truncated bool
}

// Prepare strips YAML or TOML front matter, trims, and truncates text to
// budget runes. A budget of zero or less uses DefaultCharBudget. Front matter
// that cannot be parsed is kept as part of the text.
func Prepare(text string, budget int) Document {
	if budget <= 0 {
		budget = DefaultCharBudget
	}
	doc := Document{Meta: map[string]any{}}

	body := text
	trimmed := strings.TrimLeft(text, "\ufeff \t\r\n")
	if strings.HasPrefix(trimmed, "---") || strings.HasPrefix(trimmed, "+++") {
		meta := map[string]any{}
		if rest, err := frontmatter.Parse(strings.NewReader(trimmed), &meta); err == nil {
			body = string(rest)
			doc.Meta = meta
		}
	}

	body = strings.TrimSpace(body)
	doc.Runes = utf8.RuneCountInString(body)
	if doc.Runes > budget {
		body = truncateRunes(body, budget)
		doc.Truncated = true
	}
	doc.Text = body
	return doc
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Extract asks extractor for the text of documentRef and prepares it. A nil
// extractor or empty reference yields an empty document.
func Extract(ctx context.Context, extractor interfaces.TextExtractor, documentRef string, budget int) (Document, error) {
	if extractor == nil || strings.TrimSpace(documentRef) == "" {
		return Document{Meta: map[string]any{}}, nil
	}
	text, err := extractor.ExtractText(ctx, documentRef)
	if err != nil {
		return Document{}, fmt.Errorf("sourcedoc: extract %s: %w", documentRef, err)
	}
	return Prepare(text, budget), nil
}
