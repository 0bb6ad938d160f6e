package interfaces

import "context"

// AuthoringClient executes query and mutation documents against the CMS
// authoring GraphQL endpoint. Implementations decode the `data` member of the
// response into out and report any entry in `errors` as a failure.
type AuthoringClient interface {
	Execute(ctx context.Context, query string, variables map[string]any, out any) error
}

// TextExtractor returns the plain text of a stored source document. Extraction
// itself (PDF, DOCX) lives outside this module.
type TextExtractor interface {
	ExtractText(ctx context.Context, documentRef string) (string, error)
}
