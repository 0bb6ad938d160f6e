package generation

import (
	"context"
	"errors"

	"github.com/goliatone/go-cms-authoring/internal/domain"
)

// Gateway calls the external content generation service.
type Gateway interface {
	Generate(ctx context.Context, req Request) ([]domain.GenerationItem, error)
}

var (
	// ErrServiceUnavailable covers every failed generation call: transport
	// errors, timeouts, non-2xx statuses and unreadable bodies.
	ErrServiceUnavailable = errors.New("generation: service unavailable")
	ErrEndpointRequired   = errors.New("generation: endpoint required")
	ErrManifestEmpty      = errors.New("generation: manifest is empty")
)

// UserMessage is shown to authors when generation fails. Upstream detail is
// never surfaced.
const UserMessage = "We're currently experiencing heavy traffic. Please try again in 5 to 15 minutes."

// DefaultInstruction is used when a request carries no instruction.
const DefaultInstruction = "Rewrite in a more engaging style, but maintain all important details."

// Request is one generation call. DocumentText, when set, is the prepared
// text of the source document.
type Request struct {
	Manifest          []ManifestEntry
	SourceDocumentRef string
	Instruction       string
	StyleReference    string
	DocumentText      string
}

// ManifestEntry describes one field the service should fill.
type ManifestEntry struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Section     string `json:"section"`
	Reference   string `json:"reference,omitempty"`
}
