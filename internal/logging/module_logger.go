package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
)

// Module names handed to the logger provider. Every pipeline stage logs under
// its own name so hosts can focus or silence individual stages.
const (
	RootModule       = "authoring"
	LayoutModule     = "authoring.layout"
	TemplatesModule  = "authoring.templates"
	ComponentsModule = "authoring.components"
	GenerationModule = "authoring.generation"
	ReconcileModule  = "authoring.reconcile"
	BindingsModule   = "authoring.bindings"
	ItemsModule      = "authoring.items"
	SessionModule    = "authoring.session"
	JournalModule    = "authoring.journal"
	CommandsModule   = "authoring.commands"
)

// ModuleLogger returns the provider's logger for module annotated with a
// `module` field. A nil provider, or one returning nil, yields a no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = RootModule
	}

	var logger interfaces.Logger = NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// WithFields attaches fields when logger implements interfaces.FieldsLogger and
// returns it unchanged otherwise. The map is copied before it is handed over.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return fieldsLogger.WithFields(copied)
}

// WithSession scopes logger to an authoring session and, when known, the page
// item being authored.
func WithSession(logger interfaces.Logger, sessionID, pageItemID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(sessionID); trimmed != "" {
		fields["session_id"] = trimmed
	}
	if trimmed := strings.TrimSpace(pageItemID); trimmed != "" {
		fields["page_item_id"] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
