package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, LayoutModule)
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger.WithContext(context.Background()).Debug("noop")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ModuleLogger(provider, GenerationModule).Info("generation.ready")

	if len(provider.requested) != 1 || provider.requested[0] != GenerationModule {
		t.Fatalf("expected %s to be requested, got %v", GenerationModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != GenerationModule {
		t.Fatalf("expected module field, got %v", rec.fields)
	}
}

func TestModuleLoggerDefaultsToRoot(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	ModuleLogger(provider, "  ")
	if provider.requested[0] != RootModule {
		t.Fatalf("expected %s, got %v", RootModule, provider.requested)
	}
}

func TestWithSessionSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	WithSession(rec, "sess-1", "")
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if rec.fields[0]["session_id"] != "sess-1" {
		t.Fatalf("unexpected fields %v", rec.fields[0])
	}
	if _, ok := rec.fields[0]["page_item_id"]; ok {
		t.Fatalf("empty page item id should be omitted: %v", rec.fields[0])
	}
}

func TestContextFieldsMergeAndCopy(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"a": 1})
	ctx = ContextWithFields(ctx, map[string]any{"b": 2})

	fields := ContextFields(ctx)
	if fields["a"] != 1 || fields["b"] != 2 {
		t.Fatalf("expected merged fields, got %v", fields)
	}
	fields["a"] = 99
	if ContextFields(ctx)["a"] != 1 {
		t.Fatal("expected ContextFields to return a copy")
	}
}
