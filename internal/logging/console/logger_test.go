package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/internal/logging/console"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
)

func TestConsoleLoggerWritesSortedFields(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2025, 5, 2, 10, 30, 0, 0, time.UTC)
	level := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &level,
	})

	logger := provider.GetLogger(logging.BindingsModule).(interfaces.FieldsLogger).
		WithFields(map[string]any{"module": logging.BindingsModule})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"session_id": "s-1"})
	logger = logger.WithContext(ctx)

	logger.Warn("layout.binding.invalid_identifier", "content_item_id", "not a guid", "skipped", true)

	got := strings.TrimSpace(buf.String())
	want := `2025-05-02T10:30:00Z WARN layout.binding.invalid_identifier content_item_id="not a guid" logger=authoring.bindings module=authoring.bindings session_id=s-1 skipped=true`
	if got != want {
		t.Fatalf("unexpected entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLoggerFiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	level := console.ParseLevel("info")
	provider := console.NewProvider(console.Options{Writer: &buf, MinLevel: &level})

	logger := provider.GetLogger("authoring.test")
	logger.Debug("dropped")
	logger.Info("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if console.ParseLevel("verbose") != console.LevelInfo {
		t.Fatal("expected unknown level to map to info")
	}
	if console.ParseLevel("WARNING") != console.LevelWarn {
		t.Fatal("expected warning alias")
	}
}
