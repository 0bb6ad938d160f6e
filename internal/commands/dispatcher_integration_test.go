package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-cms-authoring/internal/generation"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	goerrors "github.com/goliatone/go-errors"
)

type regenerateCommand struct {
	Ref string
}

func (regenerateCommand) Type() string { return "authoring.test.regenerate" }

func (m regenerateCommand) Validate() error {
	if m.Ref == "" {
		return errors.New("ref required")
	}
	return nil
}

type busyCommand struct{}

func (busyCommand) Type() string { return "authoring.test.busy" }

func (busyCommand) Validate() error { return nil }

func TestDispatchRetriesBusyGenerationService(t *testing.T) {
	t.Parallel()

	var attempts int
	var statuses []TelemetryStatus
	handler := NewHandler(func(ctx context.Context, _ regenerateCommand) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("%w: unexpected status 503", generation.ErrServiceUnavailable)
		}
		return nil
	},
		WithTimeout[regenerateCommand](time.Second),
		WithTelemetry(func(_ context.Context, _ regenerateCommand, info TelemetryInfo) {
			statuses = append(statuses, info.Status)
		}),
	)

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), regenerateCommand{Ref: "{A1}"}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	want := []TelemetryStatus{TelemetryStatusServiceBusy, TelemetryStatusSuccess}
	if len(statuses) != len(want) || statuses[0] != want[0] || statuses[1] != want[1] {
		t.Fatalf("expected statuses %v, got %v", want, statuses)
	}
}

func TestDispatchExhaustsRetriesOnBusyService(t *testing.T) {
	t.Parallel()

	var attempts int
	handler := NewHandler(func(ctx context.Context, _ busyCommand) error {
		attempts++
		return generation.ErrServiceUnavailable
	}, WithTimeout[busyCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), busyCommand{})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	direct := handler.Execute(context.Background(), busyCommand{})
	if !goerrors.IsCategory(direct, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", direct)
	}
	if msg, ok := UserMessage(direct); !ok || msg != generation.UserMessage {
		t.Fatalf("expected the author facing message, got %q", msg)
	}
}

func TestDispatchRejectsInvalidMessages(t *testing.T) {
	t.Parallel()

	var called bool
	handler := NewHandler(func(ctx context.Context, _ regenerateCommand) error {
		called = true
		return nil
	})
	if err := handler.Execute(context.Background(), regenerateCommand{}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Fatal("handler must not run for invalid messages")
	}
}
