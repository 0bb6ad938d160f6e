package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// TelemetryStatus classifies a command outcome.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
	// TelemetryStatusServiceBusy marks a failed call to the generation service.
	// Authors are asked to retry later, so it is not logged as an error.
	TelemetryStatusServiceBusy TelemetryStatus = "service_busy"
)

// TelemetryInfo is handed to telemetry callbacks after every execution.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry is called once per execution, after the handler returns.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs the outcome of each command on logger.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = EnsureLogger(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields)
		args := []any{"duration_ms", info.Duration.Milliseconds(), "status", string(info.Status)}
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Info("command.execute.success", args...)
		case TelemetryStatusServiceBusy:
			entry.Warn("command.execute.service_busy",
				append(args, "text_code", GenerationServiceBusyCode, "error", info.Error)...)
		case TelemetryStatusContextError:
			entry.Error("command.execute.context_error", append(args, "error", info.Error)...)
		default:
			entry.Error("command.execute.failed", append(args, "error", info.Error)...)
		}
	}
}

func statusFor(execErr, ctxErr error) TelemetryStatus {
	switch {
	case execErr != nil && isGenerationFailure(execErr):
		return TelemetryStatusServiceBusy
	case execErr != nil:
		return TelemetryStatusFailed
	case ctxErr != nil:
		return TelemetryStatusContextError
	default:
		return TelemetryStatusSuccess
	}
}
