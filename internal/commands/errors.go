package commands

import (
	"context"
	"errors"

	"github.com/goliatone/go-cms-authoring/internal/generation"
	goerrors "github.com/goliatone/go-errors"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"

	// GenerationServiceBusyCode tags failed generation calls.
	GenerationServiceBusyCode = "GENERATION_SERVICE_BUSY"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch err {
	case context.Canceled:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case context.DeadlineExceeded:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	if isGenerationFailure(err) {
		return WrapGenerationError(err)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(commandExecuteFailed)
}

// WrapGenerationError tags a failed generation call with the busy text code
// and the author facing message. Upstream detail stays on the source error.
func WrapGenerationError(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, generation.UserMessage).
		WithTextCode(GenerationServiceBusyCode)
}

// UserMessage returns the message to show an author for err. Only generation
// failures have one.
func UserMessage(err error) (string, bool) {
	if isGenerationFailure(err) {
		return generation.UserMessage, true
	}
	return "", false
}

func isGenerationFailure(err error) bool {
	return errors.Is(err, generation.ErrServiceUnavailable)
}
