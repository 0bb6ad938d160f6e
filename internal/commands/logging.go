package commands

import (
	"strings"

	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
)

// CommandLogger returns the logger for a group of command handlers, for
// example "authoring". The group becomes part of the module name and a
// `command_group` field.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.Trim(strings.TrimSpace(group), ".")
	if group == "" {
		return logging.ModuleLogger(provider, logging.CommandsModule)
	}
	logger := logging.ModuleLogger(provider, logging.CommandsModule+"."+group)
	return logging.WithFields(logger, map[string]any{"command_group": group})
}

// EnsureLogger returns logger, or a no-op logger when it is nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
