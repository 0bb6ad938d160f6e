package layout

import (
	"context"

	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
)

type recordingLogger struct {
	warnings []string
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(msg string, _ ...any) {
	r.warnings = append(r.warnings, msg)
}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }
