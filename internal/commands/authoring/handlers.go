package authoringcmd

import (
	"context"

	"github.com/goliatone/go-cms-authoring/internal/commands"
	"github.com/goliatone/go-cms-authoring/internal/session"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
	"github.com/google/uuid"
)

// Sessions looks up open sessions by id. *session.Registry satisfies it.
type Sessions interface {
	Get(id uuid.UUID) (*session.Session, error)
}

// GenerateComponentHandler runs component generation on a session.
type GenerateComponentHandler struct {
	inner *commands.Handler[GenerateComponentCommand]
}

// NewGenerateComponentHandler constructs a handler bound to sessions.
func NewGenerateComponentHandler(sessions Sessions, logger interfaces.Logger, opts ...commands.HandlerOption[GenerateComponentCommand]) *GenerateComponentHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg GenerateComponentCommand) error {
		s, err := sessions.Get(msg.SessionID)
		if err != nil {
			return err
		}
		generated, err := s.GenerateComponentFields(ctx, msg.ComponentRef, msg.Source.source(), msg.Match.options())
		if err != nil {
			return err
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Generated: generated,
			Metadata: map[string]any{
				"operation":    "generate_component",
				"component_id": generated.Component.ID,
			},
		})
		return nil
	}

	handlerOpts := []commands.HandlerOption[GenerateComponentCommand]{
		commands.WithLogger[GenerateComponentCommand](baseLogger),
		commands.WithOperation[GenerateComponentCommand]("authoring.generate.component"),
		commands.WithMessageFields(func(msg GenerateComponentCommand) map[string]any {
			return map[string]any{
				"session_id":    msg.SessionID.String(),
				"component_ref": msg.ComponentRef,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[GenerateComponentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &GenerateComponentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[GenerateComponentCommand].
func (h *GenerateComponentHandler) Execute(ctx context.Context, msg GenerateComponentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// GeneratePageHandler runs page generation on a session.
type GeneratePageHandler struct {
	inner *commands.Handler[GeneratePageCommand]
}

// NewGeneratePageHandler constructs a handler bound to sessions.
func NewGeneratePageHandler(sessions Sessions, logger interfaces.Logger, opts ...commands.HandlerOption[GeneratePageCommand]) *GeneratePageHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg GeneratePageCommand) error {
		s, err := sessions.Get(msg.SessionID)
		if err != nil {
			return err
		}
		generated, err := s.GeneratePageFields(ctx, msg.PageTemplateID, msg.Source.source(), msg.Match.options())
		if err != nil {
			return err
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Generated: generated,
			Metadata: map[string]any{
				"operation": "generate_page",
				"page_name": s.PageName(),
			},
		})
		return nil
	}

	handlerOpts := []commands.HandlerOption[GeneratePageCommand]{
		commands.WithLogger[GeneratePageCommand](baseLogger),
		commands.WithOperation[GeneratePageCommand]("authoring.generate.page"),
		commands.WithMessageFields(func(msg GeneratePageCommand) map[string]any {
			return map[string]any{
				"session_id":       msg.SessionID.String(),
				"page_template_id": msg.PageTemplateID,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[GeneratePageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &GeneratePageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[GeneratePageCommand].
func (h *GeneratePageHandler) Execute(ctx context.Context, msg GeneratePageCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SaveDatasourceHandler creates datasource items.
type SaveDatasourceHandler struct {
	inner *commands.Handler[SaveDatasourceCommand]
}

// NewSaveDatasourceHandler constructs a handler bound to sessions.
func NewSaveDatasourceHandler(sessions Sessions, logger interfaces.Logger, opts ...commands.HandlerOption[SaveDatasourceCommand]) *SaveDatasourceHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SaveDatasourceCommand) error {
		s, err := sessions.Get(msg.SessionID)
		if err != nil {
			return err
		}
		saved, err := s.SaveDatasource(ctx, session.SaveRequest{
			InstanceID:  msg.InstanceID,
			ComponentID: msg.ComponentID,
			ItemName:    msg.ItemName,
			ParentID:    msg.ParentID,
			Fields:      msg.Fields,
		})
		if err != nil {
			return err
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Saved: saved,
			Metadata: map[string]any{
				"operation": "save_datasource",
				"item_id":   saved.Item.ItemID,
			},
		})
		return nil
	}

	handlerOpts := []commands.HandlerOption[SaveDatasourceCommand]{
		commands.WithLogger[SaveDatasourceCommand](baseLogger),
		commands.WithOperation[SaveDatasourceCommand]("authoring.datasource.save"),
		commands.WithMessageFields(func(msg SaveDatasourceCommand) map[string]any {
			return map[string]any{
				"session_id":  msg.SessionID.String(),
				"instance_id": msg.InstanceID,
				"fields":      len(msg.Fields),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SaveDatasourceCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveDatasourceHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SaveDatasourceCommand].
func (h *SaveDatasourceHandler) Execute(ctx context.Context, msg SaveDatasourceCommand) error {
	return h.inner.Execute(ctx, msg)
}

// PersistLayoutHandler writes session bindings into the page layout.
type PersistLayoutHandler struct {
	inner *commands.Handler[PersistLayoutCommand]
}

// NewPersistLayoutHandler constructs a handler bound to sessions.
func NewPersistLayoutHandler(sessions Sessions, logger interfaces.Logger, opts ...commands.HandlerOption[PersistLayoutCommand]) *PersistLayoutHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg PersistLayoutCommand) error {
		s, err := sessions.Get(msg.SessionID)
		if err != nil {
			return err
		}
		persisted, err := s.PersistLayout(ctx)
		if err != nil {
			return err
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Persisted: persisted,
			Metadata: map[string]any{
				"operation":    "persist_layout",
				"page_item_id": s.PageItemID(),
			},
		})
		return nil
	}

	handlerOpts := []commands.HandlerOption[PersistLayoutCommand]{
		commands.WithLogger[PersistLayoutCommand](baseLogger),
		commands.WithOperation[PersistLayoutCommand]("authoring.layout.persist"),
		commands.WithMessageFields(func(msg PersistLayoutCommand) map[string]any {
			return map[string]any{"session_id": msg.SessionID.String()}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[PersistLayoutCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PersistLayoutHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[PersistLayoutCommand].
func (h *PersistLayoutHandler) Execute(ctx context.Context, msg PersistLayoutCommand) error {
	return h.inner.Execute(ctx, msg)
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
