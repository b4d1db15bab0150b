package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-studio/components/dashboard"
)

// widgetService is the slice of dashboard.Service the widget commands drive.
type widgetService interface {
	AddWidget(ctx context.Context, req dashboard.AddWidgetRequest) error
	UpdateWidget(ctx context.Context, widgetID string, req dashboard.UpdateWidgetRequest) error
	RemoveWidget(ctx context.Context, widgetID string) error
	ReorderWidgets(ctx context.Context, areaCode string, widgetIDs []string) error
}

// withActor attributes activity emitted while serving the command to the
// signed-in studio user.
func withActor(ctx context.Context, actorID string) context.Context {
	if actorID == "" {
		return ctx
	}
	return dashboard.ContextWithActivity(ctx, dashboard.ActivityContext{ActorID: actorID, UserID: actorID})
}

// AssignWidgetCommand places a widget in an area.
type AssignWidgetCommand struct {
	service   widgetService
	telemetry Telemetry
}

func NewAssignWidgetCommand(service widgetService, telemetry Telemetry) *AssignWidgetCommand {
	return &AssignWidgetCommand{service: service, telemetry: recorderOr(telemetry)}
}

var _ gocommand.Commander[dashboard.AddWidgetRequest] = (*AssignWidgetCommand)(nil)

func (c *AssignWidgetCommand) Execute(ctx context.Context, msg dashboard.AddWidgetRequest) error {
	if c.service == nil {
		return errors.New("assign command requires service")
	}
	if msg.DefinitionID == "" || msg.AreaCode == "" {
		return errors.New("assign command requires definition and area")
	}
	if err := c.service.AddWidget(withActor(ctx, msg.ActorID), msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.assign", map[string]any{
		"definition_id": msg.DefinitionID,
		"area_code":     msg.AreaCode,
		"actor_id":      msg.ActorID,
	})
	return nil
}

// UpdateWidgetInput replaces the configuration of a placed widget, for
// example the kind or title of a studio chart.
type UpdateWidgetInput struct {
	WidgetID      string         `json:"widget_id"`
	Configuration map[string]any `json:"configuration"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	ActorID       string         `json:"actor_id,omitempty"`
}

type UpdateWidgetCommand struct {
	service   widgetService
	telemetry Telemetry
}

func NewUpdateWidgetCommand(service widgetService, telemetry Telemetry) *UpdateWidgetCommand {
	return &UpdateWidgetCommand{service: service, telemetry: recorderOr(telemetry)}
}

var _ gocommand.Commander[UpdateWidgetInput] = (*UpdateWidgetCommand)(nil)

// Execute validates the new configuration against the widget's schema
// before storing it.
func (c *UpdateWidgetCommand) Execute(ctx context.Context, msg UpdateWidgetInput) error {
	if c.service == nil {
		return errors.New("update command requires service")
	}
	if msg.WidgetID == "" {
		return errors.New("update command requires widget id")
	}
	err := c.service.UpdateWidget(withActor(ctx, msg.ActorID), msg.WidgetID, dashboard.UpdateWidgetRequest{
		Configuration: msg.Configuration,
		Metadata:      msg.Metadata,
		ActorID:       msg.ActorID,
		UserID:        msg.ActorID,
	})
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.update", map[string]any{
		"widget_id": msg.WidgetID,
		"keys":      len(msg.Configuration),
	})
	return nil
}

type RemoveWidgetInput struct {
	WidgetID string `json:"widget_id"`
	ActorID  string `json:"actor_id,omitempty"`
}

type RemoveWidgetCommand struct {
	service   widgetService
	telemetry Telemetry
}

func NewRemoveWidgetCommand(service widgetService, telemetry Telemetry) *RemoveWidgetCommand {
	return &RemoveWidgetCommand{service: service, telemetry: recorderOr(telemetry)}
}

var _ gocommand.Commander[RemoveWidgetInput] = (*RemoveWidgetCommand)(nil)

func (c *RemoveWidgetCommand) Execute(ctx context.Context, msg RemoveWidgetInput) error {
	if c.service == nil {
		return errors.New("remove command requires service")
	}
	if msg.WidgetID == "" {
		return errors.New("remove command requires widget id")
	}
	if err := c.service.RemoveWidget(withActor(ctx, msg.ActorID), msg.WidgetID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.remove", map[string]any{"widget_id": msg.WidgetID})
	return nil
}

// ReorderWidgetsInput lists every widget of an area in its new order.
type ReorderWidgetsInput struct {
	AreaCode  string   `json:"area_code"`
	WidgetIDs []string `json:"widget_ids"`
	ActorID   string   `json:"actor_id,omitempty"`
}

type ReorderWidgetsCommand struct {
	service   widgetService
	telemetry Telemetry
}

func NewReorderWidgetsCommand(service widgetService, telemetry Telemetry) *ReorderWidgetsCommand {
	return &ReorderWidgetsCommand{service: service, telemetry: recorderOr(telemetry)}
}

var _ gocommand.Commander[ReorderWidgetsInput] = (*ReorderWidgetsCommand)(nil)

func (c *ReorderWidgetsCommand) Execute(ctx context.Context, msg ReorderWidgetsInput) error {
	if c.service == nil {
		return errors.New("reorder command requires service")
	}
	if err := c.service.ReorderWidgets(withActor(ctx, msg.ActorID), msg.AreaCode, msg.WidgetIDs); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.reorder", map[string]any{
		"area_code": msg.AreaCode,
		"count":     len(msg.WidgetIDs),
	})
	return nil
}
