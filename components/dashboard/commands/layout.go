package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-studio/components/dashboard"
)

// SaveLayoutPreferencesInput carries one viewer's ordering and hidden
// widgets. The transports fill Viewer from the signed-in user.
type SaveLayoutPreferencesInput struct {
	Viewer        dashboard.ViewerContext `json:"viewer"`
	AreaOrder     map[string][]string     `json:"area_order"`
	HiddenWidgets []string                `json:"hidden_widget_ids"`
}

type preferenceService interface {
	SavePreferences(ctx context.Context, viewer dashboard.ViewerContext, overrides dashboard.LayoutOverrides) error
}

type SaveLayoutPreferencesCommand struct {
	service   preferenceService
	telemetry Telemetry
}

func NewSaveLayoutPreferencesCommand(service preferenceService, telemetry Telemetry) *SaveLayoutPreferencesCommand {
	return &SaveLayoutPreferencesCommand{service: service, telemetry: recorderOr(telemetry)}
}

var _ gocommand.Commander[SaveLayoutPreferencesInput] = (*SaveLayoutPreferencesCommand)(nil)

// Execute replaces the viewer's stored overrides. Anonymous viewers have
// nowhere to keep them and are rejected.
func (c *SaveLayoutPreferencesCommand) Execute(ctx context.Context, msg SaveLayoutPreferencesInput) error {
	if c.service == nil {
		return errors.New("preferences command requires service")
	}
	if msg.Viewer.UserID == "" {
		return errors.New("preferences command requires viewer user id")
	}
	hidden := make(map[string]bool, len(msg.HiddenWidgets))
	for _, id := range msg.HiddenWidgets {
		hidden[id] = true
	}
	overrides := dashboard.LayoutOverrides{AreaOrder: msg.AreaOrder, HiddenWidgets: hidden}
	if err := c.service.SavePreferences(ctx, msg.Viewer, overrides); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.preferences", map[string]any{
		"user_id": msg.Viewer.UserID,
		"areas":   len(msg.AreaOrder),
		"hidden":  len(hidden),
	})
	return nil
}

// RefreshWidgetInput asks open dashboards to re-fetch a widget, e.g. after a
// comment was approved outside the dashboard.
type RefreshWidgetInput struct {
	Event dashboard.WidgetEvent `json:"event"`
}

type refreshNotifier interface {
	NotifyWidgetUpdated(ctx context.Context, event dashboard.WidgetEvent) error
}

type RefreshWidgetCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

func NewRefreshWidgetCommand(service refreshNotifier, telemetry Telemetry) *RefreshWidgetCommand {
	return &RefreshWidgetCommand{service: service, telemetry: recorderOr(telemetry)}
}

var _ gocommand.Commander[RefreshWidgetInput] = (*RefreshWidgetCommand)(nil)

func (c *RefreshWidgetCommand) Execute(ctx context.Context, msg RefreshWidgetInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if msg.Event.Reason == "" {
		msg.Event.Reason = "refresh"
	}
	if err := c.service.NotifyWidgetUpdated(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.refresh", map[string]any{
		"area_code": msg.Event.AreaCode,
		"widget_id": msg.Event.Instance.ID,
	})
	return nil
}

// SeedDashboardInput controls startup seeding. Extra holds manifest layout
// entries placed after the starter widgets.
type SeedDashboardInput struct {
	SeedLayout bool
	Extra      []dashboard.AddWidgetRequest
}

// SeedDashboardCommand registers the studio areas and widget definitions in
// the service's store and, on an empty layout, places the starter widgets.
type SeedDashboardCommand struct {
	service   *dashboard.Service
	telemetry Telemetry
}

func NewSeedDashboardCommand(service *dashboard.Service, telemetry Telemetry) *SeedDashboardCommand {
	return &SeedDashboardCommand{service: service, telemetry: recorderOr(telemetry)}
}

var _ gocommand.Commander[SeedDashboardInput] = (*SeedDashboardCommand)(nil)

func (c *SeedDashboardCommand) Execute(ctx context.Context, msg SeedDashboardInput) error {
	if c.service == nil {
		return errors.New("seed command requires service")
	}
	if err := dashboard.RegisterCatalog(ctx, c.service); err != nil {
		return err
	}
	placed := 0
	if msg.SeedLayout {
		n, err := dashboard.SeedLayout(ctx, c.service, msg.Extra...)
		if err != nil {
			return err
		}
		placed = n
	}
	c.telemetry.Record(ctx, "dashboard.command.seed", map[string]any{
		"seed_layout": msg.SeedLayout,
		"placed":      placed,
	})
	return nil
}
