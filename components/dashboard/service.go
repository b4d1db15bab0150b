package dashboard

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-studio/pkg/activity"
)

var (
	// ErrWidgetNotFound is returned by stores for unknown instance ids.
	ErrWidgetNotFound = errors.New("dashboard: widget instance not found")
	ErrAreaNotFound   = errors.New("dashboard: widget area not found")
	// ErrLayoutForbidden rejects layout edits from viewers outside the
	// editor roles.
	ErrLayoutForbidden = errors.New("dashboard: layout changes require an editor role")

	errMissingWidgetStore = errors.New("dashboard: widget store not configured")
	errInvalidArea        = errors.New("dashboard: area code is required")
	errInvalidDefinition  = errors.New("dashboard: definition id is required")
	errInvalidWidget      = errors.New("dashboard: widget id is required")
	errMissingViewer      = errors.New("dashboard: viewer context missing user id")
)

const (
	defaultProviderConcurrency = 4
	activityObjectWidget       = "widget_instance"
	activityObjectArea         = "widget_area"
)

// Options configures the dashboard Service. Every collaborator is an
// interface so the server can swap the in-memory defaults for sqlstore,
// Redis or Prometheus backed ones.
type Options struct {
	WidgetStore     WidgetStore
	Authorizer      Authorizer
	PreferenceStore PreferenceStore
	Providers       ProviderRegistry
	ConfigValidator ConfigValidator
	RefreshHook     RefreshHook
	Telemetry       Telemetry
	Areas           []string
	ActivityHooks   activity.Hooks
	ActivityConfig  activity.Config
	Logger          *zap.Logger
	// ProviderConcurrency bounds parallel provider fetches per area.
	ProviderConcurrency int
}

// Service places, orders and resolves studio dashboard widgets.
type Service struct {
	opts     Options
	activity *activity.Emitter
	log      *zap.Logger
	now      func() time.Time
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Authorizer == nil {
		opts.Authorizer = allowAllAuthorizer{}
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Providers == nil {
		opts.Providers = NewRegistry()
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	if opts.Telemetry == nil {
		opts.Telemetry = discardTelemetry
	}
	if opts.PreferenceStore == nil {
		opts.PreferenceStore = NewInMemoryPreferenceStore()
	}
	if opts.ProviderConcurrency <= 0 {
		opts.ProviderConcurrency = defaultProviderConcurrency
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
		log:      log.Named("dashboard"),
		now:      time.Now,
	}
}

// Registry exposes the provider registry the service resolves against.
func (s *Service) Registry() ProviderRegistry {
	return s.opts.Providers
}

// AddWidgetRequest captures the data required to create widget assignments.
type AddWidgetRequest struct {
	DefinitionID  string         `json:"definition_id"`
	AreaCode      string         `json:"area_code"`
	Configuration map[string]any `json:"configuration,omitempty"`
	Position      *int           `json:"position,omitempty"`
	Roles         []string       `json:"roles,omitempty"`
	StartAt       *time.Time     `json:"start_at,omitempty"`
	EndAt         *time.Time     `json:"end_at,omitempty"`
	ActorID       string         `json:"actor_id,omitempty"`
	UserID        string         `json:"user_id,omitempty"`
	TenantID      string         `json:"tenant_id,omitempty"`
}

// AddWidget creates a widget instance and assigns it to an area.
func (s *Service) AddWidget(ctx context.Context, req AddWidgetRequest) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if req.AreaCode == "" {
		return errInvalidArea
	}
	if req.DefinitionID == "" {
		return errInvalidDefinition
	}
	if err := s.validateConfiguration(req.DefinitionID, req.Configuration); err != nil {
		return err
	}
	instance, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{
		DefinitionID:  req.DefinitionID,
		Configuration: req.Configuration,
		Visibility: WidgetVisibility{
			Roles:   req.Roles,
			StartAt: req.StartAt,
			EndAt:   req.EndAt,
		},
		Metadata: map[string]any{
			"user_id": req.UserID,
		},
	})
	if err != nil {
		return fmt.Errorf("dashboard: create %s instance: %w", req.DefinitionID, err)
	}
	if err := store.AssignInstance(ctx, AssignWidgetInput{
		AreaCode:   req.AreaCode,
		InstanceID: instance.ID,
		Position:   req.Position,
	}); err != nil {
		return fmt.Errorf("dashboard: assign %s to %s: %w", instance.ID, req.AreaCode, err)
	}
	instance.AreaCode = req.AreaCode
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		AreaCode: req.AreaCode,
		Instance: instance,
		Reason:   "add",
	}); err != nil {
		return err
	}
	meta := map[string]any{
		"area_code":     req.AreaCode,
		"definition_id": req.DefinitionID,
	}
	s.recordTelemetry(ctx, "dashboard.widget.add", meta)
	s.emitActivity(ctx, activityIDs(req.ActorID, req.UserID, req.TenantID), "dashboard.widget.add", activityObjectWidget, instance.ID, req.DefinitionID, meta)
	return nil
}

// UpdateWidgetRequest replaces a widget's configuration.
type UpdateWidgetRequest struct {
	Configuration map[string]any `json:"configuration"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	ActorID       string         `json:"actor_id,omitempty"`
	UserID        string         `json:"user_id,omitempty"`
	TenantID      string         `json:"tenant_id,omitempty"`
}

// UpdateWidget validates and stores a new configuration for widgetID.
func (s *Service) UpdateWidget(ctx context.Context, widgetID string, req UpdateWidgetRequest) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if widgetID == "" {
		return errInvalidWidget
	}
	current, err := store.GetInstance(ctx, widgetID)
	if err != nil {
		return err
	}
	if err := s.validateConfiguration(current.DefinitionID, req.Configuration); err != nil {
		return err
	}
	updated, err := store.UpdateInstance(ctx, UpdateWidgetInstanceInput{
		InstanceID:    widgetID,
		Configuration: req.Configuration,
		Metadata:      req.Metadata,
	})
	if err != nil {
		return fmt.Errorf("dashboard: update %s: %w", widgetID, err)
	}
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		AreaCode: updated.AreaCode,
		Instance: updated,
		Reason:   "update",
	}); err != nil {
		return err
	}
	meta := map[string]any{
		"definition_id": current.DefinitionID,
		"area_code":     current.AreaCode,
	}
	s.recordTelemetry(ctx, "dashboard.widget.update", map[string]any{"widget_id": widgetID})
	s.emitActivity(ctx, activityIDs(req.ActorID, req.UserID, req.TenantID), "dashboard.widget.update", activityObjectWidget, widgetID, current.DefinitionID, meta)
	return nil
}

// RemoveWidget deletes the widget instance.
func (s *Service) RemoveWidget(ctx context.Context, widgetID string) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if widgetID == "" {
		return errInvalidWidget
	}
	instance, err := store.GetInstance(ctx, widgetID)
	if err != nil {
		return err
	}
	if err := store.DeleteInstance(ctx, widgetID); err != nil {
		return fmt.Errorf("dashboard: delete %s: %w", widgetID, err)
	}
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		AreaCode: instance.AreaCode,
		Instance: WidgetInstance{ID: widgetID, DefinitionID: instance.DefinitionID},
		Reason:   "delete",
	}); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.widget.remove", map[string]any{"widget_id": widgetID})
	s.emitActivity(ctx, ActivityContext{}, "dashboard.widget.remove", activityObjectWidget, widgetID, instance.DefinitionID, map[string]any{
		"definition_id": instance.DefinitionID,
		"area_code":     instance.AreaCode,
	})
	return nil
}

// ReorderWidgets changes widget ordering within an area.
func (s *Service) ReorderWidgets(ctx context.Context, areaCode string, widgetIDs []string) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if areaCode == "" {
		return errInvalidArea
	}
	if err := store.ReorderArea(ctx, ReorderAreaInput{
		AreaCode:  areaCode,
		WidgetIDs: widgetIDs,
	}); err != nil {
		return fmt.Errorf("dashboard: reorder %s: %w", areaCode, err)
	}
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		AreaCode: areaCode,
		Reason:   "reorder",
	}); err != nil {
		return err
	}
	meta := map[string]any{
		"area_code": areaCode,
		"count":     len(widgetIDs),
	}
	s.recordTelemetry(ctx, "dashboard.widget.reorder", meta)
	s.emitActivity(ctx, ActivityContext{}, "dashboard.widget.reorder", activityObjectArea, areaCode, "", meta)
	return nil
}

// ConfigureLayout resolves every area for the viewer, honoring visibility,
// authorization and the viewer's saved order and hidden widgets.
func (s *Service) ConfigureLayout(ctx context.Context, viewer ViewerContext) (Layout, error) {
	store, err := s.widgetStore()
	if err != nil {
		return Layout{}, err
	}
	overrides, err := s.opts.PreferenceStore.LayoutOverrides(ctx, viewer)
	if err != nil {
		return Layout{}, fmt.Errorf("dashboard: load preferences: %w", err)
	}
	layout := Layout{Areas: make(map[string][]WidgetInstance)}
	total := 0
	for _, area := range s.areaList() {
		resolved, err := store.ResolveArea(ctx, ResolveAreaInput{
			AreaCode: area,
			Audience: viewer.Roles,
			Locale:   viewer.Locale,
		})
		if err != nil {
			return Layout{}, fmt.Errorf("dashboard: resolve %s: %w", area, err)
		}
		widgets := make([]WidgetInstance, len(resolved.Widgets))
		copy(widgets, resolved.Widgets)
		for i := range widgets {
			widgets[i].AreaCode = area
		}
		ordered := applyOrderOverride(widgets, overrides.AreaOrder[area])
		visible := applyHiddenFilter(ordered, overrides.HiddenWidgets)
		layout.Areas[area] = s.filterAuthorized(ctx, viewer, visible)
		total += len(layout.Areas[area])
		s.log.Debug("area resolved",
			zap.String("area_code", area),
			zap.String("viewer", viewer.UserID),
			zap.Strings("widgets", widgetIDs(layout.Areas[area])),
		)
	}
	s.recordTelemetry(ctx, "dashboard.layout.resolve", map[string]any{
		"viewer":  viewer.UserID,
		"widgets": total,
	})
	return layout, nil
}

// ResolveArea retrieves a single area layout for the viewer.
func (s *Service) ResolveArea(ctx context.Context, viewer ViewerContext, areaCode string) (ResolvedArea, error) {
	store, err := s.widgetStore()
	if err != nil {
		return ResolvedArea{}, err
	}
	if areaCode == "" {
		return ResolvedArea{}, errInvalidArea
	}
	resolved, err := store.ResolveArea(ctx, ResolveAreaInput{
		AreaCode: areaCode,
		Audience: viewer.Roles,
		Locale:   viewer.Locale,
	})
	if err != nil {
		return ResolvedArea{}, fmt.Errorf("dashboard: resolve %s: %w", areaCode, err)
	}
	resolved.Widgets = s.filterAuthorized(ctx, viewer, resolved.Widgets)
	s.recordTelemetry(ctx, "dashboard.area.resolve", map[string]any{
		"viewer":    viewer.UserID,
		"area_code": areaCode,
	})
	return resolved, nil
}

// NotifyWidgetUpdated exposes refresh hook invocation for commands/transports.
func (s *Service) NotifyWidgetUpdated(ctx context.Context, event WidgetEvent) error {
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.widget.event", map[string]any{
		"area_code": event.AreaCode,
		"widget_id": event.Instance.ID,
		"reason":    event.Reason,
	})
	return nil
}

// Preferences returns the viewer's stored overrides.
func (s *Service) Preferences(ctx context.Context, viewer ViewerContext) (LayoutOverrides, error) {
	return s.opts.PreferenceStore.LayoutOverrides(ctx, viewer)
}

// SavePreferences persists per-viewer layout overrides.
func (s *Service) SavePreferences(ctx context.Context, viewer ViewerContext, overrides LayoutOverrides) error {
	if viewer.UserID == "" {
		return errMissingViewer
	}
	normalizeOverrides(&overrides)
	if err := s.opts.PreferenceStore.SaveLayoutOverrides(ctx, viewer, overrides); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.preferences.save", map[string]any{
		"viewer": viewer.UserID,
		"areas":  len(overrides.AreaOrder),
		"hidden": len(overrides.HiddenWidgets),
	})
	return nil
}

func (s *Service) widgetStore() (WidgetStore, error) {
	if s.opts.WidgetStore == nil {
		return nil, errMissingWidgetStore
	}
	return s.opts.WidgetStore, nil
}

func (s *Service) validateConfiguration(definitionID string, config map[string]any) error {
	if s.opts.ConfigValidator == nil || s.opts.Providers == nil {
		return nil
	}
	def, ok := s.opts.Providers.Definition(definitionID)
	if !ok {
		return nil
	}
	return s.opts.ConfigValidator.Validate(def, config)
}

func (s *Service) areaList() []string {
	if len(s.opts.Areas) > 0 {
		return s.opts.Areas
	}
	return defaultAreas
}

func (s *Service) filterAuthorized(ctx context.Context, viewer ViewerContext, widgets []WidgetInstance) []WidgetInstance {
	if len(widgets) == 0 {
		return widgets
	}
	now := s.now()
	filtered := make([]WidgetInstance, 0, len(widgets))
	for _, w := range widgets {
		if !w.Visibility.VisibleTo(viewer.Roles, now) {
			continue
		}
		if s.opts.Authorizer.CanViewWidget(ctx, viewer, w) {
			filtered = append(filtered, w)
		}
	}
	return s.attachProviderData(ctx, viewer, filtered)
}

// attachProviderData fetches provider payloads concurrently. A failing
// provider leaves its widget in place with metadata["error"] set.
func (s *Service) attachProviderData(ctx context.Context, viewer ViewerContext, widgets []WidgetInstance) []WidgetInstance {
	if len(widgets) == 0 || s.opts.Providers == nil {
		return widgets
	}
	enriched := make([]WidgetInstance, len(widgets))
	copy(enriched, widgets)

	var g errgroup.Group
	g.SetLimit(s.opts.ProviderConcurrency)
	for i, inst := range enriched {
		provider, ok := s.opts.Providers.Provider(inst.DefinitionID)
		if !ok || provider == nil {
			continue
		}
		g.Go(func() error {
			meta := maps.Clone(inst.Metadata)
			if meta == nil {
				meta = map[string]any{}
			}
			data, err := provider.Fetch(ctx, WidgetContext{Instance: inst, Viewer: viewer})
			if err != nil {
				s.log.Warn("widget provider failed",
					zap.String("definition_id", inst.DefinitionID),
					zap.String("widget_id", inst.ID),
					zap.Error(err),
				)
				s.recordTelemetry(ctx, "dashboard.widget.provider_error", map[string]any{
					"definition_id": inst.DefinitionID,
					"error":         err.Error(),
				})
				meta["error"] = err.Error()
			} else {
				meta["data"] = data
			}
			enriched[i].Metadata = meta
			return nil
		})
	}
	_ = g.Wait()
	return enriched
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

// emitActivity merges explicit ids with the ActivityContext on ctx. Emission
// failures are logged; they never fail the mutation.
func (s *Service) emitActivity(ctx context.Context, ids ActivityContext, verb, objectType, objectID, definitionCode string, meta map[string]any) {
	if !s.activity.Enabled() {
		return
	}
	ids = ids.merge(activityContextFrom(ctx))
	err := s.activity.Emit(ctx, activity.Event{
		Verb:           verb,
		ActorID:        ids.ActorID,
		UserID:         ids.UserID,
		TenantID:       ids.TenantID,
		ObjectType:     objectType,
		ObjectID:       objectID,
		DefinitionCode: definitionCode,
		Metadata:       meta,
	})
	if err != nil {
		s.log.Warn("activity emit failed", zap.String("verb", verb), zap.Error(err))
	}
}

func normalizeOverrides(overrides *LayoutOverrides) {
	if overrides.AreaOrder == nil {
		overrides.AreaOrder = map[string][]string{}
	}
	if overrides.HiddenWidgets == nil {
		overrides.HiddenWidgets = map[string]bool{}
	}
	for area, ids := range overrides.AreaOrder {
		if len(ids) == 0 {
			delete(overrides.AreaOrder, area)
		}
	}
	for id, hidden := range overrides.HiddenWidgets {
		if !hidden {
			delete(overrides.HiddenWidgets, id)
		}
	}
}

type allowAllAuthorizer struct{}

func (allowAllAuthorizer) CanViewWidget(context.Context, ViewerContext, WidgetInstance) bool {
	return true
}

// RoleAuthorizer only shows widgets whose definition allows one of the
// viewer's roles.
type RoleAuthorizer struct {
	Registry ProviderRegistry
}

func (a RoleAuthorizer) CanViewWidget(_ context.Context, viewer ViewerContext, instance WidgetInstance) bool {
	if a.Registry == nil {
		return true
	}
	def, ok := a.Registry.Definition(instance.DefinitionID)
	if !ok || len(def.Roles) == 0 {
		return true
	}
	for _, role := range def.Roles {
		if viewer.HasRole(role) {
			return true
		}
	}
	return false
}

type noopRefreshHook struct{}

func (noopRefreshHook) WidgetUpdated(context.Context, WidgetEvent) error {
	return nil
}
