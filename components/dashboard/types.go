package dashboard

import (
	"context"
	"slices"
	"time"
)

// WidgetStore persists areas, definitions and widget placements. The in-memory
// store and sqlstore both implement it; implementations must be safe for
// concurrent use and idempotent on Ensure*.
type WidgetStore interface {
	EnsureArea(ctx context.Context, def WidgetAreaDefinition) (bool, error)
	EnsureDefinition(ctx context.Context, def WidgetDefinition) (bool, error)
	CreateInstance(ctx context.Context, input CreateWidgetInstanceInput) (WidgetInstance, error)
	GetInstance(ctx context.Context, instanceID string) (WidgetInstance, error)
	UpdateInstance(ctx context.Context, input UpdateWidgetInstanceInput) (WidgetInstance, error)
	DeleteInstance(ctx context.Context, instanceID string) error
	AssignInstance(ctx context.Context, input AssignWidgetInput) error
	ReorderArea(ctx context.Context, input ReorderAreaInput) error
	ResolveArea(ctx context.Context, input ResolveAreaInput) (ResolvedArea, error)
}

// Authorizer determines if a viewer can see a widget instance.
type Authorizer interface {
	CanViewWidget(ctx context.Context, viewer ViewerContext, instance WidgetInstance) bool
}

// PreferenceStore returns layout overrides per viewer.
type PreferenceStore interface {
	LayoutOverrides(ctx context.Context, viewer ViewerContext) (LayoutOverrides, error)
	SaveLayoutOverrides(ctx context.Context, viewer ViewerContext, overrides LayoutOverrides) error
}

// ProviderRegistry stores widget definitions and the providers feeding them.
type ProviderRegistry interface {
	RegisterDefinition(def WidgetDefinition) error
	RegisterProvider(code string, provider Provider) error
	Definition(code string) (WidgetDefinition, bool)
	Provider(code string) (Provider, bool)
	Definitions() []WidgetDefinition
}

// RefreshHook notifies transports (SSE/WebSocket) about widget changes.
type RefreshHook interface {
	WidgetUpdated(ctx context.Context, event WidgetEvent) error
}

// WidgetAreaDefinition names a region of the studio dashboard.
type WidgetAreaDefinition struct {
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// WidgetDefinition describes a widget kind and the JSON schema its
// configuration must satisfy.
type WidgetDefinition struct {
	Code        string         `json:"code" yaml:"code"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
	Category    string         `json:"category,omitempty" yaml:"category,omitempty"`
	// Roles limits which studio roles may place the widget. Empty means all.
	Roles []string `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// WidgetInstance is a configured widget placed in an area.
type WidgetInstance struct {
	ID            string           `json:"id"`
	DefinitionID  string           `json:"definition_id"`
	AreaCode      string           `json:"area_code,omitempty"`
	Configuration map[string]any   `json:"configuration,omitempty"`
	Visibility    WidgetVisibility `json:"visibility"`
	Metadata      map[string]any   `json:"metadata,omitempty"`
}

// CreateWidgetInstanceInput configures new instances.
type CreateWidgetInstanceInput struct {
	DefinitionID  string
	Configuration map[string]any
	Visibility    WidgetVisibility
	Metadata      map[string]any
}

// UpdateWidgetInstanceInput replaces configuration and merges metadata.
type UpdateWidgetInstanceInput struct {
	InstanceID    string
	Configuration map[string]any
	Metadata      map[string]any
}

// WidgetVisibility restricts an instance to roles and a time window.
type WidgetVisibility struct {
	Roles   []string   `json:"roles,omitempty"`
	StartAt *time.Time `json:"start_at,omitempty"`
	EndAt   *time.Time `json:"end_at,omitempty"`
}

// VisibleTo reports whether an audience may see the instance at now. An empty
// role list is visible to everyone.
func (v WidgetVisibility) VisibleTo(audience []string, now time.Time) bool {
	if v.StartAt != nil && now.Before(*v.StartAt) {
		return false
	}
	if v.EndAt != nil && !now.Before(*v.EndAt) {
		return false
	}
	if len(v.Roles) == 0 {
		return true
	}
	for _, role := range audience {
		if slices.Contains(v.Roles, role) {
			return true
		}
	}
	return false
}

// AssignWidgetInput associates a widget instance with an area.
type AssignWidgetInput struct {
	AreaCode   string
	InstanceID string
	Position   *int
}

// ReorderAreaInput represents a new ordering for widgets within an area.
type ReorderAreaInput struct {
	AreaCode  string
	WidgetIDs []string
}

// ResolveAreaInput requests widget instances for an area and audience.
type ResolveAreaInput struct {
	AreaCode string
	Audience []string
	Locale   string
}

// ResolvedArea is a container for widgets returned by the store.
type ResolvedArea struct {
	AreaCode string           `json:"area_code"`
	Widgets  []WidgetInstance `json:"widgets"`
}

// LayoutOverrides captures per-viewer adjustments.
type LayoutOverrides struct {
	AreaOrder     map[string][]string `json:"area_order"`
	HiddenWidgets map[string]bool     `json:"hidden_widgets"`
}

// ViewerContext is the signed-in person a dashboard is rendered for.
type ViewerContext struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	Locale string   `json:"locale,omitempty"`
}

// HasRole reports whether the viewer carries role.
func (v ViewerContext) HasRole(role string) bool {
	return slices.Contains(v.Roles, role)
}

// CanEdit reports whether the viewer holds one of editors. An empty editors
// list leaves the layout open to everyone.
func (v ViewerContext) CanEdit(editors []string) bool {
	if len(editors) == 0 {
		return true
	}
	for _, role := range editors {
		if v.HasRole(role) {
			return true
		}
	}
	return false
}

// Layout describes the resolved widget instances per dashboard area.
type Layout struct {
	Areas map[string][]WidgetInstance `json:"areas"`
}

// WidgetEvent describes changes that transports might care about.
type WidgetEvent struct {
	AreaCode string         `json:"area_code,omitempty"`
	Instance WidgetInstance `json:"instance"`
	Reason   string         `json:"reason"`
}
