package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-studio/components/charts"
)

// ChartRenderer is a provider that can draw an already decoded chart
// configuration. Both SVGChartProvider and EChartsProvider implement it.
type ChartRenderer interface {
	Provider
	Render(ctx context.Context, meta WidgetContext, cfg ChartConfig) (WidgetData, error)
}

// sharedChartCache backs the built-in chart providers.
var sharedChartCache = NewChartCache(10 * time.Minute)

func defaultProviders() map[string]Provider {
	return map[string]Provider{
		WidgetAnalyticsChart: NewSVGChartProvider(charts.KindLine, WithSVGCache(sharedChartCache)),
		WidgetPieChart:       NewSVGChartProvider(charts.KindPie, WithSVGCache(sharedChartCache)),
		WidgetQuickActions:   ProviderFunc(quickActions),
	}
}

// NewChartRenderer builds the chart provider for a configured backend name.
func NewChartRenderer(renderer string, kind charts.Kind, cache RenderCache) (ChartRenderer, error) {
	switch renderer {
	case "", RendererSVG:
		return NewSVGChartProvider(kind, WithSVGCache(cache)), nil
	case RendererECharts:
		return NewEChartsProvider(kind, WithChartCache(cache)), nil
	default:
		return nil, fmt.Errorf("dashboard: unknown chart renderer %q", renderer)
	}
}

// UseChartRenderer swaps the configuration-driven chart widgets over to the
// named backend.
func UseChartRenderer(reg *Registry, renderer string, cache RenderCache) error {
	if reg == nil {
		return fmt.Errorf("dashboard: registry required")
	}
	for code, kind := range map[string]charts.Kind{
		WidgetAnalyticsChart: charts.KindLine,
		WidgetPieChart:       charts.KindPie,
	} {
		provider, err := NewChartRenderer(renderer, kind, cache)
		if err != nil {
			return err
		}
		if err := reg.RegisterProvider(code, provider); err != nil {
			return err
		}
	}
	return nil
}

type quickAction struct {
	Label string
	Route string
	Icon  string
	Roles []string
}

var quickActionCatalog = []quickAction{
	{Label: "Review blogs", Route: "/studio/blogs?status=pending", Icon: "file-check", Roles: []string{"admin"}},
	{Label: "Moderate comments", Route: "/studio/comments", Icon: "message-square", Roles: []string{"admin"}},
	{Label: "Recording queue", Route: "/studio/recordings?status=pending", Icon: "mic", Roles: []string{"admin"}},
	{Label: "New blog", Route: "/studio/my/content/new", Icon: "pen", Roles: []string{"blogger"}},
	{Label: "New post", Route: "/studio/my/content/new", Icon: "pen", Roles: []string{"writer"}},
	{Label: "Request a session", Route: "/studio/my/recordings/new", Icon: "calendar", Roles: []string{"vocalist"}},
	{Label: "Upload demo", Route: "/studio/my/demos", Icon: "upload", Roles: []string{"vocalist"}},
	{Label: "Edit profile", Route: "/studio/profile", Icon: "user", Roles: []string{"blogger", "writer", "vocalist"}},
}

func quickActions(_ context.Context, meta WidgetContext) (WidgetData, error) {
	limit := IntValue(meta.Instance.Configuration["limit"], len(quickActionCatalog))
	actions := make([]map[string]any, 0, limit)
	for _, action := range quickActionCatalog {
		if len(actions) >= limit {
			break
		}
		if !viewerHasAny(meta.Viewer, action.Roles) {
			continue
		}
		actions = append(actions, map[string]any{
			"label": action.Label,
			"route": action.Route,
			"icon":  action.Icon,
		})
	}
	return WidgetData{"actions": actions}, nil
}

func viewerHasAny(viewer ViewerContext, roles []string) bool {
	for _, role := range roles {
		if viewer.HasRole(role) {
			return true
		}
	}
	return false
}
