package dashboard

import (
	"context"

	"github.com/goliatone/go-studio/components/charts"
)

// RendererSVG and RendererECharts name the chart backends.
const (
	RendererSVG     = "svg"
	RendererECharts = "echarts"
)

// SVGChartProvider draws chart widgets as inline SVG from the geometry in
// components/charts.
type SVGChartProvider struct {
	kind    charts.Kind
	cache   RenderCache
	surface charts.Surface
}

// SVGChartOption customizes an SVGChartProvider.
type SVGChartOption func(*SVGChartProvider)

// WithSVGCache memoizes rendered markup.
func WithSVGCache(cache RenderCache) SVGChartOption {
	return func(p *SVGChartProvider) {
		p.cache = cache
	}
}

// WithSurface overrides the 100x100 default plotting surface.
func WithSurface(surface charts.Surface) SVGChartOption {
	return func(p *SVGChartProvider) {
		p.surface = surface
	}
}

// NewSVGChartProvider builds a provider for kind; a `kind` key in the widget
// configuration wins over it.
func NewSVGChartProvider(kind charts.Kind, opts ...SVGChartOption) *SVGChartProvider {
	p := &SVGChartProvider{kind: kind, surface: charts.DefaultSurface}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *SVGChartProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	cfg, err := ParseChartConfig(meta.Instance.Configuration, p.kind)
	if err != nil {
		return nil, err
	}
	return p.Render(ctx, meta, cfg)
}

// Render draws cfg for the widget described by meta. Data-bound providers
// call it after building cfg.Data themselves.
func (p *SVGChartProvider) Render(ctx context.Context, meta WidgetContext, cfg ChartConfig) (WidgetData, error) {
	chart := charts.Build(cfg.Kind, cfg.Data, p.surface)
	render := func() (string, error) {
		return charts.RenderSVG(chart, charts.SVGOptions{
			Title:     cfg.Title,
			EmptyText: cfg.EmptyText,
		})
	}
	var (
		html string
		err  error
	)
	if p.cache != nil && meta.Instance.ID != "" {
		html, err = p.cache.GetOrRender(ctx, ChartCacheKey(RendererSVG, meta, string(cfg.Kind))+":"+dataHash(cfg.Data), render)
	} else {
		html, err = render()
	}
	if err != nil {
		return nil, err
	}
	return chartWidgetData(cfg, chart, html, RendererSVG), nil
}

func chartWidgetData(cfg ChartConfig, chart charts.Chart, html, renderer string) WidgetData {
	legend := make([]map[string]any, 0, len(chart.Slices))
	for _, slice := range chart.Slices {
		legend = append(legend, map[string]any{
			"label":      slice.Datum.Label,
			"value":      slice.Datum.Value,
			"percentage": slice.Percentage,
			"color":      slice.Color,
		})
	}
	data := WidgetData{
		"chart_html": html,
		"chart_type": string(cfg.Kind),
		"renderer":   renderer,
		"title":      cfg.Title,
		"subtitle":   cfg.Subtitle,
		"empty":      chart.Empty,
		"points":     len(cfg.Data),
		"max":        chart.Max,
		"total":      chart.Total,
		"legend":     legend,
	}
	if cfg.FooterNote != "" {
		data["footer_note"] = cfg.FooterNote
	}
	if cfg.Dynamic {
		data["dynamic"] = true
		if cfg.RefreshEndpoint != "" {
			data["refresh_endpoint"] = cfg.RefreshEndpoint
		}
	}
	return data
}

// dataHash keys the cache on data that did not come from configuration.
func dataHash(data []charts.Datum) string {
	if len(data) == 0 {
		return "empty"
	}
	return configHash(map[string]any{"data": data})
}
