package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	studiocharts "github.com/goliatone/go-studio/components/charts"
)

const defaultChartHeight = "360px"

// ThemeResolver selects a chart theme per viewer.
type ThemeResolver func(ViewerContext) string

// EChartsProvider renders chart widgets as go-echarts HTML snippets. It is the
// alternate backend to SVGChartProvider for browsers that run JavaScript.
type EChartsProvider struct {
	kind          studiocharts.Kind
	cache         RenderCache
	theme         string
	themeResolver ThemeResolver
	assetsHost    string
}

// EChartsProviderOption customizes provider behavior.
type EChartsProviderOption func(*EChartsProvider)

func WithChartCache(cache RenderCache) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.cache = cache
	}
}

// WithChartTheme sets a static theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.theme = theme
	}
}

// WithChartThemeResolver resolves themes per viewer.
func WithChartThemeResolver(resolver ThemeResolver) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.themeResolver = resolver
	}
}

// WithChartAssetsHost points the ECharts script tags at a CDN.
func WithChartAssetsHost(host string) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.assetsHost = host
	}
}

func NewEChartsProvider(kind studiocharts.Kind, options ...EChartsProviderOption) *EChartsProvider {
	p := &EChartsProvider{
		kind:  kind,
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *EChartsProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	cfg, err := ParseChartConfig(meta.Instance.Configuration, p.kind)
	if err != nil {
		return nil, err
	}
	return p.Render(ctx, meta, cfg)
}

// Render draws cfg. Empty data keeps the neutral SVG empty state so both
// backends look the same without data.
func (p *EChartsProvider) Render(ctx context.Context, meta WidgetContext, cfg ChartConfig) (WidgetData, error) {
	theme := p.resolveTheme(meta.Viewer)
	if cfg.Theme != "" {
		theme = cfg.Theme
	}
	chart := studiocharts.Build(cfg.Kind, cfg.Data, studiocharts.DefaultSurface)
	if chart.Empty {
		html, err := studiocharts.RenderSVG(chart, studiocharts.SVGOptions{Title: cfg.Title, EmptyText: cfg.EmptyText})
		if err != nil {
			return nil, err
		}
		return chartWidgetData(cfg, chart, html, RendererECharts), nil
	}

	render := func() (string, error) {
		return p.render(cfg, theme)
	}
	var (
		html string
		err  error
	)
	if p.cache != nil && meta.Instance.ID != "" {
		key := ChartCacheKey(RendererECharts, meta, string(cfg.Kind)) + ":" + theme + ":" + dataHash(cfg.Data)
		html, err = p.cache.GetOrRender(ctx, key, render)
	} else {
		html, err = render()
	}
	if err != nil {
		return nil, err
	}
	data := chartWidgetData(cfg, chart, html, RendererECharts)
	data["theme"] = theme
	return data, nil
}

func (p *EChartsProvider) render(cfg ChartConfig, theme string) (string, error) {
	switch cfg.Kind {
	case studiocharts.KindBar:
		bar := charts.NewBar()
		bar.SetGlobalOptions(p.globalChartOptions(cfg, theme)...)
		bar.SetXAxis(axisLabels(cfg.Data))
		bar.AddSeries(cfg.Title, toBarData(cfg.Data))
		return renderChart(bar)
	case studiocharts.KindLine, studiocharts.KindArea:
		line := charts.NewLine()
		line.SetGlobalOptions(p.globalChartOptions(cfg, theme)...)
		line.SetXAxis(axisLabels(cfg.Data))
		line.AddSeries(cfg.Title, toLineData(cfg.Data))
		seriesOpts := []charts.SeriesOpts{charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)})}
		if cfg.Kind == studiocharts.KindArea {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.3}))
		}
		line.SetSeriesOptions(seriesOpts...)
		return renderChart(line)
	case studiocharts.KindPie, studiocharts.KindDonut:
		pie := charts.NewPie()
		pie.SetGlobalOptions(p.globalChartOptions(cfg, theme)...)
		pie.AddSeries(cfg.Title, toPieData(cfg.Data))
		if cfg.Kind == studiocharts.KindDonut {
			pie.SetSeriesOptions(charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}))
		}
		return renderChart(pie)
	default:
		return "", fmt.Errorf("dashboard: unsupported chart kind %q", cfg.Kind)
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", fmt.Errorf("dashboard: render echarts: %w", err)
	}
	return buf.String(), nil
}

func (p *EChartsProvider) globalChartOptions(cfg ChartConfig, theme string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if p.assetsHost != "" {
		initOpts.AssetsHost = p.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: cfg.Title, Subtitle: cfg.Subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(cfg.Kind == studiocharts.KindPie || cfg.Kind == studiocharts.KindDonut)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func (p *EChartsProvider) resolveTheme(viewer ViewerContext) string {
	if p.themeResolver != nil {
		if theme := p.themeResolver(viewer); theme != "" {
			return theme
		}
	}
	if p.theme != "" {
		return p.theme
	}
	return types.ThemeWesteros
}

func axisLabels(data []studiocharts.Datum) []string {
	labels := make([]string, len(data))
	for i, d := range data {
		labels[i] = d.Label
	}
	return labels
}

func toBarData(data []studiocharts.Datum) []opts.BarData {
	out := make([]opts.BarData, len(data))
	for i, d := range data {
		out[i] = opts.BarData{Name: d.Label, Value: d.Value}
		if d.Color != "" {
			out[i].ItemStyle = &opts.ItemStyle{Color: d.Color}
		}
	}
	return out
}

func toLineData(data []studiocharts.Datum) []opts.LineData {
	out := make([]opts.LineData, len(data))
	for i, d := range data {
		out[i] = opts.LineData{Name: d.Label, Value: d.Value}
	}
	return out
}

func toPieData(data []studiocharts.Datum) []opts.PieData {
	out := make([]opts.PieData, len(data))
	for i, d := range data {
		name := d.Label
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		value := d.Value
		if value < 0 {
			value = 0
		}
		out[i] = opts.PieData{Name: name, Value: value}
		if d.Color != "" {
			out[i].ItemStyle = &opts.ItemStyle{Color: d.Color}
		}
	}
	return out
}
