package dashboard

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-studio/components/charts"
)

func TestEChartsProviderKinds(t *testing.T) {
	cases := []struct {
		kind charts.Kind
		cfg  map[string]any
	}{
		{charts.KindBar, map[string]any{"title": "Bars", "x_axis": []string{"A", "B", "C"}, "data": []any{10, 20, 30}}},
		{charts.KindLine, map[string]any{"title": "Line", "data": []any{100, 150, 120}}},
		{charts.KindArea, map[string]any{"title": "Area", "data": []any{1, 2}}},
		{charts.KindPie, map[string]any{"title": "Pie", "data": []any{map[string]any{"label": "A", "value": 3}, map[string]any{"label": "B", "value": 1}}}},
		{charts.KindDonut, map[string]any{"title": "Donut", "data": []any{1, 1}}},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			t.Parallel()
			provider := NewEChartsProvider(tc.kind)
			data, err := provider.Fetch(context.Background(), sampleChartContext(WidgetAnalyticsChart, tc.cfg))
			require.NoError(t, err)
			assert.Equal(t, string(tc.kind), data["chart_type"])
			assert.Equal(t, RendererECharts, data["renderer"])
			assert.Equal(t, tc.cfg["title"], data["title"])
			assert.Contains(t, html(data), "echarts")
		})
	}
}

func TestEChartsProviderAreaFill(t *testing.T) {
	provider := NewEChartsProvider(charts.KindLine)
	area, err := provider.Fetch(context.Background(), sampleChartContext(WidgetAnalyticsChart, map[string]any{"kind": "area", "data": []any{1, 2, 3}}))
	require.NoError(t, err)
	assert.Contains(t, html(area), `"areaStyle":{"opacity":0.3}`)

	line, err := provider.Fetch(context.Background(), sampleChartContext(WidgetAnalyticsChart, map[string]any{"kind": "line", "data": []any{1, 2, 3}}))
	require.NoError(t, err)
	assert.NotContains(t, html(line), "areaStyle")
}

func TestEChartsProviderEmptyDataFallsBackToSVG(t *testing.T) {
	provider := NewEChartsProvider(charts.KindLine)
	data, err := provider.Fetch(context.Background(), sampleChartContext(WidgetAnalyticsChart, map[string]any{"title": "Nothing"}))
	require.NoError(t, err)
	assert.Equal(t, true, data["empty"])
	assert.Contains(t, html(data), "<svg")
	assert.NotContains(t, html(data), "echarts.min.js")
}

func TestEChartsProviderInvalidKind(t *testing.T) {
	provider := NewEChartsProvider(charts.KindLine)
	_, err := provider.Fetch(context.Background(), sampleChartContext(WidgetAnalyticsChart, map[string]any{"kind": "scatter", "data": []any{1}}))
	require.Error(t, err)
}

func TestEChartsProviderUsesCache(t *testing.T) {
	cache := &countingCache{}
	provider := NewEChartsProvider(charts.KindBar, WithChartCache(cache))
	meta := sampleChartContext(WidgetAnalyticsChart, map[string]any{"data": []any{1, 2}})

	_, err := provider.Fetch(context.Background(), meta)
	require.NoError(t, err)
	_, err = provider.Fetch(context.Background(), meta)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cache.renders.Load())
	assert.EqualValues(t, 2, cache.lookups.Load())
}

func TestEChartsProviderThemeOverride(t *testing.T) {
	provider := NewEChartsProvider(charts.KindLine, WithChartTheme(types.ThemeChalk))
	data, err := provider.Fetch(context.Background(), sampleChartContext(WidgetAnalyticsChart, map[string]any{
		"theme": types.ThemeWalden,
		"data":  []any{1, 2, 3},
	}))
	require.NoError(t, err)
	assert.Equal(t, types.ThemeWalden, data["theme"])
}

func TestEChartsProviderThemeResolver(t *testing.T) {
	provider := NewEChartsProvider(charts.KindLine, WithChartThemeResolver(func(viewer ViewerContext) string {
		if viewer.HasRole("vocalist") {
			return types.ThemeWonderland
		}
		return ""
	}))
	meta := sampleChartContext(WidgetAnalyticsChart, map[string]any{"data": []any{1, 2}})
	meta.Viewer = ViewerContext{Roles: []string{"vocalist"}}
	data, err := provider.Fetch(context.Background(), meta)
	require.NoError(t, err)
	assert.Equal(t, types.ThemeWonderland, data["theme"])

	meta.Viewer = ViewerContext{Roles: []string{"admin"}}
	data, err = provider.Fetch(context.Background(), meta)
	require.NoError(t, err)
	assert.Equal(t, types.ThemeWesteros, data["theme"])
}

func TestEChartsProviderAssetsHost(t *testing.T) {
	provider := NewEChartsProvider(charts.KindBar, WithChartAssetsHost("https://cdn.example.com/echarts/"))
	data, err := provider.Fetch(context.Background(), sampleChartContext(WidgetAnalyticsChart, map[string]any{"data": []any{1}}))
	require.NoError(t, err)
	assert.Contains(t, html(data), "https://cdn.example.com/echarts/")
}

func TestServiceRendersWithEChartsRenderer(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, UseChartRenderer(reg, RendererECharts, NewChartCache(0)))
	store := NewInMemoryWidgetStore()
	service := NewService(Options{WidgetStore: store, Providers: reg})
	ctx := context.Background()
	require.NoError(t, RegisterAreas(ctx, store))
	require.NoError(t, RegisterDefinitions(ctx, store, reg))
	require.NoError(t, service.AddWidget(ctx, AddWidgetRequest{
		DefinitionID:  WidgetAnalyticsChart,
		AreaCode:      AreaMain,
		Configuration: map[string]any{"title": "Views", "kind": "area", "data": []any{5, 8, 13}},
	}))

	layout, err := service.ConfigureLayout(ctx, ViewerContext{UserID: "u1", Roles: []string{"admin"}})
	require.NoError(t, err)
	require.Len(t, layout.Areas[AreaMain], 1)
	data, ok := layout.Areas[AreaMain][0].Metadata["data"].(WidgetData)
	require.True(t, ok)
	assert.Equal(t, RendererECharts, data["renderer"])
	assert.Equal(t, "area", data["chart_type"])
}

func sampleChartContext(definition string, cfg map[string]any) WidgetContext {
	return WidgetContext{
		Instance: WidgetInstance{
			ID:            "chart-1",
			DefinitionID:  definition,
			Configuration: cfg,
		},
		Viewer: ViewerContext{UserID: "viewer-1", Locale: "en"},
	}
}

func html(data WidgetData) string {
	s, _ := data["chart_html"].(string)
	return strings.TrimSpace(s)
}

type countingCache struct {
	lookups atomic.Int32
	renders atomic.Int32
	cache   *ChartCache
}

func (c *countingCache) GetOrRender(ctx context.Context, key string, render func() (string, error)) (string, error) {
	if c.cache == nil {
		c.cache = NewChartCache(time.Hour)
	}
	c.lookups.Add(1)
	return c.cache.GetOrRender(ctx, key, func() (string, error) {
		c.renders.Add(1)
		return render()
	})
}

func BenchmarkEChartsBarChart(b *testing.B) {
	provider := NewEChartsProvider(charts.KindBar)
	meta := sampleChartContext(WidgetAnalyticsChart, map[string]any{"data": []any{1, 2, 3, 4, 5, 6, 7}})
	for b.Loop() {
		if _, err := provider.Fetch(context.Background(), meta); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEChartsBarChartCached(b *testing.B) {
	provider := NewEChartsProvider(charts.KindBar, WithChartCache(NewChartCache(time.Hour)))
	meta := sampleChartContext(WidgetAnalyticsChart, map[string]any{"data": []any{1, 2, 3, 4, 5, 6, 7}})
	for b.Loop() {
		if _, err := provider.Fetch(context.Background(), meta); err != nil {
			b.Fatal(err)
		}
	}
}
