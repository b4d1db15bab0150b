package dashboard

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-studio/components/charts"
)

func TestSVGChartProviderLine(t *testing.T) {
	provider := NewSVGChartProvider(charts.KindLine)
	data, err := provider.Fetch(context.Background(), sampleChartContext(WidgetAnalyticsChart, map[string]any{
		"title": "Views",
		"data":  []any{0, 5, 10},
	}))
	require.NoError(t, err)
	assert.Equal(t, "line", data["chart_type"])
	assert.Equal(t, RendererSVG, data["renderer"])
	assert.Equal(t, 3, data["points"])
	assert.Equal(t, 10.0, data["max"])
	assert.Equal(t, false, data["empty"])
	assert.True(t, strings.HasPrefix(html(data), "<svg"), html(data))
}

func TestSVGChartProviderPieLegend(t *testing.T) {
	provider := NewSVGChartProvider(charts.KindPie)
	data, err := provider.Fetch(context.Background(), sampleChartContext(WidgetPieChart, map[string]any{
		"kind": "donut",
		"data": []any{
			map[string]any{"label": "Published", "value": 3, "color": "#22c55e"},
			map[string]any{"label": "Draft", "value": 1},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, "donut", data["chart_type"])
	legend := data["legend"].([]map[string]any)
	require.Len(t, legend, 2)
	assert.Equal(t, "Published", legend[0]["label"])
	assert.InDelta(t, 75.0, legend[0]["percentage"], 0.001)
	assert.Equal(t, "#22c55e", legend[0]["color"])
}

func TestSVGChartProviderEmptyState(t *testing.T) {
	provider := NewSVGChartProvider(charts.KindBar)
	data, err := provider.Fetch(context.Background(), sampleChartContext(WidgetAnalyticsChart, map[string]any{
		"empty_text": "No plays yet",
	}))
	require.NoError(t, err)
	assert.Equal(t, true, data["empty"])
	assert.Contains(t, html(data), "No plays yet")
}

func TestSVGChartProviderCachesPerData(t *testing.T) {
	cache := &countingCache{}
	provider := NewSVGChartProvider(charts.KindLine, WithSVGCache(cache))
	meta := WidgetContext{Instance: WidgetInstance{ID: "w1", DefinitionID: WidgetActivityChart}}

	render := func(values ...float64) {
		data := make([]charts.Datum, len(values))
		for i, v := range values {
			data[i] = charts.Datum{Value: v}
		}
		_, err := provider.Render(context.Background(), meta, ChartConfig{Kind: charts.KindLine, Data: data})
		require.NoError(t, err)
	}
	render(1, 2)
	render(1, 2)
	render(3, 4)
	assert.EqualValues(t, 2, cache.renders.Load())

	// Previews without an instance id bypass the cache.
	_, err := provider.Render(context.Background(), WidgetContext{}, ChartConfig{Kind: charts.KindLine})
	require.NoError(t, err)
	assert.EqualValues(t, 3, cache.lookups.Load())
}

func TestSVGChartProviderDynamicFields(t *testing.T) {
	provider := NewSVGChartProvider(charts.KindArea, WithSurface(charts.Surface{Width: 200, Height: 100, Padding: 5}))
	data, err := provider.Fetch(context.Background(), sampleChartContext(WidgetAnalyticsChart, map[string]any{
		"data":             []any{1},
		"dynamic":          true,
		"refresh_endpoint": "/studio/api/charts/w1",
		"footer_note":      "Updated hourly",
	}))
	require.NoError(t, err)
	assert.Equal(t, true, data["dynamic"])
	assert.Equal(t, "/studio/api/charts/w1", data["refresh_endpoint"])
	assert.Equal(t, "Updated hourly", data["footer_note"])
}
