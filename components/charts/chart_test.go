package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" Donut ")
	require.NoError(t, err)
	assert.Equal(t, KindDonut, kind)

	kind, err = ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindLine, kind)

	_, err = ParseKind("radar")
	assert.Error(t, err)
}

func TestBuildEmptyChart(t *testing.T) {
	for _, kind := range []Kind{KindLine, KindArea, KindBar, KindPie, KindDonut} {
		chart := Build(kind, nil, DefaultSurface)
		assert.True(t, chart.Empty, string(kind))
		assert.Empty(t, chart.Points)
		assert.Empty(t, chart.Bars)
		assert.Empty(t, chart.Slices)
		assert.Empty(t, chart.Line)

		svg, err := RenderSVG(chart, SVGOptions{})
		require.NoError(t, err)
		assert.Contains(t, svg, "No data")
	}
}

func TestBuildGeometryPerKind(t *testing.T) {
	data := series(4, 8, 2)

	line := Build(KindLine, data, DefaultSurface)
	assert.Len(t, line.Points, 3)
	assert.NotEmpty(t, line.Line)
	assert.Empty(t, line.Area)

	area := Build(KindArea, data, DefaultSurface)
	assert.NotEmpty(t, area.Area)

	bar := Build(KindBar, data, DefaultSurface)
	assert.Len(t, bar.Bars, 3)

	donut := Build(KindDonut, data, DefaultSurface)
	assert.Len(t, donut.Slices, 3)
	assert.Equal(t, 14.0, donut.Total)
}

func TestBuildFallsBackToDefaultSurface(t *testing.T) {
	chart := Build(KindLine, series(1), Surface{})
	assert.Equal(t, DefaultSurface, chart.Surface)
}

func TestRenderSVGMarksHoveredPoint(t *testing.T) {
	chart := Build(KindBar, []Datum{{Label: "Mon", Value: 3}, {Label: "Tue <b>", Value: 6}}, DefaultSurface)
	chart.Hover.Enter(1)

	svg, err := RenderSVG(chart, SVGOptions{Title: "Weekly"})
	require.NoError(t, err)
	assert.Contains(t, svg, `aria-label="Weekly"`)
	assert.Contains(t, svg, `class="studio-chart-bar is-hovered" data-index="1"`)
	assert.NotContains(t, svg, "<b>")

	datum, ok := chart.Hovered()
	require.True(t, ok)
	assert.Equal(t, "Tue <b>", datum.Label)
}

func TestRenderSVGPie(t *testing.T) {
	chart := Build(KindPie, []Datum{{Label: "Draft", Value: 1}, {Label: "Published", Value: 3}}, DefaultSurface)
	svg, err := RenderSVG(chart, SVGOptions{})
	require.NoError(t, err)
	assert.Contains(t, svg, "Published: 75%")
	assert.Contains(t, svg, "studio-chart-slice")
}
