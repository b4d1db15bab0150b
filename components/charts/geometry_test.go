package charts

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(values ...float64) []Datum {
	out := make([]Datum, len(values))
	for i, v := range values {
		out[i] = Datum{Label: string(rune('A' + i)), Value: v}
	}
	return out
}

func drawCommands(path string) int {
	return strings.Count(path, "M") + strings.Count(path, "L")
}

func TestMaxValueFloorsAtOne(t *testing.T) {
	tests := []struct {
		name string
		data []Datum
		want float64
	}{
		{name: "empty", data: nil, want: 1},
		{name: "all zero", data: series(0, 0, 0), want: 1},
		{name: "fractions", data: series(0.2, 0.5), want: 1},
		{name: "regular", data: series(3, 12, 7), want: 12},
		{name: "nan ignored", data: series(math.NaN(), 4), want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxValue(tt.data))
		})
	}
}

func TestLinePathHasOneCommandPerPoint(t *testing.T) {
	for n := 1; n <= 12; n++ {
		values := make([]float64, n)
		for i := range values {
			values[i] = float64(i * 3 % 7)
		}
		path := LinePath(Points(series(values...), DefaultSurface))
		assert.Equal(t, n, drawCommands(path), "n=%d path=%s", n, path)
		assert.True(t, strings.HasPrefix(path, "M"))
	}
}

func TestPointsSingleValueSitsOnLeftPadding(t *testing.T) {
	points := Points(series(5), DefaultSurface)
	require.Len(t, points, 1)
	assert.Equal(t, DefaultSurface.Padding, points[0].X)
	assert.Equal(t, DefaultSurface.Padding, points[0].Y)
	assert.False(t, math.IsNaN(points[0].X) || math.IsNaN(points[0].Y))
}

func TestPointsAllZeroStayOnBaseline(t *testing.T) {
	points := Points(series(0, 0, 0, 0), DefaultSurface)
	require.Len(t, points, 4)
	for _, p := range points {
		assert.Equal(t, DefaultSurface.Baseline(), p.Y)
	}
}

func TestPointsSpreadAcrossPaddedWidth(t *testing.T) {
	points := Points(series(0, 5, 10), DefaultSurface)
	got := make([][2]float64, len(points))
	for i, p := range points {
		got[i] = [2]float64{p.X, p.Y}
	}
	want := [][2]float64{{10, 90}, {50, 50}, {90, 10}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestPointsEmptyInput(t *testing.T) {
	assert.Nil(t, Points(nil, DefaultSurface))
	assert.Equal(t, "", LinePath(nil))
	assert.Equal(t, "", AreaPath(nil, DefaultSurface))
}

func TestAreaPathClosesToBaseline(t *testing.T) {
	points := Points(series(2, 8), DefaultSurface)
	path := AreaPath(points, DefaultSurface)
	assert.Equal(t, "M10 70 L90 10 L90 90 L10 90 Z", path)
}

func TestBarsExampleHeights(t *testing.T) {
	data := []Datum{{Label: "Mon", Value: 0}, {Label: "Tue", Value: 10}}
	require.Equal(t, 10.0, MaxValue(data))

	bars := Bars(data, DefaultSurface, DefaultBarGap)
	require.Len(t, bars, 2)
	assert.Equal(t, 0.0, bars[0].Height)
	assert.Equal(t, DefaultSurface.Height-DefaultSurface.Padding, bars[1].Height)
	assert.Equal(t, DefaultSurface.Baseline(), bars[0].Y)
	assert.Equal(t, 0.0, bars[1].Y)
}

func TestBarsSlotsAndGuards(t *testing.T) {
	bars := Bars(series(-4, math.NaN(), 2, 4), DefaultSurface, 4)
	require.Len(t, bars, 4)
	for i, bar := range bars {
		assert.GreaterOrEqual(t, bar.Height, 0.0, "bar %d", i)
		assert.False(t, math.IsNaN(bar.Height), "bar %d", i)
		assert.InDelta(t, 16.0, bar.Width, 1e-9)
		assert.InDelta(t, 10+float64(i)*20+2, bar.X, 1e-9)
	}
	assert.Nil(t, Bars(nil, DefaultSurface, DefaultBarGap))
}

func TestBarsWidthNeverNegative(t *testing.T) {
	data := make([]Datum, 200)
	bars := Bars(data, DefaultSurface, DefaultBarGap)
	for _, bar := range bars {
		assert.Equal(t, 0.0, bar.Width)
	}
}

func TestHoverState(t *testing.T) {
	var hover HoverState
	_, ok := hover.Index()
	assert.False(t, ok)

	hover.Enter(2)
	idx, ok := hover.Index()
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.True(t, hover.Is(2))
	assert.False(t, hover.Is(1))

	hover.Leave()
	assert.False(t, hover.Is(2))

	hover.Enter(-1)
	_, ok = hover.Index()
	assert.False(t, ok)
}
