package charts

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlicesSweepSumsToFullCircle(t *testing.T) {
	cases := [][]float64{
		{1},
		{1, 1},
		{3, 7, 11, 0.5},
		{120, 45, 45, 90, 60},
		{0, 5, 0},
	}
	for _, values := range cases {
		slices := Slices(series(values...), PieOptionsFor(DefaultSurface, false))
		sum := 0.0
		for _, s := range slices {
			sum += s.SweepAngle
		}
		assert.InDelta(t, 360.0, sum, 1e-9, "values=%v", values)
	}
}

func TestSlicesHugeValuesKeepProportions(t *testing.T) {
	slices := Slices(series(math.MaxFloat64, math.MaxFloat64), PieOptionsFor(DefaultSurface, false))
	require.Len(t, slices, 2)
	for _, s := range slices {
		assert.InDelta(t, 50.0, s.Percentage, 1e-9)
		assert.InDelta(t, 180.0, s.SweepAngle, 1e-9)
		assert.NotEmpty(t, s.Path)
		assert.NotContains(t, s.Path, "NaN")
	}
	assert.InDelta(t, 90.0, slices[1].StartAngle, 1e-9)

	slices = Slices(series(math.MaxFloat64, math.MaxFloat64/2, 1), PieOptionsFor(DefaultSurface, true))
	sum := 0.0
	for _, s := range slices {
		sum += s.SweepAngle
	}
	assert.InDelta(t, 360.0, sum, 1e-9)
	assert.InDelta(t, 240.0, slices[0].SweepAngle, 1e-9)
}

func TestSlicesStartAtTwelveOClock(t *testing.T) {
	slices := Slices(series(1, 1, 2), PieOptionsFor(DefaultSurface, false))
	require.Len(t, slices, 3)
	assert.Equal(t, -90.0, slices[0].StartAngle)
	assert.Equal(t, 0.0, slices[1].StartAngle)
	assert.Equal(t, 90.0, slices[2].StartAngle)
	assert.InDelta(t, 50.0, slices[2].Percentage, 1e-9)
}

func TestSlicesZeroTotal(t *testing.T) {
	for _, donut := range []bool{false, true} {
		slices := Slices(series(0, 0, -3), PieOptionsFor(DefaultSurface, donut))
		require.Len(t, slices, 3)
		for _, s := range slices {
			assert.Equal(t, 0.0, s.Percentage)
			assert.Equal(t, 0.0, s.SweepAngle)
			assert.NotContains(t, s.Path, "NaN")
			assert.Empty(t, s.Path)
		}
	}
}

func TestSlicesLargeArcFlag(t *testing.T) {
	slices := Slices(series(3, 1), PieOptionsFor(DefaultSurface, false))
	require.Len(t, slices, 2)
	assert.True(t, slices[0].LargeArc)
	assert.Contains(t, slices[0].Path, " 0 1 1 ")
	assert.False(t, slices[1].LargeArc)
	assert.Contains(t, slices[1].Path, " 0 0 1 ")
}

func TestDonutSliceIsRing(t *testing.T) {
	opts := PieOptionsFor(DefaultSurface, true)
	require.InDelta(t, opts.Radius*0.6, opts.InnerRadius, 1e-9)

	slices := Slices(series(1, 1), opts)
	for _, s := range slices {
		assert.Equal(t, 2, strings.Count(s.Path, "A"), "path=%s", s.Path)
		assert.True(t, strings.HasSuffix(s.Path, "Z"))
		assert.NotContains(t, s.Path, "NaN")
	}
}

func TestFullCircleSliceDrawsTwoHalves(t *testing.T) {
	slices := Slices(series(0, 9), PieOptionsFor(DefaultSurface, false))
	require.Len(t, slices, 2)
	assert.Empty(t, slices[0].Path)
	assert.Equal(t, 2, strings.Count(slices[1].Path, "A"))
	assert.InDelta(t, 100.0, slices[1].Percentage, 1e-9)
}

func TestPolarAtStartAngle(t *testing.T) {
	x, y := polar(50, 50, 40, -90)
	assert.InDelta(t, 50.0, x, 1e-9)
	assert.InDelta(t, 10.0, y, 1e-9)
	assert.False(t, math.IsNaN(x))
}
