package charts

import (
	"math"
	"strconv"
	"time"
)

// Datum is a single labeled value consumed by a chart. It only lives long
// enough to compute geometry.
type Datum struct {
	Label string     `json:"label" yaml:"label"`
	Value float64    `json:"value" yaml:"value"`
	Date  *time.Time `json:"date,omitempty" yaml:"date,omitempty"`
	Color string     `json:"color,omitempty" yaml:"color,omitempty"`
}

// Point is a datum placed on the plotting surface.
type Point struct {
	Index int
	Datum Datum
	X     float64
	Y     float64
}

// Surface describes the normalized plotting area. Geometry is computed inside
// the padded region.
type Surface struct {
	Width   float64
	Height  float64
	Padding float64
}

// DefaultSurface is the 100x100 unit square used by dashboard charts.
var DefaultSurface = Surface{Width: 100, Height: 100, Padding: 10}

// Baseline is the y coordinate of a zero value.
func (s Surface) Baseline() float64 {
	return s.Height - s.Padding
}

func (s Surface) plotWidth() float64 {
	return math.Max(s.Width-2*s.Padding, 0)
}

func (s Surface) plotHeight() float64 {
	return math.Max(s.Height-2*s.Padding, 0)
}

func (s Surface) normalized() Surface {
	if s.Width <= 0 || s.Height <= 0 {
		return DefaultSurface
	}
	if s.Padding < 0 {
		s.Padding = 0
	}
	return s
}

var defaultPalette = []string{
	"#6366f1",
	"#22c55e",
	"#f59e0b",
	"#ef4444",
	"#06b6d4",
	"#a855f7",
	"#ec4899",
	"#84cc16",
}

func colorFor(d Datum, index int) string {
	if d.Color != "" {
		return d.Color
	}
	return defaultPalette[index%len(defaultPalette)]
}

// finite maps NaN and infinities to zero.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func formatNumber(v float64) string {
	v = math.Round(finite(v)*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
