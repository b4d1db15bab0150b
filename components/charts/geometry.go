package charts

import "strings"

// DefaultBarGap is the horizontal space left between two bars.
const DefaultBarGap = 2.0

// Bar is the rectangle drawn for a datum in a bar chart.
type Bar struct {
	Index  int
	Datum  Datum
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// MaxValue returns the largest observed value, floored at 1 so all-zero series
// never scale by zero.
func MaxValue(data []Datum) float64 {
	max := 1.0
	for _, d := range data {
		if v := finite(d.Value); v > max {
			max = v
		}
	}
	return max
}

// Points places each datum on the surface. The first point sits on the left
// padding edge and the last on the right one; a single point stays on the left.
func Points(data []Datum, surface Surface) []Point {
	if len(data) == 0 {
		return nil
	}
	surface = surface.normalized()
	max := MaxValue(data)
	divisor := float64(len(data) - 1)
	if divisor == 0 {
		divisor = 1
	}
	points := make([]Point, len(data))
	for i, d := range data {
		ratio := clampRatio(finite(d.Value) / max)
		points[i] = Point{
			Index: i,
			Datum: d,
			X:     surface.Padding + float64(i)/divisor*surface.plotWidth(),
			Y:     surface.Baseline() - ratio*surface.plotHeight(),
		}
	}
	return points
}

// LinePath builds an SVG path with one draw command per point.
func LinePath(points []Point) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(formatNumber(p.X))
		b.WriteByte(' ')
		b.WriteString(formatNumber(p.Y))
	}
	return b.String()
}

// AreaPath closes the line path down to the baseline and back to the first x.
func AreaPath(points []Point, surface Surface) string {
	if len(points) == 0 {
		return ""
	}
	surface = surface.normalized()
	baseline := formatNumber(surface.Baseline())
	first := points[0]
	last := points[len(points)-1]
	var b strings.Builder
	b.WriteString(LinePath(points))
	b.WriteString(" L")
	b.WriteString(formatNumber(last.X))
	b.WriteByte(' ')
	b.WriteString(baseline)
	b.WriteString(" L")
	b.WriteString(formatNumber(first.X))
	b.WriteByte(' ')
	b.WriteString(baseline)
	b.WriteString(" Z")
	return b.String()
}

// Bars allocates an equal-width slot per datum. Heights scale against the
// surface height minus the bottom padding and are never negative.
func Bars(data []Datum, surface Surface, gap float64) []Bar {
	if len(data) == 0 {
		return nil
	}
	surface = surface.normalized()
	if gap < 0 {
		gap = 0
	}
	max := MaxValue(data)
	slot := surface.plotWidth() / float64(len(data))
	width := slot - gap
	if width < 0 {
		width = 0
	}
	usable := surface.Height - surface.Padding
	bars := make([]Bar, len(data))
	for i, d := range data {
		height := finite(d.Value) / max * usable
		if !(height > 0) {
			height = 0
		}
		bars[i] = Bar{
			Index:  i,
			Datum:  d,
			X:      surface.Padding + float64(i)*slot + gap/2,
			Y:      surface.Baseline() - height,
			Width:  width,
			Height: height,
		}
	}
	return bars
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
