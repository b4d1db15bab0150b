package charts

import (
	"math"
	"strings"
)

const (
	pieStartAngle = -90.0
	fullCircle    = 360.0
	donutRatio    = 0.6
	angleEpsilon  = 1e-9
)

// PieOptions positions a pie or donut on the surface. InnerRadius > 0 turns
// the pie into a ring.
type PieOptions struct {
	CX          float64
	CY          float64
	Radius      float64
	InnerRadius float64
}

// PieOptionsFor centers a pie inside the padded surface.
func PieOptionsFor(surface Surface, donut bool) PieOptions {
	surface = surface.normalized()
	radius := math.Min(surface.plotWidth(), surface.plotHeight()) / 2
	opts := PieOptions{
		CX:     surface.Width / 2,
		CY:     surface.Height / 2,
		Radius: radius,
	}
	if donut {
		opts.InnerRadius = radius * donutRatio
	}
	return opts
}

// Slice is the sector drawn for one datum.
type Slice struct {
	Index      int
	Datum      Datum
	Color      string
	Percentage float64
	StartAngle float64
	SweepAngle float64
	LargeArc   bool
	Path       string
}

// Slices walks the data clockwise from 12 o'clock, giving each datum a sweep
// proportional to its share of the total. A zero total yields 0% slices with
// empty paths.
func Slices(data []Datum, opts PieOptions) []Slice {
	if len(data) == 0 {
		return nil
	}
	// Shares come from values scaled by the largest one so the total stays
	// finite for any finite input.
	peak := 0.0
	for _, d := range data {
		peak = math.Max(peak, positive(d.Value))
	}
	scaled := make([]float64, len(data))
	total := 0.0
	if peak > 0 {
		for i, d := range data {
			scaled[i] = positive(d.Value) / peak
			total += scaled[i]
		}
	}
	slices := make([]Slice, len(data))
	start := pieStartAngle
	for i, d := range data {
		slice := Slice{
			Index:      i,
			Datum:      d,
			Color:      colorFor(d, i),
			StartAngle: start,
		}
		if total > 0 {
			share := scaled[i] / total
			slice.Percentage = share * 100
			slice.SweepAngle = share * fullCircle
			slice.LargeArc = slice.SweepAngle > 180
			if slice.SweepAngle > 0 {
				slice.Path = sectorPath(opts, start, slice.SweepAngle)
			}
		}
		start += slice.SweepAngle
		slices[i] = slice
	}
	return slices
}

func sectorPath(opts PieOptions, start, sweep float64) string {
	if sweep >= fullCircle-angleEpsilon {
		// A single arc cannot start and end on the same point.
		return sectorPath(opts, start, 180) + " " + sectorPath(opts, start+180, 180)
	}
	end := start + sweep
	large := "0"
	if sweep > 180 {
		large = "1"
	}
	ox1, oy1 := polar(opts.CX, opts.CY, opts.Radius, start)
	ox2, oy2 := polar(opts.CX, opts.CY, opts.Radius, end)
	r := formatNumber(opts.Radius)

	var b strings.Builder
	if opts.InnerRadius <= 0 {
		writeCmd(&b, "M", opts.CX, opts.CY)
		writeCmd(&b, " L", ox1, oy1)
		b.WriteString(" A" + r + " " + r + " 0 " + large + " 1 ")
		b.WriteString(formatNumber(ox2) + " " + formatNumber(oy2))
		b.WriteString(" Z")
		return b.String()
	}
	ix1, iy1 := polar(opts.CX, opts.CY, opts.InnerRadius, start)
	ix2, iy2 := polar(opts.CX, opts.CY, opts.InnerRadius, end)
	ir := formatNumber(opts.InnerRadius)
	writeCmd(&b, "M", ox1, oy1)
	b.WriteString(" A" + r + " " + r + " 0 " + large + " 1 ")
	b.WriteString(formatNumber(ox2) + " " + formatNumber(oy2))
	writeCmd(&b, " L", ix2, iy2)
	b.WriteString(" A" + ir + " " + ir + " 0 " + large + " 0 ")
	b.WriteString(formatNumber(ix1) + " " + formatNumber(iy1))
	b.WriteString(" Z")
	return b.String()
}

func writeCmd(b *strings.Builder, cmd string, x, y float64) {
	b.WriteString(cmd)
	b.WriteString(formatNumber(x))
	b.WriteByte(' ')
	b.WriteString(formatNumber(y))
}

func polar(cx, cy, r, angle float64) (float64, float64) {
	rad := angle * math.Pi / 180
	return cx + r*math.Cos(rad), cy + r*math.Sin(rad)
}

func positive(v float64) float64 {
	v = finite(v)
	if v < 0 {
		return 0
	}
	return v
}
