package charts

import (
	"fmt"
	"strings"
)

// Kind selects the geometry computed for a chart.
type Kind string

const (
	KindLine  Kind = "line"
	KindArea  Kind = "area"
	KindBar   Kind = "bar"
	KindPie   Kind = "pie"
	KindDonut Kind = "donut"
)

// ParseKind normalizes a chart kind string.
func ParseKind(value string) (Kind, error) {
	switch kind := Kind(strings.ToLower(strings.TrimSpace(value))); kind {
	case KindLine, KindArea, KindBar, KindPie, KindDonut:
		return kind, nil
	case "":
		return KindLine, nil
	default:
		return "", fmt.Errorf("charts: unsupported chart kind %q", value)
	}
}

// Chart carries every piece of geometry needed to draw one chart.
type Chart struct {
	Kind    Kind
	Surface Surface
	Data    []Datum
	Max     float64
	Total   float64
	Empty   bool
	Points  []Point
	Line    string
	Area    string
	Bars    []Bar
	Slices  []Slice
	Hover   HoverState
}

// Build computes the geometry for data. Zero data points produce an empty
// chart with no geometry.
func Build(kind Kind, data []Datum, surface Surface) Chart {
	surface = surface.normalized()
	chart := Chart{
		Kind:    kind,
		Surface: surface,
		Data:    append([]Datum(nil), data...),
		Empty:   len(data) == 0,
	}
	if chart.Empty {
		return chart
	}
	chart.Max = MaxValue(data)
	switch kind {
	case KindBar:
		chart.Bars = Bars(data, surface, DefaultBarGap)
	case KindPie, KindDonut:
		chart.Slices = Slices(data, PieOptionsFor(surface, kind == KindDonut))
		for _, d := range data {
			chart.Total += positive(d.Value)
		}
	default:
		chart.Points = Points(data, surface)
		chart.Line = LinePath(chart.Points)
		if kind == KindArea {
			chart.Area = AreaPath(chart.Points, surface)
		}
	}
	return chart
}

// Hovered returns the hovered datum.
func (c Chart) Hovered() (Datum, bool) {
	idx, ok := c.Hover.Index()
	if !ok || idx >= len(c.Data) {
		return Datum{}, false
	}
	return c.Data[idx], true
}
