package dashboard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-studio/components/charts"
)

// ChartConfig is the decoded configuration of a chart widget.
type ChartConfig struct {
	Title           string
	Subtitle        string
	Kind            charts.Kind
	Data            []charts.Datum
	Theme           string
	EmptyText       string
	Dynamic         bool
	RefreshEndpoint string
	FooterNote      string
}

// ParseChartConfig reads a widget configuration map. fallback is used when
// the map names no kind.
func ParseChartConfig(cfg map[string]any, fallback charts.Kind) (ChartConfig, error) {
	out := ChartConfig{
		Title:           stringValue(cfg["title"], "Chart"),
		Subtitle:        stringValue(cfg["subtitle"], ""),
		Kind:            fallback,
		Theme:           strings.TrimSpace(stringValue(cfg["theme"], "")),
		EmptyText:       stringValue(cfg["empty_text"], ""),
		Dynamic:         boolValue(cfg["dynamic"]),
		RefreshEndpoint: stringValue(cfg["refresh_endpoint"], ""),
		FooterNote:      stringValue(cfg["footer_note"], ""),
	}
	if raw := stringValue(cfg["kind"], ""); raw != "" {
		kind, err := charts.ParseKind(raw)
		if err != nil {
			return ChartConfig{}, fmt.Errorf("dashboard: %w", err)
		}
		out.Kind = kind
	}
	if out.Kind == "" {
		out.Kind = charts.KindLine
	}
	out.Data = parseChartData(cfg["data"])
	applyAxisLabels(out.Data, stringSliceValue(cfg["x_axis"]))
	return out, nil
}

// parseChartData accepts bare numbers, {label,value,color,date} objects and
// the {name,value} shape go-echarts uses.
func parseChartData(v any) []charts.Datum {
	switch value := v.(type) {
	case []charts.Datum:
		return append([]charts.Datum(nil), value...)
	case []float64:
		out := make([]charts.Datum, len(value))
		for i, f := range value {
			out[i] = charts.Datum{Value: f}
		}
		return out
	case []int:
		out := make([]charts.Datum, len(value))
		for i, n := range value {
			out[i] = charts.Datum{Value: float64(n)}
		}
		return out
	case []map[string]any:
		out := make([]charts.Datum, 0, len(value))
		for _, item := range value {
			out = append(out, datumFromMap(item))
		}
		return out
	case []any:
		out := make([]charts.Datum, 0, len(value))
		for _, item := range value {
			switch val := item.(type) {
			case map[string]any:
				out = append(out, datumFromMap(val))
			case float64, float32, int, int64, json.Number, string:
				out = append(out, charts.Datum{Value: float64Value(val)})
			}
		}
		return out
	default:
		return nil
	}
}

func datumFromMap(m map[string]any) charts.Datum {
	label := stringValue(m["label"], "")
	if label == "" {
		label = stringValue(m["name"], "")
	}
	d := charts.Datum{
		Label: label,
		Value: float64Value(m["value"]),
		Color: stringValue(m["color"], ""),
	}
	if raw := stringValue(m["date"], ""); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			d.Date = &t
		} else if t, err := time.Parse(time.DateOnly, raw); err == nil {
			d.Date = &t
		}
	}
	return d
}

// applyAxisLabels names unlabeled points from x_axis, then from their date,
// then by position.
func applyAxisLabels(data []charts.Datum, axis []string) {
	for i := range data {
		if data[i].Label != "" {
			continue
		}
		switch {
		case i < len(axis) && axis[i] != "":
			data[i].Label = axis[i]
		case data[i].Date != nil:
			data[i].Label = data[i].Date.Format("Jan 2")
		default:
			data[i].Label = fmt.Sprintf("Item %d", i+1)
		}
	}
}

func stringSliceValue(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func float64Value(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return 0
}

// IntValue reads an integer option, accepting JSON numbers.
func IntValue(v any, fallback int) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

// StringValue reads a string option, falling back when blank.
func StringValue(v any, fallback string) string {
	return stringValue(v, fallback)
}

// BoolValue reads a boolean option; "true" strings count.
func BoolValue(v any) bool {
	return boolValue(v)
}

func boolValue(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(val, "true")
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return false
	}
}
