package charts

import (
	"bytes"
	"html/template"
)

// SVGOptions tweaks the rendered markup.
type SVGOptions struct {
	Title     string
	EmptyText string
	Class     string
}

type svgView struct {
	Chart
	Title     string
	EmptyText string
	Class     string
	Baseline  float64
	Right     float64
}

var svgTemplate = template.Must(template.New("chart").Funcs(template.FuncMap{
	"num":     formatNumber,
	"half":    func(v float64) float64 { return v / 2 },
	"percent": func(v float64) string { return formatNumber(v) + "%" },
}).Parse(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 {{num .Surface.Width}} {{num .Surface.Height}}" class="studio-chart studio-chart-{{.Kind}}{{if .Class}} {{.Class}}{{end}}" role="img" aria-label="{{.Title}}">
{{- if .Empty}}
<text class="studio-chart-empty" x="{{num (half .Surface.Width)}}" y="{{num (half .Surface.Height)}}" text-anchor="middle">{{.EmptyText}}</text>
{{- else if .Slices}}
{{- range .Slices}}{{if .Path}}
<path class="studio-chart-slice{{if $.Hover.Is .Index}} is-hovered{{end}}" data-index="{{.Index}}" d="{{.Path}}" fill="{{.Color}}"><title>{{.Datum.Label}}: {{percent .Percentage}}</title></path>
{{- end}}{{end}}
{{- else if .Bars}}
<line class="studio-chart-axis" x1="{{num .Surface.Padding}}" y1="{{num .Baseline}}" x2="{{num .Right}}" y2="{{num .Baseline}}"/>
{{- range .Bars}}
<rect class="studio-chart-bar{{if $.Hover.Is .Index}} is-hovered{{end}}" data-index="{{.Index}}" x="{{num .X}}" y="{{num .Y}}" width="{{num .Width}}" height="{{num .Height}}"{{if .Datum.Color}} fill="{{.Datum.Color}}"{{end}}><title>{{.Datum.Label}}: {{num .Datum.Value}}</title></rect>
{{- end}}
{{- else}}
{{- if .Area}}
<path class="studio-chart-area" d="{{.Area}}"/>
{{- end}}
<path class="studio-chart-line" d="{{.Line}}" fill="none"/>
{{- range .Points}}
<circle class="studio-chart-point{{if $.Hover.Is .Index}} is-hovered{{end}}" data-index="{{.Index}}" cx="{{num .X}}" cy="{{num .Y}}" r="1.5"><title>{{.Datum.Label}}: {{num .Datum.Value}}</title></circle>
{{- end}}
{{- end}}
</svg>`))

// RenderSVG draws the chart as standalone SVG markup.
func RenderSVG(chart Chart, opts SVGOptions) (string, error) {
	if opts.EmptyText == "" {
		opts.EmptyText = "No data"
	}
	view := svgView{
		Chart:     chart,
		Title:     opts.Title,
		EmptyText: opts.EmptyText,
		Class:     opts.Class,
		Baseline:  chart.Surface.Baseline(),
		Right:     chart.Surface.Width - chart.Surface.Padding,
	}
	var buf bytes.Buffer
	if err := svgTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
