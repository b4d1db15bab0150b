package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-studio/components/charts"
)

type chartCmd struct {
	Data   string  `arg:"" type:"existingfile" help:"JSON or YAML list of {label, value, color} points."`
	Kind   string  `short:"k" default:"bar" help:"Chart kind: line, area, bar, pie or donut."`
	Title  string  `help:"Accessible chart title."`
	Width  float64 `default:"100" help:"Surface width."`
	Height float64 `default:"100" help:"Surface height."`
	Output string  `short:"o" type:"path" help:"Write the SVG here instead of stdout."`
}

func (cmd *chartCmd) Run(_ context.Context, e *env) error {
	kind, err := charts.ParseKind(cmd.Kind)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(cmd.Data)
	if err != nil {
		return fmt.Errorf("studioctl: read chart data: %w", err)
	}
	// YAML is a superset of JSON, so one decoder covers both.
	var data []charts.Datum
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("studioctl: parse chart data: %w", err)
	}
	surface := charts.DefaultSurface
	surface.Width, surface.Height = cmd.Width, cmd.Height
	svg, err := charts.RenderSVG(charts.Build(kind, data, surface), charts.SVGOptions{Title: cmd.Title})
	if err != nil {
		return err
	}
	if cmd.Output == "" {
		_, err = fmt.Fprintln(e.out, svg)
		return err
	}
	if err := os.WriteFile(cmd.Output, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("studioctl: write %s: %w", cmd.Output, err)
	}
	fmt.Fprintf(e.out, "✓ Rendered %d %s points to %s\n", len(data), kind, cmd.Output)
	return nil
}
