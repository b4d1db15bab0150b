package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-studio/components/studio"
	"github.com/goliatone/go-studio/pkg/export"
)

type listCmd struct {
	sourceFlags `embed:""`
	Slug        string `arg:"" enum:"bloggers,writers,vocalists,blogs,comments,recordings" help:"Listing page to print."`
	Query       string `short:"q" help:"Filter rows like the search box does."`
}

func (cmd *listCmd) Run(ctx context.Context, e *env) error {
	view, err := loadPage(ctx, e, cmd.sourceFlags, cmd.Slug, cmd.Query)
	if err != nil {
		return err
	}
	return printTable(e, view)
}

type exportCmd struct {
	sourceFlags `embed:""`
	Slug        string `arg:"" enum:"bloggers,writers,vocalists,blogs,comments,recordings" help:"Listing page to export."`
	Query       string `short:"q" help:"Filter rows before exporting."`
	Format      string `short:"f" enum:"pdf,csv" default:"pdf" help:"Output format."`
	Output      string `short:"o" type:"path" help:"Destination file (defaults to <slug>.<format>)."`
}

func (cmd *exportCmd) Run(ctx context.Context, e *env) error {
	format, err := export.ParseFormat(cmd.Format)
	if err != nil {
		return err
	}
	view, err := loadPage(ctx, e, cmd.sourceFlags, cmd.Slug, cmd.Query)
	if err != nil {
		return err
	}
	data, err := export.Render(format, view.Table.Dataset(), view.Title)
	if err != nil {
		return err
	}
	path := cmd.Output
	if path == "" {
		path = cmd.Slug + "." + string(format)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("studioctl: write %s: %w", path, err)
	}
	fmt.Fprintf(e.out, "✓ Exported %d %s rows to %s\n", view.Shown, view.Slug, path)
	return nil
}

// loadPage fails when the backend did: a listing keeps load errors on the
// view, which is right for a page but not for a script.
func loadPage(ctx context.Context, e *env, src sourceFlags, slug, query string) (studio.PageView, error) {
	pages, err := src.pages(e)
	if err != nil {
		return studio.PageView{}, err
	}
	view, err := pages.Page(ctx, slug, query)
	if err != nil {
		return studio.PageView{}, err
	}
	if view.Error != "" {
		return studio.PageView{}, errors.New(view.Error)
	}
	return view, nil
}

func printTable(e *env, view studio.PageView) error {
	w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	labels := make([]string, len(view.Table.Columns))
	for i, col := range view.Table.Columns {
		labels[i] = strings.ToUpper(col.Label)
	}
	fmt.Fprintln(w, strings.Join(labels, "\t"))
	for _, row := range view.Table.Rows {
		cells := make([]string, len(view.Table.Columns))
		for i, col := range view.Table.Columns {
			cells[i] = row.Cell(col.Key)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%s: showing %d of %d\n", view.Title, view.Shown, view.Total)
	return nil
}
