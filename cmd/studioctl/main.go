package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-studio/components/studio"
	"github.com/goliatone/go-studio/pkg/api"
	"github.com/goliatone/go-studio/pkg/config"
)

type cli struct {
	Widget widgetCmd `cmd:"" help:"Add a widget definition to a manifest and scaffold its provider."`
	Chart  chartCmd  `cmd:"" help:"Render chart data from a JSON or YAML file as SVG."`
	List   listCmd   `cmd:"" help:"Print a studio listing page."`
	Export exportCmd `cmd:"" help:"Download a studio listing page as CSV or PDF."`
	Token  tokenCmd  `cmd:"" help:"Issue a signed viewer token for local testing."`
}

// env carries what every command shares.
type env struct {
	out io.Writer
	cfg *config.Config
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "studioctl: load config: %v\n", err)
		os.Exit(1)
	}
	ctx := kong.Parse(&cli{},
		kong.Name("studioctl"),
		kong.Description("Command line tools for the studio dashboard."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)
	err = ctx.Run(&env{out: os.Stdout, cfg: cfg})
	ctx.FatalIfErrorf(err)
}

// sourceFlags selects the backend listing commands read from.
type sourceFlags struct {
	Mock    bool   `help:"Read from built-in demo data instead of the API."`
	BaseURL string `name:"base-url" help:"Backend API root (defaults to STUDIO_API_BASE_URL)."`
	Token   string `env:"STUDIO_API_TOKEN" help:"Bearer token sent to the API."`
}

func (f sourceFlags) pages(e *env) (*studio.Pages, error) {
	if f.Mock {
		client := api.NewMockClient(api.DemoData(time.Now()))
		return studio.NewPages(studio.PagesOptions{Sources: client.Sources()}), nil
	}
	base := f.BaseURL
	timeout := 10 * time.Second
	if e.cfg != nil {
		if base == "" {
			base = e.cfg.API.BaseURL
		}
		timeout = e.cfg.API.Timeout
	}
	client, err := api.NewClient(api.Config{
		BaseURL: base,
		Token:   api.StaticToken(f.Token),
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	return studio.NewPages(studio.PagesOptions{Sources: client.Sources()}), nil
}
