package dashboard

import (
	"context"

	core "github.com/goliatone/go-studio/components/dashboard"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// ViewerContext is the signed-in user a layout is resolved for.
type ViewerContext = core.ViewerContext

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// Start builds a service and bootstraps its areas, definitions and starter
// layout. A nil WidgetStore falls back to the in-memory store.
func Start(ctx context.Context, opts Options, extra ...core.AddWidgetRequest) (*Service, error) {
	if opts.WidgetStore == nil {
		opts.WidgetStore = core.NewInMemoryWidgetStore()
	}
	service := core.NewService(opts)
	if err := core.Bootstrap(ctx, service, extra...); err != nil {
		return nil, err
	}
	return service, nil
}
