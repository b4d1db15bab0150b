package dashboard

import "context"

// Provider fetches the data a widget instance renders.
type Provider interface {
	Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, meta WidgetContext) (WidgetData, error)

func (f ProviderFunc) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	return f(ctx, meta)
}

// WidgetContext contains the metadata needed by providers.
type WidgetContext struct {
	Instance WidgetInstance
	Viewer   ViewerContext
}

// WidgetData is an opaque payload passed to templates.
type WidgetData map[string]any
