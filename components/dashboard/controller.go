package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const defaultDashboardTemplate = "dashboard.html"

// LayoutResolver is the slice of Service the controller renders from.
type LayoutResolver interface {
	ConfigureLayout(ctx context.Context, viewer ViewerContext) (Layout, error)
}

// ControllerOptions wires a Controller.
type ControllerOptions struct {
	Service  LayoutResolver
	Renderer Renderer
	Template string
	// Areas fixes the render order; defaults to the studio areas.
	Areas []WidgetAreaDefinition
	// Definitions names widgets in the payload. Optional.
	Definitions ProviderRegistry
	// Menu builds the navigation shown in base.html. Optional.
	Menu func(viewer ViewerContext, active string) []map[string]any
}

// Controller turns resolved layouts into template payloads and HTML.
type Controller struct {
	opts ControllerOptions
}

func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultDashboardTemplate
	}
	if len(opts.Areas) == 0 {
		opts.Areas = DefaultAreaDefinitions()
	}
	return &Controller{opts: opts}
}

// Render resolves the layout for a viewer.
func (c *Controller) Render(ctx context.Context, viewer ViewerContext) (Layout, error) {
	if c.opts.Service == nil {
		return Layout{Areas: map[string][]WidgetInstance{}}, nil
	}
	return c.opts.Service.ConfigureLayout(ctx, viewer)
}

// LayoutPayload builds the template-friendly view of the viewer's dashboard.
// The same map is returned as JSON by the layout endpoint.
func (c *Controller) LayoutPayload(ctx context.Context, viewer ViewerContext) (map[string]any, error) {
	layout, err := c.Render(ctx, viewer)
	if err != nil {
		return nil, err
	}
	areas := make([]map[string]any, 0, len(c.opts.Areas))
	for _, area := range c.opts.Areas {
		widgets := layout.Areas[area.Code]
		items := make([]map[string]any, 0, len(widgets))
		for _, w := range widgets {
			items = append(items, c.widgetPayload(w))
		}
		areas = append(areas, map[string]any{
			"code":    area.Code,
			"name":    area.Name,
			"slot":    areaSlot(area.Code),
			"widgets": items,
			"empty":   len(items) == 0,
		})
	}
	return map[string]any{
		"title":  "Studio dashboard",
		"viewer": viewer,
		"role":   primaryRole(viewer),
		"menu":   c.MenuFor(viewer, "dashboard"),
		"areas":  areas,
	}, nil
}

// AreaPayload returns the payload of a single area, used by clients that
// refresh one region of the page.
func (c *Controller) AreaPayload(ctx context.Context, viewer ViewerContext, code string) (map[string]any, error) {
	payload, err := c.LayoutPayload(ctx, viewer)
	if err != nil {
		return nil, err
	}
	areas, _ := payload["areas"].([]map[string]any)
	for _, area := range areas {
		if area["code"] == code {
			return area, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAreaNotFound, code)
}

// MenuFor returns the navigation for viewer, or nil without a Menu option.
func (c *Controller) MenuFor(viewer ViewerContext, active string) []map[string]any {
	if c.opts.Menu == nil {
		return nil
	}
	return c.opts.Menu(viewer, active)
}

// RenderTemplate writes the dashboard HTML for viewer to w.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, w io.Writer) error {
	payload, err := c.LayoutPayload(ctx, viewer)
	if err != nil {
		return err
	}
	return c.RenderView(c.opts.Template, payload, w)
}

// RenderView renders any named template; studio pages share the dashboard
// renderer and layout.
func (c *Controller) RenderView(name string, data map[string]any, w io.Writer) error {
	if c.opts.Renderer == nil {
		return errors.New("dashboard: renderer not configured")
	}
	if _, err := c.opts.Renderer.Render(name, data, w); err != nil {
		return fmt.Errorf("dashboard: render %s: %w", name, err)
	}
	return nil
}

func (c *Controller) widgetPayload(w WidgetInstance) map[string]any {
	item := map[string]any{
		"id":            w.ID,
		"definition":    w.DefinitionID,
		"template":      widgetTemplate(w.DefinitionID),
		"name":          w.DefinitionID,
		"configuration": w.Configuration,
	}
	if c.opts.Definitions != nil {
		if def, ok := c.opts.Definitions.Definition(w.DefinitionID); ok {
			item["name"] = def.Name
			item["category"] = def.Category
		}
	}
	if data, ok := w.Metadata["data"]; ok {
		item["data"] = data
	}
	if msg, ok := w.Metadata["error"].(string); ok && msg != "" {
		item["error"] = msg
	}
	return item
}

// widgetTemplate maps studio.widget.stat_cards to widgets/stat_cards.html.
func widgetTemplate(code string) string {
	if name, ok := strings.CutPrefix(code, "studio.widget."); ok && name != "" {
		return "widgets/" + name + ".html"
	}
	return "widgets/generic.html"
}

func areaSlot(code string) string {
	switch code {
	case AreaSidebar:
		return "sidebar"
	case AreaFooter:
		return "footer"
	default:
		return "main"
	}
}

func primaryRole(viewer ViewerContext) string {
	if len(viewer.Roles) == 0 {
		return ""
	}
	return viewer.Roles[0]
}
