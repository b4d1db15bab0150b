package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-studio/components/dashboard"
	"github.com/goliatone/go-studio/components/dashboard/commands"
	"github.com/goliatone/go-studio/components/dashboard/httpapi"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Locals keys read by the default viewer resolver. Upstream middleware
// stores the signed-in identity under them.
const (
	LocalUserID = "user_id"
	LocalName   = "user_name"
	LocalRoles  = "roles"
	LocalLocale = "locale"
)

// RouteRegistrar is the part of a go-router group the dashboard mounts on.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo
}

// Config wires the dashboard controller, command API and refresh hook into
// a go-router router.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
	// Editors are the roles allowed to change the shared layout.
	Editors []string
}

// RouteConfig customizes the paths mounted under BasePath.
type RouteConfig struct {
	HTML        string
	Layout      string
	Area        string
	Widgets     string
	WidgetID    string
	Reorder     string
	Refresh     string
	Preferences string
	WebSocket   string
}

// Register mounts the dashboard page, its JSON views, the widget API and
// the refresh socket under BasePath (default /studio).
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	base := cfg.BasePath
	if base == "" {
		base = "/studio"
	}
	return Mount(cfg.Router.Group(base), Options{
		Controller:     cfg.Controller,
		API:            cfg.API,
		Broadcast:      cfg.Broadcast,
		ViewerResolver: cfg.ViewerResolver,
		Routes:         cfg.Routes,
		Editors:        cfg.Editors,
	})
}

// Options is Config without the router, for mounting on an existing group.
type Options struct {
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	Routes         RouteConfig
	Editors        []string
}

// Mount registers the dashboard routes on r.
func Mount(r RouteRegistrar, opts Options) error {
	if r == nil {
		return errors.New("gorouter: router is required")
	}
	if opts.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(opts.Routes)
	viewerOf := opts.ViewerResolver
	if viewerOf == nil {
		viewerOf = DefaultViewerResolver
	}
	controller := opts.Controller

	r.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := controller.RenderTemplate(ctx.Context(), viewerOf(ctx), &buf); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	r.Get(routes.Layout, router.WrapHandler(func(ctx router.Context) error {
		payload, err := controller.LayoutPayload(ctx.Context(), viewerOf(ctx))
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	r.Get(routes.Area, router.WrapHandler(func(ctx router.Context) error {
		payload, err := controller.AreaPayload(ctx.Context(), viewerOf(ctx), ctx.Param("code"))
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	if opts.API != nil {
		registerAPI(r, opts.API, viewerOf, routes, opts.Editors)
	}
	if opts.Broadcast != nil {
		registerWebSocket(r, opts.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerAPI(r RouteRegistrar, api httpapi.Executor, viewerOf ViewerResolver, routes RouteConfig, editors []string) {
	// editor resolves the viewer and reports whether it may change the layout.
	editor := func(ctx router.Context) (dashboard.ViewerContext, bool) {
		viewer := viewerOf(ctx)
		return viewer, viewer.CanEdit(editors)
	}
	forbidden := func(ctx router.Context) error {
		return respondError(ctx, http.StatusForbidden, dashboard.ErrLayoutForbidden)
	}

	r.Post(routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
		viewer, ok := editor(ctx)
		if !ok {
			return forbidden(ctx)
		}
		var payload dashboard.AddWidgetRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ActorID, payload.UserID = viewer.UserID, viewer.UserID
		if err := api.Assign(ctx.Context(), payload); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	r.Delete(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		viewer, ok := editor(ctx)
		if !ok {
			return forbidden(ctx)
		}
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("widget id is required"))
		}
		input := commands.RemoveWidgetInput{WidgetID: id, ActorID: viewer.UserID}
		if err := api.Remove(ctx.Context(), input); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "removed"})
	}))

	r.Post(routes.Reorder, router.WrapHandler(func(ctx router.Context) error {
		viewer, ok := editor(ctx)
		if !ok {
			return forbidden(ctx)
		}
		var payload commands.ReorderWidgetsInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ActorID = viewer.UserID
		if err := api.Reorder(ctx.Context(), payload); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "reordered"})
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshWidgetInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))

	r.Post(routes.Preferences, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SaveLayoutPreferencesInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.Viewer = viewerOf(ctx)
		if err := api.Preferences(ctx.Context(), payload); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))

	// Registered after reorder and refresh so their static paths win.
	r.Post(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		viewer, ok := editor(ctx)
		if !ok {
			return forbidden(ctx)
		}
		var payload commands.UpdateWidgetInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.WidgetID = ctx.Param("id")
		if payload.WidgetID == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("widget id is required"))
		}
		payload.ActorID = viewer.UserID
		if err := api.Update(ctx.Context(), payload); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))
}

// registerWebSocket streams widget events until the client goes away.
func registerWebSocket(r RouteRegistrar, hook *dashboard.BroadcastHook, path string) {
	r.WebSocket(path, router.DefaultWebSocketConfig(), func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// DefaultViewerResolver reads the viewer from request locals, falling back
// to Accept-Language for the locale.
func DefaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	var viewer dashboard.ViewerContext
	if v, ok := ctx.Locals(LocalUserID).(string); ok {
		viewer.UserID = v
	}
	if v, ok := ctx.Locals(LocalName).(string); ok {
		viewer.Name = v
	}
	if roles, ok := ctx.Locals(LocalRoles).([]string); ok {
		viewer.Roles = roles
	}
	if locale, ok := ctx.Locals(LocalLocale).(string); ok && locale != "" {
		viewer.Locale = locale
	} else {
		viewer.Locale = parseAcceptLanguage(ctx.Header("Accept-Language"))
	}
	return viewer
}

// parseAcceptLanguage returns the first language tag, lowercased.
func parseAcceptLanguage(header string) string {
	for token := range strings.SplitSeq(header, ",") {
		token, _, _ = strings.Cut(token, ";")
		if token = strings.TrimSpace(token); token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.Layout == "" {
		routes.Layout = "/dashboard/_layout"
	}
	if routes.Area == "" {
		routes.Area = "/dashboard/areas/:code"
	}
	if routes.Widgets == "" {
		routes.Widgets = "/dashboard/widgets"
	}
	if routes.WidgetID == "" {
		routes.WidgetID = "/dashboard/widgets/:id"
	}
	if routes.Reorder == "" {
		routes.Reorder = "/dashboard/widgets/reorder"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/dashboard/widgets/refresh"
	}
	if routes.Preferences == "" {
		routes.Preferences = "/dashboard/preferences"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/dashboard/ws"
	}
	return routes
}
