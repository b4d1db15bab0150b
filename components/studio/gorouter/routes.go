package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-studio/components/dashboard"
	dashrouter "github.com/goliatone/go-studio/components/dashboard/gorouter"
	"github.com/goliatone/go-studio/components/studio"
	"github.com/goliatone/go-studio/components/studio/commands"
	"github.com/goliatone/go-studio/components/studio/httpapi"
	"github.com/goliatone/go-studio/components/studio/queries"
)

var errForbidden = errors.New("studio: admin role required")

// Registrar is the slice of a go-router group the studio pages mount on.
type Registrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// Options wires the studio pages. Views render through the dashboard
// controller so they share its templates and navigation.
type Options struct {
	Controller *dashboard.Controller
	Pages      gocommand.Querier[queries.PageInput, studio.PageView]
	Overview   gocommand.Querier[struct{}, studio.Overview]
	MyContent  gocommand.Querier[queries.MyContentInput, studio.PageView]

	ApproveComment  gocommand.Commander[commands.ApproveCommentInput]
	DeleteComment   gocommand.Commander[commands.DeleteCommentInput]
	ContentStatus   gocommand.Commander[commands.UpdateContentStatusInput]
	RecordingStatus gocommand.Commander[commands.UpdateRecordingStatusInput]

	ViewerResolver dashrouter.ViewerResolver
	// BasePath is where the group is mounted; used for redirects. Defaults
	// to /studio.
	BasePath string
}

// Mount registers the listing pages, their JSON twins and the moderation
// form endpoints on r.
func Mount(r Registrar, opts Options) error {
	if r == nil {
		return errors.New("gorouter: router is required")
	}
	if opts.Controller == nil || opts.Pages == nil {
		return errors.New("gorouter: controller and page query are required")
	}
	if opts.ViewerResolver == nil {
		opts.ViewerResolver = dashrouter.DefaultViewerResolver
	}
	if opts.BasePath == "" {
		opts.BasePath = "/studio"
	}
	s := &site{opts: opts}

	r.Get("/pages/:slug", router.WrapHandler(s.listingPage))
	r.Get("/api/pages/:slug", router.WrapHandler(s.listingJSON))
	if opts.Overview != nil {
		r.Get("/overview", router.WrapHandler(s.overviewPage))
		r.Get("/api/overview", router.WrapHandler(s.overviewJSON))
	}
	if opts.MyContent != nil {
		r.Get("/me/content", router.WrapHandler(s.myContentPage))
	}
	r.Post("/comments/:id/approve", router.WrapHandler(s.approveComment))
	r.Post("/comments/:id/delete", router.WrapHandler(s.deleteComment))
	r.Post("/blogs/:id/status", router.WrapHandler(s.contentStatus))
	r.Post("/recordings/:id/status", router.WrapHandler(s.recordingStatus))
	return nil
}

type site struct {
	opts Options
}

func (s *site) listingPage(ctx router.Context) error {
	viewer := s.opts.ViewerResolver(ctx)
	if !viewer.HasRole(string(studio.RoleAdmin)) {
		return s.errorPage(ctx, viewer, errForbidden)
	}
	slug := ctx.Param("slug")
	view, err := s.opts.Pages.Query(ctx.Context(), queries.PageInput{Slug: slug, Query: ctx.Query("q")})
	if err != nil {
		return s.errorPage(ctx, viewer, err)
	}
	return s.render(ctx, viewer, slug, "pages/listing.html", map[string]any{
		"title": view.Title,
		"page":  view.Payload(studio.PageActions(slug)),
	})
}

func (s *site) listingJSON(ctx router.Context) error {
	viewer := s.opts.ViewerResolver(ctx)
	if !viewer.HasRole(string(studio.RoleAdmin)) {
		return respondError(ctx, http.StatusForbidden, errForbidden)
	}
	slug := ctx.Param("slug")
	view, err := s.opts.Pages.Query(ctx.Context(), queries.PageInput{Slug: slug, Query: ctx.Query("q")})
	if err != nil {
		return respondError(ctx, statusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, view.Payload(studio.PageActions(slug)))
}

func (s *site) overviewPage(ctx router.Context) error {
	viewer := s.opts.ViewerResolver(ctx)
	if !viewer.HasRole(string(studio.RoleAdmin)) {
		return s.errorPage(ctx, viewer, errForbidden)
	}
	overview, err := s.opts.Overview.Query(ctx.Context(), struct{}{})
	if err != nil {
		return s.errorPage(ctx, viewer, err)
	}
	return s.render(ctx, viewer, "overview", "pages/overview.html", overview.Payload())
}

func (s *site) overviewJSON(ctx router.Context) error {
	viewer := s.opts.ViewerResolver(ctx)
	if !viewer.HasRole(string(studio.RoleAdmin)) {
		return respondError(ctx, http.StatusForbidden, errForbidden)
	}
	overview, err := s.opts.Overview.Query(ctx.Context(), struct{}{})
	if err != nil {
		return respondError(ctx, statusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, overview.Payload())
}

func (s *site) myContentPage(ctx router.Context) error {
	viewer := s.opts.ViewerResolver(ctx)
	actor, err := actorOf(viewer)
	if err != nil || actor.Role == studio.RoleAdmin {
		return s.errorPage(ctx, viewer, fmt.Errorf("%w: no personal listing for this role", studio.ErrNotFound))
	}
	view, err := s.opts.MyContent.Query(ctx.Context(), queries.MyContentInput{Role: actor.Role, Query: ctx.Query("q")})
	if err != nil {
		return s.errorPage(ctx, viewer, err)
	}
	return s.render(ctx, viewer, "my-content", "pages/listing.html", map[string]any{
		"title": view.Title,
		"page":  view.Payload(nil),
	})
}

func (s *site) approveComment(ctx router.Context) error {
	return s.moderate(ctx, studio.PageComments, func(actor studio.Actor, _ url.Values) (studio.Change, error) {
		var comment studio.Comment
		err := run(ctx, s.opts.ApproveComment, commands.ApproveCommentInput{ID: ctx.Param("id"), Actor: actor, Result: &comment})
		return studio.Change{Record: comment}, err
	})
}

func (s *site) deleteComment(ctx router.Context) error {
	return s.moderate(ctx, studio.PageComments, func(actor studio.Actor, _ url.Values) (studio.Change, error) {
		err := run(ctx, s.opts.DeleteComment, commands.DeleteCommentInput{ID: ctx.Param("id"), Actor: actor})
		return studio.Change{RemovedID: ctx.Param("id")}, err
	})
}

func (s *site) contentStatus(ctx router.Context) error {
	return s.moderate(ctx, studio.PageBlogs, func(actor studio.Actor, form url.Values) (studio.Change, error) {
		var item studio.ContentItem
		err := run(ctx, s.opts.ContentStatus, commands.UpdateContentStatusInput{
			ID:     ctx.Param("id"),
			Status: form.Get("value"),
			Actor:  actor,
			Result: &item,
		})
		return studio.Change{Record: item}, err
	})
}

func (s *site) recordingStatus(ctx router.Context) error {
	return s.moderate(ctx, studio.PageRecordings, func(actor studio.Actor, form url.Values) (studio.Change, error) {
		status, err := studio.ParseRecordingStatus(form.Get("value"))
		if err != nil {
			return studio.Change{}, err
		}
		update := studio.RecordingStatusUpdate{Status: status, Notes: form.Get("notes")}
		if raw := form.Get("scheduled_at"); raw != "" {
			at, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return studio.Change{}, fmt.Errorf("%w: scheduled_at must be RFC3339", studio.ErrValidation)
			}
			update.ScheduledAt = &at
		}
		var req studio.RecordingRequest
		err = run(ctx, s.opts.RecordingStatus, commands.UpdateRecordingStatusInput{
			ID:     ctx.Param("id"),
			Update: update,
			Actor:  actor,
			Result: &req,
		})
		return studio.Change{Record: req}, err
	})
}

// moderate runs an admin action. Form posts from the listing page are
// redirected back to it. JSON callers get the result plus the page with the
// change patched into the reloaded rows.
func (s *site) moderate(ctx router.Context, slug string, action func(studio.Actor, url.Values) (studio.Change, error)) error {
	viewer := s.opts.ViewerResolver(ctx)
	if !viewer.HasRole(string(studio.RoleAdmin)) {
		return respondError(ctx, http.StatusForbidden, errForbidden)
	}
	actor, _ := actorOf(viewer)
	form, isJSON, err := parseBody(ctx.Body())
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	change, err := action(actor, form)
	if err != nil {
		return respondError(ctx, statusFor(err), err)
	}
	if isJSON {
		payload := map[string]any{"result": change.Record}
		if change.RemovedID != "" {
			payload["result"] = map[string]string{"id": change.RemovedID, "status": "deleted"}
		}
		view, err := s.opts.Pages.Query(ctx.Context(), queries.PageInput{Slug: slug, Query: form.Get("q"), Change: change})
		if err == nil {
			payload["page"] = view.Payload(studio.PageActions(slug))
		}
		return ctx.JSON(http.StatusOK, payload)
	}
	ctx.SetHeader("Location", s.opts.BasePath+"/pages/"+slug)
	return ctx.JSON(http.StatusSeeOther, map[string]string{"status": "ok"})
}

// parseBody accepts a JSON object of strings or a urlencoded form.
func parseBody(body []byte) (url.Values, bool, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var fields map[string]string
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, true, err
		}
		form := url.Values{}
		for k, v := range fields {
			form.Set(k, v)
		}
		return form, true, nil
	}
	form, err := url.ParseQuery(string(trimmed))
	return form, false, err
}

func (s *site) render(ctx router.Context, viewer dashboard.ViewerContext, active, name string, data map[string]any) error {
	data["viewer"] = viewer
	data["role"] = primaryRole(viewer)
	data["menu"] = s.opts.Controller.MenuFor(viewer, active)
	var buf bytes.Buffer
	if err := s.opts.Controller.RenderView(name, data, &buf); err != nil {
		return respondError(ctx, http.StatusInternalServerError, err)
	}
	ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
	return ctx.Send(buf.Bytes())
}

// errorPage renders pages/error.html; the status is carried in the page.
func (s *site) errorPage(ctx router.Context, viewer dashboard.ViewerContext, err error) error {
	status := statusFor(err)
	return s.render(ctx, viewer, "", "pages/error.html", map[string]any{
		"title":   http.StatusText(status),
		"status":  status,
		"message": err.Error(),
	})
}

func statusFor(err error) int {
	if errors.Is(err, errForbidden) {
		return http.StatusForbidden
	}
	return httpapi.StatusFor(err)
}

func actorOf(viewer dashboard.ViewerContext) (studio.Actor, error) {
	role, err := studio.ParseRole(primaryRole(viewer))
	if err != nil {
		return studio.Actor{ID: viewer.UserID}, err
	}
	return studio.Actor{ID: viewer.UserID, Role: role}, nil
}

func primaryRole(viewer dashboard.ViewerContext) string {
	if len(viewer.Roles) == 0 {
		return ""
	}
	return strings.ToLower(viewer.Roles[0])
}

func run[T any](ctx router.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errors.New("studio: action not configured")
	}
	return cmd.Execute(ctx.Context(), msg)
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}
