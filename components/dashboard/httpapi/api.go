package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-studio/components/dashboard"
	"github.com/goliatone/go-studio/components/dashboard/commands"
)

// Executor is the transport-neutral surface the routers call into.
type Executor interface {
	Assign(ctx context.Context, req dashboard.AddWidgetRequest) error
	Update(ctx context.Context, input commands.UpdateWidgetInput) error
	Remove(ctx context.Context, input commands.RemoveWidgetInput) error
	Reorder(ctx context.Context, input commands.ReorderWidgetsInput) error
	Refresh(ctx context.Context, input commands.RefreshWidgetInput) error
	Preferences(ctx context.Context, input commands.SaveLayoutPreferencesInput) error
}

// CommandExecutor adapts go-command commanders to Executor. Unset commanders
// fail with errCommandNotConfigured.
type CommandExecutor struct {
	AssignCommander      gocommand.Commander[dashboard.AddWidgetRequest]
	UpdateCommander      gocommand.Commander[commands.UpdateWidgetInput]
	RemoveCommander      gocommand.Commander[commands.RemoveWidgetInput]
	ReorderCommander     gocommand.Commander[commands.ReorderWidgetsInput]
	RefreshCommander     gocommand.Commander[commands.RefreshWidgetInput]
	PreferencesCommander gocommand.Commander[commands.SaveLayoutPreferencesInput]
}

var errCommandNotConfigured = errors.New("httpapi: command not configured")

// NewCommandExecutor wires every dashboard command around service.
func NewCommandExecutor(service *dashboard.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		AssignCommander:      commands.NewAssignWidgetCommand(service, telemetry),
		UpdateCommander:      commands.NewUpdateWidgetCommand(service, telemetry),
		RemoveCommander:      commands.NewRemoveWidgetCommand(service, telemetry),
		ReorderCommander:     commands.NewReorderWidgetsCommand(service, telemetry),
		RefreshCommander:     commands.NewRefreshWidgetCommand(service, telemetry),
		PreferencesCommander: commands.NewSaveLayoutPreferencesCommand(service, telemetry),
	}
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Assign(ctx context.Context, req dashboard.AddWidgetRequest) error {
	return run(ctx, e.AssignCommander, req)
}

func (e *CommandExecutor) Update(ctx context.Context, input commands.UpdateWidgetInput) error {
	return run(ctx, e.UpdateCommander, input)
}

func (e *CommandExecutor) Remove(ctx context.Context, input commands.RemoveWidgetInput) error {
	return run(ctx, e.RemoveCommander, input)
}

func (e *CommandExecutor) Reorder(ctx context.Context, input commands.ReorderWidgetsInput) error {
	return run(ctx, e.ReorderCommander, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshWidgetInput) error {
	return run(ctx, e.RefreshCommander, input)
}

func (e *CommandExecutor) Preferences(ctx context.Context, input commands.SaveLayoutPreferencesInput) error {
	return run(ctx, e.PreferencesCommander, input)
}

func run[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errCommandNotConfigured
	}
	return cmd.Execute(ctx, msg)
}

// ViewerFunc resolves the viewer of a plain net/http request.
type ViewerFunc func(*http.Request) dashboard.ViewerContext

// Handlers exposes the Executor over net/http for servers that do not use
// go-router.
type Handlers struct {
	API    Executor
	Viewer ViewerFunc
	// Editors are the roles allowed to change the shared layout. Preferences
	// and refresh requests stay open to every viewer.
	Editors []string
}

// Register mounts the widget API on mux, relative to the dashboard root.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /dashboard/widgets", h.HandleAssignWidget)
	mux.HandleFunc("POST /dashboard/widgets/reorder", h.HandleReorderWidgets)
	mux.HandleFunc("POST /dashboard/widgets/refresh", h.HandleRefreshWidget)
	mux.HandleFunc("PUT /dashboard/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleUpdateWidget(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("DELETE /dashboard/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleRemoveWidget(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST /dashboard/preferences", h.HandleSavePreferences)
}

func (h *Handlers) HandleAssignWidget(w http.ResponseWriter, r *http.Request) {
	if !h.editor(w, r) {
		return
	}
	var payload dashboard.AddWidgetRequest
	if !decode(w, r, &payload) {
		return
	}
	payload.ActorID = h.viewer(r).UserID
	payload.UserID = payload.ActorID
	if err := h.API.Assign(r.Context(), payload); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// HandleUpdateWidget replaces the configuration of widgetID with the
// request body's configuration and metadata.
func (h *Handlers) HandleUpdateWidget(w http.ResponseWriter, r *http.Request, widgetID string) {
	if !h.editor(w, r) {
		return
	}
	if widgetID == "" {
		writeError(w, http.StatusBadRequest, errors.New("widget id is required"))
		return
	}
	var payload commands.UpdateWidgetInput
	if !decode(w, r, &payload) {
		return
	}
	payload.WidgetID = widgetID
	payload.ActorID = h.viewer(r).UserID
	if err := h.API.Update(r.Context(), payload); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request, widgetID string) {
	if !h.editor(w, r) {
		return
	}
	if widgetID == "" {
		writeError(w, http.StatusBadRequest, errors.New("widget id is required"))
		return
	}
	input := commands.RemoveWidgetInput{WidgetID: widgetID, ActorID: h.viewer(r).UserID}
	if err := h.API.Remove(r.Context(), input); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleReorderWidgets(w http.ResponseWriter, r *http.Request) {
	if !h.editor(w, r) {
		return
	}
	var payload commands.ReorderWidgetsInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ActorID = h.viewer(r).UserID
	if err := h.API.Reorder(r.Context(), payload); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}

func (h *Handlers) HandleRefreshWidget(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshWidgetInput
	if !decode(w, r, &payload) {
		return
	}
	if err := h.API.Refresh(r.Context(), payload); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (h *Handlers) HandleSavePreferences(w http.ResponseWriter, r *http.Request) {
	var payload commands.SaveLayoutPreferencesInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Viewer = h.viewer(r)
	if err := h.API.Preferences(r.Context(), payload); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Handlers) editor(w http.ResponseWriter, r *http.Request) bool {
	if h.viewer(r).CanEdit(h.Editors) {
		return true
	}
	writeError(w, http.StatusForbidden, dashboard.ErrLayoutForbidden)
	return false
}

func (h *Handlers) viewer(r *http.Request) dashboard.ViewerContext {
	if h.Viewer == nil {
		return dashboard.ViewerContext{}
	}
	return h.Viewer(r)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

// StatusFor maps dashboard errors onto HTTP status codes.
func StatusFor(err error) int {
	return statusFor(err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrWidgetNotFound), errors.Is(err, dashboard.ErrAreaNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrLayoutForbidden):
		return http.StatusForbidden
	case errors.Is(err, dashboard.ErrInvalidConfiguration):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errCommandNotConfigured):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
