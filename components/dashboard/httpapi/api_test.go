package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-studio/components/dashboard"
	"github.com/goliatone/go-studio/components/dashboard/commands"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(_ context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	buf, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(buf)
}

func adminViewer(*http.Request) dashboard.ViewerContext {
	return dashboard.ViewerContext{UserID: "admin-1", Roles: []string{"admin"}}
}

func TestHandleAssignWidget(t *testing.T) {
	assign := &stubCommander[dashboard.AddWidgetRequest]{}
	api := &Handlers{API: &CommandExecutor{AssignCommander: assign}, Viewer: adminViewer}
	payload := dashboard.AddWidgetRequest{DefinitionID: dashboard.WidgetStatCards, AreaCode: dashboard.AreaMain}
	req := httptest.NewRequest(http.MethodPost, "/widgets", jsonBody(t, payload))
	rec := httptest.NewRecorder()

	api.HandleAssignWidget(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, assign.calls)
	assert.Equal(t, "admin-1", assign.last.ActorID)
}

func TestHandleAssignWidgetRejectsBadJSON(t *testing.T) {
	api := &Handlers{API: &CommandExecutor{}}
	req := httptest.NewRequest(http.MethodPost, "/widgets", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	api.HandleAssignWidget(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRemoveWidget(t *testing.T) {
	remove := &stubCommander[commands.RemoveWidgetInput]{}
	api := &Handlers{API: &CommandExecutor{RemoveCommander: remove}, Viewer: adminViewer}
	rec := httptest.NewRecorder()
	api.HandleRemoveWidget(rec, httptest.NewRequest(http.MethodDelete, "/widgets/w1", nil), "w1")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "w1", remove.last.WidgetID)
	assert.Equal(t, "admin-1", remove.last.ActorID)

	rec = httptest.NewRecorder()
	api.HandleRemoveWidget(rec, httptest.NewRequest(http.MethodDelete, "/widgets/", nil), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRemoveWidgetNotFound(t *testing.T) {
	remove := &stubCommander[commands.RemoveWidgetInput]{err: fmt.Errorf("dashboard: delete w9: %w", dashboard.ErrWidgetNotFound)}
	api := &Handlers{API: &CommandExecutor{RemoveCommander: remove}}
	rec := httptest.NewRecorder()
	api.HandleRemoveWidget(rec, httptest.NewRequest(http.MethodDelete, "/widgets/w9", nil), "w9")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "widget instance not found")
}

func TestHandleUpdateWidget(t *testing.T) {
	update := &stubCommander[commands.UpdateWidgetInput]{}
	api := &Handlers{API: &CommandExecutor{UpdateCommander: update}, Viewer: adminViewer}
	payload := map[string]any{"configuration": map[string]any{"kind": "area"}, "widget_id": "other"}
	rec := httptest.NewRecorder()
	api.HandleUpdateWidget(rec, httptest.NewRequest(http.MethodPut, "/widgets/w4", jsonBody(t, payload)), "w4")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "w4", update.last.WidgetID)
	assert.Equal(t, "admin-1", update.last.ActorID)
	assert.Equal(t, map[string]any{"kind": "area"}, update.last.Configuration)

	update.err = fmt.Errorf("dashboard: %w", dashboard.ErrInvalidConfiguration)
	rec = httptest.NewRecorder()
	api.HandleUpdateWidget(rec, httptest.NewRequest(http.MethodPut, "/widgets/w4", jsonBody(t, payload)), "w4")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleReorderWidgets(t *testing.T) {
	reorder := &stubCommander[commands.ReorderWidgetsInput]{}
	api := &Handlers{API: &CommandExecutor{ReorderCommander: reorder}}
	payload := commands.ReorderWidgetsInput{AreaCode: dashboard.AreaMain, WidgetIDs: []string{"w1", "w2"}}
	rec := httptest.NewRecorder()
	api.HandleReorderWidgets(rec, httptest.NewRequest(http.MethodPost, "/widgets/reorder", jsonBody(t, payload)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"w1", "w2"}, reorder.last.WidgetIDs)
}

func TestHandleRefreshWidget(t *testing.T) {
	refresh := &stubCommander[commands.RefreshWidgetInput]{}
	api := &Handlers{API: &CommandExecutor{RefreshCommander: refresh}}
	payload := commands.RefreshWidgetInput{Event: dashboard.WidgetEvent{AreaCode: dashboard.AreaMain}}
	rec := httptest.NewRecorder()
	api.HandleRefreshWidget(rec, httptest.NewRequest(http.MethodPost, "/widgets/refresh", jsonBody(t, payload)))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, dashboard.AreaMain, refresh.last.Event.AreaCode)
}

func TestHandleSavePreferencesUsesResolvedViewer(t *testing.T) {
	prefs := &stubCommander[commands.SaveLayoutPreferencesInput]{}
	api := &Handlers{API: &CommandExecutor{PreferencesCommander: prefs}, Viewer: adminViewer}
	payload := map[string]any{
		"viewer":            map[string]any{"user_id": "spoofed"},
		"hidden_widget_ids": []string{"w3"},
	}
	rec := httptest.NewRecorder()
	api.HandleSavePreferences(rec, httptest.NewRequest(http.MethodPost, "/preferences", jsonBody(t, payload)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin-1", prefs.last.Viewer.UserID)
	assert.Equal(t, []string{"w3"}, prefs.last.HiddenWidgets)
}

func TestCommandExecutorUnconfigured(t *testing.T) {
	exec := &CommandExecutor{}
	err := exec.Refresh(context.Background(), commands.RefreshWidgetInput{})
	require.ErrorIs(t, err, errCommandNotConfigured)
	assert.Equal(t, http.StatusNotImplemented, StatusFor(err))
}

func TestNewCommandExecutorRunsService(t *testing.T) {
	store := dashboard.NewInMemoryWidgetStore()
	service := dashboard.NewService(dashboard.Options{WidgetStore: store})
	require.NoError(t, dashboard.RegisterAreas(context.Background(), store))
	require.NoError(t, dashboard.RegisterDefinitions(context.Background(), store, service.Registry()))

	exec := NewCommandExecutor(service, nil)
	err := exec.Assign(context.Background(), dashboard.AddWidgetRequest{
		DefinitionID:  dashboard.WidgetQuickActions,
		AreaCode:      dashboard.AreaMain,
		Configuration: map[string]any{"limit": 2},
	})
	require.NoError(t, err)

	area, err := service.ResolveArea(context.Background(), dashboard.ViewerContext{UserID: "a", Roles: []string{"admin"}}, dashboard.AreaMain)
	require.NoError(t, err)
	require.Len(t, area.Widgets, 1)

	err = exec.Update(context.Background(), commands.UpdateWidgetInput{
		WidgetID:      area.Widgets[0].ID,
		Configuration: map[string]any{"limit": 4},
		ActorID:       "admin-1",
	})
	require.NoError(t, err)

	err = exec.Remove(context.Background(), commands.RemoveWidgetInput{WidgetID: "missing"})
	assert.Equal(t, http.StatusNotFound, StatusFor(err))
}

func TestRegisterRoutesWidgetAPI(t *testing.T) {
	update := &stubCommander[commands.UpdateWidgetInput]{}
	remove := &stubCommander[commands.RemoveWidgetInput]{}
	reorder := &stubCommander[commands.ReorderWidgetsInput]{}
	api := &Handlers{
		API:    &CommandExecutor{UpdateCommander: update, RemoveCommander: remove, ReorderCommander: reorder},
		Viewer: adminViewer,
	}
	mux := http.NewServeMux()
	api.Register(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/dashboard/widgets/w2", jsonBody(t, map[string]any{"configuration": map[string]any{}})))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "w2", update.last.WidgetID)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/dashboard/widgets/w5", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "w5", remove.last.WidgetID)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboard/widgets/reorder", jsonBody(t, commands.ReorderWidgetsInput{AreaCode: dashboard.AreaMain})))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, reorder.calls)
	assert.Equal(t, "admin-1", reorder.last.ActorID)
}

func TestHandlersRejectNonEditors(t *testing.T) {
	remove := &stubCommander[commands.RemoveWidgetInput]{}
	writer := func(*http.Request) dashboard.ViewerContext {
		return dashboard.ViewerContext{UserID: "writer-1", Roles: []string{"writer"}}
	}
	api := &Handlers{API: &CommandExecutor{RemoveCommander: remove}, Viewer: writer, Editors: []string{"admin"}}
	rec := httptest.NewRecorder()
	api.HandleRemoveWidget(rec, httptest.NewRequest(http.MethodDelete, "/widgets/w1", nil), "w1")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "editor role")
	assert.Zero(t, remove.calls)
	assert.Equal(t, http.StatusForbidden, StatusFor(dashboard.ErrLayoutForbidden))
}
