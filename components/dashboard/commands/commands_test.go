package commands

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-studio/components/dashboard"
)

func TestSeedDashboardCommand(t *testing.T) {
	store := dashboard.NewInMemoryWidgetStore()
	service := dashboard.NewService(dashboard.Options{WidgetStore: store})
	telemetry := &stubTelemetry{}
	cmd := NewSeedDashboardCommand(service, telemetry)

	input := SeedDashboardInput{
		SeedLayout: true,
		Extra: []dashboard.AddWidgetRequest{{
			DefinitionID: dashboard.WidgetQuickActions,
			AreaCode:     dashboard.AreaFooter,
		}},
	}
	require.NoError(t, cmd.Execute(context.Background(), input))

	footer, err := store.ResolveArea(context.Background(), dashboard.ResolveAreaInput{AreaCode: dashboard.AreaFooter})
	require.NoError(t, err)
	assert.NotEmpty(t, footer.Widgets)
	require.Len(t, telemetry.events, 1)
	assert.Equal(t, "dashboard.command.seed", telemetry.events[0])
	assert.Equal(t, len(dashboard.DefaultSeedWidgets())+1, telemetry.payloads[0]["placed"])

	// A populated layout is left alone on the next start.
	require.NoError(t, cmd.Execute(context.Background(), input))
	assert.Equal(t, 0, telemetry.payloads[1]["placed"])
}

func TestSeedDashboardCommandCatalogOnly(t *testing.T) {
	store := dashboard.NewInMemoryWidgetStore()
	service := dashboard.NewService(dashboard.Options{WidgetStore: store})
	require.NoError(t, NewSeedDashboardCommand(service, nil).Execute(context.Background(), SeedDashboardInput{}))

	main, err := store.ResolveArea(context.Background(), dashboard.ResolveAreaInput{AreaCode: dashboard.AreaMain})
	require.NoError(t, err)
	assert.Empty(t, main.Widgets)
}

func TestSeedDashboardCommandRequiresService(t *testing.T) {
	cmd := NewSeedDashboardCommand(nil, nil)
	assert.Error(t, cmd.Execute(context.Background(), SeedDashboardInput{}))
}

func TestAssignWidgetCommand(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	cmd := NewAssignWidgetCommand(service, telemetry)
	req := dashboard.AddWidgetRequest{DefinitionID: dashboard.WidgetStatCards, AreaCode: dashboard.AreaMain}
	require.NoError(t, cmd.Execute(context.Background(), req))
	assert.Equal(t, 1, service.addCalls)
	assert.Equal(t, []string{"dashboard.command.assign"}, telemetry.events)

	assert.Error(t, cmd.Execute(context.Background(), dashboard.AddWidgetRequest{AreaCode: dashboard.AreaMain}))
	assert.Error(t, NewAssignWidgetCommand(nil, nil).Execute(context.Background(), req))
}

func TestAssignWidgetCommandPropagatesErrors(t *testing.T) {
	service := &stubService{err: errors.New("boom")}
	telemetry := &stubTelemetry{}
	cmd := NewAssignWidgetCommand(service, telemetry)
	err := cmd.Execute(context.Background(), dashboard.AddWidgetRequest{DefinitionID: "x", AreaCode: "y"})
	require.EqualError(t, err, "boom")
	assert.Empty(t, telemetry.events)
}

func TestRemoveWidgetCommandCarriesActor(t *testing.T) {
	service := &stubService{}
	cmd := NewRemoveWidgetCommand(service, nil)
	require.NoError(t, cmd.Execute(context.Background(), RemoveWidgetInput{WidgetID: "widget-1", ActorID: "admin-1"}))
	assert.Equal(t, 1, service.removeCalls)
	assert.Equal(t, "widget-1", service.lastID)

	assert.Error(t, cmd.Execute(context.Background(), RemoveWidgetInput{}))
}

func TestReorderWidgetsCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewReorderWidgetsCommand(service, nil)
	require.NoError(t, cmd.Execute(context.Background(), ReorderWidgetsInput{
		AreaCode:  dashboard.AreaMain,
		WidgetIDs: []string{"w1", "w2"},
	}))
	assert.Equal(t, 1, service.reorderCalls)
}

func TestRefreshWidgetCommandDefaultsReason(t *testing.T) {
	service := &stubService{}
	cmd := NewRefreshWidgetCommand(service, nil)
	require.NoError(t, cmd.Execute(context.Background(), RefreshWidgetInput{Event: dashboard.WidgetEvent{AreaCode: dashboard.AreaMain}}))
	assert.Equal(t, 1, service.refreshCalls)
	assert.Equal(t, "refresh", service.lastEvent.Reason)
}

func TestUpdateWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewUpdateWidgetCommand(service, nil)
	require.NoError(t, cmd.Execute(context.Background(), UpdateWidgetInput{
		WidgetID:      "w1",
		Configuration: map[string]any{"limit": 3},
	}))
	assert.Equal(t, map[string]any{"limit": 3}, service.lastUpdate.Configuration)
	assert.Equal(t, "w1", service.lastID)
	assert.Error(t, cmd.Execute(context.Background(), UpdateWidgetInput{}))
}

func TestSaveLayoutPreferencesCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewSaveLayoutPreferencesCommand(service, nil)
	err := cmd.Execute(context.Background(), SaveLayoutPreferencesInput{
		Viewer:        dashboard.ViewerContext{UserID: "writer-1"},
		AreaOrder:     map[string][]string{dashboard.AreaMain: {"w2", "w1"}},
		HiddenWidgets: []string{"w3"},
	})
	require.NoError(t, err)
	assert.True(t, service.lastOverrides.HiddenWidgets["w3"])
	assert.Equal(t, []string{"w2", "w1"}, service.lastOverrides.AreaOrder[dashboard.AreaMain])

	assert.Error(t, cmd.Execute(context.Background(), SaveLayoutPreferencesInput{}))
}

type stubService struct {
	err           error
	addCalls      int
	removeCalls   int
	reorderCalls  int
	refreshCalls  int
	lastID        string
	lastEvent     dashboard.WidgetEvent
	lastUpdate    dashboard.UpdateWidgetRequest
	lastOverrides dashboard.LayoutOverrides
}

func (s *stubService) AddWidget(context.Context, dashboard.AddWidgetRequest) error {
	s.addCalls++
	return s.err
}

func (s *stubService) UpdateWidget(_ context.Context, id string, req dashboard.UpdateWidgetRequest) error {
	s.lastID = id
	s.lastUpdate = req
	return s.err
}

func (s *stubService) RemoveWidget(_ context.Context, id string) error {
	s.removeCalls++
	s.lastID = id
	return s.err
}

func (s *stubService) ReorderWidgets(context.Context, string, []string) error {
	s.reorderCalls++
	return s.err
}

func (s *stubService) NotifyWidgetUpdated(_ context.Context, event dashboard.WidgetEvent) error {
	s.refreshCalls++
	s.lastEvent = event
	return s.err
}

func (s *stubService) SavePreferences(_ context.Context, _ dashboard.ViewerContext, overrides dashboard.LayoutOverrides) error {
	s.lastOverrides = overrides
	return s.err
}

type stubTelemetry struct {
	mu       sync.Mutex
	events   []string
	payloads []map[string]any
}

func (s *stubTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	s.payloads = append(s.payloads, payload)
}
