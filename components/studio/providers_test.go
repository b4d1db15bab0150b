package studio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-studio/components/charts"
	"github.com/goliatone/go-studio/components/dashboard"
)

func registeredProviders(t *testing.T, sources Sources) *dashboard.Registry {
	t.Helper()
	reg := dashboard.NewRegistry()
	require.NoError(t, RegisterProviders(reg, ProviderDeps{Pages: NewPages(PagesOptions{Sources: sources})}))
	return reg
}

func fetchWidget(t *testing.T, reg *dashboard.Registry, code string, cfg map[string]any, roles ...string) dashboard.WidgetData {
	t.Helper()
	provider, ok := reg.Provider(code)
	require.True(t, ok, code)
	data, err := provider.Fetch(context.Background(), dashboard.WidgetContext{
		Instance: dashboard.WidgetInstance{ID: "w-" + code, DefinitionID: code, Configuration: cfg},
		Viewer:   dashboard.ViewerContext{UserID: "u1", Roles: roles},
	})
	require.NoError(t, err)
	return data
}

func TestRegisterProvidersValidatesDeps(t *testing.T) {
	assert.Error(t, RegisterProviders(nil, ProviderDeps{}))
	assert.Error(t, RegisterProviders(dashboard.NewRegistry(), ProviderDeps{}))
	err := RegisterProviders(dashboard.NewRegistry(), ProviderDeps{Pages: NewPages(PagesOptions{}), Renderer: "canvas"})
	assert.Error(t, err)
}

func TestStatCardsWidget(t *testing.T) {
	reg := registeredProviders(t, Sources{Admin: sampleAdmin()})

	data := fetchWidget(t, reg, dashboard.WidgetStatCards, map[string]any{}, "admin")
	cards := data["cards"].([]map[string]any)
	require.Len(t, cards, 6)
	assert.Equal(t, "Bloggers", cards[0]["label"])
	assert.Equal(t, "2", cards[0]["display"])

	data = fetchWidget(t, reg, dashboard.WidgetStatCards, map[string]any{"cards": []any{"Vocalists", "Missing"}}, "admin")
	cards = data["cards"].([]map[string]any)
	require.Len(t, cards, 1)
	assert.Equal(t, 3, cards[0]["value"])
}

func TestRecentCommentsWidget(t *testing.T) {
	admin := sampleAdmin()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	admin.comments = []Comment{
		{ID: "old", Name: "A", Text: "first", CreatedAt: now.Add(-time.Hour)},
		{ID: "ok", Name: "B", Text: "approved", Approved: true, CreatedAt: now},
		{ID: "new", Name: "C", Text: "latest", CreatedAt: now.Add(time.Minute)},
	}
	reg := registeredProviders(t, Sources{Admin: admin})

	data := fetchWidget(t, reg, dashboard.WidgetRecentComments, map[string]any{"limit": 5}, "admin")
	comments := data["comments"].([]map[string]any)
	require.Len(t, comments, 2)
	assert.Equal(t, "new", comments[0]["id"])
	assert.Equal(t, "Pending", comments[0]["badge"])

	data = fetchWidget(t, reg, dashboard.WidgetRecentComments, map[string]any{"limit": 1, "unapproved_only": false}, "admin")
	comments = data["comments"].([]map[string]any)
	require.Len(t, comments, 1)
	assert.Equal(t, "new", comments[0]["id"])
}

func TestRecentCommentsWidgetSurfacesFetchErrors(t *testing.T) {
	admin := sampleAdmin()
	admin.fail = map[string]error{"comments": errBackend}
	reg := registeredProviders(t, Sources{Admin: admin})
	provider, _ := reg.Provider(dashboard.WidgetRecentComments)
	_, err := provider.Fetch(context.Background(), dashboard.WidgetContext{})
	assert.ErrorIs(t, err, errBackend)
}

func TestRecordingTrackerWidgetScopesByRole(t *testing.T) {
	vocalist := &fakeVocalist{requests: []RecordingRequest{
		{ID: "mine", Title: "My session", Status: RecordingScheduled},
	}}
	reg := registeredProviders(t, Sources{Admin: sampleAdmin(), Vocalist: vocalist})

	data := fetchWidget(t, reg, dashboard.WidgetRecordingTracker, nil, "admin")
	requests := data["requests"].([]map[string]any)
	require.Len(t, requests, 1)
	assert.Equal(t, "r1", requests[0]["id"])

	data = fetchWidget(t, reg, dashboard.WidgetRecordingTracker, nil, "vocalist")
	requests = data["requests"].([]map[string]any)
	require.Len(t, requests, 1)
	assert.Equal(t, "mine", requests[0]["id"])
	steps := requests[0]["steps"].([]map[string]any)
	assert.Equal(t, "current", steps[2]["state"])

	data = fetchWidget(t, reg, dashboard.WidgetRecordingTracker, map[string]any{"status": "completed"}, "vocalist")
	assert.Empty(t, data["requests"])
}

func TestContentStatusWidget(t *testing.T) {
	blogger := &fakeAuthor{role: RoleBlogger, content: []ContentItem{
		{ID: "a", Status: ContentDraft},
		{ID: "b", Status: ContentDraft},
		{ID: "c", Status: ContentPublished},
	}}
	reg := registeredProviders(t, Sources{Admin: sampleAdmin(), Blogger: blogger})

	data := fetchWidget(t, reg, dashboard.WidgetContentStatus, map[string]any{"scope": "all"}, "admin")
	assert.Equal(t, "donut", data["chart_type"])
	assert.Equal(t, 2.0, data["total"])

	data = fetchWidget(t, reg, dashboard.WidgetContentStatus, map[string]any{"scope": "mine", "title": "Mine"}, "blogger")
	assert.Equal(t, "Mine", data["title"])
	assert.Equal(t, 3.0, data["total"])
	assert.Contains(t, data["chart_html"], "<svg")
}

func TestActivityChartWidget(t *testing.T) {
	admin := sampleAdmin()
	admin.report = AnalyticsReport{
		Points: []charts.Datum{{Label: "Mon", Value: 4}, {Label: "Tue", Value: 10}},
		Total:  1400,
	}
	reg := registeredProviders(t, Sources{Admin: admin})

	data := fetchWidget(t, reg, dashboard.WidgetActivityChart, map[string]any{"metric": "views", "range": "7d"}, "admin")
	assert.Equal(t, "area", data["chart_type"])
	assert.Equal(t, "views", data["metric"])
	assert.Equal(t, "Total views: 1,400", data["footer_note"])
	assert.Equal(t, 10.0, data["max"])
}

func TestStatusBreakdownFollowsWorkflowOrder(t *testing.T) {
	got := StatusBreakdown([]ContentItem{
		{Status: ContentPublished}, {Status: ContentDraft}, {Status: ContentPublished},
	})
	require.Len(t, got, 2)
	assert.Equal(t, charts.Datum{Label: "Draft", Value: 1, Color: "#94a3b8"}, got[0])
	assert.Equal(t, "Published", got[1].Label)
	assert.Equal(t, 2.0, got[1].Value)
}
