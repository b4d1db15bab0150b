package studio

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/goliatone/go-studio/components/charts"
	"github.com/goliatone/go-studio/components/dashboard"
)

// ProviderDeps feeds the data-bound dashboard widgets.
type ProviderDeps struct {
	Pages *Pages
	// Renderer picks the chart backend ("svg" or "echarts").
	Renderer string
	Cache    dashboard.RenderCache
	Logger   *zap.Logger
}

// RegisterProviders binds the studio widgets to reg. Chart widgets drawn
// from configuration are registered by the dashboard package itself.
func RegisterProviders(reg dashboard.ProviderRegistry, deps ProviderDeps) error {
	if reg == nil {
		return errors.New("studio: provider registry required")
	}
	if deps.Pages == nil {
		return errors.New("studio: pages required for widget providers")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	donut, err := dashboard.NewChartRenderer(deps.Renderer, charts.KindDonut, deps.Cache)
	if err != nil {
		return err
	}
	series, err := dashboard.NewChartRenderer(deps.Renderer, charts.KindArea, deps.Cache)
	if err != nil {
		return err
	}
	w := &widgetProviders{pages: deps.Pages, donut: donut, series: series, log: deps.Logger.Named("widgets")}
	providers := map[string]dashboard.Provider{
		dashboard.WidgetStatCards:        dashboard.ProviderFunc(w.statCards),
		dashboard.WidgetRecentComments:   dashboard.ProviderFunc(w.recentComments),
		dashboard.WidgetRecordingTracker: dashboard.ProviderFunc(w.recordingTracker),
		dashboard.WidgetContentStatus:    dashboard.ProviderFunc(w.contentStatus),
		dashboard.WidgetActivityChart:    dashboard.ProviderFunc(w.activityChart),
	}
	for code, provider := range providers {
		if err := reg.RegisterProvider(code, provider); err != nil {
			return fmt.Errorf("studio: register %s: %w", code, err)
		}
	}
	return nil
}

type widgetProviders struct {
	pages  *Pages
	donut  dashboard.ChartRenderer
	series dashboard.ChartRenderer
	log    *zap.Logger
}

func (w *widgetProviders) statCards(ctx context.Context, meta dashboard.WidgetContext) (dashboard.WidgetData, error) {
	overview := w.pages.Overview(ctx)
	cards := overview.Cards
	if wanted := stringList(meta.Instance.Configuration["cards"]); len(wanted) > 0 {
		cards = make([]StatCard, 0, len(wanted))
		for _, label := range wanted {
			if card, ok := overview.Card(label); ok {
				cards = append(cards, card)
			}
		}
	}
	return dashboard.WidgetData{"cards": CardsPayload(cards)}, nil
}

func (w *widgetProviders) recentComments(ctx context.Context, meta dashboard.WidgetContext) (dashboard.WidgetData, error) {
	cfg := meta.Instance.Configuration
	limit := dashboard.IntValue(cfg["limit"], 5)
	unapprovedOnly := true
	if v, ok := cfg["unapproved_only"]; ok {
		unapprovedOnly = dashboard.BoolValue(v)
	}

	listing := w.pages.Comments()
	if err := listing.Load(ctx); err != nil {
		return nil, err
	}
	comments := listing.Items()
	if unapprovedOnly {
		comments = slices.DeleteFunc(comments, func(c Comment) bool { return c.Approved })
	}
	slices.SortStableFunc(comments, func(a, b Comment) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if len(comments) > limit {
		comments = comments[:limit]
	}

	out := make([]map[string]any, len(comments))
	for i, c := range comments {
		badge := CommentBadge(c)
		out[i] = map[string]any{
			"id":          c.ID,
			"name":        c.Name,
			"text":        c.Text,
			"created":     formatDate(c.CreatedAt),
			"approved":    c.Approved,
			"badge":       badge.Label,
			"badge_class": badge.Class,
		}
	}
	return dashboard.WidgetData{"comments": out}, nil
}

// recordingTracker shows the viewer's own requests to vocalists and the
// whole queue to admins.
func (w *widgetProviders) recordingTracker(ctx context.Context, meta dashboard.WidgetContext) (dashboard.WidgetData, error) {
	cfg := meta.Instance.Configuration
	limit := dashboard.IntValue(cfg["limit"], 5)
	var status RecordingStatus
	if raw := dashboard.StringValue(cfg["status"], ""); raw != "" {
		parsed, err := ParseRecordingStatus(raw)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	listing := w.pages.Recordings(status)
	if !meta.Viewer.HasRole(string(RoleAdmin)) {
		listing = w.pages.MyRecordings()
	}
	if err := listing.Load(ctx); err != nil {
		return nil, err
	}
	requests := listing.Items()
	if status != "" {
		requests = slices.DeleteFunc(requests, func(r RecordingRequest) bool { return r.Status != status })
	}
	slices.SortStableFunc(requests, func(a, b RecordingRequest) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if len(requests) > limit {
		requests = requests[:limit]
	}

	out := make([]map[string]any, len(requests))
	for i, r := range requests {
		out[i] = map[string]any{
			"id":       r.ID,
			"title":    r.Title,
			"vocalist": r.VocalistName,
			"status":   string(r.Status),
			"steps":    RecordingTracker(r.Status).Payload(),
		}
	}
	return dashboard.WidgetData{"requests": out}, nil
}

// contentStatus counts blogs and posts per status. scope=mine restricts it
// to the viewer's own submissions.
func (w *widgetProviders) contentStatus(ctx context.Context, meta dashboard.WidgetContext) (dashboard.WidgetData, error) {
	cfg := meta.Instance.Configuration
	listing := w.pages.Blogs("")
	if dashboard.StringValue(cfg["scope"], "all") == "mine" {
		role, err := ParseRole(primaryRole(meta.Viewer))
		if err != nil {
			return nil, err
		}
		listing = w.pages.MyContent(role)
	}
	if err := listing.Load(ctx); err != nil {
		return nil, err
	}
	return w.donut.Render(ctx, meta, dashboard.ChartConfig{
		Title:     dashboard.StringValue(cfg["title"], "Content by status"),
		Kind:      charts.KindDonut,
		Data:      StatusBreakdown(listing.Items()),
		EmptyText: "Nothing submitted yet",
	})
}

func (w *widgetProviders) activityChart(ctx context.Context, meta dashboard.WidgetContext) (dashboard.WidgetData, error) {
	cfg := meta.Instance.Configuration
	admin := w.pages.Sources().Admin
	if admin == nil {
		return nil, errNoAdminSource
	}
	query := AnalyticsQuery{
		Metric: dashboard.StringValue(cfg["metric"], "views"),
		Range:  dashboard.StringValue(cfg["range"], "7d"),
	}
	report, err := admin.Analytics(ctx, query)
	if err != nil {
		w.log.Warn("analytics fetch failed", zap.String("metric", query.Metric), zap.Error(err))
		return nil, err
	}
	kind := charts.KindArea
	if raw := dashboard.StringValue(cfg["kind"], ""); raw != "" {
		if kind, err = charts.ParseKind(raw); err != nil {
			return nil, err
		}
	}
	data, err := w.series.Render(ctx, meta, dashboard.ChartConfig{
		Title:      dashboard.StringValue(cfg["title"], "Activity"),
		Subtitle:   query.Range,
		Kind:       kind,
		Data:       report.Points,
		EmptyText:  "No activity yet",
		FooterNote: fmt.Sprintf("Total %s: %s", query.Metric, formatTotal(report.Total)),
	})
	if err != nil {
		return nil, err
	}
	data["metric"] = query.Metric
	return data, nil
}

// StatusBreakdown counts items per status in workflow order, skipping empty
// statuses.
func StatusBreakdown(items []ContentItem) []charts.Datum {
	counts := make(map[ContentStatus]int, len(contentStatuses))
	for _, item := range items {
		counts[item.Status]++
	}
	out := make([]charts.Datum, 0, len(counts))
	for _, status := range contentStatuses {
		n := counts[status]
		if n == 0 {
			continue
		}
		out = append(out, charts.Datum{Label: status.Badge().Label, Value: float64(n), Color: toneColor(status.Badge().Tone)})
	}
	return out
}

var toneColors = map[Tone]string{
	ToneNeutral: "#94a3b8",
	ToneInfo:    "#3b82f6",
	ToneWarning: "#f59e0b",
	ToneSuccess: "#10b981",
	ToneDanger:  "#ef4444",
}

func toneColor(t Tone) string {
	return cmp.Or(toneColors[t], toneColors[ToneNeutral])
}

func formatTotal(v float64) string {
	if v == float64(int64(v)) {
		return StatCard{Value: int(v)}.Display()
	}
	return fmt.Sprintf("%.1f", v)
}

func primaryRole(viewer dashboard.ViewerContext) string {
	if len(viewer.Roles) == 0 {
		return ""
	}
	return viewer.Roles[0]
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
