package dashboard

import (
	"maps"
	"slices"

	"github.com/go-echarts/go-echarts/v2/types"
)

// Studio dashboard areas.
const (
	AreaMain    = "studio.dashboard.main"
	AreaSidebar = "studio.dashboard.sidebar"
	AreaFooter  = "studio.dashboard.footer"
)

// Built-in widget codes. The data-bound ones get their providers from
// components/studio; the chart ones render straight from configuration.
const (
	WidgetStatCards        = "studio.widget.stat_cards"
	WidgetRecentComments   = "studio.widget.recent_comments"
	WidgetRecordingTracker = "studio.widget.recording_tracker"
	WidgetContentStatus    = "studio.widget.content_status"
	WidgetActivityChart    = "studio.widget.activity_chart"
	WidgetAnalyticsChart   = "studio.widget.analytics_chart"
	WidgetPieChart         = "studio.widget.pie_chart"
	WidgetQuickActions     = "studio.widget.quick_actions"
)

var defaultAreas = []string{AreaMain, AreaSidebar, AreaFooter}

var defaultAreaDefinitions = []WidgetAreaDefinition{
	{Code: AreaMain, Name: "Studio Dashboard (Main)", Description: "Primary dashboard canvas"},
	{Code: AreaSidebar, Name: "Studio Dashboard (Sidebar)", Description: "Moderation queues and breakdowns"},
	{Code: AreaFooter, Name: "Studio Dashboard (Footer)", Description: "Trackers and shortcuts"},
}

var chartThemes = []string{
	string(types.ThemeWesteros),
	string(types.ThemeWalden),
	string(types.ThemeWonderland),
	string(types.ThemeChalk),
}

var defaultWidgetDefinitions = []WidgetDefinition{
	{
		Code:        WidgetStatCards,
		Name:        "Overview Stats",
		Description: "Head counts per role and pending moderation queues",
		Category:    "stats",
		Roles:       []string{"admin"},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"cards": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string", "minLength": 1},
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        WidgetRecentComments,
		Name:        "Recent Comments",
		Description: "Latest reader comments awaiting moderation",
		Category:    "moderation",
		Roles:       []string{"admin"},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit":           map[string]any{"type": "integer", "minimum": 1, "maximum": 50, "default": 5},
				"unapproved_only": map[string]any{"type": "boolean", "default": true},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        WidgetRecordingTracker,
		Name:        "Recording Tracker",
		Description: "Progress of recording requests through the studio workflow",
		Category:    "recordings",
		Roles:       []string{"admin", "vocalist"},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 20, "default": 5},
				"status": map[string]any{
					"type": "string",
					"enum": []string{"", "pending", "approved", "scheduled", "recording", "completed", "rejected"},
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        WidgetContentStatus,
		Name:        "Content Status",
		Description: "Donut breakdown of blogs and posts by editorial status",
		Category:    "charts",
		Roles:       []string{"admin", "blogger", "writer"},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
				"scope": map[string]any{"type": "string", "enum": []string{"all", "mine"}, "default": "all"},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        WidgetActivityChart,
		Name:        "Activity Chart",
		Description: "Platform analytics series drawn as an area chart",
		Category:    "charts",
		Roles:       []string{"admin"},
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"metric"},
			"properties": map[string]any{
				"title":  map[string]any{"type": "string"},
				"metric": map[string]any{"type": "string", "minLength": 1},
				"range":  map[string]any{"type": "string", "enum": []string{"7d", "30d", "90d"}, "default": "7d"},
				"kind":   map[string]any{"type": "string", "enum": []string{"line", "area", "bar"}, "default": "area"},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        WidgetAnalyticsChart,
		Name:        "Analytics Chart",
		Description: "Line, area or bar chart drawn from configured data",
		Category:    "charts",
		Schema:      chartConfigSchema([]string{"line", "area", "bar"}),
	},
	{
		Code:        WidgetPieChart,
		Name:        "Pie Chart",
		Description: "Pie or donut chart drawn from configured data",
		Category:    "charts",
		Schema:      chartConfigSchema([]string{"pie", "donut"}),
	},
	{
		Code:        WidgetQuickActions,
		Name:        "Quick Actions",
		Description: "Shortcuts for the viewer's role",
		Category:    "actions",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
			},
			"additionalProperties": false,
		},
	},
}

func chartDatumSchema() map[string]any {
	return map[string]any{
		"oneOf": []map[string]any{
			{"type": "number"},
			{
				"type":     "object",
				"required": []string{"value"},
				"properties": map[string]any{
					"label": map[string]any{"type": "string"},
					"value": map[string]any{"type": "number"},
					"color": map[string]any{"type": "string"},
					"date":  map[string]any{"type": "string"},
				},
			},
		},
	}
}

func chartConfigSchema(kinds []string) map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"data"},
		"properties": map[string]any{
			"title":            map[string]any{"type": "string", "default": "Chart"},
			"subtitle":         map[string]any{"type": "string"},
			"kind":             map[string]any{"type": "string", "enum": kinds},
			"data":             map[string]any{"type": "array", "items": chartDatumSchema()},
			"x_axis":           map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"theme":            map[string]any{"type": "string", "enum": chartThemes},
			"empty_text":       map[string]any{"type": "string"},
			"dynamic":          map[string]any{"type": "boolean", "default": false},
			"refresh_endpoint": map[string]any{"type": "string"},
			"footer_note":      map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	}
}

var defaultSeedConfigs = []AddWidgetRequest{
	{
		DefinitionID:  WidgetStatCards,
		AreaCode:      AreaMain,
		Configuration: map[string]any{},
		Roles:         []string{"admin"},
	},
	{
		DefinitionID:  WidgetActivityChart,
		AreaCode:      AreaMain,
		Configuration: map[string]any{"metric": "views", "range": "7d", "kind": "area", "title": "Views this week"},
		Roles:         []string{"admin"},
	},
	{
		DefinitionID:  WidgetContentStatus,
		AreaCode:      AreaMain,
		Configuration: map[string]any{"scope": "mine", "title": "My content"},
		Roles:         []string{"blogger", "writer"},
	},
	{
		DefinitionID:  WidgetContentStatus,
		AreaCode:      AreaSidebar,
		Configuration: map[string]any{"scope": "all", "title": "Content by status"},
		Roles:         []string{"admin"},
	},
	{
		DefinitionID:  WidgetRecentComments,
		AreaCode:      AreaSidebar,
		Configuration: map[string]any{"limit": 5, "unapproved_only": true},
		Roles:         []string{"admin"},
	},
	{
		DefinitionID:  WidgetRecordingTracker,
		AreaCode:      AreaFooter,
		Configuration: map[string]any{"limit": 5},
		Roles:         []string{"admin", "vocalist"},
	},
	{
		DefinitionID:  WidgetQuickActions,
		AreaCode:      AreaFooter,
		Configuration: map[string]any{},
	},
}

// DefaultAreaDefinitions returns copies of built-in area definitions.
func DefaultAreaDefinitions() []WidgetAreaDefinition {
	return slices.Clone(defaultAreaDefinitions)
}

// DefaultAreaCodes lists the built-in areas in render order.
func DefaultAreaCodes() []string {
	return slices.Clone(defaultAreas)
}

// DefaultWidgetDefinitions returns copies of built-in widget definitions.
func DefaultWidgetDefinitions() []WidgetDefinition {
	return slices.Clone(defaultWidgetDefinitions)
}

// DefaultSeedWidgets returns the starter layout.
func DefaultSeedWidgets() []AddWidgetRequest {
	out := make([]AddWidgetRequest, len(defaultSeedConfigs))
	for i, cfg := range defaultSeedConfigs {
		cfg.Configuration = maps.Clone(cfg.Configuration)
		cfg.Roles = slices.Clone(cfg.Roles)
		out[i] = cfg
	}
	return out
}
