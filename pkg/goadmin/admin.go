package goadmin

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/goliatone/go-studio/components/studio"
	dashboardpkg "github.com/goliatone/go-studio/pkg/dashboard"
)

// MenuBuilder ensures studio entries exist within a host admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem is one navigation link. Empty Roles shows it to everyone.
type MenuItem struct {
	Key      string
	Label    string
	Route    string
	Icon     string
	Position int
	Roles    []string
}

// Visible reports whether any of roles may see the item.
func (m MenuItem) Visible(roles []string) bool {
	if len(m.Roles) == 0 {
		return true
	}
	for _, role := range roles {
		if slices.Contains(m.Roles, role) {
			return true
		}
	}
	return false
}

// Config wires the dashboard service and navigation into an admin shell.
type Config struct {
	EnableDashboard bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Service         *dashboardpkg.Service
	// BasePath prefixes the default routes; defaults to /studio.
	BasePath string
	// Items replaces the default studio navigation.
	Items []MenuItem
}

// Admin exposes navigation helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

func New(cfg Config) (*Admin, error) {
	if cfg.EnableDashboard && cfg.Service == nil {
		return nil, errors.New("goadmin: dashboard service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "studio.main"
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/studio"
	}
	if len(cfg.Items) == 0 {
		cfg.Items = DefaultMenu(cfg.BasePath)
	}
	cfg.Items = slices.Clone(cfg.Items)
	slices.SortStableFunc(cfg.Items, func(a, b MenuItem) int { return a.Position - b.Position })
	return &Admin{cfg: cfg}, nil
}

// Dashboard exposes the configured dashboard service when enabled.
func (a *Admin) Dashboard() *dashboardpkg.Service {
	if !a.cfg.EnableDashboard {
		return nil
	}
	return a.cfg.Service
}

// Items returns the entries visible to roles, in position order.
func (a *Admin) Items(roles []string) []MenuItem {
	out := make([]MenuItem, 0, len(a.cfg.Items))
	for _, item := range a.cfg.Items {
		if item.Visible(roles) {
			out = append(out, item)
		}
	}
	return out
}

// Menu renders the viewer's navigation for base.html; active matches Key.
func (a *Admin) Menu(viewer dashboardpkg.ViewerContext, active string) []map[string]any {
	items := a.Items(viewer.Roles)
	out := make([]map[string]any, len(items))
	for i, item := range items {
		out[i] = map[string]any{
			"key":    item.Key,
			"href":   item.Route,
			"label":  item.Label,
			"icon":   item.Icon,
			"active": item.Key == active,
		}
	}
	return out
}

// Bootstrap pushes every entry to the host menu builder.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableDashboard || a.cfg.MenuBuilder == nil {
		return nil
	}
	for _, item := range a.cfg.Items {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return fmt.Errorf("goadmin: ensure %s: %w", item.Key, err)
		}
	}
	return nil
}

// DefaultMenu is the studio navigation: the dashboard for everyone, the
// listing pages for admins and a "my work" page per author role.
func DefaultMenu(base string) []MenuItem {
	admin := []string{string(studio.RoleAdmin)}
	items := []MenuItem{
		{Key: "dashboard", Label: "Dashboard", Route: base + "/dashboard", Icon: "home", Position: 0},
		{Key: "overview", Label: "Overview", Route: base + "/overview", Icon: "grid", Position: 10, Roles: admin},
	}
	for i, slug := range []string{studio.PageBloggers, studio.PageWriters, studio.PageVocalists, studio.PageBlogs, studio.PageComments, studio.PageRecordings} {
		title, _ := studio.PageTitle(slug)
		items = append(items, MenuItem{
			Key:      slug,
			Label:    title,
			Route:    base + "/pages/" + slug,
			Icon:     slug,
			Position: 20 + i,
			Roles:    admin,
		})
	}
	return append(items,
		MenuItem{Key: "my-content", Label: "My Blogs", Route: base + "/me/content", Icon: "pen", Position: 40, Roles: []string{string(studio.RoleBlogger)}},
		MenuItem{Key: "my-content", Label: "My Posts", Route: base + "/me/content", Icon: "book", Position: 41, Roles: []string{string(studio.RoleWriter)}},
		MenuItem{Key: "my-content", Label: "My Recording Requests", Route: base + "/me/content", Icon: "mic", Position: 42, Roles: []string{string(studio.RoleVocalist)}},
	)
}
