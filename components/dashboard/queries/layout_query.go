package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-studio/components/dashboard"
)

type layoutService interface {
	ConfigureLayout(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Layout, error)
}

// LayoutQuery resolves every area for a viewer.
type LayoutQuery struct {
	service layoutService
}

func NewLayoutQuery(service layoutService) *LayoutQuery {
	return &LayoutQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.Layout] = (*LayoutQuery)(nil)

func (q *LayoutQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Layout, error) {
	if q.service == nil {
		return dashboard.Layout{}, errors.New("layout query requires service")
	}
	return q.service.ConfigureLayout(ctx, viewer)
}

type preferenceService interface {
	Preferences(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.LayoutOverrides, error)
}

// PreferencesQuery returns the stored overrides for a viewer.
type PreferencesQuery struct {
	service preferenceService
}

func NewPreferencesQuery(service preferenceService) *PreferencesQuery {
	return &PreferencesQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.LayoutOverrides] = (*PreferencesQuery)(nil)

func (q *PreferencesQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.LayoutOverrides, error) {
	if viewer.UserID == "" {
		return dashboard.LayoutOverrides{}, errors.New("preferences query requires viewer user id")
	}
	return q.service.Preferences(ctx, viewer)
}
