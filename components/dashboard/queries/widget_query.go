package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-studio/components/dashboard"
)

// WidgetAreaInput identifies an area request for a viewer.
type WidgetAreaInput struct {
	Viewer   dashboard.ViewerContext
	AreaCode string
}

type areaService interface {
	ResolveArea(ctx context.Context, viewer dashboard.ViewerContext, areaCode string) (dashboard.ResolvedArea, error)
}

// WidgetAreaQuery fetches the widgets of one area, used by partial refreshes.
type WidgetAreaQuery struct {
	service areaService
}

func NewWidgetAreaQuery(service areaService) *WidgetAreaQuery {
	return &WidgetAreaQuery{service: service}
}

var _ gocommand.Querier[WidgetAreaInput, dashboard.ResolvedArea] = (*WidgetAreaQuery)(nil)

func (q *WidgetAreaQuery) Query(ctx context.Context, input WidgetAreaInput) (dashboard.ResolvedArea, error) {
	if input.AreaCode == "" {
		return dashboard.ResolvedArea{}, errors.New("widget area query requires area code")
	}
	return q.service.ResolveArea(ctx, input.Viewer, input.AreaCode)
}
