package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-studio/components/studio"
)

// PageInput names a listing page and its search query. Change carries a
// write that just succeeded, patched into the loaded rows.
type PageInput struct {
	Slug   string        `json:"slug"`
	Query  string        `json:"q"`
	Change studio.Change `json:"-"`
}

type pageService interface {
	PageAfter(ctx context.Context, slug, query string, change studio.Change) (studio.PageView, error)
}

// PageQuery loads and filters one listing page.
type PageQuery struct {
	pages pageService
}

func NewPageQuery(pages pageService) *PageQuery {
	return &PageQuery{pages: pages}
}

var _ gocommand.Querier[PageInput, studio.PageView] = (*PageQuery)(nil)

func (q *PageQuery) Query(ctx context.Context, input PageInput) (studio.PageView, error) {
	if q.pages == nil {
		return studio.PageView{}, errors.New("page query requires pages")
	}
	return q.pages.PageAfter(ctx, input.Slug, input.Query, input.Change)
}

type overviewService interface {
	Overview(ctx context.Context) studio.Overview
}

// OverviewQuery loads the admin landing counts.
type OverviewQuery struct {
	pages overviewService
}

func NewOverviewQuery(pages overviewService) *OverviewQuery {
	return &OverviewQuery{pages: pages}
}

var _ gocommand.Querier[struct{}, studio.Overview] = (*OverviewQuery)(nil)

func (q *OverviewQuery) Query(ctx context.Context, _ struct{}) (studio.Overview, error) {
	if q.pages == nil {
		return studio.Overview{}, errors.New("overview query requires pages")
	}
	return q.pages.Overview(ctx), nil
}

// MyContentInput lists the signed-in author's submissions.
type MyContentInput struct {
	Role  studio.Role `json:"role"`
	Query string      `json:"q"`
}

type myContentService interface {
	MyContent(role studio.Role) *studio.Listing[studio.ContentItem]
	MyRecordings() *studio.Listing[studio.RecordingRequest]
}

// MyContentQuery builds the author and vocalist "my work" pages. Vocalists
// see their recording requests.
type MyContentQuery struct {
	pages myContentService
}

func NewMyContentQuery(pages myContentService) *MyContentQuery {
	return &MyContentQuery{pages: pages}
}

var _ gocommand.Querier[MyContentInput, studio.PageView] = (*MyContentQuery)(nil)

func (q *MyContentQuery) Query(ctx context.Context, input MyContentInput) (studio.PageView, error) {
	if q.pages == nil {
		return studio.PageView{}, errors.New("my content query requires pages")
	}
	if input.Role == studio.RoleVocalist {
		listing := q.pages.MyRecordings()
		listing.SetQuery(input.Query)
		_ = listing.Load(ctx)
		return studio.NewPageView("my-recordings", "My Recording Requests", listing, studio.RecordingTable), nil
	}
	listing := q.pages.MyContent(input.Role)
	listing.SetQuery(input.Query)
	_ = listing.Load(ctx)
	return studio.NewPageView("my-content", "My "+titleFor(input.Role), listing, studio.ContentTable), nil
}

func titleFor(role studio.Role) string {
	if role == studio.RoleWriter {
		return "Posts"
	}
	return "Blogs"
}
