package studio

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Page slugs served by the admin area.
const (
	PageBloggers   = "bloggers"
	PageWriters    = "writers"
	PageVocalists  = "vocalists"
	PageBlogs      = "blogs"
	PageComments   = "comments"
	PageRecordings = "recordings"
)

// PageView is everything a listing template needs.
type PageView struct {
	Slug    string
	Title   string
	Query   string
	Items   any
	Table   Table
	Total   int
	Shown   int
	Empty   bool
	Loading bool
	Error   string
}

// NewPageView snapshots a listing into a view.
func NewPageView[T any](slug, title string, l *Listing[T], table func([]T) Table) PageView {
	items := l.Items()
	view := PageView{
		Slug:    slug,
		Title:   title,
		Query:   l.Query(),
		Items:   items,
		Total:   len(l.All()),
		Shown:   len(items),
		Empty:   len(items) == 0,
		Loading: l.Loading(),
	}
	if table != nil {
		view.Table = table(items)
	}
	if err := l.Err(); err != nil {
		view.Error = err.Error()
	}
	return view
}

// PagesOptions wires Pages.
type PagesOptions struct {
	Sources Sources
	Logger  *zap.Logger
}

// Pages builds the listing pages on top of the backend sources. Every call
// creates fresh page state.
type Pages struct {
	sources Sources
	log     *zap.Logger
}

func NewPages(opts PagesOptions) *Pages {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Pages{sources: opts.Sources, log: log}
}

// Sources exposes the backend services the pages read from.
func (p *Pages) Sources() Sources {
	return p.sources
}

// People lists the accounts holding role.
func (p *Pages) People(role Role) *Listing[Person] {
	return NewListing(ListingConfig[Person]{
		Name: role.Plural(),
		Fetch: func(ctx context.Context) ([]Person, error) {
			if p.sources.Admin == nil {
				return nil, errNoAdminSource
			}
			return p.sources.Admin.ListPeople(ctx, role)
		},
		Fields: PersonFields,
		Key:    personKey,
		Logger: p.log,
	})
}

// Blogs lists every submission, optionally narrowed to status.
func (p *Pages) Blogs(status ContentStatus) *Listing[ContentItem] {
	return NewListing(ListingConfig[ContentItem]{
		Name: PageBlogs,
		Fetch: func(ctx context.Context) ([]ContentItem, error) {
			if p.sources.Admin == nil {
				return nil, errNoAdminSource
			}
			return p.sources.Admin.ListContent(ctx, status)
		},
		Fields: ContentFields,
		Key:    contentKey,
		Logger: p.log,
	})
}

func (p *Pages) Comments() *Listing[Comment] {
	return NewListing(ListingConfig[Comment]{
		Name: PageComments,
		Fetch: func(ctx context.Context) ([]Comment, error) {
			if p.sources.Admin == nil {
				return nil, errNoAdminSource
			}
			return p.sources.Admin.ListComments(ctx)
		},
		Fields: CommentFields,
		Key:    commentKey,
		Logger: p.log,
	})
}

func (p *Pages) Recordings(status RecordingStatus) *Listing[RecordingRequest] {
	return NewListing(ListingConfig[RecordingRequest]{
		Name: PageRecordings,
		Fetch: func(ctx context.Context) ([]RecordingRequest, error) {
			if p.sources.Admin == nil {
				return nil, errNoAdminSource
			}
			return p.sources.Admin.ListRecordings(ctx, status)
		},
		Fields: RecordingFields,
		Key:    recordingKey,
		Logger: p.log,
	})
}

// MyContent lists the signed-in blogger's or writer's own submissions.
func (p *Pages) MyContent(role Role) *Listing[ContentItem] {
	return NewListing(ListingConfig[ContentItem]{
		Name: "my-" + role.Plural(),
		Fetch: func(ctx context.Context) ([]ContentItem, error) {
			source, ok := p.sources.Author(role)
			if !ok {
				return nil, fmt.Errorf("%w: no content source for role %q", ErrNotFound, role)
			}
			return source.MyContent(ctx)
		},
		Fields: ContentFields,
		Key:    contentKey,
		Logger: p.log,
	})
}

// MyRecordings lists the signed-in vocalist's requests.
func (p *Pages) MyRecordings() *Listing[RecordingRequest] {
	return NewListing(ListingConfig[RecordingRequest]{
		Name: "my-recordings",
		Fetch: func(ctx context.Context) ([]RecordingRequest, error) {
			if p.sources.Vocalist == nil {
				return nil, fmt.Errorf("%w: no vocalist source", ErrNotFound)
			}
			return p.sources.Vocalist.RecordingRequests(ctx)
		},
		Fields: RecordingFields,
		Key:    recordingKey,
		Logger: p.log,
	})
}

// Change is a write the backend already accepted. Record replaces the row
// sharing its id; RemovedID drops a row.
type Change struct {
	Record    any
	RemovedID string
}

type listingPage struct {
	title string
	build func(p *Pages, ctx context.Context, query string, change Change) PageView
}

func loadView[T any](ctx context.Context, slug, title, query string, change Change, l *Listing[T], table func([]T) Table) PageView {
	l.SetQuery(query)
	if err := l.Load(ctx); err == nil {
		applyChange(l, change)
	}
	return NewPageView(slug, title, l, table)
}

func applyChange[T any](l *Listing[T], change Change) {
	if change.RemovedID != "" {
		l.Remove(change.RemovedID)
	}
	if record, ok := change.Record.(T); ok {
		l.Patch(record)
	}
}

var listingPages = map[string]listingPage{
	PageBloggers: {title: "Bloggers", build: func(p *Pages, ctx context.Context, q string, c Change) PageView {
		return loadView(ctx, PageBloggers, "Bloggers", q, c, p.People(RoleBlogger), PeopleTable)
	}},
	PageWriters: {title: "Writers", build: func(p *Pages, ctx context.Context, q string, c Change) PageView {
		return loadView(ctx, PageWriters, "Writers", q, c, p.People(RoleWriter), PeopleTable)
	}},
	PageVocalists: {title: "Vocalists", build: func(p *Pages, ctx context.Context, q string, c Change) PageView {
		return loadView(ctx, PageVocalists, "Vocalists", q, c, p.People(RoleVocalist), PeopleTable)
	}},
	PageBlogs: {title: "Blogs", build: func(p *Pages, ctx context.Context, q string, c Change) PageView {
		return loadView(ctx, PageBlogs, "Blogs", q, c, p.Blogs(""), ContentTable)
	}},
	PageComments: {title: "Comments", build: func(p *Pages, ctx context.Context, q string, c Change) PageView {
		return loadView(ctx, PageComments, "Comments", q, c, p.Comments(), CommentTable)
	}},
	PageRecordings: {title: "Recording Requests", build: func(p *Pages, ctx context.Context, q string, c Change) PageView {
		return loadView(ctx, PageRecordings, "Recording Requests", q, c, p.Recordings(""), RecordingTable)
	}},
}

// PageSlugs lists the admin listing pages in a stable order.
func PageSlugs() []string {
	slugs := make([]string, 0, len(listingPages))
	for slug := range listingPages {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// PageTitle returns the heading of slug.
func PageTitle(slug string) (string, bool) {
	page, ok := listingPages[slug]
	return page.title, ok
}

// Page fetches, filters and snapshots the listing named slug. Fetch failures
// land in PageView.Error with an empty table; only unknown slugs error.
func (p *Pages) Page(ctx context.Context, slug, query string) (PageView, error) {
	return p.PageAfter(ctx, slug, query, Change{})
}

// PageAfter is Page with change patched into a copy of the fetched rows, so
// the view shows a successful write even when the list endpoint lags.
// Changes whose record type does not belong to the page are ignored.
func (p *Pages) PageAfter(ctx context.Context, slug, query string, change Change) (PageView, error) {
	page, ok := listingPages[slug]
	if !ok {
		return PageView{}, fmt.Errorf("%w: page %q", ErrNotFound, slug)
	}
	return page.build(p, ctx, query, change), nil
}

// Overview is the admin landing page.
type Overview struct {
	Cards []StatCard
}

// Card returns the card labeled label.
func (o Overview) Card(label string) (StatCard, bool) {
	for _, c := range o.Cards {
		if c.Label == label {
			return c, true
		}
	}
	return StatCard{}, false
}

type overviewSource struct {
	card  StatCard
	count func(ctx context.Context) (int, error)
}

// Overview loads the headline counts concurrently. A failing source is logged
// and shows 0 without failing the page.
func (p *Pages) Overview(ctx context.Context) Overview {
	sources := p.overviewSources()
	cards := make([]StatCard, len(sources))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			card := src.card
			n, err := src.count(gctx)
			if err != nil {
				p.log.Warn("overview source failed", zap.String("card", card.Label), zap.Error(err))
				n = 0
			}
			card.Value = n
			mu.Lock()
			cards[i] = card
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return Overview{Cards: cards}
}

func (p *Pages) overviewSources() []overviewSource {
	admin := p.sources.Admin
	people := func(role Role) func(context.Context) (int, error) {
		return func(ctx context.Context) (int, error) {
			if admin == nil {
				return 0, errNoAdminSource
			}
			list, err := admin.ListPeople(ctx, role)
			return len(list), err
		}
	}
	return []overviewSource{
		{card: StatCard{Label: "Bloggers", Icon: "pen", Href: PageBloggers, Tone: ToneInfo}, count: people(RoleBlogger)},
		{card: StatCard{Label: "Writers", Icon: "book", Href: PageWriters, Tone: ToneInfo}, count: people(RoleWriter)},
		{card: StatCard{Label: "Vocalists", Icon: "mic", Href: PageVocalists, Tone: ToneInfo}, count: people(RoleVocalist)},
		{card: StatCard{Label: "Pending Blogs", Icon: "clock", Href: PageBlogs, Tone: ToneWarning}, count: func(ctx context.Context) (int, error) {
			if admin == nil {
				return 0, errNoAdminSource
			}
			list, err := admin.ListContent(ctx, ContentPending)
			return len(list), err
		}},
		{card: StatCard{Label: "Pending Comments", Icon: "message", Href: PageComments, Tone: ToneWarning}, count: func(ctx context.Context) (int, error) {
			if admin == nil {
				return 0, errNoAdminSource
			}
			list, err := admin.ListComments(ctx)
			pending := 0
			for _, c := range list {
				if !c.Approved {
					pending++
				}
			}
			return pending, err
		}},
		{card: StatCard{Label: "Recording Requests", Icon: "headphones", Href: PageRecordings, Tone: ToneNeutral}, count: func(ctx context.Context) (int, error) {
			if admin == nil {
				return 0, errNoAdminSource
			}
			list, err := admin.ListRecordings(ctx, RecordingPending)
			return len(list), err
		}},
	}
}
