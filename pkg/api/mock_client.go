package api

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-studio/components/charts"
	"github.com/goliatone/go-studio/components/studio"
)

// MockData seeds deterministic backend responses for tests or local demos.
type MockData struct {
	People     []studio.Person
	Content    []studio.ContentItem
	Comments   []studio.Comment
	Recordings []studio.RecordingRequest
	Demos      []studio.Demo
	Analytics  map[string]studio.AnalyticsReport
	// Viewers maps each role to the person id its profile endpoints act as.
	Viewers map[studio.Role]string
}

// MockClient implements every studio source in memory. Writes mutate the
// fixtures so a demo session behaves like a live backend.
type MockClient struct {
	mu   sync.RWMutex
	data MockData
	seq  int
	now  func() time.Time
}

var _ studio.AdminSource = (*MockClient)(nil)

// NewMockClient copies data so callers can keep reusing their fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: cloneData(data), now: time.Now}
}

// Sources exposes the mock as every role service.
func (c *MockClient) Sources() studio.Sources {
	return studio.Sources{
		Admin:    c,
		Blogger:  &mockAuthor{mockProfile{c, studio.RoleBlogger}},
		Writer:   &mockAuthor{mockProfile{c, studio.RoleWriter}},
		Vocalist: &mockVocalist{mockProfile{c, studio.RoleVocalist}},
	}
}

func (c *MockClient) nextID(prefix string) string {
	c.seq++
	return fmt.Sprintf("%s-%d", prefix, c.seq)
}

func (c *MockClient) ListPeople(_ context.Context, role studio.Role) ([]studio.Person, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []studio.Person
	for _, p := range c.data.People {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *MockClient) ListContent(_ context.Context, status studio.ContentStatus) ([]studio.ContentItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []studio.ContentItem
	for _, item := range c.data.Content {
		if status == "" || item.Status == status {
			out = append(out, cloneItem(item))
		}
	}
	return out, nil
}

func (c *MockClient) UpdateContentStatus(_ context.Context, id string, status studio.ContentStatus) (studio.ContentItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.data.Content {
		if item.ID != id {
			continue
		}
		now := c.now()
		item.Status = status
		item.UpdatedAt = now
		if status == studio.ContentPublished && item.PublishedAt == nil {
			item.PublishedAt = &now
		}
		c.data.Content[i] = item
		return cloneItem(item), nil
	}
	return studio.ContentItem{}, fmt.Errorf("%w: content %q", studio.ErrNotFound, id)
}

func (c *MockClient) ListComments(context.Context) ([]studio.Comment, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.data.Comments), nil
}

func (c *MockClient) ApproveComment(_ context.Context, id string) (studio.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, comment := range c.data.Comments {
		if comment.ID == id {
			comment.Approved = true
			comment.UpdatedAt = c.now()
			c.data.Comments[i] = comment
			return comment, nil
		}
	}
	return studio.Comment{}, fmt.Errorf("%w: comment %q", studio.ErrNotFound, id)
}

func (c *MockClient) DeleteComment(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, comment := range c.data.Comments {
		if comment.ID == id {
			c.data.Comments = slices.Delete(slices.Clone(c.data.Comments), i, i+1)
			return nil
		}
	}
	return fmt.Errorf("%w: comment %q", studio.ErrNotFound, id)
}

func (c *MockClient) ListRecordings(_ context.Context, status studio.RecordingStatus) ([]studio.RecordingRequest, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []studio.RecordingRequest
	for _, r := range c.data.Recordings {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *MockClient) UpdateRecordingStatus(_ context.Context, id string, update studio.RecordingStatusUpdate) (studio.RecordingRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.data.Recordings {
		if r.ID != id {
			continue
		}
		r.Status = update.Status
		if update.ScheduledAt != nil {
			at := *update.ScheduledAt
			r.ScheduledAt = &at
		}
		if update.Notes != "" {
			r.Notes = update.Notes
		}
		c.data.Recordings[i] = r
		return r, nil
	}
	return studio.RecordingRequest{}, fmt.Errorf("%w: recording request %q", studio.ErrNotFound, id)
}

// Analytics returns the fixture for the metric, or a series derived from the
// content timeline when none is configured.
func (c *MockClient) Analytics(_ context.Context, query studio.AnalyticsQuery) (studio.AnalyticsReport, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if report, ok := c.data.Analytics[query.Metric]; ok {
		report.Points = slices.Clone(report.Points)
		if query.Range != "" {
			report.Range = query.Range
		}
		return report, nil
	}
	report := studio.AnalyticsReport{Metric: query.Metric, Range: query.Range}
	counts := map[string]float64{}
	var order []string
	for _, item := range c.data.Content {
		if item.CreatedAt.IsZero() {
			continue
		}
		label := item.CreatedAt.Format("Jan 2")
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}
	for _, label := range order {
		report.Points = append(report.Points, charts.Datum{Label: label, Value: counts[label]})
		report.Total += counts[label]
	}
	return report, nil
}

type mockProfile struct {
	c    *MockClient
	role studio.Role
}

func (p mockProfile) viewerID() string {
	return p.c.data.Viewers[p.role]
}

func (p mockProfile) Profile(context.Context) (studio.Person, error) {
	p.c.mu.RLock()
	defer p.c.mu.RUnlock()
	id := p.viewerID()
	for _, person := range p.c.data.People {
		if person.ID == id {
			return person, nil
		}
	}
	return studio.Person{}, fmt.Errorf("%w: no %s profile", studio.ErrNotFound, p.role)
}

func (p mockProfile) mutate(fn func(*studio.Person)) (studio.Person, error) {
	p.c.mu.Lock()
	defer p.c.mu.Unlock()
	id := p.viewerID()
	for i, person := range p.c.data.People {
		if person.ID == id {
			fn(&person)
			p.c.data.People[i] = person
			return person, nil
		}
	}
	return studio.Person{}, fmt.Errorf("%w: no %s profile", studio.ErrNotFound, p.role)
}

func (p mockProfile) UpdateProfile(_ context.Context, update studio.ProfileUpdate) (studio.Person, error) {
	return p.mutate(func(person *studio.Person) {
		person.Name = update.Name
		person.City = update.City
		person.Country = update.Country
		person.Bio = update.Bio
	})
}

func (p mockProfile) UploadAvatar(_ context.Context, file studio.Upload) (studio.Person, error) {
	if file.Body != nil {
		_, _ = io.Copy(io.Discard, file.Body)
	}
	return p.mutate(func(person *studio.Person) {
		person.Avatar = "/uploads/avatars/" + file.Filename
	})
}

type mockAuthor struct {
	mockProfile
}

func (a *mockAuthor) MyContent(context.Context) ([]studio.ContentItem, error) {
	a.c.mu.RLock()
	defer a.c.mu.RUnlock()
	id := a.viewerID()
	var out []studio.ContentItem
	for _, item := range a.c.data.Content {
		if item.AuthorID == id {
			out = append(out, cloneItem(item))
		}
	}
	return out, nil
}

func (a *mockAuthor) SubmitContent(_ context.Context, submission studio.ContentSubmission) (studio.ContentItem, error) {
	a.c.mu.Lock()
	defer a.c.mu.Unlock()
	now := a.c.now()
	status := studio.ContentPending
	if submission.Draft {
		status = studio.ContentDraft
	}
	item := studio.ContentItem{
		ID:        a.c.nextID(string(a.role)),
		Title:     submission.Title,
		Excerpt:   submission.Excerpt,
		Body:      submission.Body,
		Status:    status,
		Tags:      slices.Clone(submission.Tags),
		AuthorID:  a.viewerID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, p := range a.c.data.People {
		if p.ID == item.AuthorID {
			item.AuthorName = p.Name
		}
	}
	a.c.data.Content = append(a.c.data.Content, item)
	return cloneItem(item), nil
}

type mockVocalist struct {
	mockProfile
}

func (v *mockVocalist) RecordingRequests(context.Context) ([]studio.RecordingRequest, error) {
	v.c.mu.RLock()
	defer v.c.mu.RUnlock()
	id := v.viewerID()
	var out []studio.RecordingRequest
	for _, r := range v.c.data.Recordings {
		if r.VocalistID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (v *mockVocalist) CreateRecordingRequest(_ context.Context, input studio.RecordingRequestInput) (studio.RecordingRequest, error) {
	v.c.mu.Lock()
	defer v.c.mu.Unlock()
	req := studio.RecordingRequest{
		ID:          v.c.nextID("recording"),
		VocalistID:  v.viewerID(),
		Title:       input.Title,
		Type:        input.Type,
		Status:      studio.RecordingPending,
		ScheduledAt: input.ScheduledAt,
		Location:    input.Location,
		Equipment:   slices.Clone(input.Equipment),
		Notes:       input.Notes,
		CreatedAt:   v.c.now(),
	}
	for _, p := range v.c.data.People {
		if p.ID == req.VocalistID {
			req.VocalistName = p.Name
		}
	}
	v.c.data.Recordings = append(v.c.data.Recordings, req)
	return req, nil
}

func (v *mockVocalist) UploadDemo(_ context.Context, file studio.Upload) (studio.Demo, error) {
	size := file.Size
	if file.Body != nil {
		n, _ := io.Copy(io.Discard, file.Body)
		if size == 0 {
			size = n
		}
	}
	v.c.mu.Lock()
	defer v.c.mu.Unlock()
	demo := studio.Demo{
		ID:         v.c.nextID("demo"),
		Filename:   file.Filename,
		URL:        "/uploads/demos/" + strings.ReplaceAll(file.Filename, " ", "-"),
		Size:       size,
		UploadedAt: v.c.now(),
	}
	v.c.data.Demos = append(v.c.data.Demos, demo)
	return demo, nil
}

func cloneItem(item studio.ContentItem) studio.ContentItem {
	item.Tags = slices.Clone(item.Tags)
	if item.PublishedAt != nil {
		at := *item.PublishedAt
		item.PublishedAt = &at
	}
	return item
}

func cloneData(data MockData) MockData {
	out := MockData{
		People:     slices.Clone(data.People),
		Comments:   slices.Clone(data.Comments),
		Recordings: slices.Clone(data.Recordings),
		Demos:      slices.Clone(data.Demos),
		Analytics:  make(map[string]studio.AnalyticsReport, len(data.Analytics)),
		Viewers:    make(map[studio.Role]string, len(data.Viewers)),
	}
	for _, item := range data.Content {
		out.Content = append(out.Content, cloneItem(item))
	}
	for k, v := range data.Analytics {
		v.Points = slices.Clone(v.Points)
		out.Analytics[k] = v
	}
	for k, v := range data.Viewers {
		out.Viewers[k] = v
	}
	return out
}
