package studio

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errBackend = errors.New("backend unavailable")

type fakeAdmin struct {
	mu         sync.Mutex
	people     map[Role][]Person
	content    []ContentItem
	comments   []Comment
	recordings []RecordingRequest
	report     AnalyticsReport
	fail       map[string]error
	calls      []string
}

func (f *fakeAdmin) called(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.fail[name]
}

func (f *fakeAdmin) ListPeople(_ context.Context, role Role) ([]Person, error) {
	if err := f.called("people:" + string(role)); err != nil {
		return nil, err
	}
	return f.people[role], nil
}

func (f *fakeAdmin) ListContent(_ context.Context, status ContentStatus) ([]ContentItem, error) {
	if err := f.called("content"); err != nil {
		return nil, err
	}
	if status == "" {
		return f.content, nil
	}
	var out []ContentItem
	for _, c := range f.content {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeAdmin) UpdateContentStatus(_ context.Context, id string, status ContentStatus) (ContentItem, error) {
	if err := f.called("content.status"); err != nil {
		return ContentItem{}, err
	}
	for _, c := range f.content {
		if c.ID == id {
			c.Status = status
			return c, nil
		}
	}
	return ContentItem{}, ErrNotFound
}

func (f *fakeAdmin) ListComments(context.Context) ([]Comment, error) {
	if err := f.called("comments"); err != nil {
		return nil, err
	}
	return f.comments, nil
}

func (f *fakeAdmin) ApproveComment(_ context.Context, id string) (Comment, error) {
	if err := f.called("comment.approve"); err != nil {
		return Comment{}, err
	}
	for _, c := range f.comments {
		if c.ID == id {
			c.Approved = true
			return c, nil
		}
	}
	return Comment{}, ErrNotFound
}

func (f *fakeAdmin) DeleteComment(context.Context, string) error {
	return f.called("comment.delete")
}

func (f *fakeAdmin) ListRecordings(_ context.Context, status RecordingStatus) ([]RecordingRequest, error) {
	if err := f.called("recordings"); err != nil {
		return nil, err
	}
	if status == "" {
		return f.recordings, nil
	}
	var out []RecordingRequest
	for _, r := range f.recordings {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAdmin) UpdateRecordingStatus(_ context.Context, id string, update RecordingStatusUpdate) (RecordingRequest, error) {
	if err := f.called("recording.status"); err != nil {
		return RecordingRequest{}, err
	}
	return RecordingRequest{ID: id, Status: update.Status, ScheduledAt: update.ScheduledAt}, nil
}

func (f *fakeAdmin) Analytics(_ context.Context, query AnalyticsQuery) (AnalyticsReport, error) {
	if err := f.called("analytics"); err != nil {
		return AnalyticsReport{}, err
	}
	report := f.report
	report.Metric, report.Range = query.Metric, query.Range
	return report, nil
}

type fakeAuthor struct {
	role      Role
	content   []ContentItem
	submitted []ContentSubmission
	uploads   []Upload
	err       error
}

func (f *fakeAuthor) Profile(context.Context) (Person, error) {
	return Person{ID: "me", Role: f.role}, f.err
}

func (f *fakeAuthor) UpdateProfile(_ context.Context, update ProfileUpdate) (Person, error) {
	return Person{ID: "me", Name: update.Name, Role: f.role}, f.err
}

func (f *fakeAuthor) UploadAvatar(_ context.Context, file Upload) (Person, error) {
	f.uploads = append(f.uploads, file)
	return Person{ID: "me", Avatar: "/avatars/" + file.Filename}, f.err
}

func (f *fakeAuthor) MyContent(context.Context) ([]ContentItem, error) {
	return f.content, f.err
}

func (f *fakeAuthor) SubmitContent(_ context.Context, s ContentSubmission) (ContentItem, error) {
	if f.err != nil {
		return ContentItem{}, f.err
	}
	f.submitted = append(f.submitted, s)
	status := ContentPending
	if s.Draft {
		status = ContentDraft
	}
	return ContentItem{ID: "new-1", Title: s.Title, Tags: s.Tags, Status: status}, nil
}

type fakeVocalist struct {
	fakeAuthor
	requests []RecordingRequest
	created  []RecordingRequestInput
	demos    []Upload
}

func (f *fakeVocalist) RecordingRequests(context.Context) ([]RecordingRequest, error) {
	return f.requests, f.err
}

func (f *fakeVocalist) CreateRecordingRequest(_ context.Context, in RecordingRequestInput) (RecordingRequest, error) {
	f.created = append(f.created, in)
	return RecordingRequest{ID: "rec-new", Title: in.Title, Type: in.Type, Status: RecordingPending}, f.err
}

func (f *fakeVocalist) UploadDemo(_ context.Context, file Upload) (Demo, error) {
	f.demos = append(f.demos, file)
	return Demo{ID: "demo-1", Filename: file.Filename, Size: file.Size, UploadedAt: time.Now()}, f.err
}

func sampleAdmin() *fakeAdmin {
	return &fakeAdmin{
		people: map[Role][]Person{
			RoleBlogger: {
				{ID: "b1", Name: "Ada Lovelace", Email: "ada@example.com", Role: RoleBlogger, City: "London", Country: "UK"},
				{ID: "b2", Name: "Grace Hopper", Email: "grace@example.com", Role: RoleBlogger, Country: "US"},
			},
			RoleWriter:   {{ID: "w1", Name: "Ursula", Role: RoleWriter}},
			RoleVocalist: {{ID: "v1", Name: "Nina", Role: RoleVocalist}, {ID: "v2", Name: "Ella", Role: RoleVocalist}, {ID: "v3", Name: "Billie", Role: RoleVocalist}},
		},
		content: []ContentItem{
			{ID: "c1", Title: "Go generics", AuthorName: "Ada Lovelace", Status: ContentPending, Tags: []string{"go"}},
			{ID: "c2", Title: "Compilers", AuthorName: "Grace Hopper", Status: ContentPublished},
		},
		comments: []Comment{
			{ID: "m1", Name: "Reader", Text: "Great post", Approved: false},
			{ID: "m2", Name: "Critic", Text: "Meh", Approved: true},
		},
		recordings: []RecordingRequest{
			{ID: "r1", Title: "Demo night", VocalistName: "Nina", Type: RecordingStudio, Status: RecordingPending},
		},
	}
}
