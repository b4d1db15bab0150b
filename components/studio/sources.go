package studio

import (
	"context"
	"io"
	"time"
)

// AdminSource is the admin slice of the backend API.
type AdminSource interface {
	ListPeople(ctx context.Context, role Role) ([]Person, error)
	ListContent(ctx context.Context, status ContentStatus) ([]ContentItem, error)
	UpdateContentStatus(ctx context.Context, id string, status ContentStatus) (ContentItem, error)
	ListComments(ctx context.Context) ([]Comment, error)
	ApproveComment(ctx context.Context, id string) (Comment, error)
	DeleteComment(ctx context.Context, id string) error
	ListRecordings(ctx context.Context, status RecordingStatus) ([]RecordingRequest, error)
	UpdateRecordingStatus(ctx context.Context, id string, update RecordingStatusUpdate) (RecordingRequest, error)
	Analytics(ctx context.Context, query AnalyticsQuery) (AnalyticsReport, error)
}

// ProfileSource covers the profile endpoints every non-admin role shares.
type ProfileSource interface {
	Profile(ctx context.Context) (Person, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (Person, error)
	UploadAvatar(ctx context.Context, file Upload) (Person, error)
}

// AuthorSource is the blogger or writer API.
type AuthorSource interface {
	ProfileSource
	MyContent(ctx context.Context) ([]ContentItem, error)
	SubmitContent(ctx context.Context, submission ContentSubmission) (ContentItem, error)
}

// VocalistSource is the vocalist API.
type VocalistSource interface {
	ProfileSource
	RecordingRequests(ctx context.Context) ([]RecordingRequest, error)
	CreateRecordingRequest(ctx context.Context, input RecordingRequestInput) (RecordingRequest, error)
	UploadDemo(ctx context.Context, file Upload) (Demo, error)
}

// Sources groups the role services a studio instance talks to.
type Sources struct {
	Admin    AdminSource
	Blogger  AuthorSource
	Writer   AuthorSource
	Vocalist VocalistSource
}

// Author returns the content service for role, if any.
func (s Sources) Author(role Role) (AuthorSource, bool) {
	switch role {
	case RoleBlogger:
		return s.Blogger, s.Blogger != nil
	case RoleWriter:
		return s.Writer, s.Writer != nil
	default:
		return nil, false
	}
}

// Profiles returns the profile service for role, if any.
func (s Sources) Profiles(role Role) (ProfileSource, bool) {
	switch role {
	case RoleBlogger:
		return s.Blogger, s.Blogger != nil
	case RoleWriter:
		return s.Writer, s.Writer != nil
	case RoleVocalist:
		return s.Vocalist, s.Vocalist != nil
	default:
		return nil, false
	}
}

// RecordingStatusUpdate moves a recording request along its workflow.
type RecordingStatusUpdate struct {
	Status      RecordingStatus `json:"status" validate:"required"`
	ScheduledAt *time.Time      `json:"scheduled_at,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// Upload is a file headed for a multipart endpoint.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
