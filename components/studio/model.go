package studio

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-studio/components/charts"
)

// Role identifies which studio area a person works in.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleBlogger  Role = "blogger"
	RoleWriter   Role = "writer"
	RoleVocalist Role = "vocalist"
)

// Roles lists every known role in navigation order.
var Roles = []Role{RoleAdmin, RoleBlogger, RoleWriter, RoleVocalist}

// ParseRole normalizes value and rejects unknown roles.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Roles {
		if role == known {
			return role, nil
		}
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, value)
}

// Plural is the collection segment used by listing routes (bloggers, writers...).
func (r Role) Plural() string {
	return string(r) + "s"
}

type Person struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Location joins city and country, skipping whichever is missing.
func (p Person) Location() string {
	switch {
	case p.City != "" && p.Country != "":
		return p.City + ", " + p.Country
	case p.City != "":
		return p.City
	default:
		return p.Country
	}
}

// ContentStatus is the editorial state of a blog or post.
type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentPending   ContentStatus = "pending"
	ContentReview    ContentStatus = "review"
	ContentApproved  ContentStatus = "approved"
	ContentPublished ContentStatus = "published"
	ContentRejected  ContentStatus = "rejected"
	ContentRevision  ContentStatus = "revision"
)

var contentStatuses = []ContentStatus{
	ContentDraft, ContentPending, ContentReview, ContentApproved,
	ContentPublished, ContentRejected, ContentRevision,
}

// ContentStatuses returns every editorial state.
func ContentStatuses() []ContentStatus {
	return append([]ContentStatus(nil), contentStatuses...)
}

// ParseContentStatus rejects unknown values.
func ParseContentStatus(value string) (ContentStatus, error) {
	status := ContentStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range contentStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: unknown content status %q", ErrValidation, value)
}

// ContentItem is a blog (bloggers) or post (writers).
type ContentItem struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt,omitempty"`
	Body        string        `json:"body,omitempty"`
	Status      ContentStatus `json:"status"`
	Tags        []string      `json:"tags,omitempty"`
	AuthorID    string        `json:"author_id"`
	AuthorName  string        `json:"author_name,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
}

type Comment struct {
	ID        string    `json:"id"`
	ContentID string    `json:"content_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Text      string    `json:"text"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RecordingType string

const (
	RecordingStudio RecordingType = "studio"
	RecordingRemote RecordingType = "remote"
)

// ParseRecordingType rejects unknown session types.
func ParseRecordingType(value string) (RecordingType, error) {
	switch t := RecordingType(strings.ToLower(strings.TrimSpace(value))); t {
	case RecordingStudio, RecordingRemote:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown recording type %q", ErrValidation, value)
	}
}

type RecordingStatus string

const (
	RecordingPending   RecordingStatus = "pending"
	RecordingApproved  RecordingStatus = "approved"
	RecordingScheduled RecordingStatus = "scheduled"
	RecordingActive    RecordingStatus = "recording"
	RecordingCompleted RecordingStatus = "completed"
	RecordingRejected  RecordingStatus = "rejected"
)

var recordingStatuses = []RecordingStatus{
	RecordingPending, RecordingApproved, RecordingScheduled,
	RecordingActive, RecordingCompleted, RecordingRejected,
}

// RecordingStatuses returns every recording state.
func RecordingStatuses() []RecordingStatus {
	return append([]RecordingStatus(nil), recordingStatuses...)
}

// ParseRecordingStatus rejects unknown values.
func ParseRecordingStatus(value string) (RecordingStatus, error) {
	status := RecordingStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range recordingStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: unknown recording status %q", ErrValidation, value)
}

// RecordingRequest is a vocalist's ask for a studio or remote session.
type RecordingRequest struct {
	ID           string          `json:"id"`
	VocalistID   string          `json:"vocalist_id"`
	VocalistName string          `json:"vocalist_name,omitempty"`
	Title        string          `json:"title"`
	Type         RecordingType   `json:"type"`
	Status       RecordingStatus `json:"status"`
	ScheduledAt  *time.Time      `json:"scheduled_at,omitempty"`
	Location     string          `json:"location,omitempty"`
	Equipment    []string        `json:"equipment,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Demo is an uploaded vocalist sample.
type Demo struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ProfileUpdate is the editable part of a person.
type ProfileUpdate struct {
	Name    string `json:"name" validate:"required,max=120"`
	City    string `json:"city,omitempty" validate:"max=120"`
	Country string `json:"country,omitempty" validate:"max=120"`
	Bio     string `json:"bio,omitempty" validate:"max=2000"`
}

// ContentSubmission creates a blog or post.
type ContentSubmission struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Excerpt string   `json:"excerpt,omitempty" validate:"max=500"`
	Body    string   `json:"body" validate:"required"`
	Tags    []string `json:"tags,omitempty" validate:"max=10,dive,required,max=40"`
	Draft   bool     `json:"draft,omitempty"`
}

// RecordingRequestInput books a session.
type RecordingRequestInput struct {
	Title       string        `json:"title" validate:"required,max=200"`
	Type        RecordingType `json:"type" validate:"required,oneof=studio remote"`
	ScheduledAt *time.Time    `json:"scheduled_at,omitempty"`
	Location    string        `json:"location,omitempty" validate:"required_if=Type studio"`
	Equipment   []string      `json:"equipment,omitempty"`
	Notes       string        `json:"notes,omitempty" validate:"max=2000"`
}

// AnalyticsQuery selects an admin analytics series.
type AnalyticsQuery struct {
	Metric string `json:"metric"`
	Range  string `json:"range"`
}

// AnalyticsReport is a labeled time series ready for charting.
type AnalyticsReport struct {
	Metric string         `json:"metric"`
	Range  string         `json:"range"`
	Points []charts.Datum `json:"points"`
	Total  float64        `json:"total"`
}
