package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goliatone/go-studio/components/studio"
)

// AdminService covers the /admin endpoints.
type AdminService struct {
	c *Client
}

var _ studio.AdminSource = (*AdminService)(nil)

func (s *AdminService) ListPeople(ctx context.Context, role studio.Role) ([]studio.Person, error) {
	switch role {
	case studio.RoleBlogger, studio.RoleWriter, studio.RoleVocalist:
	default:
		return nil, fmt.Errorf("%w: cannot list role %q", studio.ErrValidation, role)
	}
	var out []studio.Person
	err := s.c.getJSON(ctx, "/admin/"+role.Plural(), nil, &out)
	return out, err
}

func (s *AdminService) ListContent(ctx context.Context, status studio.ContentStatus) ([]studio.ContentItem, error) {
	var out []studio.ContentItem
	err := s.c.getJSON(ctx, "/admin/blogs", statusQuery(string(status)), &out)
	return out, err
}

func (s *AdminService) UpdateContentStatus(ctx context.Context, id string, status studio.ContentStatus) (studio.ContentItem, error) {
	var out studio.ContentItem
	err := s.c.sendJSON(ctx, http.MethodPut, "/admin/blogs/"+url.PathEscape(id)+"/status", map[string]any{"status": status}, &out)
	return out, err
}

func (s *AdminService) ListComments(ctx context.Context) ([]studio.Comment, error) {
	var out []studio.Comment
	err := s.c.getJSON(ctx, "/admin/comments", nil, &out)
	return out, err
}

func (s *AdminService) ApproveComment(ctx context.Context, id string) (studio.Comment, error) {
	var out studio.Comment
	err := s.c.sendJSON(ctx, http.MethodPut, "/admin/comments/"+url.PathEscape(id)+"/approve", nil, &out)
	return out, err
}

func (s *AdminService) DeleteComment(ctx context.Context, id string) error {
	return s.c.sendJSON(ctx, http.MethodDelete, "/admin/comments/"+url.PathEscape(id), nil, nil)
}

func (s *AdminService) ListRecordings(ctx context.Context, status studio.RecordingStatus) ([]studio.RecordingRequest, error) {
	var out []studio.RecordingRequest
	err := s.c.getJSON(ctx, "/admin/recording-requests", statusQuery(string(status)), &out)
	return out, err
}

func (s *AdminService) UpdateRecordingStatus(ctx context.Context, id string, update studio.RecordingStatusUpdate) (studio.RecordingRequest, error) {
	var out studio.RecordingRequest
	err := s.c.sendJSON(ctx, http.MethodPut, "/admin/recording-requests/"+url.PathEscape(id)+"/status", update, &out)
	return out, err
}

func (s *AdminService) Analytics(ctx context.Context, query studio.AnalyticsQuery) (studio.AnalyticsReport, error) {
	values := url.Values{}
	if query.Metric != "" {
		values.Set("metric", query.Metric)
	}
	if query.Range != "" {
		values.Set("range", query.Range)
	}
	var out studio.AnalyticsReport
	err := s.c.getJSON(ctx, "/admin/analytics", values, &out)
	return out, err
}

func statusQuery(status string) url.Values {
	if status == "" {
		return nil
	}
	return url.Values{"status": {status}}
}

// profileService is shared by every non-admin role.
type profileService struct {
	c      *Client
	prefix string
}

func (s profileService) Profile(ctx context.Context) (studio.Person, error) {
	var out studio.Person
	err := s.c.getJSON(ctx, s.prefix+"/profile", nil, &out)
	return out, err
}

func (s profileService) UpdateProfile(ctx context.Context, update studio.ProfileUpdate) (studio.Person, error) {
	var out studio.Person
	err := s.c.sendJSON(ctx, http.MethodPut, s.prefix+"/profile", update, &out)
	return out, err
}

func (s profileService) UploadAvatar(ctx context.Context, file studio.Upload) (studio.Person, error) {
	if file.Field == "" {
		file.Field = "avatar"
	}
	var out studio.Person
	err := s.c.upload(ctx, s.prefix+"/profile/avatar", file, &out)
	return out, err
}

// AuthorService is the blogger (blogs) or writer (posts) API.
type AuthorService struct {
	profileService
	collection string
}

var _ studio.AuthorSource = (*AuthorService)(nil)

func (s *AuthorService) MyContent(ctx context.Context) ([]studio.ContentItem, error) {
	var out []studio.ContentItem
	err := s.c.getJSON(ctx, s.collection, nil, &out)
	return out, err
}

func (s *AuthorService) SubmitContent(ctx context.Context, submission studio.ContentSubmission) (studio.ContentItem, error) {
	var out studio.ContentItem
	err := s.c.sendJSON(ctx, http.MethodPost, s.collection, submission, &out)
	return out, err
}

// VocalistService is the vocalist API.
type VocalistService struct {
	profileService
}

var _ studio.VocalistSource = (*VocalistService)(nil)

func (s *VocalistService) RecordingRequests(ctx context.Context) ([]studio.RecordingRequest, error) {
	var out []studio.RecordingRequest
	err := s.c.getJSON(ctx, "/vocalists/recording-requests", nil, &out)
	return out, err
}

func (s *VocalistService) CreateRecordingRequest(ctx context.Context, input studio.RecordingRequestInput) (studio.RecordingRequest, error) {
	var out studio.RecordingRequest
	err := s.c.sendJSON(ctx, http.MethodPost, "/vocalists/recording-requests", input, &out)
	return out, err
}

func (s *VocalistService) UploadDemo(ctx context.Context, file studio.Upload) (studio.Demo, error) {
	if file.Field == "" {
		file.Field = "demo"
	}
	var out studio.Demo
	err := s.c.upload(ctx, "/vocalists/demos", file, &out)
	return out, err
}
