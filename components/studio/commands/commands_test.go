package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-studio/components/studio"
)

type stubModerator struct {
	actor    studio.Actor
	lastID   string
	status   studio.ContentStatus
	role     studio.Role
	uploaded []studio.Upload
}

func (s *stubModerator) seen(ctx context.Context, id string) {
	s.actor, _ = studio.ActorFrom(ctx)
	s.lastID = id
}

func (s *stubModerator) ApproveComment(ctx context.Context, id string) (studio.Comment, error) {
	s.seen(ctx, id)
	return studio.Comment{ID: id, Approved: true}, nil
}

func (s *stubModerator) DeleteComment(ctx context.Context, id string) error {
	s.seen(ctx, id)
	return nil
}

func (s *stubModerator) UpdateContentStatus(ctx context.Context, id string, status studio.ContentStatus) (studio.ContentItem, error) {
	s.seen(ctx, id)
	s.status = status
	return studio.ContentItem{ID: id, Status: status}, nil
}

func (s *stubModerator) UpdateRecordingStatus(ctx context.Context, id string, update studio.RecordingStatusUpdate) (studio.RecordingRequest, error) {
	s.seen(ctx, id)
	return studio.RecordingRequest{ID: id, Status: update.Status}, nil
}

func (s *stubModerator) SubmitContent(ctx context.Context, role studio.Role, sub studio.ContentSubmission) (studio.ContentItem, error) {
	s.seen(ctx, "")
	s.role = role
	return studio.ContentItem{ID: "new", Title: sub.Title}, nil
}

func (s *stubModerator) CreateRecordingRequest(ctx context.Context, in studio.RecordingRequestInput) (studio.RecordingRequest, error) {
	s.seen(ctx, "")
	return studio.RecordingRequest{ID: "rec", Title: in.Title}, nil
}

func (s *stubModerator) UpdateProfile(ctx context.Context, role studio.Role, update studio.ProfileUpdate) (studio.Person, error) {
	s.seen(ctx, "")
	s.role = role
	return studio.Person{ID: "me", Name: update.Name}, nil
}

func (s *stubModerator) UploadAvatar(ctx context.Context, role studio.Role, file studio.Upload) (studio.Person, error) {
	s.seen(ctx, "")
	s.role = role
	s.uploaded = append(s.uploaded, file)
	return studio.Person{ID: "me", Avatar: "/a/" + file.Filename}, nil
}

func (s *stubModerator) UploadDemo(ctx context.Context, file studio.Upload) (studio.Demo, error) {
	s.seen(ctx, "")
	s.uploaded = append(s.uploaded, file)
	return studio.Demo{ID: "d1", Filename: file.Filename}, nil
}

var admin = studio.Actor{ID: "admin-1", Role: studio.RoleAdmin}

func TestApproveCommentCommand(t *testing.T) {
	mod := &stubModerator{}
	var out studio.Comment
	require.NoError(t, NewApproveCommentCommand(mod).Execute(context.Background(), ApproveCommentInput{ID: "m1", Actor: admin, Result: &out}))
	assert.True(t, out.Approved)
	assert.Equal(t, admin, mod.actor)

	assert.ErrorIs(t, NewApproveCommentCommand(nil).Execute(context.Background(), ApproveCommentInput{}), errNoModerator)
}

func TestDeleteCommentCommand(t *testing.T) {
	mod := &stubModerator{}
	require.NoError(t, NewDeleteCommentCommand(mod).Execute(context.Background(), DeleteCommentInput{ID: "m2"}))
	assert.Equal(t, "m2", mod.lastID)
	assert.Empty(t, mod.actor.ID, "anonymous calls carry no actor")
}

func TestUpdateContentStatusCommandParsesStatus(t *testing.T) {
	mod := &stubModerator{}
	cmd := NewUpdateContentStatusCommand(mod)
	var out studio.ContentItem
	require.NoError(t, cmd.Execute(context.Background(), UpdateContentStatusInput{ID: "c1", Status: "Published", Actor: admin, Result: &out}))
	assert.Equal(t, studio.ContentPublished, out.Status)

	err := cmd.Execute(context.Background(), UpdateContentStatusInput{ID: "c1", Status: "archived"})
	assert.ErrorIs(t, err, studio.ErrValidation)
}

func TestUpdateRecordingStatusCommand(t *testing.T) {
	mod := &stubModerator{}
	var out studio.RecordingRequest
	err := NewUpdateRecordingStatusCommand(mod).Execute(context.Background(), UpdateRecordingStatusInput{
		ID:     "r1",
		Update: studio.RecordingStatusUpdate{Status: studio.RecordingApproved},
		Result: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, studio.RecordingApproved, out.Status)
}

func TestSubmissionCommandsUseActorRole(t *testing.T) {
	mod := &stubModerator{}
	writer := studio.Actor{ID: "w1", Role: studio.RoleWriter}

	var item studio.ContentItem
	require.NoError(t, NewSubmitContentCommand(mod).Execute(context.Background(), SubmitContentInput{
		Submission: studio.ContentSubmission{Title: "Hello"},
		Actor:      writer,
		Result:     &item,
	}))
	assert.Equal(t, studio.RoleWriter, mod.role)
	assert.Equal(t, "Hello", item.Title)

	var person studio.Person
	require.NoError(t, NewUpdateProfileCommand(mod).Execute(context.Background(), UpdateProfileInput{
		Update: studio.ProfileUpdate{Name: "Wren"},
		Actor:  writer,
		Result: &person,
	}))
	assert.Equal(t, "Wren", person.Name)

	var req studio.RecordingRequest
	require.NoError(t, NewCreateRecordingRequestCommand(mod).Execute(context.Background(), CreateRecordingRequestInput{
		Request: studio.RecordingRequestInput{Title: "Session"},
		Result:  &req,
	}))
	assert.Equal(t, "rec", req.ID)
}

func TestUploadCommand(t *testing.T) {
	mod := &stubModerator{}
	cmd := NewUploadCommand(mod)
	vocalist := studio.Actor{ID: "v1", Role: studio.RoleVocalist}

	var demo studio.Demo
	require.NoError(t, cmd.Execute(context.Background(), UploadInput{
		Kind:  UploadDemo,
		File:  studio.Upload{Filename: "take1.mp3", Body: bytes.NewReader([]byte("x"))},
		Actor: vocalist,
		Demo:  &demo,
	}))
	assert.Equal(t, "take1.mp3", demo.Filename)

	var person studio.Person
	require.NoError(t, cmd.Execute(context.Background(), UploadInput{Kind: UploadAvatar, File: studio.Upload{Filename: "me.png"}, Actor: vocalist, Person: &person}))
	assert.Equal(t, "/a/me.png", person.Avatar)
	assert.Len(t, mod.uploaded, 2)

	err := cmd.Execute(context.Background(), UploadInput{Kind: "resume"})
	assert.ErrorIs(t, err, studio.ErrValidation)
}
