package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-studio/components/studio"
)

var errNoModerator = errors.New("studio command requires moderator")

// Moderation is the admin slice of studio.Moderator.
type Moderation interface {
	ApproveComment(ctx context.Context, id string) (studio.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	UpdateContentStatus(ctx context.Context, id string, status studio.ContentStatus) (studio.ContentItem, error)
	UpdateRecordingStatus(ctx context.Context, id string, update studio.RecordingStatusUpdate) (studio.RecordingRequest, error)
}

// ApproveCommentInput approves a reader comment. Result receives the updated
// comment when set.
type ApproveCommentInput struct {
	ID     string          `json:"id"`
	Actor  studio.Actor    `json:"-"`
	Result *studio.Comment `json:"-"`
}

type ApproveCommentCommand struct {
	moderator Moderation
}

func NewApproveCommentCommand(moderator Moderation) *ApproveCommentCommand {
	return &ApproveCommentCommand{moderator: moderator}
}

var _ gocommand.Commander[ApproveCommentInput] = (*ApproveCommentCommand)(nil)

func (c *ApproveCommentCommand) Execute(ctx context.Context, msg ApproveCommentInput) error {
	if c.moderator == nil {
		return errNoModerator
	}
	comment, err := c.moderator.ApproveComment(withActor(ctx, msg.Actor), msg.ID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = comment
	}
	return nil
}

type DeleteCommentInput struct {
	ID    string       `json:"id"`
	Actor studio.Actor `json:"-"`
}

type DeleteCommentCommand struct {
	moderator Moderation
}

func NewDeleteCommentCommand(moderator Moderation) *DeleteCommentCommand {
	return &DeleteCommentCommand{moderator: moderator}
}

var _ gocommand.Commander[DeleteCommentInput] = (*DeleteCommentCommand)(nil)

func (c *DeleteCommentCommand) Execute(ctx context.Context, msg DeleteCommentInput) error {
	if c.moderator == nil {
		return errNoModerator
	}
	return c.moderator.DeleteComment(withActor(ctx, msg.Actor), msg.ID)
}

// UpdateContentStatusInput moves a blog or post through the editorial
// workflow. Status is parsed before the backend is called.
type UpdateContentStatusInput struct {
	ID     string              `json:"id"`
	Status string              `json:"status"`
	Actor  studio.Actor        `json:"-"`
	Result *studio.ContentItem `json:"-"`
}

type UpdateContentStatusCommand struct {
	moderator Moderation
}

func NewUpdateContentStatusCommand(moderator Moderation) *UpdateContentStatusCommand {
	return &UpdateContentStatusCommand{moderator: moderator}
}

var _ gocommand.Commander[UpdateContentStatusInput] = (*UpdateContentStatusCommand)(nil)

func (c *UpdateContentStatusCommand) Execute(ctx context.Context, msg UpdateContentStatusInput) error {
	if c.moderator == nil {
		return errNoModerator
	}
	status, err := studio.ParseContentStatus(msg.Status)
	if err != nil {
		return err
	}
	item, err := c.moderator.UpdateContentStatus(withActor(ctx, msg.Actor), msg.ID, status)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = item
	}
	return nil
}

type UpdateRecordingStatusInput struct {
	ID     string                       `json:"id"`
	Update studio.RecordingStatusUpdate `json:"update"`
	Actor  studio.Actor                 `json:"-"`
	Result *studio.RecordingRequest     `json:"-"`
}

type UpdateRecordingStatusCommand struct {
	moderator Moderation
}

func NewUpdateRecordingStatusCommand(moderator Moderation) *UpdateRecordingStatusCommand {
	return &UpdateRecordingStatusCommand{moderator: moderator}
}

var _ gocommand.Commander[UpdateRecordingStatusInput] = (*UpdateRecordingStatusCommand)(nil)

func (c *UpdateRecordingStatusCommand) Execute(ctx context.Context, msg UpdateRecordingStatusInput) error {
	if c.moderator == nil {
		return errNoModerator
	}
	req, err := c.moderator.UpdateRecordingStatus(withActor(ctx, msg.Actor), msg.ID, msg.Update)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = req
	}
	return nil
}

func withActor(ctx context.Context, actor studio.Actor) context.Context {
	if actor.ID == "" {
		return ctx
	}
	return studio.WithActor(ctx, actor)
}
