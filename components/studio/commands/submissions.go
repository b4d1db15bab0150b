package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-studio/components/studio"
)

// Submissions is the author and vocalist slice of studio.Moderator.
type Submissions interface {
	SubmitContent(ctx context.Context, role studio.Role, submission studio.ContentSubmission) (studio.ContentItem, error)
	CreateRecordingRequest(ctx context.Context, input studio.RecordingRequestInput) (studio.RecordingRequest, error)
	UpdateProfile(ctx context.Context, role studio.Role, update studio.ProfileUpdate) (studio.Person, error)
	UploadAvatar(ctx context.Context, role studio.Role, file studio.Upload) (studio.Person, error)
	UploadDemo(ctx context.Context, file studio.Upload) (studio.Demo, error)
}

// SubmitContentInput creates a blog or post for Actor.Role.
type SubmitContentInput struct {
	Submission studio.ContentSubmission `json:"submission"`
	Actor      studio.Actor             `json:"-"`
	Result     *studio.ContentItem      `json:"-"`
}

type SubmitContentCommand struct {
	service Submissions
}

func NewSubmitContentCommand(service Submissions) *SubmitContentCommand {
	return &SubmitContentCommand{service: service}
}

var _ gocommand.Commander[SubmitContentInput] = (*SubmitContentCommand)(nil)

func (c *SubmitContentCommand) Execute(ctx context.Context, msg SubmitContentInput) error {
	if c.service == nil {
		return errNoModerator
	}
	item, err := c.service.SubmitContent(withActor(ctx, msg.Actor), msg.Actor.Role, msg.Submission)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = item
	}
	return nil
}

type CreateRecordingRequestInput struct {
	Request studio.RecordingRequestInput `json:"request"`
	Actor   studio.Actor                 `json:"-"`
	Result  *studio.RecordingRequest     `json:"-"`
}

type CreateRecordingRequestCommand struct {
	service Submissions
}

func NewCreateRecordingRequestCommand(service Submissions) *CreateRecordingRequestCommand {
	return &CreateRecordingRequestCommand{service: service}
}

var _ gocommand.Commander[CreateRecordingRequestInput] = (*CreateRecordingRequestCommand)(nil)

func (c *CreateRecordingRequestCommand) Execute(ctx context.Context, msg CreateRecordingRequestInput) error {
	if c.service == nil {
		return errNoModerator
	}
	req, err := c.service.CreateRecordingRequest(withActor(ctx, msg.Actor), msg.Request)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = req
	}
	return nil
}

type UpdateProfileInput struct {
	Update studio.ProfileUpdate `json:"update"`
	Actor  studio.Actor         `json:"-"`
	Result *studio.Person       `json:"-"`
}

type UpdateProfileCommand struct {
	service Submissions
}

func NewUpdateProfileCommand(service Submissions) *UpdateProfileCommand {
	return &UpdateProfileCommand{service: service}
}

var _ gocommand.Commander[UpdateProfileInput] = (*UpdateProfileCommand)(nil)

func (c *UpdateProfileCommand) Execute(ctx context.Context, msg UpdateProfileInput) error {
	if c.service == nil {
		return errNoModerator
	}
	person, err := c.service.UpdateProfile(withActor(ctx, msg.Actor), msg.Actor.Role, msg.Update)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = person
	}
	return nil
}
