package commands

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-studio/components/studio"
)

// UploadKind selects the multipart endpoint a file goes to.
type UploadKind string

const (
	UploadAvatar UploadKind = "avatar"
	UploadDemo   UploadKind = "demo"
)

// UploadInput carries one validated-on-execute file. Person is filled for
// avatars and Demo for demos.
type UploadInput struct {
	Kind   UploadKind
	File   studio.Upload
	Actor  studio.Actor
	Person *studio.Person
	Demo   *studio.Demo
}

type UploadCommand struct {
	service Submissions
}

func NewUploadCommand(service Submissions) *UploadCommand {
	return &UploadCommand{service: service}
}

var _ gocommand.Commander[UploadInput] = (*UploadCommand)(nil)

func (c *UploadCommand) Execute(ctx context.Context, msg UploadInput) error {
	if c.service == nil {
		return errNoModerator
	}
	ctx = withActor(ctx, msg.Actor)
	switch msg.Kind {
	case UploadAvatar:
		person, err := c.service.UploadAvatar(ctx, msg.Actor.Role, msg.File)
		if err != nil {
			return err
		}
		if msg.Person != nil {
			*msg.Person = person
		}
		return nil
	case UploadDemo:
		demo, err := c.service.UploadDemo(ctx, msg.File)
		if err != nil {
			return err
		}
		if msg.Demo != nil {
			*msg.Demo = demo
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown upload kind %q", studio.ErrValidation, msg.Kind)
	}
}
