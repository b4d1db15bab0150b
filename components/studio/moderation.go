package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/goliatone/go-studio/pkg/activity"
	"github.com/goliatone/go-studio/pkg/telemetry"
)

// Actor is the signed-in person performing a write.
type Actor struct {
	ID   string
	Role Role
}

type actorKey struct{}

// WithActor attaches the acting person to ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored by WithActor.
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// Activity emits audit events.
type Activity interface {
	Emit(ctx context.Context, evt activity.Event) error
}

type noopActivity struct{}

func (noopActivity) Emit(context.Context, activity.Event) error { return nil }

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

// ModeratorOptions wires a Moderator.
type ModeratorOptions struct {
	Sources   Sources
	Validator *validator.Validate
	Activity  Activity
	Telemetry telemetry.Recorder
	Logger    *zap.Logger
	Avatar    UploadLimits
	Demo      UploadLimits
}

// Moderator runs every write the studio performs: admin moderation and the
// submissions of bloggers, writers and vocalists. Inputs are validated before
// any backend call.
type Moderator struct {
	sources   Sources
	validate  *validator.Validate
	activity  Activity
	telemetry telemetry.Recorder
	log       *zap.Logger
	avatar    UploadLimits
	demo      UploadLimits
}

func NewModerator(opts ModeratorOptions) *Moderator {
	m := &Moderator{
		sources:   opts.Sources,
		validate:  opts.Validator,
		activity:  opts.Activity,
		telemetry: opts.Telemetry,
		log:       opts.Logger,
		avatar:    opts.Avatar,
		demo:      opts.Demo,
	}
	if m.validate == nil {
		m.validate = validator.New()
	}
	if m.activity == nil {
		m.activity = noopActivity{}
	}
	if m.telemetry == nil {
		m.telemetry = noopTelemetry{}
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.avatar.MaxBytes == 0 {
		m.avatar = AvatarLimits
	}
	if m.demo.MaxBytes == 0 {
		m.demo = DemoLimits
	}
	return m
}

func (m *Moderator) admin() (AdminSource, error) {
	if m.sources.Admin == nil {
		return nil, errNoAdminSource
	}
	return m.sources.Admin, nil
}

func (m *Moderator) ApproveComment(ctx context.Context, id string) (Comment, error) {
	if err := requireID(id); err != nil {
		return Comment{}, err
	}
	admin, err := m.admin()
	if err != nil {
		return Comment{}, err
	}
	comment, err := admin.ApproveComment(ctx, id)
	if err != nil {
		return Comment{}, m.fail(ctx, "comment.approve", id, err)
	}
	m.record(ctx, "comment.approve", "comment", id, map[string]any{"content_id": comment.ContentID})
	return comment, nil
}

func (m *Moderator) DeleteComment(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	admin, err := m.admin()
	if err != nil {
		return err
	}
	if err := admin.DeleteComment(ctx, id); err != nil {
		return m.fail(ctx, "comment.delete", id, err)
	}
	m.record(ctx, "comment.delete", "comment", id, nil)
	return nil
}

// UpdateContentStatus moves a blog or post through review.
func (m *Moderator) UpdateContentStatus(ctx context.Context, id string, status ContentStatus) (ContentItem, error) {
	if err := requireID(id); err != nil {
		return ContentItem{}, err
	}
	status, err := ParseContentStatus(string(status))
	if err != nil {
		return ContentItem{}, err
	}
	admin, err := m.admin()
	if err != nil {
		return ContentItem{}, err
	}
	item, err := admin.UpdateContentStatus(ctx, id, status)
	if err != nil {
		return ContentItem{}, m.fail(ctx, "content.status", id, err)
	}
	m.record(ctx, "content.status", "content", id, map[string]any{"status": string(status)})
	return item, nil
}

// UpdateRecordingStatus moves a recording request along. Scheduling needs a
// date.
func (m *Moderator) UpdateRecordingStatus(ctx context.Context, id string, update RecordingStatusUpdate) (RecordingRequest, error) {
	if err := requireID(id); err != nil {
		return RecordingRequest{}, err
	}
	if err := m.check(update); err != nil {
		return RecordingRequest{}, err
	}
	status, err := ParseRecordingStatus(string(update.Status))
	if err != nil {
		return RecordingRequest{}, err
	}
	update.Status = status
	if status == RecordingScheduled && update.ScheduledAt == nil {
		return RecordingRequest{}, fmt.Errorf("%w: scheduled_at is required to schedule a session", ErrValidation)
	}
	admin, err := m.admin()
	if err != nil {
		return RecordingRequest{}, err
	}
	req, err := admin.UpdateRecordingStatus(ctx, id, update)
	if err != nil {
		return RecordingRequest{}, m.fail(ctx, "recording.status", id, err)
	}
	m.record(ctx, "recording.status", "recording", id, map[string]any{"status": string(status)})
	return req, nil
}

// SubmitContent creates a blog (bloggers) or post (writers).
func (m *Moderator) SubmitContent(ctx context.Context, role Role, submission ContentSubmission) (ContentItem, error) {
	submission.Title = strings.TrimSpace(submission.Title)
	submission.Tags = cleanTags(submission.Tags)
	if err := m.check(submission); err != nil {
		return ContentItem{}, err
	}
	source, ok := m.sources.Author(role)
	if !ok {
		return ContentItem{}, fmt.Errorf("%w: role %q cannot submit content", ErrValidation, role)
	}
	item, err := source.SubmitContent(ctx, submission)
	if err != nil {
		return ContentItem{}, m.fail(ctx, "content.submit", "", err)
	}
	m.record(ctx, "content.submit", "content", item.ID, map[string]any{"role": string(role), "status": string(item.Status)})
	return item, nil
}

func (m *Moderator) CreateRecordingRequest(ctx context.Context, input RecordingRequestInput) (RecordingRequest, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := m.check(input); err != nil {
		return RecordingRequest{}, err
	}
	if m.sources.Vocalist == nil {
		return RecordingRequest{}, fmt.Errorf("%w: no vocalist source", ErrNotFound)
	}
	req, err := m.sources.Vocalist.CreateRecordingRequest(ctx, input)
	if err != nil {
		return RecordingRequest{}, m.fail(ctx, "recording.create", "", err)
	}
	m.record(ctx, "recording.create", "recording", req.ID, map[string]any{"type": string(req.Type)})
	return req, nil
}

func (m *Moderator) UpdateProfile(ctx context.Context, role Role, update ProfileUpdate) (Person, error) {
	update.Name = strings.TrimSpace(update.Name)
	if err := m.check(update); err != nil {
		return Person{}, err
	}
	source, ok := m.sources.Profiles(role)
	if !ok {
		return Person{}, fmt.Errorf("%w: role %q has no profile", ErrValidation, role)
	}
	person, err := source.UpdateProfile(ctx, update)
	if err != nil {
		return Person{}, m.fail(ctx, "profile.update", "", err)
	}
	m.record(ctx, "profile.update", "person", person.ID, nil)
	return person, nil
}

// UploadAvatar checks size and type locally before sending the file.
func (m *Moderator) UploadAvatar(ctx context.Context, role Role, file Upload) (Person, error) {
	if err := ValidateUpload(m.avatar, file); err != nil {
		return Person{}, err
	}
	source, ok := m.sources.Profiles(role)
	if !ok {
		return Person{}, fmt.Errorf("%w: role %q has no profile", ErrValidation, role)
	}
	if file.Field == "" {
		file.Field = "avatar"
	}
	person, err := source.UploadAvatar(ctx, file)
	if err != nil {
		return Person{}, m.fail(ctx, "profile.avatar", "", err)
	}
	m.record(ctx, "profile.avatar", "person", person.ID, map[string]any{"size": file.Size})
	return person, nil
}

func (m *Moderator) UploadDemo(ctx context.Context, file Upload) (Demo, error) {
	if err := ValidateUpload(m.demo, file); err != nil {
		return Demo{}, err
	}
	if m.sources.Vocalist == nil {
		return Demo{}, fmt.Errorf("%w: no vocalist source", ErrNotFound)
	}
	if file.Field == "" {
		file.Field = "demo"
	}
	demo, err := m.sources.Vocalist.UploadDemo(ctx, file)
	if err != nil {
		return Demo{}, m.fail(ctx, "demo.upload", "", err)
	}
	m.record(ctx, "demo.upload", "demo", demo.ID, map[string]any{"size": file.Size, "filename": demo.Filename})
	return demo, nil
}

// check runs struct validation and folds the failures into ErrValidation.
func (m *Moderator) check(input any) error {
	err := m.validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func (m *Moderator) record(ctx context.Context, event, objectType, id string, meta map[string]any) {
	actor, _ := ActorFrom(ctx)
	payload := map[string]any{"object_id": id}
	for k, v := range meta {
		payload[k] = v
	}
	if actor.ID != "" {
		payload["actor_id"] = actor.ID
	}
	m.telemetry.Record(ctx, "studio."+event, payload)

	verb := event
	if i := strings.LastIndexByte(event, '.'); i >= 0 {
		verb = event[i+1:]
	}
	err := m.activity.Emit(ctx, activity.Event{
		Verb:           verb,
		ActorID:        actor.ID,
		ObjectType:     objectType,
		ObjectID:       id,
		DefinitionCode: event,
		Metadata:       meta,
	})
	if err != nil {
		m.log.Warn("activity emit failed", zap.String("event", event), zap.Error(err))
	}
}

func (m *Moderator) fail(ctx context.Context, event, id string, err error) error {
	m.log.Error("studio write failed", zap.String("event", event), zap.String("id", id), zap.Error(err))
	m.telemetry.Record(ctx, "studio."+event+".failed", map[string]any{"object_id": id, "error": err.Error()})
	return err
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	return nil
}

func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
