// Package usersink forwards studio activity into a go-users activity sink.
package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/goliatone/go-studio/pkg/activity"
)

// Sink is the write side of a go-users activity store.
type Sink interface {
	Log(ctx context.Context, record types.ActivityRecord) error
}

// Hook maps activity events onto go-users records.
type Hook struct {
	Sink Sink
}

var _ activity.Hook = Hook{}

func (h Hook) Notify(ctx context.Context, evt activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	evt = activity.NormalizeEvent(evt)
	if !activity.Valid(evt) {
		return nil
	}

	data := make(map[string]any, len(evt.Metadata)+2)
	for k, v := range evt.Metadata {
		data[k] = v
	}
	if evt.DefinitionCode != "" {
		data["definition_code"] = evt.DefinitionCode
	}
	if len(evt.Recipients) > 0 {
		data["recipients"] = evt.Recipients
	}

	return h.Sink.Log(ctx, types.ActivityRecord{
		UserID:     toUUID(evt.UserID),
		ActorID:    toUUID(evt.ActorID),
		TenantID:   toUUID(evt.TenantID),
		Verb:       evt.Verb,
		ObjectType: evt.ObjectType,
		ObjectID:   evt.ObjectID,
		Channel:    evt.Channel,
		Data:       data,
		OccurredAt: evt.OccurredAt,
	})
}

// toUUID keeps real UUIDs and derives a stable one from backend ids that are
// not, so the same person always maps to the same record owner.
func toUUID(id string) uuid.UUID {
	id = strings.TrimSpace(id)
	if id == "" {
		return uuid.Nil
	}
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("studio:"+id))
}
