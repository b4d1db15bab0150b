package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ActivityLog appends go-users activity records to studio_activity. It is
// the sink behind usersink.Hook when the studio runs with a database.
type ActivityLog struct {
	db    *sqlx.DB
	newID func() string
	now   func() time.Time
}

func NewActivityLog(db *sqlx.DB) *ActivityLog {
	return &ActivityLog{db: db, newID: uuid.NewString, now: time.Now}
}

type activityRow struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	ActorID    string    `db:"actor_id"`
	Verb       string    `db:"verb"`
	ObjectType string    `db:"object_type"`
	ObjectID   string    `db:"object_id"`
	Channel    string    `db:"channel"`
	Data       string    `db:"data_json"`
	OccurredAt time.Time `db:"occurred_at"`
}

func (l *ActivityLog) Log(ctx context.Context, record types.ActivityRecord) error {
	data, err := encodeJSON(record.Data)
	if err != nil {
		return err
	}
	row := activityRow{
		ID:         l.newID(),
		UserID:     idString(record.UserID),
		ActorID:    idString(record.ActorID),
		Verb:       record.Verb,
		ObjectType: record.ObjectType,
		ObjectID:   record.ObjectID,
		Channel:    record.Channel,
		Data:       data,
		OccurredAt: record.OccurredAt.UTC(),
	}
	if record.OccurredAt.IsZero() {
		row.OccurredAt = l.now().UTC()
	}
	query := `INSERT INTO studio_activity (id, user_id, actor_id, verb, object_type, object_id, channel, data_json, occurred_at)
		VALUES (:id, :user_id, :actor_id, :verb, :object_type, :object_id, :channel, :data_json, :occurred_at)`
	if _, err := l.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("sqlstore: log %s %s: %w", row.Verb, row.ObjectID, err)
	}
	return nil
}

// Recent returns the newest records of actorID, newest first.
func (l *ActivityLog) Recent(ctx context.Context, actorID uuid.UUID, limit int) ([]types.ActivityRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []activityRow
	query := l.db.Rebind(`SELECT id, user_id, actor_id, verb, object_type, object_id, channel, data_json, occurred_at
		FROM studio_activity WHERE actor_id = ? ORDER BY occurred_at DESC LIMIT ?`)
	if err := l.db.SelectContext(ctx, &rows, query, actorID.String(), limit); err != nil {
		return nil, fmt.Errorf("sqlstore: recent activity: %w", err)
	}
	out := make([]types.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		record := types.ActivityRecord{
			UserID:     parseID(row.UserID),
			ActorID:    parseID(row.ActorID),
			Verb:       row.Verb,
			ObjectType: row.ObjectType,
			ObjectID:   row.ObjectID,
			Channel:    row.Channel,
			OccurredAt: row.OccurredAt,
		}
		if err := decodeJSON(row.Data, &record.Data); err != nil {
			return nil, fmt.Errorf("sqlstore: activity %s data: %w", row.ID, err)
		}
		out = append(out, record)
	}
	return out, nil
}

func idString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

func parseID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
