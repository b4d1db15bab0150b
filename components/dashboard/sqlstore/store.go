// Package sqlstore persists dashboard layouts, viewer preferences and the
// studio activity log with sqlx. Queries use ? placeholders and are rebound for the driver, so the
// same store serves SQLite and Postgres.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/goliatone/go-studio/components/dashboard"
)

// Schema creates the layout tables. Every statement is idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS dashboard_areas (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS dashboard_definitions (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		schema_json TEXT NOT NULL DEFAULT '{}',
		roles_json TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS dashboard_widgets (
		id TEXT PRIMARY KEY,
		definition_id TEXT NOT NULL,
		area_code TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		configuration_json TEXT NOT NULL DEFAULT '{}',
		visibility_json TEXT NOT NULL DEFAULT '{}',
		metadata_json TEXT NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS dashboard_widgets_area ON dashboard_widgets (area_code, position)`,
	`CREATE TABLE IF NOT EXISTS dashboard_preferences (
		user_id TEXT PRIMARY KEY,
		overrides_json TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS studio_activity (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT '',
		actor_id TEXT NOT NULL DEFAULT '',
		verb TEXT NOT NULL,
		object_type TEXT NOT NULL,
		object_id TEXT NOT NULL,
		channel TEXT NOT NULL DEFAULT '',
		data_json TEXT NOT NULL DEFAULT '{}',
		occurred_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS studio_activity_actor ON studio_activity (actor_id, occurred_at)`,
}

// Migrate applies Schema.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlstore: migrate: %w", err)
		}
	}
	return nil
}

// Store implements dashboard.WidgetStore and dashboard.PreferenceStore.
type Store struct {
	db    *sqlx.DB
	newID func() string
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db, newID: uuid.NewString}
}

var (
	_ dashboard.WidgetStore     = (*Store)(nil)
	_ dashboard.PreferenceStore = (*Store)(nil)
)

type widgetRow struct {
	ID            string `db:"id"`
	DefinitionID  string `db:"definition_id"`
	AreaCode      string `db:"area_code"`
	Position      int    `db:"position"`
	Configuration string `db:"configuration_json"`
	Visibility    string `db:"visibility_json"`
	Metadata      string `db:"metadata_json"`
}

const widgetColumns = `id, definition_id, area_code, position, configuration_json, visibility_json, metadata_json`

func (r widgetRow) instance() (dashboard.WidgetInstance, error) {
	inst := dashboard.WidgetInstance{ID: r.ID, DefinitionID: r.DefinitionID, AreaCode: r.AreaCode}
	if err := decodeJSON(r.Configuration, &inst.Configuration); err != nil {
		return inst, fmt.Errorf("sqlstore: widget %s configuration: %w", r.ID, err)
	}
	if err := decodeJSON(r.Visibility, &inst.Visibility); err != nil {
		return inst, fmt.Errorf("sqlstore: widget %s visibility: %w", r.ID, err)
	}
	if err := decodeJSON(r.Metadata, &inst.Metadata); err != nil {
		return inst, fmt.Errorf("sqlstore: widget %s metadata: %w", r.ID, err)
	}
	return inst, nil
}

func (s *Store) EnsureArea(ctx context.Context, def dashboard.WidgetAreaDefinition) (bool, error) {
	exists, err := s.exists(ctx, `SELECT COUNT(1) FROM dashboard_areas WHERE code = ?`, def.Code)
	if err != nil {
		return false, fmt.Errorf("sqlstore: ensure area %s: %w", def.Code, err)
	}
	query := s.db.Rebind(`INSERT INTO dashboard_areas (code, name, description) VALUES (?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET name = excluded.name, description = excluded.description`)
	if _, err := s.db.ExecContext(ctx, query, def.Code, def.Name, def.Description); err != nil {
		return false, fmt.Errorf("sqlstore: ensure area %s: %w", def.Code, err)
	}
	return !exists, nil
}

func (s *Store) EnsureDefinition(ctx context.Context, def dashboard.WidgetDefinition) (bool, error) {
	exists, err := s.exists(ctx, `SELECT COUNT(1) FROM dashboard_definitions WHERE code = ?`, def.Code)
	if err != nil {
		return false, fmt.Errorf("sqlstore: ensure definition %s: %w", def.Code, err)
	}
	schema, err := encodeJSON(def.Schema)
	if err != nil {
		return false, err
	}
	roles, err := encodeJSON(def.Roles)
	if err != nil {
		return false, err
	}
	query := s.db.Rebind(`INSERT INTO dashboard_definitions (code, name, description, category, schema_json, roles_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET name = excluded.name, description = excluded.description,
			category = excluded.category, schema_json = excluded.schema_json, roles_json = excluded.roles_json`)
	if _, err := s.db.ExecContext(ctx, query, def.Code, def.Name, def.Description, def.Category, schema, roles); err != nil {
		return false, fmt.Errorf("sqlstore: ensure definition %s: %w", def.Code, err)
	}
	return !exists, nil
}

func (s *Store) CreateInstance(ctx context.Context, input dashboard.CreateWidgetInstanceInput) (dashboard.WidgetInstance, error) {
	known, err := s.exists(ctx, `SELECT COUNT(1) FROM dashboard_definitions WHERE code = ?`, input.DefinitionID)
	if err != nil {
		return dashboard.WidgetInstance{}, fmt.Errorf("sqlstore: create widget: %w", err)
	}
	if !known {
		return dashboard.WidgetInstance{}, fmt.Errorf("sqlstore: widget definition %s not found", input.DefinitionID)
	}
	inst := dashboard.WidgetInstance{
		ID:            s.newID(),
		DefinitionID:  input.DefinitionID,
		Configuration: maps.Clone(input.Configuration),
		Visibility:    input.Visibility,
		Metadata:      maps.Clone(input.Metadata),
	}
	row, err := rowFor(inst)
	if err != nil {
		return dashboard.WidgetInstance{}, err
	}
	query := s.db.Rebind(`INSERT INTO dashboard_widgets (` + widgetColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, row.ID, row.DefinitionID, row.AreaCode, row.Position, row.Configuration, row.Visibility, row.Metadata); err != nil {
		return dashboard.WidgetInstance{}, fmt.Errorf("sqlstore: create widget: %w", err)
	}
	return inst, nil
}

func (s *Store) GetInstance(ctx context.Context, instanceID string) (dashboard.WidgetInstance, error) {
	row, err := s.getRow(ctx, s.db, instanceID)
	if err != nil {
		return dashboard.WidgetInstance{}, err
	}
	return row.instance()
}

// UpdateInstance replaces the configuration and merges metadata keys.
func (s *Store) UpdateInstance(ctx context.Context, input dashboard.UpdateWidgetInstanceInput) (dashboard.WidgetInstance, error) {
	row, err := s.getRow(ctx, s.db, input.InstanceID)
	if err != nil {
		return dashboard.WidgetInstance{}, err
	}
	inst, err := row.instance()
	if err != nil {
		return dashboard.WidgetInstance{}, err
	}
	inst.Configuration = maps.Clone(input.Configuration)
	if len(input.Metadata) > 0 {
		if inst.Metadata == nil {
			inst.Metadata = map[string]any{}
		}
		maps.Copy(inst.Metadata, input.Metadata)
	}
	next, err := rowFor(inst)
	if err != nil {
		return dashboard.WidgetInstance{}, err
	}
	query := s.db.Rebind(`UPDATE dashboard_widgets SET configuration_json = ?, metadata_json = ? WHERE id = ?`)
	if _, err := s.db.ExecContext(ctx, query, next.Configuration, next.Metadata, inst.ID); err != nil {
		return dashboard.WidgetInstance{}, fmt.Errorf("sqlstore: update widget %s: %w", inst.ID, err)
	}
	return inst, nil
}

func (s *Store) DeleteInstance(ctx context.Context, instanceID string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM dashboard_widgets WHERE id = ?`), instanceID)
	if err != nil {
		return fmt.Errorf("sqlstore: delete widget %s: %w", instanceID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return dashboard.ErrWidgetNotFound
	}
	return nil
}

// AssignInstance moves an instance into an area at Position, or at the end,
// and renumbers the area.
func (s *Store) AssignInstance(ctx context.Context, input dashboard.AssignWidgetInput) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.getRow(ctx, tx, input.InstanceID); err != nil {
			return err
		}
		var order []string
		query := tx.Rebind(`SELECT id FROM dashboard_widgets WHERE area_code = ? AND id <> ? ORDER BY position, id`)
		if err := tx.SelectContext(ctx, &order, query, input.AreaCode, input.InstanceID); err != nil {
			return fmt.Errorf("sqlstore: load area %s: %w", input.AreaCode, err)
		}
		if input.Position != nil && *input.Position >= 0 && *input.Position <= len(order) {
			order = slices.Insert(order, *input.Position, input.InstanceID)
		} else {
			order = append(order, input.InstanceID)
		}
		return writePositions(ctx, tx, input.AreaCode, order)
	})
}

// ReorderArea applies the listed order; assigned ids missing from the list
// keep their relative order at the end, and foreign ids are ignored.
func (s *Store) ReorderArea(ctx context.Context, input dashboard.ReorderAreaInput) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var current []string
		query := tx.Rebind(`SELECT id FROM dashboard_widgets WHERE area_code = ? ORDER BY position, id`)
		if err := tx.SelectContext(ctx, &current, query, input.AreaCode); err != nil {
			return fmt.Errorf("sqlstore: load area %s: %w", input.AreaCode, err)
		}
		next := make([]string, 0, len(current))
		for _, id := range input.WidgetIDs {
			if slices.Contains(current, id) && !slices.Contains(next, id) {
				next = append(next, id)
			}
		}
		for _, id := range current {
			if !slices.Contains(next, id) {
				next = append(next, id)
			}
		}
		return writePositions(ctx, tx, input.AreaCode, next)
	})
}

// ResolveArea returns the area's instances whose roles match the audience;
// an empty audience returns them all.
func (s *Store) ResolveArea(ctx context.Context, input dashboard.ResolveAreaInput) (dashboard.ResolvedArea, error) {
	var rows []widgetRow
	query := s.db.Rebind(`SELECT ` + widgetColumns + ` FROM dashboard_widgets WHERE area_code = ? ORDER BY position, id`)
	if err := s.db.SelectContext(ctx, &rows, query, input.AreaCode); err != nil {
		return dashboard.ResolvedArea{}, fmt.Errorf("sqlstore: resolve area %s: %w", input.AreaCode, err)
	}
	widgets := make([]dashboard.WidgetInstance, 0, len(rows))
	for _, row := range rows {
		inst, err := row.instance()
		if err != nil {
			return dashboard.ResolvedArea{}, err
		}
		if !rolesMatch(inst.Visibility.Roles, input.Audience) {
			continue
		}
		widgets = append(widgets, inst)
	}
	return dashboard.ResolvedArea{AreaCode: input.AreaCode, Widgets: widgets}, nil
}

// LayoutOverrides returns the viewer's saved preferences, or empty maps.
func (s *Store) LayoutOverrides(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.LayoutOverrides, error) {
	out := dashboard.LayoutOverrides{AreaOrder: map[string][]string{}, HiddenWidgets: map[string]bool{}}
	if viewer.UserID == "" {
		return out, nil
	}
	var raw string
	query := s.db.Rebind(`SELECT overrides_json FROM dashboard_preferences WHERE user_id = ?`)
	err := s.db.GetContext(ctx, &raw, query, viewer.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("sqlstore: load preferences %s: %w", viewer.UserID, err)
	}
	if err := decodeJSON(raw, &out); err != nil {
		return out, fmt.Errorf("sqlstore: decode preferences %s: %w", viewer.UserID, err)
	}
	if out.AreaOrder == nil {
		out.AreaOrder = map[string][]string{}
	}
	if out.HiddenWidgets == nil {
		out.HiddenWidgets = map[string]bool{}
	}
	return out, nil
}

func (s *Store) SaveLayoutOverrides(ctx context.Context, viewer dashboard.ViewerContext, overrides dashboard.LayoutOverrides) error {
	if viewer.UserID == "" {
		return errors.New("sqlstore: viewer user id is required")
	}
	raw, err := encodeJSON(overrides)
	if err != nil {
		return err
	}
	query := s.db.Rebind(`INSERT INTO dashboard_preferences (user_id, overrides_json) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET overrides_json = excluded.overrides_json`)
	if _, err := s.db.ExecContext(ctx, query, viewer.UserID, raw); err != nil {
		return fmt.Errorf("sqlstore: save preferences %s: %w", viewer.UserID, err)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, s.db.Rebind(query), args...); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) getRow(ctx context.Context, q sqlx.QueryerContext, id string) (widgetRow, error) {
	var row widgetRow
	query := s.db.Rebind(`SELECT ` + widgetColumns + ` FROM dashboard_widgets WHERE id = ?`)
	err := sqlx.GetContext(ctx, q, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return row, dashboard.ErrWidgetNotFound
	}
	if err != nil {
		return row, fmt.Errorf("sqlstore: load widget %s: %w", id, err)
	}
	return row, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: commit: %w", err)
	}
	return nil
}

func writePositions(ctx context.Context, tx *sqlx.Tx, area string, order []string) error {
	query := tx.Rebind(`UPDATE dashboard_widgets SET area_code = ?, position = ? WHERE id = ?`)
	for i, id := range order {
		if _, err := tx.ExecContext(ctx, query, area, i, id); err != nil {
			return fmt.Errorf("sqlstore: position %s: %w", id, err)
		}
	}
	return nil
}

func rowFor(inst dashboard.WidgetInstance) (widgetRow, error) {
	row := widgetRow{ID: inst.ID, DefinitionID: inst.DefinitionID, AreaCode: inst.AreaCode}
	var err error
	if row.Configuration, err = encodeJSON(inst.Configuration); err != nil {
		return row, err
	}
	if row.Visibility, err = encodeJSON(inst.Visibility); err != nil {
		return row, err
	}
	if row.Metadata, err = encodeJSON(inst.Metadata); err != nil {
		return row, err
	}
	return row, nil
}

func rolesMatch(allowed, audience []string) bool {
	if len(allowed) == 0 || len(audience) == 0 {
		return true
	}
	for _, role := range audience {
		if slices.Contains(allowed, role) {
			return true
		}
	}
	return false
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("sqlstore: encode: %w", err)
	}
	return string(data), nil
}

func decodeJSON(raw string, dst any) error {
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}
