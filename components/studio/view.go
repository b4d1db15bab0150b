package studio

// Template payloads. go-template resolves lowercase map keys more reliably
// than struct fields, so views are flattened into maps and ordered slices.

// Action is a per-row moderation button on a listing page. The form posts to
// Prefix/{row id}/Path with value=Value.
type Action struct {
	Label  string
	Prefix string
	Path   string
	Value  string
}

// PageActions returns the moderation buttons offered on slug.
func PageActions(slug string) []Action {
	switch slug {
	case PageBlogs:
		return []Action{
			{Label: "Approve", Prefix: "/studio/blogs", Path: "status", Value: string(ContentApproved)},
			{Label: "Publish", Prefix: "/studio/blogs", Path: "status", Value: string(ContentPublished)},
			{Label: "Request revision", Prefix: "/studio/blogs", Path: "status", Value: string(ContentRevision)},
			{Label: "Reject", Prefix: "/studio/blogs", Path: "status", Value: string(ContentRejected)},
		}
	case PageComments:
		return []Action{
			{Label: "Approve", Prefix: "/studio/comments", Path: "approve"},
			{Label: "Delete", Prefix: "/studio/comments", Path: "delete"},
		}
	case PageRecordings:
		return []Action{
			{Label: "Approve", Prefix: "/studio/recordings", Path: "status", Value: string(RecordingApproved)},
			{Label: "Reject", Prefix: "/studio/recordings", Path: "status", Value: string(RecordingRejected)},
		}
	default:
		return nil
	}
}

// Payload flattens the view for pages/listing.html. Row cells follow the
// column order.
func (v PageView) Payload(actions []Action) map[string]any {
	columns := make([]map[string]any, len(v.Table.Columns))
	for i, col := range v.Table.Columns {
		columns[i] = map[string]any{"key": col.Key, "label": col.Label}
	}
	rows := make([]map[string]any, len(v.Table.Rows))
	for i, row := range v.Table.Rows {
		cells := make([]string, len(v.Table.Columns))
		for j, col := range v.Table.Columns {
			cells[j] = row.Cells[col.Key]
		}
		item := map[string]any{"id": row.ID, "cells": cells}
		if row.Badge != nil {
			item["badge"] = row.Badge.payload()
		}
		rows[i] = item
	}
	acts := make([]map[string]any, len(actions))
	for i, a := range actions {
		acts[i] = map[string]any{"label": a.Label, "prefix": a.Prefix, "path": a.Path, "value": a.Value}
	}
	return map[string]any{
		"slug":    v.Slug,
		"title":   v.Title,
		"query":   v.Query,
		"total":   v.Total,
		"shown":   v.Shown,
		"empty":   v.Empty,
		"loading": v.Loading,
		"error":   v.Error,
		"columns": columns,
		"rows":    rows,
		"actions": acts,
	}
}

func (b Badge) payload() map[string]any {
	return map[string]any{"label": b.Label, "tone": string(b.Tone), "class": b.Class}
}

// Payload renders a card for stat_cards.html and pages/overview.html.
func (c StatCard) Payload() map[string]any {
	return map[string]any{
		"label":   c.Label,
		"value":   c.Value,
		"display": c.Display(),
		"icon":    c.Icon,
		"href":    c.Href,
		"tone":    string(c.Tone),
	}
}

// CardsPayload renders cards in order.
func CardsPayload(cards []StatCard) []map[string]any {
	out := make([]map[string]any, len(cards))
	for i, c := range cards {
		out[i] = c.Payload()
	}
	return out
}

// Payload renders the steps for recording_tracker.html.
func (t Tracker) Payload() []map[string]any {
	out := make([]map[string]any, len(t.Steps))
	for i, s := range t.Steps {
		out[i] = map[string]any{"key": s.Key, "label": s.Label, "state": string(s.State), "branch": s.Branch}
	}
	return out
}

// Payload renders the overview page.
func (o Overview) Payload() map[string]any {
	return map[string]any{"title": "Overview", "cards": CardsPayload(o.Cards)}
}
