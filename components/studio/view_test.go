package studio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageViewPayloadOrdersCells(t *testing.T) {
	pages := NewPages(PagesOptions{Sources: Sources{Admin: sampleAdmin()}})
	view, err := pages.Page(context.Background(), PageBlogs, "")
	require.NoError(t, err)

	payload := view.Payload(PageActions(PageBlogs))
	columns := payload["columns"].([]map[string]any)
	rows := payload["rows"].([]map[string]any)
	require.Len(t, rows, 2)
	cells := rows[0]["cells"].([]string)
	require.Len(t, cells, len(columns))
	for i, col := range view.Table.Columns {
		assert.Equal(t, view.Table.Rows[0].Cell(col.Key), cells[i])
	}
	assert.Equal(t, "c1", rows[0]["id"])
	assert.Equal(t, "Pending", rows[0]["badge"].(map[string]any)["label"])
	assert.Len(t, payload["actions"], 4)
	assert.Equal(t, 2, payload["total"])
}

func TestPageActions(t *testing.T) {
	comments := PageActions(PageComments)
	require.Len(t, comments, 2)
	assert.Equal(t, "approve", comments[0].Path)
	assert.Empty(t, PageActions(PageBloggers))
}

func TestOverviewPayload(t *testing.T) {
	overview := Overview{Cards: []StatCard{{Label: "Writers", Value: 1200, Tone: ToneInfo}}}
	payload := overview.Payload()
	cards := payload["cards"].([]map[string]any)
	require.Len(t, cards, 1)
	assert.Equal(t, "1,200", cards[0]["display"])
	assert.Equal(t, "info", cards[0]["tone"])
}

func TestTrackerPayload(t *testing.T) {
	steps := ContentTracker(ContentRejected).Payload()
	last := steps[len(steps)-1]
	assert.Equal(t, true, last["branch"])
	assert.Equal(t, "current", last["state"])
}
