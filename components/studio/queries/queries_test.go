package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-studio/components/studio"
)

type stubAdmin struct {
	studio.AdminSource
	people []studio.Person
}

func (s stubAdmin) ListPeople(context.Context, studio.Role) ([]studio.Person, error) {
	return s.people, nil
}

type stubAuthor struct {
	studio.AuthorSource
	items []studio.ContentItem
}

func (s stubAuthor) MyContent(context.Context) ([]studio.ContentItem, error) {
	return s.items, nil
}

func TestPageQuery(t *testing.T) {
	pages := studio.NewPages(studio.PagesOptions{Sources: studio.Sources{Admin: stubAdmin{people: []studio.Person{
		{ID: "1", Name: "Ada"}, {ID: "2", Name: "Grace"},
	}}}})
	view, err := NewPageQuery(pages).Query(context.Background(), PageInput{Slug: studio.PageWriters, Query: "ada"})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, 1, view.Shown)

	_, err = NewPageQuery(pages).Query(context.Background(), PageInput{Slug: "nope"})
	assert.ErrorIs(t, err, studio.ErrNotFound)
	_, err = NewPageQuery(nil).Query(context.Background(), PageInput{})
	assert.Error(t, err)
}

func TestPageQueryAppliesChange(t *testing.T) {
	pages := studio.NewPages(studio.PagesOptions{Sources: studio.Sources{Admin: stubAdmin{people: []studio.Person{
		{ID: "1", Name: "Ada"}, {ID: "2", Name: "Grace"},
	}}}})
	view, err := NewPageQuery(pages).Query(context.Background(), PageInput{
		Slug:   studio.PageWriters,
		Change: studio.Change{Record: studio.Person{ID: "2", Name: "Grace Hopper"}},
	})
	require.NoError(t, err)
	people := view.Items.([]studio.Person)
	require.Len(t, people, 2)
	assert.Equal(t, "Grace Hopper", people[1].Name)

	view, err = NewPageQuery(pages).Query(context.Background(), PageInput{
		Slug:   studio.PageWriters,
		Change: studio.Change{RemovedID: "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Total)
}

func TestMyContentQuery(t *testing.T) {
	pages := studio.NewPages(studio.PagesOptions{Sources: studio.Sources{Writer: stubAuthor{items: []studio.ContentItem{
		{ID: "p1", Title: "Haiku", Status: studio.ContentDraft},
	}}}})
	view, err := NewMyContentQuery(pages).Query(context.Background(), MyContentInput{Role: studio.RoleWriter})
	require.NoError(t, err)
	assert.Equal(t, "My Posts", view.Title)
	assert.Equal(t, 1, view.Shown)

	view, err = NewMyContentQuery(pages).Query(context.Background(), MyContentInput{Role: studio.RoleVocalist})
	require.NoError(t, err)
	assert.True(t, view.Empty)
	assert.NotEmpty(t, view.Error)
}

func TestOverviewQuery(t *testing.T) {
	pages := studio.NewPages(studio.PagesOptions{})
	overview, err := NewOverviewQuery(pages).Query(context.Background(), struct{}{})
	require.NoError(t, err)
	for _, card := range overview.Cards {
		assert.Zero(t, card.Value)
	}
}
