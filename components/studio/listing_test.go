package studio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func peopleListing(fetch Fetcher[Person], log *zap.Logger) *Listing[Person] {
	return NewListing(ListingConfig[Person]{
		Name:   "bloggers",
		Fetch:  fetch,
		Fields: PersonFields,
		Key:    personKey,
		Logger: log,
	})
}

func TestFilterMatchesAnyFieldIgnoringCase(t *testing.T) {
	people := sampleAdmin().people[RoleBlogger]

	assert.Len(t, Filter(people, "ADA", PersonFields), 1)
	assert.Len(t, Filter(people, "london", PersonFields), 1)
	assert.Len(t, Filter(people, "example.com", PersonFields), 2)
	assert.Empty(t, Filter(people, "nobody", PersonFields))
	assert.Equal(t, people, Filter(people, "   ", PersonFields))
}

func TestListingLoadAndFilter(t *testing.T) {
	admin := sampleAdmin()
	l := peopleListing(func(ctx context.Context) ([]Person, error) {
		return admin.ListPeople(ctx, RoleBlogger)
	}, nil)

	require.NoError(t, l.Load(context.Background()))
	assert.Len(t, l.Items(), 2)
	assert.False(t, l.Loading())

	l.SetQuery("grace")
	require.Len(t, l.Items(), 1)
	assert.Equal(t, "b2", l.Items()[0].ID)
	assert.Len(t, l.All(), 2)

	l.SetQuery("zzz")
	assert.Empty(t, l.Items())

	l.SetQuery("")
	assert.Len(t, l.Items(), 2)
}

func TestListingQueryAppliesToLaterLoad(t *testing.T) {
	admin := sampleAdmin()
	l := peopleListing(func(ctx context.Context) ([]Person, error) {
		return admin.ListPeople(ctx, RoleBlogger)
	}, nil)

	l.SetQuery("ada")
	require.NoError(t, l.Load(context.Background()))
	assert.Len(t, l.Items(), 1)
	assert.Equal(t, "ada", l.Query())
}

func TestListingLoadingFlag(t *testing.T) {
	var during bool
	var l *Listing[Person]
	l = peopleListing(func(context.Context) ([]Person, error) {
		during = l.Loading()
		return nil, nil
	}, nil)

	require.NoError(t, l.Load(context.Background()))
	assert.True(t, during)
	assert.False(t, l.Loading())
}

func TestListingFailureFallsBackToEmptyAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	admin := sampleAdmin()
	l := peopleListing(func(ctx context.Context) ([]Person, error) {
		return admin.ListPeople(ctx, RoleBlogger)
	}, zap.New(core))

	require.NoError(t, l.Load(context.Background()))
	require.Len(t, l.Items(), 2)

	admin.fail = map[string]error{"people:blogger": errBackend}
	err := l.Load(context.Background())
	require.ErrorIs(t, err, errBackend)
	assert.ErrorIs(t, l.Err(), errBackend)
	assert.Empty(t, l.Items())
	assert.Empty(t, l.All())

	entries := logs.FilterMessage("listing fetch failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "bloggers", entries[0].ContextMap()["listing"])
}

func TestListingWithoutFetcher(t *testing.T) {
	l := NewListing(ListingConfig[Person]{Name: "empty"})
	assert.ErrorIs(t, l.Load(context.Background()), errNoFetcher)
	assert.Empty(t, l.Items())
}

func TestListingPatchCopiesCollection(t *testing.T) {
	source := []Person{{ID: "a", Name: "Ann"}, {ID: "b", Name: "Bob"}}
	l := peopleListing(func(context.Context) ([]Person, error) { return source, nil }, nil)
	require.NoError(t, l.Load(context.Background()))

	assert.True(t, l.Patch(Person{ID: "b", Name: "Bobby"}))
	assert.Equal(t, "Bob", source[1].Name, "fetched slice must not be written")
	assert.Equal(t, "Bobby", l.All()[1].Name)

	assert.False(t, l.Patch(Person{ID: "zzz"}))
}

func TestListingPatchRefiltersView(t *testing.T) {
	source := []Person{{ID: "a", Name: "Ann"}, {ID: "b", Name: "Bob"}}
	l := peopleListing(func(context.Context) ([]Person, error) { return source, nil }, nil)
	require.NoError(t, l.Load(context.Background()))
	l.SetQuery("bob")
	require.Len(t, l.Items(), 1)

	l.Patch(Person{ID: "b", Name: "Robert"})
	assert.Empty(t, l.Items())
}

func TestListingRemove(t *testing.T) {
	source := []Person{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	l := peopleListing(func(context.Context) ([]Person, error) { return source, nil }, nil)
	require.NoError(t, l.Load(context.Background()))

	assert.True(t, l.Remove("b"))
	assert.Len(t, l.Items(), 2)
	assert.Equal(t, "b", source[1].ID)
	assert.False(t, l.Remove("b"))
}

func TestListingWithoutKeyIgnoresPatch(t *testing.T) {
	l := NewListing(ListingConfig[Person]{Fetch: func(context.Context) ([]Person, error) {
		return []Person{{ID: "a"}}, nil
	}})
	require.NoError(t, l.Load(context.Background()))
	assert.False(t, l.Patch(Person{ID: "a", Name: "x"}))
	assert.False(t, l.Remove("a"))
}

func TestContentAndRecordingFields(t *testing.T) {
	items := []ContentItem{
		{ID: "1", Title: "Intro", Tags: []string{"golang"}},
		{ID: "2", Title: "Other", Status: ContentRejected},
	}
	assert.Len(t, Filter(items, "GOLANG", ContentFields), 1)
	assert.Len(t, Filter(items, "rejected", ContentFields), 1)

	recs := []RecordingRequest{{ID: "r", Type: RecordingRemote, Location: "Berlin"}}
	assert.Len(t, Filter(recs, "berlin", RecordingFields), 1)
	assert.Len(t, Filter(recs, "remote", RecordingFields), 1)
}
