package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededMemoryStore(t *testing.T) *InMemoryWidgetStore {
	t.Helper()
	store := NewInMemoryWidgetStore()
	next := 0
	store.newID = func() string {
		next++
		return "w" + string(rune('0'+next))
	}
	for _, def := range DefaultWidgetDefinitions() {
		_, err := store.EnsureDefinition(context.Background(), def)
		require.NoError(t, err)
	}
	return store
}

func TestInMemoryWidgetStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := seededMemoryStore(t)

	_, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{DefinitionID: "unknown"})
	require.Error(t, err)

	for range 3 {
		inst, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{DefinitionID: WidgetQuickActions})
		require.NoError(t, err)
		require.NoError(t, store.AssignInstance(ctx, AssignWidgetInput{AreaCode: AreaFooter, InstanceID: inst.ID}))
	}
	first := 0
	extra, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{DefinitionID: WidgetStatCards})
	require.NoError(t, err)
	require.NoError(t, store.AssignInstance(ctx, AssignWidgetInput{AreaCode: AreaFooter, InstanceID: extra.ID, Position: &first}))

	area, err := store.ResolveArea(ctx, ResolveAreaInput{AreaCode: AreaFooter})
	require.NoError(t, err)
	assert.Equal(t, []string{"w4", "w1", "w2", "w3"}, widgetIDs(area.Widgets))
	assert.Equal(t, AreaFooter, area.Widgets[0].AreaCode)

	require.NoError(t, store.ReorderArea(ctx, ReorderAreaInput{AreaCode: AreaFooter, WidgetIDs: []string{"w3", "ghost", "w1"}}))
	area, err = store.ResolveArea(ctx, ResolveAreaInput{AreaCode: AreaFooter})
	require.NoError(t, err)
	assert.Equal(t, []string{"w3", "w1", "w4", "w2"}, widgetIDs(area.Widgets))

	require.NoError(t, store.AssignInstance(ctx, AssignWidgetInput{AreaCode: AreaMain, InstanceID: "w3"}))
	area, err = store.ResolveArea(ctx, ResolveAreaInput{AreaCode: AreaFooter})
	require.NoError(t, err)
	assert.Equal(t, []string{"w1", "w4", "w2"}, widgetIDs(area.Widgets), "assigning moves the instance")

	require.NoError(t, store.DeleteInstance(ctx, "w1"))
	assert.ErrorIs(t, store.DeleteInstance(ctx, "w1"), ErrWidgetNotFound)
	_, err = store.GetInstance(ctx, "w1")
	assert.ErrorIs(t, err, ErrWidgetNotFound)
	area, err = store.ResolveArea(ctx, ResolveAreaInput{AreaCode: AreaFooter})
	require.NoError(t, err)
	assert.Equal(t, []string{"w4", "w2"}, widgetIDs(area.Widgets))
}

func TestInMemoryWidgetStoreUpdateMergesMetadata(t *testing.T) {
	ctx := context.Background()
	store := seededMemoryStore(t)
	inst, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{
		DefinitionID:  WidgetRecentComments,
		Configuration: map[string]any{"limit": 5},
		Metadata:      map[string]any{"user_id": "u1"},
	})
	require.NoError(t, err)

	updated, err := store.UpdateInstance(ctx, UpdateWidgetInstanceInput{
		InstanceID:    inst.ID,
		Configuration: map[string]any{"limit": 10},
		Metadata:      map[string]any{"note": "bigger"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"limit": 10}, updated.Configuration)
	assert.Equal(t, map[string]any{"user_id": "u1", "note": "bigger"}, updated.Metadata)

	updated.Configuration["limit"] = 99
	again, err := store.GetInstance(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, again.Configuration["limit"], "store returns copies")

	_, err = store.UpdateInstance(ctx, UpdateWidgetInstanceInput{InstanceID: "ghost"})
	assert.ErrorIs(t, err, ErrWidgetNotFound)
}

func TestInMemoryWidgetStoreAudience(t *testing.T) {
	ctx := context.Background()
	store := seededMemoryStore(t)
	for _, roles := range [][]string{{"admin"}, {"vocalist"}, nil} {
		inst, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{
			DefinitionID: WidgetQuickActions,
			Visibility:   WidgetVisibility{Roles: roles},
		})
		require.NoError(t, err)
		require.NoError(t, store.AssignInstance(ctx, AssignWidgetInput{AreaCode: AreaMain, InstanceID: inst.ID}))
	}
	area, err := store.ResolveArea(ctx, ResolveAreaInput{AreaCode: AreaMain, Audience: []string{"vocalist"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"w2", "w3"}, widgetIDs(area.Widgets))

	area, err = store.ResolveArea(ctx, ResolveAreaInput{AreaCode: AreaMain})
	require.NoError(t, err)
	assert.Len(t, area.Widgets, 3)
}
