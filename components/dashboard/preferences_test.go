package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPreferenceStore(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	viewer := ViewerContext{UserID: "user-1", Locale: "en"}
	overrides := LayoutOverrides{
		AreaOrder:     map[string][]string{AreaMain: {"w2", "w1"}},
		HiddenWidgets: map[string]bool{"w3": true},
	}
	require.NoError(t, store.SaveLayoutOverrides(context.Background(), viewer, overrides))

	overrides.AreaOrder[AreaMain][0] = "mutated"

	out, err := store.LayoutOverrides(context.Background(), viewer)
	require.NoError(t, err)
	assert.Equal(t, []string{"w2", "w1"}, out.AreaOrder[AreaMain])
	assert.True(t, out.HiddenWidgets["w3"])

	out.HiddenWidgets["w9"] = true
	again, err := store.LayoutOverrides(context.Background(), viewer)
	require.NoError(t, err)
	assert.False(t, again.HiddenWidgets["w9"], "callers get copies")
}

func TestPreferenceStoreRequiresUserID(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	err := store.SaveLayoutOverrides(context.Background(), ViewerContext{}, LayoutOverrides{})
	assert.ErrorIs(t, err, errMissingViewer)
}

func TestPreferenceStoreDefaultOverrides(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	overrides, err := store.LayoutOverrides(context.Background(), ViewerContext{})
	require.NoError(t, err)
	assert.NotNil(t, overrides.AreaOrder)
	assert.NotNil(t, overrides.HiddenWidgets)
}

func TestViewerCanEdit(t *testing.T) {
	admin := ViewerContext{UserID: "admin-1", Roles: []string{"admin"}}
	writer := ViewerContext{UserID: "writer-1", Roles: []string{"writer"}}
	assert.True(t, admin.CanEdit([]string{"admin"}))
	assert.False(t, writer.CanEdit([]string{"admin"}))
	assert.True(t, writer.CanEdit(nil))
	assert.False(t, ViewerContext{}.CanEdit([]string{"admin", "blogger"}))
}
