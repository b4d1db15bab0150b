package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAreasIdempotent(t *testing.T) {
	store := NewInMemoryWidgetStore()
	ctx := context.Background()
	require.NoError(t, RegisterAreas(ctx, store))
	require.NoError(t, RegisterAreas(ctx, store))
	assert.Len(t, store.areas, len(DefaultAreaDefinitions()))

	assert.ErrorIs(t, RegisterAreas(ctx, nil), errMissingWidgetStore)
}

func TestRegisterDefinitionsCopiesRegistry(t *testing.T) {
	store := &fakeWidgetStore{}
	reg := NewRegistry()
	require.NoError(t, reg.RegisterDefinition(WidgetDefinition{Code: "extra.widget", Name: "Extra"}))
	require.NoError(t, RegisterDefinitions(context.Background(), store, reg))
	assert.Len(t, store.createdDefinition, len(DefaultWidgetDefinitions())+1)
	assert.Contains(t, store.createdDefinition, "extra.widget")
}

func TestBootstrapSeedsOnce(t *testing.T) {
	store := NewInMemoryWidgetStore()
	service := NewService(Options{WidgetStore: store})
	ctx := context.Background()

	require.NoError(t, Bootstrap(ctx, service))
	first := len(store.instances)
	assert.Equal(t, len(DefaultSeedWidgets()), first)

	require.NoError(t, Bootstrap(ctx, service))
	assert.Equal(t, first, len(store.instances), "a populated layout is not reseeded")
}

func TestSeedLayoutReportsFailures(t *testing.T) {
	store := NewInMemoryWidgetStore()
	service := NewService(Options{WidgetStore: store})
	ctx := context.Background()
	require.NoError(t, RegisterAreas(ctx, store))
	require.NoError(t, RegisterDefinitions(ctx, store, service.Registry()))

	placed, err := SeedLayout(ctx, service, AddWidgetRequest{DefinitionID: "missing.widget", AreaCode: AreaMain})
	require.Error(t, err)
	assert.Equal(t, len(DefaultSeedWidgets()), placed)
}

func TestBootstrapLayoutForRoles(t *testing.T) {
	store := NewInMemoryWidgetStore()
	service := NewService(Options{WidgetStore: store, Authorizer: RoleAuthorizer{Registry: NewRegistry()}})
	ctx := context.Background()
	require.NoError(t, Bootstrap(ctx, service))

	vocalist, err := service.ConfigureLayout(ctx, ViewerContext{UserID: "v1", Roles: []string{"vocalist"}})
	require.NoError(t, err)
	assert.Empty(t, vocalist.Areas[AreaMain])
	assert.Empty(t, vocalist.Areas[AreaSidebar])
	footer := vocalist.Areas[AreaFooter]
	require.Len(t, footer, 2)
	assert.Equal(t, WidgetRecordingTracker, footer[0].DefinitionID)
	assert.Equal(t, WidgetQuickActions, footer[1].DefinitionID)

	admin, err := service.ConfigureLayout(ctx, ViewerContext{UserID: "a1", Roles: []string{"admin"}})
	require.NoError(t, err)
	assert.Len(t, admin.Areas[AreaMain], 2)
	assert.Len(t, admin.Areas[AreaSidebar], 2)
}
