package dashboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/goliatone/go-studio/components/dashboard"
	dashboardpkg "github.com/goliatone/go-studio/pkg/dashboard"
)

func TestStartSeedsInMemoryLayout(t *testing.T) {
	service, err := dashboardpkg.Start(context.Background(), dashboardpkg.Options{})
	require.NoError(t, err)

	layout, err := service.ConfigureLayout(context.Background(), dashboardpkg.ViewerContext{UserID: "admin-1", Roles: []string{"admin"}})
	require.NoError(t, err)
	assert.NotEmpty(t, layout.Areas[core.AreaMain])
}
