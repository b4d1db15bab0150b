package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// RegisterAreas ensures the studio widget areas exist in the store.
func RegisterAreas(ctx context.Context, store WidgetStore) error {
	if store == nil {
		return errMissingWidgetStore
	}
	for _, area := range DefaultAreaDefinitions() {
		if _, err := store.EnsureArea(ctx, area); err != nil {
			return fmt.Errorf("dashboard: register area %s: %w", area.Code, err)
		}
	}
	return nil
}

// RegisterDefinitions copies every registry definition into the store. With
// a nil registry the built-in definitions are used.
func RegisterDefinitions(ctx context.Context, store WidgetStore, registry ProviderRegistry) error {
	if store == nil {
		return errMissingWidgetStore
	}
	defs := DefaultWidgetDefinitions()
	if registry != nil {
		defs = registry.Definitions()
	}
	for _, def := range defs {
		if _, err := store.EnsureDefinition(ctx, def); err != nil {
			return fmt.Errorf("dashboard: register definition %s: %w", def.Code, err)
		}
	}
	return nil
}

// SeedLayout places the starter widgets unless the areas already hold some.
// Extra requests (from a manifest) are placed after the defaults.
func SeedLayout(ctx context.Context, service *Service, extra ...AddWidgetRequest) (int, error) {
	if service == nil {
		return 0, errors.New("dashboard: service is required to seed layout")
	}
	store, err := service.widgetStore()
	if err != nil {
		return 0, err
	}
	populated, err := layoutPopulated(ctx, store, service.areaList())
	if err != nil {
		return 0, err
	}
	if populated {
		return 0, nil
	}
	var (
		seedErr error
		placed  int
	)
	for _, req := range slices.Concat(DefaultSeedWidgets(), extra) {
		if err := service.AddWidget(ctx, req); err != nil {
			seedErr = errors.Join(seedErr, err)
			continue
		}
		placed++
	}
	return placed, seedErr
}

// RegisterCatalog stores the studio areas and the service registry's
// widget definitions.
func RegisterCatalog(ctx context.Context, service *Service) error {
	if service == nil {
		return errors.New("dashboard: service is required to register the catalog")
	}
	store, err := service.widgetStore()
	if err != nil {
		return err
	}
	if err := RegisterAreas(ctx, store); err != nil {
		return err
	}
	return RegisterDefinitions(ctx, store, service.Registry())
}

// Bootstrap registers the catalog and seeds the starter layout.
func Bootstrap(ctx context.Context, service *Service, extra ...AddWidgetRequest) error {
	if err := RegisterCatalog(ctx, service); err != nil {
		return err
	}
	_, err := SeedLayout(ctx, service, extra...)
	return err
}

func layoutPopulated(ctx context.Context, store WidgetStore, areas []string) (bool, error) {
	for _, area := range areas {
		resolved, err := store.ResolveArea(ctx, ResolveAreaInput{AreaCode: area})
		if err != nil {
			return false, fmt.Errorf("dashboard: inspect %s: %w", area, err)
		}
		if len(resolved.Widgets) > 0 {
			return true, nil
		}
	}
	return false, nil
}
