package dashboard

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// InMemoryPreferenceStore keeps layout overrides per user id for the life of
// the process.
type InMemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]LayoutOverrides
}

func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{
		data: make(map[string]LayoutOverrides),
	}
}

// LayoutOverrides returns a copy of the stored overrides, or empty maps for
// anonymous and unknown viewers.
func (s *InMemoryPreferenceStore) LayoutOverrides(_ context.Context, viewer ViewerContext) (LayoutOverrides, error) {
	if viewer.UserID == "" {
		return emptyOverrides(), nil
	}
	s.mu.RLock()
	stored, ok := s.data[viewer.UserID]
	s.mu.RUnlock()
	if !ok {
		return emptyOverrides(), nil
	}
	return cloneOverrides(stored), nil
}

// SaveLayoutOverrides replaces the viewer's overrides.
func (s *InMemoryPreferenceStore) SaveLayoutOverrides(_ context.Context, viewer ViewerContext, overrides LayoutOverrides) error {
	if viewer.UserID == "" {
		return errMissingViewer
	}
	normalizeOverrides(&overrides)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[viewer.UserID] = cloneOverrides(overrides)
	return nil
}

func emptyOverrides() LayoutOverrides {
	return LayoutOverrides{
		AreaOrder:     map[string][]string{},
		HiddenWidgets: map[string]bool{},
	}
}

func cloneOverrides(in LayoutOverrides) LayoutOverrides {
	out := emptyOverrides()
	for area, ids := range in.AreaOrder {
		out.AreaOrder[area] = slices.Clone(ids)
	}
	maps.Copy(out.HiddenWidgets, in.HiddenWidgets)
	return out
}
