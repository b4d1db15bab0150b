package dashboard

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// InMemoryWidgetStore keeps widget placements in process. It backs demos,
// tests and servers started without a database.
type InMemoryWidgetStore struct {
	mu          sync.Mutex
	areas       map[string]WidgetAreaDefinition
	definitions map[string]WidgetDefinition
	instances   map[string]WidgetInstance
	assignments map[string][]string
	newID       func() string
}

func NewInMemoryWidgetStore() *InMemoryWidgetStore {
	return &InMemoryWidgetStore{
		areas:       map[string]WidgetAreaDefinition{},
		definitions: map[string]WidgetDefinition{},
		instances:   map[string]WidgetInstance{},
		assignments: map[string][]string{},
		newID:       uuid.NewString,
	}
}

func (s *InMemoryWidgetStore) EnsureArea(_ context.Context, def WidgetAreaDefinition) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.areas[def.Code]
	s.areas[def.Code] = def
	return !exists, nil
}

func (s *InMemoryWidgetStore) EnsureDefinition(_ context.Context, def WidgetDefinition) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.definitions[def.Code]
	s.definitions[def.Code] = def
	return !exists, nil
}

func (s *InMemoryWidgetStore) CreateInstance(_ context.Context, input CreateWidgetInstanceInput) (WidgetInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.definitions[input.DefinitionID]; !ok {
		return WidgetInstance{}, fmt.Errorf("dashboard: widget definition %s not found", input.DefinitionID)
	}
	instance := WidgetInstance{
		ID:            s.newID(),
		DefinitionID:  input.DefinitionID,
		Configuration: maps.Clone(input.Configuration),
		Visibility:    input.Visibility,
		Metadata:      maps.Clone(input.Metadata),
	}
	s.instances[instance.ID] = instance
	return cloneInstance(instance), nil
}

func (s *InMemoryWidgetStore) GetInstance(_ context.Context, instanceID string) (WidgetInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	instance, ok := s.instances[instanceID]
	if !ok {
		return WidgetInstance{}, ErrWidgetNotFound
	}
	return cloneInstance(instance), nil
}

func (s *InMemoryWidgetStore) UpdateInstance(_ context.Context, input UpdateWidgetInstanceInput) (WidgetInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	instance, ok := s.instances[input.InstanceID]
	if !ok {
		return WidgetInstance{}, ErrWidgetNotFound
	}
	instance.Configuration = maps.Clone(input.Configuration)
	if len(input.Metadata) > 0 {
		merged := maps.Clone(instance.Metadata)
		if merged == nil {
			merged = map[string]any{}
		}
		maps.Copy(merged, input.Metadata)
		instance.Metadata = merged
	}
	s.instances[instance.ID] = instance
	return cloneInstance(instance), nil
}

func (s *InMemoryWidgetStore) DeleteInstance(_ context.Context, instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[instanceID]; !ok {
		return ErrWidgetNotFound
	}
	delete(s.instances, instanceID)
	for area, ids := range s.assignments {
		s.assignments[area] = slices.DeleteFunc(ids, func(id string) bool { return id == instanceID })
	}
	return nil
}

// AssignInstance moves an instance into an area, at Position when given.
func (s *InMemoryWidgetStore) AssignInstance(_ context.Context, input AssignWidgetInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	instance, ok := s.instances[input.InstanceID]
	if !ok {
		return ErrWidgetNotFound
	}
	if instance.AreaCode != "" {
		s.assignments[instance.AreaCode] = slices.DeleteFunc(s.assignments[instance.AreaCode], func(id string) bool {
			return id == input.InstanceID
		})
	}
	order := s.assignments[input.AreaCode]
	if input.Position != nil && *input.Position >= 0 && *input.Position <= len(order) {
		order = slices.Insert(order, *input.Position, input.InstanceID)
	} else {
		order = append(order, input.InstanceID)
	}
	s.assignments[input.AreaCode] = order
	instance.AreaCode = input.AreaCode
	s.instances[input.InstanceID] = instance
	return nil
}

// ReorderArea applies the listed order; assigned ids missing from the list
// keep their relative order at the end, and foreign ids are ignored.
func (s *InMemoryWidgetStore) ReorderArea(_ context.Context, input ReorderAreaInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.assignments[input.AreaCode]
	next := make([]string, 0, len(current))
	for _, id := range input.WidgetIDs {
		if slices.Contains(current, id) && !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	for _, id := range current {
		if !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	s.assignments[input.AreaCode] = next
	return nil
}

// ResolveArea returns the area's instances whose role visibility matches the
// audience; an empty audience returns them all. Time windows are checked by
// the Service.
func (s *InMemoryWidgetStore) ResolveArea(_ context.Context, input ResolveAreaInput) (ResolvedArea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.assignments[input.AreaCode]
	widgets := make([]WidgetInstance, 0, len(ids))
	for _, id := range ids {
		inst, ok := s.instances[id]
		if !ok || !rolesMatch(inst.Visibility.Roles, input.Audience) {
			continue
		}
		widgets = append(widgets, cloneInstance(inst))
	}
	return ResolvedArea{AreaCode: input.AreaCode, Widgets: widgets}, nil
}

func rolesMatch(allowed, audience []string) bool {
	if len(allowed) == 0 || len(audience) == 0 {
		return true
	}
	for _, role := range audience {
		if slices.Contains(allowed, role) {
			return true
		}
	}
	return false
}

func cloneInstance(in WidgetInstance) WidgetInstance {
	in.Configuration = maps.Clone(in.Configuration)
	in.Metadata = maps.Clone(in.Metadata)
	in.Visibility.Roles = slices.Clone(in.Visibility.Roles)
	return in
}
