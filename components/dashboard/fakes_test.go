package dashboard

import (
	"context"
	"sync"
)

type fakeWidgetStore struct {
	ensureAreaFn     func(def WidgetAreaDefinition) error
	ensureDefinition func(def WidgetDefinition) error
	createInstanceFn func(input CreateWidgetInstanceInput) (WidgetInstance, error)
	assignInstanceFn func(input AssignWidgetInput) error
	reorderAreaFn    func(input ReorderAreaInput) error
	resolveAreaFn    func(input ResolveAreaInput) (ResolvedArea, error)

	resolved          map[string][]WidgetInstance
	instances         map[string]WidgetInstance
	assignCalls       []AssignWidgetInput
	reorderCalls      []ReorderAreaInput
	updateCalls       []UpdateWidgetInstanceInput
	deleted           []string
	createdDefinition []string
	createdAreas      []string
}

func (f *fakeWidgetStore) EnsureArea(_ context.Context, def WidgetAreaDefinition) (bool, error) {
	if f.ensureAreaFn != nil {
		return true, f.ensureAreaFn(def)
	}
	f.createdAreas = append(f.createdAreas, def.Code)
	return true, nil
}

func (f *fakeWidgetStore) EnsureDefinition(_ context.Context, def WidgetDefinition) (bool, error) {
	if f.ensureDefinition != nil {
		return true, f.ensureDefinition(def)
	}
	f.createdDefinition = append(f.createdDefinition, def.Code)
	return true, nil
}

func (f *fakeWidgetStore) CreateInstance(_ context.Context, input CreateWidgetInstanceInput) (WidgetInstance, error) {
	if f.createInstanceFn != nil {
		return f.createInstanceFn(input)
	}
	return WidgetInstance{ID: input.DefinitionID + "-instance", DefinitionID: input.DefinitionID}, nil
}

func (f *fakeWidgetStore) GetInstance(_ context.Context, id string) (WidgetInstance, error) {
	inst, ok := f.instances[id]
	if !ok {
		return WidgetInstance{}, ErrWidgetNotFound
	}
	return inst, nil
}

func (f *fakeWidgetStore) UpdateInstance(_ context.Context, input UpdateWidgetInstanceInput) (WidgetInstance, error) {
	f.updateCalls = append(f.updateCalls, input)
	inst, ok := f.instances[input.InstanceID]
	if !ok {
		return WidgetInstance{}, ErrWidgetNotFound
	}
	inst.Configuration = input.Configuration
	f.instances[input.InstanceID] = inst
	return inst, nil
}

func (f *fakeWidgetStore) DeleteInstance(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeWidgetStore) AssignInstance(_ context.Context, input AssignWidgetInput) error {
	f.assignCalls = append(f.assignCalls, input)
	if f.assignInstanceFn != nil {
		return f.assignInstanceFn(input)
	}
	return nil
}

func (f *fakeWidgetStore) ReorderArea(_ context.Context, input ReorderAreaInput) error {
	f.reorderCalls = append(f.reorderCalls, input)
	if f.reorderAreaFn != nil {
		return f.reorderAreaFn(input)
	}
	return nil
}

func (f *fakeWidgetStore) ResolveArea(_ context.Context, input ResolveAreaInput) (ResolvedArea, error) {
	if f.resolveAreaFn != nil {
		return f.resolveAreaFn(input)
	}
	if widgets, ok := f.resolved[input.AreaCode]; ok {
		return ResolvedArea{AreaCode: input.AreaCode, Widgets: widgets}, nil
	}
	return ResolvedArea{AreaCode: input.AreaCode, Widgets: []WidgetInstance{}}, nil
}

type allowListAuthorizer struct {
	allowed map[string]bool
}

func (a allowListAuthorizer) CanViewWidget(_ context.Context, _ ViewerContext, instance WidgetInstance) bool {
	return a.allowed[instance.ID]
}

type collectingHook struct {
	mu     sync.Mutex
	events []WidgetEvent
}

func (h *collectingHook) WidgetUpdated(_ context.Context, event WidgetEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *collectingHook) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

var _ RefreshHook = (*collectingHook)(nil)

type testTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (t *testTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *testTelemetry) has(event string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.events {
		if e == event {
			return true
		}
	}
	return false
}
