package dashboard

import "testing"

func TestJSONSchemaValidatorRejectsInvalidPayload(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def := WidgetDefinition{
		Code: "demo.widget.string_required",
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"name"},
			"properties": map[string]any{
				"name": map[string]any{"type": "string", "minLength": 1},
			},
		},
	}
	if err := validator.Validate(def, map[string]any{"name": "Dashboard"}); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if err := validator.Validate(def, map[string]any{}); err == nil {
		t.Fatalf("expected validation error for missing name")
	}
}

func TestJSONSchemaValidatorCachesCompiledSchemas(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def := WidgetDefinition{
		Code:   "demo.widget.cache",
		Schema: map[string]any{"type": "object"},
	}
	if err := validator.Validate(def, nil); err != nil {
		t.Fatalf("unexpected error validating config: %v", err)
	}
	if len(validator.compiled) != 1 {
		t.Fatalf("expected schema cache to contain 1 entry, got %d", len(validator.compiled))
	}
	if err := validator.Validate(def, map[string]any{}); err != nil {
		t.Fatalf("unexpected error on cached validation: %v", err)
	}
	validator.Forget(def.Code)
	if len(validator.compiled) != 0 {
		t.Fatalf("expected Forget to drop the compiled schema")
	}
}

func TestBuiltInChartSchemas(t *testing.T) {
	validator := NewJSONSchemaValidator()
	var analytics WidgetDefinition
	for _, def := range DefaultWidgetDefinitions() {
		if def.Code == WidgetAnalyticsChart {
			analytics = def
		}
	}
	good := map[string]any{
		"title": "Views",
		"kind":  "bar",
		"data":  []any{10, map[string]any{"label": "Tue", "value": 4.5}},
	}
	if err := validator.Validate(analytics, good); err != nil {
		t.Fatalf("expected chart config to validate, got %v", err)
	}
	bad := map[string]any{"kind": "pie", "data": []any{}}
	if err := validator.Validate(analytics, bad); err == nil {
		t.Fatalf("expected pie kind to be rejected by the analytics chart")
	}
	if err := validator.Validate(analytics, map[string]any{"title": "no data"}); err == nil {
		t.Fatalf("expected missing data to be rejected")
	}
}
