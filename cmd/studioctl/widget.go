package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-studio/components/charts"
	"github.com/goliatone/go-studio/components/dashboard"
)

type widgetCmd struct {
	Code            string   `required:"" help:"Widget code (e.g. studio.widget.top_posts)."`
	Name            string   `required:"" help:"Display name for the widget."`
	Description     string   `required:"" help:"One-line description used in manifests."`
	Category        string   `default:"studio" help:"Widget category (stats, charts, moderation...)."`
	Role            []string `help:"Studio roles allowed to place the widget (repeatable; empty means all)."`
	Chart           string   `help:"Bind the widget to the built-in chart renderer of this kind instead of a Go provider."`
	ManifestPath    string   `required:"" type:"path" help:"Manifest YAML file to update."`
	SchemaPath      string   `type:"path" help:"JSON schema file for the widget configuration."`
	Area            string   `help:"Also seed the widget into this area on first bootstrap."`
	Tag             []string `help:"Tags to record in the manifest."`
	Maintainer      []string `help:"Maintainers to record in the manifest."`
	Capabilities    []string `help:"Provider capability labels (html,svg,json...)."`
	ProviderPackage string   `default:"github.com/goliatone/go-studio/components/studio" help:"Go package the provider factory lives in."`
	ProviderOut     string   `help:"Path of the generated provider stub (defaults to components/studio/<code>_provider.go)."`
	Overwrite       bool     `help:"Replace an existing manifest entry and provider stub."`
	SkipProvider    bool     `name:"skip-provider" help:"Skip provider stub generation."`
}

func (cmd *widgetCmd) Run(_ context.Context, e *env) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("studioctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	existing := slices.IndexFunc(doc.Widgets, func(w dashboard.ManifestWidget) bool { return w.Definition.Code == cmd.Code })
	if existing >= 0 && !cmd.Overwrite {
		return fmt.Errorf("studioctl: manifest already defines widget %s (use --overwrite to replace)", cmd.Code)
	}

	schema, err := cmd.loadSchema()
	if err != nil {
		return err
	}
	providerType := deriveBaseName(cmd.Code) + "Provider"
	entry := dashboard.ManifestWidget{
		Definition: dashboard.WidgetDefinition{
			Code:        cmd.Code,
			Name:        cmd.Name,
			Description: cmd.Description,
			Category:    cmd.Category,
			Schema:      schema,
			Roles:       cmd.Role,
		},
		Provider: dashboard.ManifestProvider{
			Name:         cmd.Name + " Provider",
			Summary:      cmd.Description,
			Capabilities: cmd.Capabilities,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}
	if cmd.Chart != "" {
		entry.Provider.Chart = cmd.Chart
	} else {
		entry.Provider.Package = cmd.ProviderPackage
		entry.Provider.Entry = fmt.Sprintf("%s.New%s", cmd.ProviderPackage, providerType)
	}

	if existing >= 0 {
		doc.Widgets[existing] = entry
	} else {
		doc.Widgets = append(doc.Widgets, entry)
	}
	slices.SortFunc(doc.Widgets, func(a, b dashboard.ManifestWidget) int {
		return strings.Compare(a.Definition.Code, b.Definition.Code)
	})
	if cmd.Area != "" && !slices.ContainsFunc(doc.Layout, func(s dashboard.ManifestSeed) bool {
		return s.Widget == cmd.Code && s.Area == cmd.Area
	}) {
		doc.Layout = append(doc.Layout, dashboard.ManifestSeed{Widget: cmd.Code, Area: cmd.Area, Roles: cmd.Role})
	}

	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}

	if cmd.SkipProvider || cmd.Chart != "" {
		fmt.Fprintf(e.out, "✓ Added %s to %s\n", cmd.Code, manifestPath)
		return nil
	}
	providerPath := cmd.ProviderOut
	if providerPath == "" {
		providerPath = filepath.Join("components", "studio", sanitizeFileName(cmd.Code)+"_provider.go")
	}
	if err := writeProviderStub(providerPath, filepath.Base(cmd.ProviderPackage), providerType, cmd.Code, cmd.Overwrite); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "✓ Added %s to %s and generated %s\n", cmd.Code, manifestPath, providerPath)
	return nil
}

func (cmd *widgetCmd) validate() error {
	if !strings.Contains(cmd.Code, ".") {
		return fmt.Errorf("studioctl: widget code %s must contain at least one '.' segment", cmd.Code)
	}
	if cmd.Chart != "" {
		if _, err := charts.ParseKind(cmd.Chart); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *widgetCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("studioctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("studioctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*dashboard.WidgetManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &dashboard.WidgetManifestDocument{
				Version: dashboard.ManifestVersion,
				Widgets: []dashboard.ManifestWidget{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("studioctl: stat manifest: %w", err)
	}
	return dashboard.ReadManifest(path)
}

func writeManifest(path string, doc *dashboard.WidgetManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("studioctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	out := *doc
	out.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("studioctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("studioctl: write manifest: %w", err)
	}
	return nil
}

func writeProviderStub(path, pkg, providerType, code string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("studioctl: provider stub %s already exists (use --overwrite or --provider-out)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("studioctl: mkdir provider dir: %w", err)
	}
	content := fmt.Sprintf(`package %[1]s

import (
	"context"

	"github.com/goliatone/go-studio/components/dashboard"
)

// %[2]s fetches data for %[3]s widgets.
type %[2]s struct{}

// New%[2]s builds the provider; register it under %[3]q.
func New%[2]s() dashboard.Provider {
	return &%[2]s{}
}

func (p *%[2]s) Fetch(ctx context.Context, meta dashboard.WidgetContext) (dashboard.WidgetData, error) {
	return dashboard.WidgetData{
		"configuration": meta.Instance.Configuration,
	}, nil
}
`, pkg, providerType, code)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("studioctl: write provider stub: %w", err)
	}
	return nil
}

func deriveBaseName(code string) string {
	parts := strings.Split(code, ".")
	slug := strings.TrimSpace(parts[len(parts)-1])
	if slug == "" {
		slug = code
	}
	return strcase.ToPascal(slug)
}

func sanitizeFileName(code string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_", " ", "_")
	return strings.ToLower(replacer.Replace(code))
}
