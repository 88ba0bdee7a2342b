package http_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

// findOpenAPISpec locates the openapi.yaml file by walking up from the test directory.
func findOpenAPISpec(t *testing.T) string {
	// Start from the current working directory or test file location
	dir, _ := os.Getwd()

	// Look for api/openapi.yaml by going up directories
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "api", "openapi.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}

	t.Fatalf("could not find api/openapi.yaml")
	return ""
}

// TestOpenAPISpec validates the OpenAPI specification is valid.
func TestOpenAPISpec(t *testing.T) {
	// Load the spec file
	specPath := findOpenAPISpec(t)
	data, err := os.ReadFile(specPath)
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	// Parse YAML spec
	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}

	// Validate the spec
	if err := spec.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI spec validation failed: %v", err)
	}

	// Check that key paths exist
	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/map/state",
		"/v1/map/viewport",
		"/v1/map/basemap",
		"/v1/map/layers/{layer}/toggle",
		"/v1/map/buildings-3d/toggle",
		"/v1/map/heatmap",
		"/v1/map/territory",
		"/v1/map/draw-mode",
		"/v1/map/filters",
		"/v1/map/preferences",
		"/v1/map/properties",
		"/v1/properties/search",
		"/v1/properties/nearby",
		"/v1/properties/{id}",
		"/v1/properties/{id}/roofiq",
		"/v1/properties/{id}/solarfit",
		"/v1/properties/{id}/drivewaypro",
		"/v1/properties/{id}/permitscope",
		"/v1/audiences",
		"/v1/audiences/from-view",
		"/v1/audiences/{id}",
		"/v1/audiences/{id}/sync",
		"/v1/saved-searches",
		"/v1/saved-searches/from-view",
		"/v1/saved-searches/{id}",
		"/v1/saved-searches/{id}/test-alert",
		"/v1/saved-searches/{id}/alerts",
		"/v1/saved-searches/preferences/email",
		"/v1/territories",
		"/v1/territories/from-drawing",
		"/v1/territories/{id}",
		"/v1/territories/{id}/properties/count",
		"/graphql",
	}

	for _, path := range expectedPaths {
		if item := spec.Paths.Find(path); item == nil {
			t.Errorf("expected path %s not found in spec", path)
		}
	}

	// Verify key schemas exist
	expectedSchemas := []string{
		"MapState",
		"Viewport",
		"Preferences",
		"Polygon",
		"PropertyFilters",
		"Property",
		"PropertySearchResponse",
		"Audience",
		"SavedSearch",
		"Territory",
		"TerritoryUpdate",
		"TerritoryPropertyCount",
		"EmailPreferences",
		"DrivewayPro",
		"PermitScope",
		"APIError",
		"Pagination",
	}

	for _, schema := range expectedSchemas {
		if spec.Components.Schemas[schema] == nil {
			t.Errorf("expected schema %s not found", schema)
		}
	}

	t.Logf("OpenAPI spec valid: %d paths, %d schemas", len(spec.Paths.Map()), len(spec.Components.Schemas))
}

// TestOpenAPIInfo verifies spec metadata.
func TestOpenAPIInfo(t *testing.T) {
	specPath := findOpenAPISpec(t)
	data, err := os.ReadFile(specPath)
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}

	if spec.Info.Title != "Evoteli Map API" {
		t.Errorf("expected title 'Evoteli Map API', got %q", spec.Info.Title)
	}

	if spec.Info.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", spec.Info.Version)
	}

	if spec.Info.Description == "" {
		t.Error("expected non-empty description")
	}

	if len(spec.Servers) == 0 {
		t.Error("expected at least one server")
	}

	t.Logf("OpenAPI Info: %s v%s @ %s", spec.Info.Title, spec.Info.Version, spec.Servers[0].URL)
}
