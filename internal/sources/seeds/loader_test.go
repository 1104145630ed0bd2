package seeds

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "seeds.yaml")

	yamlContent := `---
platforms:
  - platform: github
    notebooks:
      - title: Climate Change Impact Assessment
        url: https://github.com/example/climate-impact
        description: Regional temperature projections
        category: climate
        tags: [climate, weather]
        size_kb: 420
        likes: 130
        shares: 22
`

	err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644)
	if err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(config.Platforms) != 1 {
		t.Fatalf("Load() returned %d platform groups, want 1", len(config.Platforms))
	}
	if len(config.Platforms[0].Notebooks) != 1 {
		t.Fatalf("Load() returned %d notebooks, want 1", len(config.Platforms[0].Notebooks))
	}
}

func TestLoaderLoadWithTemplateVariables(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "seeds.yaml")

	yamlContent := `---
platforms:
  - platform: kaggle
    notebooks:
      - title: Test Notebook
        url: {{SEED_VAR_NOTEBOOK_URL}}
`

	err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644)
	if err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(config.Platforms) == 0 {
		t.Fatal("Load() returned empty config")
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	loader := NewLoader("/nonexistent/path/seeds.yaml")
	_, err := loader.Load()
	if err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}
