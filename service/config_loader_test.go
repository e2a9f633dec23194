package service

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/citescan/domain"
)

func TestNewConfigurationLoader(t *testing.T) {
	loader := NewConfigurationLoader()

	if loader == nil {
		t.Fatal("NewConfigurationLoader should not return nil")
	}
}

func TestConfigurationLoader_LoadConfig_NonExistent(t *testing.T) {
	loader := NewConfigurationLoader()

	_, err := loader.LoadConfig("/nonexistent/citescan.yaml")
	if err == nil {
		t.Fatal("LoadConfig should return error for nonexistent file")
	}
	if domain.ErrorCode(err) != domain.ErrCodeConfig {
		t.Errorf("error code = %q, want %q", domain.ErrorCode(err), domain.ErrCodeConfig)
	}
}

func TestConfigurationLoader_LoadConfig_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "citescan.yaml")
	if err := os.WriteFile(configFile, []byte("output: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	loader := NewConfigurationLoader()

	if _, err := loader.LoadConfig(configFile); err == nil {
		t.Error("LoadConfig should return error for invalid YAML")
	}
}

func TestConfigurationLoader_LoadConfig_Valid(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "citescan.yaml")
	content := `output:
  format: json
  show_details: true
  sort_by: path
  top_gaps: 3
`
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	loader := NewConfigurationLoader()

	req, err := loader.LoadConfig(configFile)
	if err != nil {
		t.Fatalf("LoadConfig should not return error: %v", err)
	}

	if req.OutputFormat != domain.OutputFormatJSON {
		t.Errorf("OutputFormat should be 'json', got '%s'", req.OutputFormat)
	}
	if !req.ShowDetails {
		t.Error("ShowDetails should be true")
	}
	if req.SortBy != domain.SortByPath {
		t.Errorf("SortBy should be 'path', got '%s'", req.SortBy)
	}
	if req.TopGaps != 3 {
		t.Errorf("TopGaps should be 3, got %d", req.TopGaps)
	}
	if len(req.Paths) != 0 {
		t.Errorf("Paths should come from the caller, got %v", req.Paths)
	}
}

func TestConfigurationLoader_LoadDefaultConfig(t *testing.T) {
	loader := NewConfigurationLoader()

	req := loader.LoadDefaultConfig()

	if req == nil {
		t.Fatal("LoadDefaultConfig should not return nil")
	}
	if err := loader.ValidateConfig(req); err != nil {
		t.Errorf("default request should validate: %v", err)
	}
}

func TestConfigurationLoader_FindDefaultConfigFile_NotFound(t *testing.T) {
	tempDir := t.TempDir()
	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()

	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	loader := NewConfigurationLoader()

	if configFile := loader.FindDefaultConfigFile(); configFile != "" {
		t.Errorf("Should not find config file in empty directory, got '%s'", configFile)
	}
}

func TestConfigurationLoader_FindDefaultConfigFile_Parent(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, ".citescan.yml"), []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	nested := filepath.Join(tempDir, "docs", "guides")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()

	if err := os.Chdir(nested); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	found := NewConfigurationLoader().FindDefaultConfigFile()
	if filepath.Base(found) != ".citescan.yml" {
		t.Errorf("Should find '.citescan.yml' in a parent directory, got '%s'", found)
	}
}

func TestConfigurationLoader_MergeConfig(t *testing.T) {
	loader := NewConfigurationLoader()

	base := &domain.ScoreRequest{
		Paths:        []string{"original.md"},
		OutputFormat: domain.OutputFormatText,
		SortBy:       domain.SortByScore,
		TopGaps:      5,
	}

	t.Run("empty override keeps base", func(t *testing.T) {
		merged := loader.MergeConfig(base, &domain.ScoreRequest{})
		if merged.OutputFormat != domain.OutputFormatText || merged.SortBy != domain.SortByScore || merged.TopGaps != 5 {
			t.Errorf("merged = %+v", merged)
		}
		if len(merged.Paths) != 1 || merged.Paths[0] != "original.md" {
			t.Errorf("Paths = %v", merged.Paths)
		}
	})

	t.Run("override wins", func(t *testing.T) {
		var buf bytes.Buffer
		merged := loader.MergeConfig(base, &domain.ScoreRequest{
			Paths:        []string{"a.md", "b.html"},
			InputFormat:  "html",
			OutputFormat: domain.OutputFormatYAML,
			OutputWriter: &buf,
			OutputPath:   "report.yaml",
			ShowDetails:  true,
			TopGaps:      -1,
			SortBy:       domain.SortByGaps,
			ConfigPath:   "custom.yaml",
		})

		if len(merged.Paths) != 2 {
			t.Errorf("Should have 2 paths, got %d", len(merged.Paths))
		}
		if merged.InputFormat != "html" || merged.OutputFormat != domain.OutputFormatYAML {
			t.Errorf("formats = %q/%q", merged.InputFormat, merged.OutputFormat)
		}
		if merged.OutputWriter != &buf || merged.OutputPath != "report.yaml" {
			t.Error("output destination not overridden")
		}
		if !merged.ShowDetails || merged.TopGaps != -1 || merged.SortBy != domain.SortByGaps {
			t.Errorf("merged = %+v", merged)
		}
		if merged.ConfigPath != "custom.yaml" {
			t.Errorf("ConfigPath = %q", merged.ConfigPath)
		}
	})

	if base.OutputFormat != domain.OutputFormatText {
		t.Error("MergeConfig must not modify base")
	}
}

func TestConfigurationLoader_ValidateConfig(t *testing.T) {
	loader := NewConfigurationLoader()

	tests := []struct {
		name    string
		req     domain.ScoreRequest
		wantErr bool
	}{
		{"valid text", domain.ScoreRequest{OutputFormat: domain.OutputFormatText}, false},
		{"valid yaml sorted by gaps", domain.ScoreRequest{OutputFormat: domain.OutputFormatYAML, SortBy: domain.SortByGaps}, false},
		{"valid html input", domain.ScoreRequest{OutputFormat: domain.OutputFormatHTML, InputFormat: "html"}, false},
		{"all gaps", domain.ScoreRequest{OutputFormat: domain.OutputFormatJSON, TopGaps: -1}, false},
		{"invalid output format", domain.ScoreRequest{OutputFormat: "csv"}, true},
		{"empty output format", domain.ScoreRequest{}, true},
		{"invalid sort", domain.ScoreRequest{OutputFormat: domain.OutputFormatText, SortBy: "name"}, true},
		{"invalid input format", domain.ScoreRequest{OutputFormat: domain.OutputFormatText, InputFormat: "pdf"}, true},
		{"invalid top gaps", domain.ScoreRequest{OutputFormat: domain.OutputFormatText, TopGaps: -2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loader.ValidateConfig(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigurationLoader_FromConfig(t *testing.T) {
	loader := NewConfigurationLoader()

	req := loader.FromConfig(nil)
	if req.OutputFormat != domain.OutputFormatText || !req.Recursive {
		t.Errorf("nil config should use defaults, got %+v", req)
	}
	if len(req.IncludePatterns) == 0 || len(req.ExcludePatterns) == 0 {
		t.Error("default file patterns should be carried over")
	}
}
