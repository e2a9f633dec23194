package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/config"
	"github.com/ludo-technologies/citescan/internal/parser"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

var _ domain.ConfigurationLoader = (*ConfigurationLoaderImpl)(nil)

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.ScoreRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	return c.convertToScoreRequest(cfg), nil
}

// LoadDefaultConfig loads the discovered configuration, falling back to built-in defaults
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.ScoreRequest {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err == nil {
		return c.convertToScoreRequest(cfg)
	}

	return c.convertToScoreRequest(config.DefaultConfig())
}

// FindDefaultConfigFile searches the working directory and its parents for a config file
func (c *ConfigurationLoaderImpl) FindDefaultConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	candidates := config.ConfigCandidates()
	for {
		for _, file := range candidates {
			configPath := filepath.Join(currentDir, file)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// MergeConfig merges CLI flags over a configuration file request.
// Zero values in override keep the base value.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.ScoreRequest, override *domain.ScoreRequest) *domain.ScoreRequest {
	merged := *base

	// Paths always come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}

	if override.InputFormat != "" {
		merged.InputFormat = override.InputFormat
	}

	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}

	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}

	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}

	if override.ShowDetails {
		merged.ShowDetails = true
	}

	if override.TopGaps != 0 {
		merged.TopGaps = override.TopGaps
	}

	if override.SortBy != "" {
		merged.SortBy = override.SortBy
	}

	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}

	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}

	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// FromConfig converts an already loaded configuration into a score request
func (c *ConfigurationLoaderImpl) FromConfig(cfg *config.Config) *domain.ScoreRequest {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return c.convertToScoreRequest(cfg)
}

// convertToScoreRequest converts a Config to ScoreRequest
func (c *ConfigurationLoaderImpl) convertToScoreRequest(cfg *config.Config) *domain.ScoreRequest {
	return &domain.ScoreRequest{
		// Paths are set by the caller, not from config
		Paths: []string{},

		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		ShowDetails:  cfg.Output.ShowDetails,
		TopGaps:      cfg.Output.TopGaps,
		SortBy:       domain.SortCriteria(cfg.Output.SortBy),

		Recursive:       cfg.Analysis.Recursive,
		IncludePatterns: cfg.Analysis.IncludePatterns,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
	}
}

// ValidateConfig validates the request
func (c *ConfigurationLoaderImpl) ValidateConfig(req *domain.ScoreRequest) error {
	validFormats := map[domain.OutputFormat]bool{
		domain.OutputFormatText: true,
		domain.OutputFormatJSON: true,
		domain.OutputFormatYAML: true,
		domain.OutputFormatHTML: true,
	}
	if !validFormats[req.OutputFormat] {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, yaml, html)",
			req.OutputFormat)
	}

	validSorts := map[domain.SortCriteria]bool{
		domain.SortByScore: true,
		domain.SortByPath:  true,
		domain.SortByGaps:  true,
	}
	if req.SortBy != "" && !validSorts[req.SortBy] {
		return fmt.Errorf("invalid sort criteria: %s (must be one of: score, path, gaps)", req.SortBy)
	}

	if req.InputFormat != "" {
		if _, err := parser.ParseFormat(req.InputFormat); err != nil {
			return err
		}
	}

	if req.TopGaps < -1 {
		return fmt.Errorf("top_gaps must be -1 (all) or greater, got %d", req.TopGaps)
	}

	return nil
}
