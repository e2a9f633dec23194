package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/constants"
)

// Default grade thresholds (inclusive lower bounds)
const (
	DefaultGradeAPlus = 90.0
	DefaultGradeA     = 80.0
	DefaultGradeB     = 70.0
	DefaultGradeC     = 60.0
	DefaultGradeD     = 50.0
)

// Default anti-pattern settings
const (
	// DefaultOverOptimizationDensity is the number of tables, lists and headers
	// per 1000 words above which content counts as over-optimized
	DefaultOverOptimizationDensity = 10.0
	DefaultOverOptimizationPenalty = 20

	// DefaultKeywordStuffingRatio is the share of all tokens one long word may take
	DefaultKeywordStuffingRatio     = 0.05
	DefaultKeywordStuffingMinLength = 4
	DefaultKeywordStuffingPenalty   = 15

	DefaultUnderStructuringWords   = 1000
	DefaultUnderStructuringPenalty = 15
)

// Default output settings
const (
	DefaultOutputFormat = "text"
	DefaultSortBy       = "score"
	DefaultTopGaps      = 5
)

// ValidGrades lists letter grades from best to worst
var ValidGrades = []string{"A+", "A", "B", "C", "D", "F"}

// Config represents the main configuration structure
type Config struct {
	// Scoring holds the weight table, grade ladder and penalties
	Scoring ScoringConfig `json:"scoring" mapstructure:"scoring" yaml:"scoring"`

	// Entities controls named-entity recognition
	Entities EntitiesConfig `json:"entities" mapstructure:"entities" yaml:"entities"`

	// Limits holds content validation limits
	Limits LimitsConfig `json:"limits" mapstructure:"limits" yaml:"limits"`

	// Cache holds the audit cache configuration
	Cache CacheConfig `json:"cache" mapstructure:"cache" yaml:"cache"`

	// Server holds HTTP API configuration
	Server ServerConfig `json:"server" mapstructure:"server" yaml:"server"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds file collection configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Performance holds batch scoring limits
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Check holds the CI gate thresholds
	Check CheckConfig `json:"check" mapstructure:"check" yaml:"check"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `json:"log_level" mapstructure:"log_level" yaml:"log_level"`
}

// ScoringConfig holds the pattern weights, grade thresholds and anti-pattern penalties
type ScoringConfig struct {
	// Weights maps pattern id to its contribution to the total score
	Weights map[string]float64 `json:"weights" mapstructure:"weights" yaml:"weights"`

	Grades    GradeConfig   `json:"grades" mapstructure:"grades" yaml:"grades"`
	Penalties PenaltyConfig `json:"penalties" mapstructure:"penalties" yaml:"penalties"`
}

// GradeConfig holds the inclusive lower bound of each letter grade
type GradeConfig struct {
	APlus float64 `json:"a_plus" mapstructure:"a_plus" yaml:"a_plus"`
	A     float64 `json:"a" mapstructure:"a" yaml:"a"`
	B     float64 `json:"b" mapstructure:"b" yaml:"b"`
	C     float64 `json:"c" mapstructure:"c" yaml:"c"`
	D     float64 `json:"d" mapstructure:"d" yaml:"d"`
}

// PenaltyConfig holds anti-pattern thresholds and penalty points
type PenaltyConfig struct {
	OverOptimizationDensity float64 `json:"over_optimization_density" mapstructure:"over_optimization_density" yaml:"over_optimization_density"`
	OverOptimization        int     `json:"over_optimization" mapstructure:"over_optimization" yaml:"over_optimization"`

	KeywordStuffingRatio     float64 `json:"keyword_stuffing_ratio" mapstructure:"keyword_stuffing_ratio" yaml:"keyword_stuffing_ratio"`
	KeywordStuffingMinLength int     `json:"keyword_stuffing_min_length" mapstructure:"keyword_stuffing_min_length" yaml:"keyword_stuffing_min_length"`
	KeywordStuffing          int     `json:"keyword_stuffing" mapstructure:"keyword_stuffing" yaml:"keyword_stuffing"`

	UnderStructuringWords int `json:"under_structuring_words" mapstructure:"under_structuring_words" yaml:"under_structuring_words"`
	UnderStructuring      int `json:"under_structuring" mapstructure:"under_structuring" yaml:"under_structuring"`
}

// EntitiesConfig controls the entity_density pattern
type EntitiesConfig struct {
	// Enabled loads the NER model; disabled scores entity_density as 0
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
}

// LimitsConfig holds the content limits enforced before scoring
type LimitsConfig struct {
	MaxWords int `json:"max_words" mapstructure:"max_words" yaml:"max_words"`
	MaxBytes int `json:"max_bytes" mapstructure:"max_bytes" yaml:"max_bytes"`

	// SanitizeHTML strips scripts, styles and event handlers from HTML input.
	// Off by default so results fingerprint the content as submitted.
	SanitizeHTML bool `json:"sanitize_html" mapstructure:"sanitize_html" yaml:"sanitize_html"`
}

// CacheConfig holds the audit cache configuration
type CacheConfig struct {
	// Path is the SQLite database file; empty disables the cache
	Path string `json:"path" mapstructure:"path" yaml:"path"`

	TTLHours int `json:"ttl_hours" mapstructure:"ttl_hours" yaml:"ttl_hours"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr string `json:"addr" mapstructure:"addr" yaml:"addr"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, html
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether per-pattern scores are printed
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`

	// SortBy specifies how to sort files: score, path, gaps
	SortBy string `json:"sort_by" mapstructure:"sort_by" yaml:"sort_by"`

	// TopGaps is the number of gaps printed per file in text output, -1 for all
	TopGaps int `json:"top_gaps" mapstructure:"top_gaps" yaml:"top_gaps"`
}

// AnalysisConfig holds file collection configuration
type AnalysisConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies gitignore-style patterns to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether to walk directories recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// FollowSymlinks controls whether to follow symbolic links
	FollowSymlinks bool `json:"follow_symlinks" mapstructure:"follow_symlinks" yaml:"follow_symlinks"`
}

// PerformanceConfig bounds batch scoring
type PerformanceConfig struct {
	// MaxGoroutines is the worker limit (0 = number of CPUs)
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds a whole batch run (0 = no timeout)
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// CheckConfig holds the thresholds of the check command
type CheckConfig struct {
	// MinScore fails files scoring below it
	MinScore float64 `json:"min_score" mapstructure:"min_score" yaml:"min_score"`

	// MinGrade fails files graded below it (empty = no grade gate)
	MinGrade string `json:"min_grade" mapstructure:"min_grade" yaml:"min_grade"`

	// MaxPenalty fails files whose anti-pattern penalties exceed it (0 = no limit)
	MaxPenalty int `json:"max_penalty" mapstructure:"max_penalty" yaml:"max_penalty"`
}

// DefaultWeights returns the default pattern weight table. It sums to 125.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		domain.PatternStructuredData:        20,
		domain.PatternComparisonTables:      15,
		domain.PatternRecursiveDepth:        15,
		domain.PatternEntityDensity:         15,
		domain.PatternTemporalAnchoring:     10,
		domain.PatternCitationHooks:         10,
		domain.PatternDefinitionalPrecision: 10,
		domain.PatternProceduralClarity:     5,
		domain.PatternFAQInjection:          15,
		domain.PatternMetaContext:           10,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Weights: DefaultWeights(),
			Grades: GradeConfig{
				APlus: DefaultGradeAPlus,
				A:     DefaultGradeA,
				B:     DefaultGradeB,
				C:     DefaultGradeC,
				D:     DefaultGradeD,
			},
			Penalties: PenaltyConfig{
				OverOptimizationDensity:  DefaultOverOptimizationDensity,
				OverOptimization:         DefaultOverOptimizationPenalty,
				KeywordStuffingRatio:     DefaultKeywordStuffingRatio,
				KeywordStuffingMinLength: DefaultKeywordStuffingMinLength,
				KeywordStuffing:          DefaultKeywordStuffingPenalty,
				UnderStructuringWords:    DefaultUnderStructuringWords,
				UnderStructuring:         DefaultUnderStructuringPenalty,
			},
		},
		Entities: EntitiesConfig{
			Enabled: true,
		},
		Limits: LimitsConfig{
			MaxWords:     constants.DefaultMaxContentWords,
			MaxBytes:     constants.DefaultMaxContentBytes,
		},
		Cache: CacheConfig{
			Path:     "",
			TTLHours: constants.DefaultCacheTTLHours,
		},
		Server: ServerConfig{
			Addr: constants.DefaultServerAddr,
		},
		Output: OutputConfig{
			Format:      DefaultOutputFormat,
			ShowDetails: false,
			SortBy:      DefaultSortBy,
			TopGaps:     DefaultTopGaps,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"**/*.md", "**/*.markdown", "**/*.html", "**/*.htm"},
			ExcludePatterns: []string{
				// Package managers and dependencies
				"node_modules",
				"vendor",
				// Build outputs
				"dist",
				"build",
				"_site",
				"public",
				// Version control
				".git",
				// Changelogs are generated
				"CHANGELOG.md",
			},
			Recursive:      true,
			FollowSymlinks: false,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  0,
			TimeoutSeconds: 300,
		},
		Check: CheckConfig{
			MinScore:   0,
			MinGrade:   "",
			MaxPenalty: 0,
		},
		LogLevel: "info",
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// envBindings maps config keys to the environment variables that override them
var envBindings = map[string]string{
	"cache.path":       constants.EnvVarPrefix + "_CACHE_PATH",
	"cache.ttl_hours":  constants.EnvVarPrefix + "_CACHE_TTL_HOURS",
	"server.addr":      constants.EnvVarPrefix + "_SERVER_ADDR",
	"entities.enabled": constants.EnvVarPrefix + "_ENTITIES_ENABLED",
	"limits.max_words": constants.EnvVarPrefix + "_MAX_CONTENT_WORDS",
	"limits.max_bytes": constants.EnvVarPrefix + "_MAX_CONTENT_SIZE_BYTES",
	"log_level":        constants.EnvVarPrefix + "_LOG_LEVEL",
}

// loadConfigFromFile reads and parses a configuration file, then applies
// environment overrides. An empty path loads defaults plus environment.
func loadConfigFromFile(configPath string) (*Config, error) {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget loads configuration with target path context
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// ConfigCandidates lists the file names searched in each directory
func ConfigCandidates() []string {
	name := constants.ToolName
	return []string{
		name + ".yaml",
		name + ".yml",
		"." + name + ".yaml",
		"." + name + ".yml",
		name + ".json",
		"." + name + ".json",
	}
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for configuration files from the target upwards,
// then in the working directory, XDG config, and home
func findDefaultConfig(targetPath string) string {
	candidates := ConfigCandidates()

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}
		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if err := c.Scoring.Validate(); err != nil {
		return err
	}

	if c.Limits.MaxWords < 1 {
		return fmt.Errorf("limits.max_words must be >= 1, got %d", c.Limits.MaxWords)
	}
	if c.Limits.MaxBytes < 1 {
		return fmt.Errorf("limits.max_bytes must be >= 1, got %d", c.Limits.MaxBytes)
	}

	if c.Cache.TTLHours < 1 {
		return fmt.Errorf("cache.ttl_hours must be >= 1, got %d", c.Cache.TTLHours)
	}

	validFormats := map[string]bool{"text": true, "json": true, "yaml": true, "html": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, html", c.Output.Format)
	}

	validSortBy := map[string]bool{"score": true, "path": true, "gaps": true}
	if !validSortBy[c.Output.SortBy] {
		return fmt.Errorf("invalid output.sort_by '%s', must be one of: score, path, gaps", c.Output.SortBy)
	}

	if c.Output.TopGaps < -1 {
		return fmt.Errorf("output.top_gaps must be -1 (all) or greater, got %d", c.Output.TopGaps)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	if err := c.Check.Validate(); err != nil {
		return err
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level '%s', must be one of: debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// Validate checks weights, grade ordering and penalties
func (s *ScoringConfig) Validate() error {
	known := make(map[string]bool)
	for _, id := range domain.PatternIDs() {
		known[id] = true
	}

	var unknown []string
	for id, w := range s.Weights {
		if !known[id] {
			unknown = append(unknown, id)
			continue
		}
		if w < 0 {
			return fmt.Errorf("scoring.weights.%s must be >= 0, got %g", id, w)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown pattern in scoring.weights: %s", strings.Join(unknown, ", "))
	}

	g := s.Grades
	if g.APlus > 100 {
		return fmt.Errorf("scoring.grades.a_plus must be <= 100, got %g", g.APlus)
	}
	if !(g.APlus > g.A && g.A > g.B && g.B > g.C && g.C > g.D) {
		return fmt.Errorf("scoring.grades must be strictly decreasing from a_plus to d")
	}
	if g.D < 0 {
		return fmt.Errorf("scoring.grades.d must be >= 0, got %g", g.D)
	}

	p := s.Penalties
	if p.OverOptimization < 0 || p.KeywordStuffing < 0 || p.UnderStructuring < 0 {
		return fmt.Errorf("scoring.penalties points must be >= 0")
	}
	if p.OverOptimizationDensity <= 0 {
		return fmt.Errorf("scoring.penalties.over_optimization_density must be > 0, got %g", p.OverOptimizationDensity)
	}
	if p.KeywordStuffingRatio <= 0 || p.KeywordStuffingRatio > 1 {
		return fmt.Errorf("scoring.penalties.keyword_stuffing_ratio must be in (0, 1], got %g", p.KeywordStuffingRatio)
	}
	if p.KeywordStuffingMinLength < 0 {
		return fmt.Errorf("scoring.penalties.keyword_stuffing_min_length must be >= 0, got %d", p.KeywordStuffingMinLength)
	}
	if p.UnderStructuringWords < 0 {
		return fmt.Errorf("scoring.penalties.under_structuring_words must be >= 0, got %d", p.UnderStructuringWords)
	}

	return nil
}

// Validate checks the CI gate thresholds
func (c *CheckConfig) Validate() error {
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("check.min_score must be in [0, 100], got %g", c.MinScore)
	}
	if c.MinGrade != "" && GradeRank(c.MinGrade) < 0 {
		return fmt.Errorf("invalid check.min_grade '%s', must be one of: %s", c.MinGrade, strings.Join(ValidGrades, ", "))
	}
	if c.MaxPenalty < 0 {
		return fmt.Errorf("check.max_penalty must be >= 0, got %d", c.MaxPenalty)
	}
	return nil
}

// GradeRank returns the position of a grade in ValidGrades (0 = best), or -1
func GradeRank(grade string) int {
	for i, g := range ValidGrades {
		if strings.EqualFold(g, grade) {
			return i
		}
	}
	return -1
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("scoring", config.Scoring)
	v.Set("entities", config.Entities)
	v.Set("limits", config.Limits)
	v.Set("cache", config.Cache)
	v.Set("server", config.Server)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)
	v.Set("performance", config.Performance)
	v.Set("check", config.Check)
	v.Set("log_level", config.LogLevel)

	return v.WriteConfig()
}
