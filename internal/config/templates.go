package config

import (
	"strconv"
	"strings"
)

// ContentType represents the kind of content tree being scored
type ContentType string

const (
	ContentTypeGeneric ContentType = "generic"
	ContentTypeDocs    ContentType = "docs"
	ContentTypeSite    ContentType = "site"
)

// Strictness represents the check strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ContentPreset holds file patterns for a content type
type ContentPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// StrictnessPreset holds check thresholds for a strictness level
type StrictnessPreset struct {
	MinScore   float64
	MinGrade   string
	MaxPenalty int
}

// GetContentPresets returns presets for different content types
func GetContentPresets() map[ContentType]ContentPreset {
	return map[ContentType]ContentPreset{
		ContentTypeGeneric: {
			IncludePatterns: []string{
				"**/*.md",
				"**/*.markdown",
				"**/*.html",
				"**/*.htm",
			},
			ExcludePatterns: []string{
				"node_modules",
				"vendor",
				"dist",
				"build",
				".git",
			},
		},
		ContentTypeDocs: {
			IncludePatterns: []string{
				"**/*.md",
				"**/*.markdown",
			},
			ExcludePatterns: []string{
				"node_modules",
				"_build",
				"site",
				".git",
				"CHANGELOG.md",
				"LICENSE.md",
			},
		},
		ContentTypeSite: {
			IncludePatterns: []string{
				"**/*.html",
				"**/*.htm",
			},
			ExcludePatterns: []string{
				"node_modules",
				"assets",
				"static",
				".git",
				"404.html",
			},
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			MinScore:   30,
			MinGrade:   "",
			MaxPenalty: 0, // No limit
		},
		StrictnessStandard: {
			MinScore:   50,
			MinGrade:   "D",
			MaxPenalty: 20,
		},
		StrictnessStrict: {
			MinScore:   70,
			MinGrade:   "B",
			MaxPenalty: 15,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(contentType ContentType, strictness Strictness) string {
	preset, ok := GetContentPresets()[contentType]
	if !ok {
		preset = GetContentPresets()[ContentTypeGeneric]
	}
	strict, ok := GetStrictnessPresets()[strictness]
	if !ok {
		strict = GetStrictnessPresets()[StrictnessStandard]
	}

	return `# citescan configuration
# Documentation: https://github.com/ludo-technologies/citescan

# ============================================================================
# SCORING
# ============================================================================
scoring:
  # Contribution of each pattern to the total score.
  # The defaults sum to 125; totals are clamped to 100 after penalties.
  weights:
    structured_data: 20
    entity_density: 15
    citation_hooks: 10
    recursive_depth: 15
    temporal_anchoring: 10
    comparison_tables: 15
    definitional_precision: 10
    procedural_clarity: 5
    faq_injection: 15
    meta_context: 10

  # Inclusive lower bound of each letter grade; below d is F
  grades:
    a_plus: 90
    a: 80
    b: 70
    c: 60
    d: 50

  # Anti-pattern checks and their penalty points
  penalties:
    # Tables + lists + headers per 1000 words
    over_optimization_density: 10
    over_optimization: 20
    # One word longer than min_length taking more than this share of all words
    keyword_stuffing_ratio: 0.05
    keyword_stuffing_min_length: 4
    keyword_stuffing: 15
    # Long content with no tables and no lists
    under_structuring_words: 1000
    under_structuring: 15

# Named-entity recognition for entity_density (disable to score it as 0)
entities:
  enabled: true

# ============================================================================
# LIMITS
# ============================================================================
limits:
  max_words: 50000
  max_bytes: 10485760
  # Strip scripts, styles and event handlers from HTML before scoring.
  # Results are then fingerprinted on the rewritten HTML.
  sanitize_html: false

# ============================================================================
# AUDIT CACHE AND SERVER
# ============================================================================
cache:
  # SQLite file for cached audits (empty disables the cache)
  path: ""
  ttl_hours: 24

server:
  addr: ":8080"

# ============================================================================
# OUTPUT SETTINGS
# ============================================================================
output:
  # Output format: text, json, yaml, html
  format: text
  # Print per-pattern scores
  show_details: false
  # Sort files by: score, path, gaps
  sort_by: score
  # Gaps printed per file in text output (-1 prints all)
  top_gaps: 5

# ============================================================================
# ANALYSIS SCOPE
# ============================================================================
analysis:
  include_patterns:
` + formatYAMLList(preset.IncludePatterns) + `
  # gitignore-style patterns
  exclude_patterns:
` + formatYAMLList(preset.ExcludePatterns) + `
  recursive: true
  follow_symlinks: false

performance:
  # Number of parallel workers (0 = number of CPUs)
  max_goroutines: 0
  timeout_seconds: 300

# ============================================================================
# CHECK (CI gate)
# ============================================================================
check:
  min_score: ` + strconv.FormatFloat(strict.MinScore, 'f', -1, 64) + `
  # Lowest passing grade: A+, A, B, C, D, F (empty = no grade gate)
  min_grade: "` + strict.MinGrade + `"
  # Maximum anti-pattern penalty points (0 = no limit)
  max_penalty: ` + strconv.Itoa(strict.MaxPenalty) + `

# debug, info, warn, error
log_level: info
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# citescan configuration (minimal)
# See full options: https://github.com/ludo-technologies/citescan

output:
  format: text

analysis:
  include_patterns: ["**/*.md", "**/*.html"]
  exclude_patterns: ["node_modules", "dist"]

check:
  min_score: 50
`
}

// formatYAMLList formats a string slice as an indented YAML block sequence
func formatYAMLList(items []string) string {
	if len(items) == 0 {
		return "    []"
	}

	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = `    - "` + item + `"`
	}
	return strings.Join(lines, "\n")
}
