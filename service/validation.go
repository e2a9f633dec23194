package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/config"
	"github.com/ludo-technologies/citescan/internal/constants"
	"github.com/ludo-technologies/citescan/internal/parser"
)

// ContentValidator enforces content limits before content reaches the engine.
// A zero limit disables that check.
type ContentValidator struct {
	MaxWords     int
	MaxBytes     int
	SanitizeHTML bool

	policy *bluemonday.Policy
}

// NewContentValidator creates a validator from the limits section. A nil section
// falls back to the built-in limits.
func NewContentValidator(cfg *config.LimitsConfig) *ContentValidator {
	v := &ContentValidator{
		MaxWords: constants.DefaultMaxContentWords,
		MaxBytes: constants.DefaultMaxContentBytes,
	}
	if cfg != nil {
		v.MaxWords = cfg.MaxWords
		v.MaxBytes = cfg.MaxBytes
		v.SanitizeHTML = cfg.SanitizeHTML
	}
	v.policy = bluemonday.UGCPolicy()
	return v
}

// Sanitize strips NUL bytes and truncates to MaxBytes. With SanitizeHTML set, HTML
// input also loses scripts, styles and event handlers, which changes its fingerprint.
func (v *ContentValidator) Sanitize(content string, format parser.Format) string {
	content = strings.ReplaceAll(content, "\x00", "")
	content = truncateBytes(content, v.MaxBytes)

	if format == parser.FormatHTML && v.SanitizeHTML {
		if v.policy == nil {
			v.policy = bluemonday.UGCPolicy()
		}
		content = v.policy.Sanitize(content)
	}
	return content
}

// Validate rejects content above the word or byte limit
func (v *ContentValidator) Validate(content string) error {
	if v.MaxWords > 0 {
		if words := len(strings.Fields(content)); words > v.MaxWords {
			return domain.NewContentTooLargeError(fmt.Sprintf(
				"content exceeds maximum word count (%d words, limit %d)", words, v.MaxWords))
		}
	}
	if v.MaxBytes > 0 && len(content) > v.MaxBytes {
		return domain.NewContentTooLargeError(fmt.Sprintf(
			"content exceeds maximum size (%d bytes, limit %d)", len(content), v.MaxBytes))
	}
	return nil
}

// Prepare sanitizes then validates content
func (v *ContentValidator) Prepare(content string, format parser.Format) (string, error) {
	content = v.Sanitize(content, format)
	if err := v.Validate(content); err != nil {
		return "", err
	}
	return content, nil
}

// truncateBytes cuts s to at most limit bytes without splitting a rune
func truncateBytes(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
