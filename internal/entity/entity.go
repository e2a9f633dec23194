// Package entity provides named-entity recognizers for the entity_density pattern.
package entity

import "github.com/ludo-technologies/citescan/domain"

// Unavailable is the recognizer used when no entity model can be loaded.
// It reports itself unavailable and never returns entities.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) ExtractEntities(string) map[string]struct{} {
	return map[string]struct{}{}
}

var _ domain.EntityRecognizer = Unavailable{}

// New returns a prose-backed recognizer when enabled and loadable, and Unavailable otherwise
func New(enabled bool) domain.EntityRecognizer {
	if !enabled {
		return Unavailable{}
	}
	r := NewProseRecognizer()
	if !r.Available() {
		return Unavailable{}
	}
	return r
}
