package entity

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// ProseRecognizer extracts named entities with the prose NER model.
// The model is loaded once and only read afterwards.
type ProseRecognizer struct {
	model *prose.Model
}

// NewProseRecognizer loads the prose tagger and NER model.
// A model that fails to load leaves the recognizer unavailable.
func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{model: loadModel()}
}

func loadModel() (model *prose.Model) {
	defer func() {
		if recover() != nil {
			model = nil
		}
	}()
	model = prose.ModelFromData("default")
	if _, err := prose.NewDocument("Go was designed at Google in California.", prose.UsingModel(model)); err != nil {
		return nil
	}
	return model
}

func (r *ProseRecognizer) Available() bool {
	return r != nil && r.model != nil
}

// ExtractEntities returns the distinct entity texts found in text.
// Errors from the model yield an empty set.
func (r *ProseRecognizer) ExtractEntities(text string) (entities map[string]struct{}) {
	entities = map[string]struct{}{}
	if !r.Available() || strings.TrimSpace(text) == "" {
		return entities
	}

	defer func() {
		if recover() != nil {
			entities = map[string]struct{}{}
		}
	}()

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false), prose.UsingModel(r.model))
	if err != nil {
		return entities
	}
	for _, ent := range doc.Entities() {
		if ent.Text == "" {
			continue
		}
		entities[ent.Text] = struct{}{}
	}
	return entities
}
