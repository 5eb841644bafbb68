package ontology

import (
	"context"
	"fmt"
)

// Document is the parsed content of an ontology document: what a loader
// produces and what an ontology snapshot contains.
type Document struct {
	ID          ID           `json:"id"`
	Imports     []IRI        `json:"imports,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Axioms      []Axiom      `json:"axioms,omitempty"`
}

// Validate checks every axiom of the document.
func (d *Document) Validate() error {
	for i, a := range d.Axioms {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("axiom %d: %w", i, err)
		}
	}
	return nil
}

// DocumentLoader resolves a locator to byte content and parses it.
// Implementations fail with an error that the manager surfaces as a
// LoadError.
type DocumentLoader interface {
	LoadDocument(ctx context.Context, locator string) (*Document, error)
}

// DocumentLoaderFunc adapts a function to DocumentLoader.
type DocumentLoaderFunc func(ctx context.Context, locator string) (*Document, error)

// LoadDocument calls f.
func (f DocumentLoaderFunc) LoadDocument(ctx context.Context, locator string) (*Document, error) {
	return f(ctx, locator)
}

// ChangeKind classifies an applied ontology change.
type ChangeKind string

const (
	ChangeAddAxiom      ChangeKind = "add_axiom"
	ChangeRemoveAxiom   ChangeKind = "remove_axiom"
	ChangeAddImport     ChangeKind = "add_import"
	ChangeRemoveImport  ChangeKind = "remove_import"
	ChangeAddAnnotation ChangeKind = "add_annotation"
)

// Change is one applied modification. Only the field matching Kind is set.
type Change struct {
	Kind       ChangeKind
	Axiom      Axiom
	Import     IRI
	Annotation Annotation
}

// ChangeListener is notified after changes were applied to an ontology.
// Listeners run outside the ontology lock and may read the ontology.
type ChangeListener func(id ID, changes []Change)
