package ontology

import (
	"iter"
	"slices"
	"sync"
)

// Ontology is an in-memory set of axioms identified by an ID.
//
// Ontologies are created by a Manager. In plain mode an ontology is not
// safe for concurrent use; its lock handles are private and only serve
// callers that coordinate access themselves. In concurrent mode every
// operation holds the manager's shared read or write handle.
type Ontology interface {
	// ID returns the ontology identity.
	ID() ID
	// Manager returns the manager that created the ontology.
	Manager() *Manager

	// ReadLock returns the read handle guarding the ontology.
	ReadLock() sync.Locker
	// WriteLock returns the write handle guarding the ontology.
	WriteLock() sync.Locker

	// Axioms returns a lazy, restartable sequence over all axioms in
	// insertion order. Each pass observes the state at the moment it
	// starts; changes made inside the loop show up in the next pass.
	Axioms() iter.Seq[Axiom]
	AxiomsOfKind(kind AxiomKind) []Axiom
	ReferencingAxioms(iri IRI) []Axiom
	AxiomCount() int
	AxiomCounts() map[AxiomKind]int
	ContainsAxiom(a Axiom) bool
	// Signature returns the non built-in entities used by the axioms.
	Signature() []IRI
	Imports() []IRI
	Annotations() []Annotation
	// Document returns a snapshot of the ontology content.
	Document() *Document

	// AddAxioms validates all axioms, then adds the new ones. Nothing is
	// added if any axiom is invalid.
	AddAxioms(axioms ...Axiom) ([]Change, error)
	RemoveAxioms(axioms ...Axiom) []Change
	AddImport(iri IRI) []Change
	RemoveImport(iri IRI) []Change
	AddAnnotation(a Annotation) []Change
}

// plainOntology is the unsynchronized implementation. The concurrent
// variant delegates to it under the manager's lock.
type plainOntology struct {
	manager *Manager
	id      ID
	locks   *LockPair
	store   *axiomStore

	imports     []IRI
	annotations []Annotation
}

func newPlainOntology(m *Manager, id ID) *plainOntology {
	return &plainOntology{
		manager: m,
		id:      id,
		locks:   NewLockPair(),
		store:   newAxiomStore(),
	}
}

func (o *plainOntology) ID() ID                 { return o.id }
func (o *plainOntology) Manager() *Manager      { return o.manager }
func (o *plainOntology) ReadLock() sync.Locker  { return o.locks.ReadLock() }
func (o *plainOntology) WriteLock() sync.Locker { return o.locks.WriteLock() }

func (o *plainOntology) AxiomsOfKind(kind AxiomKind) []Axiom { return o.store.ofKind(kind) }
func (o *plainOntology) ReferencingAxioms(iri IRI) []Axiom   { return o.store.referencing(iri) }
func (o *plainOntology) AxiomCount() int                     { return o.store.count() }
func (o *plainOntology) AxiomCounts() map[AxiomKind]int      { return o.store.kindCounts() }
func (o *plainOntology) ContainsAxiom(a Axiom) bool          { return o.store.contains(a) }
func (o *plainOntology) Signature() []IRI                    { return o.store.signature() }
func (o *plainOntology) Imports() []IRI                      { return slices.Clone(o.imports) }
func (o *plainOntology) Annotations() []Annotation           { return slices.Clone(o.annotations) }

func (o *plainOntology) Axioms() iter.Seq[Axiom] {
	return func(yield func(Axiom) bool) {
		for _, a := range o.snapshot() {
			if !yield(a) {
				return
			}
		}
	}
}

func (o *plainOntology) snapshot() []Axiom {
	return slices.Collect(o.store.all())
}

func (o *plainOntology) Document() *Document {
	return &Document{
		ID:          o.id,
		Imports:     o.Imports(),
		Annotations: o.Annotations(),
		Axioms:      o.snapshot(),
	}
}

func (o *plainOntology) AddAxioms(axioms ...Axiom) ([]Change, error) {
	if err := validateAxioms(axioms); err != nil {
		return nil, err
	}
	changes := o.addAxioms(axioms)
	o.manager.notify(o.id, changes)
	return changes, nil
}

func (o *plainOntology) RemoveAxioms(axioms ...Axiom) []Change {
	changes := o.removeAxioms(axioms)
	o.manager.notify(o.id, changes)
	return changes
}

func (o *plainOntology) AddImport(iri IRI) []Change {
	changes := o.addImport(iri)
	o.manager.notify(o.id, changes)
	return changes
}

func (o *plainOntology) RemoveImport(iri IRI) []Change {
	changes := o.removeImport(iri)
	o.manager.notify(o.id, changes)
	return changes
}

func (o *plainOntology) AddAnnotation(a Annotation) []Change {
	changes := o.addAnnotation(a)
	o.manager.notify(o.id, changes)
	return changes
}

// The methods below mutate state without notifying listeners so the
// concurrent variant can release its lock before notification.

// fill applies the document content and returns the applied changes.
func (o *plainOntology) fill(doc *Document) []Change {
	var changes []Change
	for _, iri := range doc.Imports {
		changes = append(changes, o.addImport(iri)...)
	}
	for _, a := range doc.Annotations {
		changes = append(changes, o.addAnnotation(a)...)
	}
	return append(changes, o.addAxioms(doc.Axioms)...)
}

func (o *plainOntology) addAxioms(axioms []Axiom) []Change {
	var changes []Change
	for _, a := range axioms {
		if o.store.add(a) {
			changes = append(changes, Change{Kind: ChangeAddAxiom, Axiom: a})
		}
	}
	return changes
}

func (o *plainOntology) removeAxioms(axioms []Axiom) []Change {
	var changes []Change
	for _, a := range axioms {
		if o.store.remove(a) {
			changes = append(changes, Change{Kind: ChangeRemoveAxiom, Axiom: a})
		}
	}
	return changes
}

func (o *plainOntology) addImport(iri IRI) []Change {
	if iri == "" || slices.Contains(o.imports, iri) {
		return nil
	}
	o.imports = append(o.imports, iri)
	return []Change{{Kind: ChangeAddImport, Import: iri}}
}

func (o *plainOntology) removeImport(iri IRI) []Change {
	idx := slices.Index(o.imports, iri)
	if idx < 0 {
		return nil
	}
	o.imports = slices.Delete(o.imports, idx, idx+1)
	return []Change{{Kind: ChangeRemoveImport, Import: iri}}
}

func (o *plainOntology) addAnnotation(a Annotation) []Change {
	if a.Property == "" || a.Value.IsZero() {
		return nil
	}
	key := a.key()
	for _, existing := range o.annotations {
		if existing.key() == key {
			return nil
		}
	}
	o.annotations = append(o.annotations, a)
	return []Change{{Kind: ChangeAddAnnotation, Annotation: a}}
}

func validateAxioms(axioms []Axiom) error {
	for _, a := range axioms {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}
