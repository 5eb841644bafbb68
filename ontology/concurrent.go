package ontology

import (
	"iter"
	"sync"
)

// concurrentOntology guards a plain ontology with the manager's lock pair.
// It holds a reference to the pair, never a copy, so its handles are the
// manager's handles.
type concurrentOntology struct {
	delegate *plainOntology
	locks    *LockPair
}

func newConcurrentOntology(delegate *plainOntology, locks *LockPair) *concurrentOntology {
	return &concurrentOntology{delegate: delegate, locks: locks}
}

func (o *concurrentOntology) ID() ID                 { return o.delegate.ID() }
func (o *concurrentOntology) Manager() *Manager      { return o.delegate.Manager() }
func (o *concurrentOntology) ReadLock() sync.Locker  { return o.locks.ReadLock() }
func (o *concurrentOntology) WriteLock() sync.Locker { return o.locks.WriteLock() }

// Axioms copies the live axioms under the read handle at the start of each
// pass and yields them unlocked, so the loop body may call any ontology of
// the manager, including mutations.
func (o *concurrentOntology) Axioms() iter.Seq[Axiom] {
	return func(yield func(Axiom) bool) {
		axioms := withLock(o.locks.ReadLock(), func() []Axiom {
			return o.delegate.snapshot()
		})
		for _, a := range axioms {
			if !yield(a) {
				return
			}
		}
	}
}

func (o *concurrentOntology) AxiomsOfKind(kind AxiomKind) []Axiom {
	return withLock(o.locks.ReadLock(), func() []Axiom { return o.delegate.AxiomsOfKind(kind) })
}

func (o *concurrentOntology) ReferencingAxioms(iri IRI) []Axiom {
	return withLock(o.locks.ReadLock(), func() []Axiom { return o.delegate.ReferencingAxioms(iri) })
}

func (o *concurrentOntology) AxiomCount() int {
	return withLock(o.locks.ReadLock(), o.delegate.AxiomCount)
}

func (o *concurrentOntology) AxiomCounts() map[AxiomKind]int {
	return withLock(o.locks.ReadLock(), o.delegate.AxiomCounts)
}

func (o *concurrentOntology) ContainsAxiom(a Axiom) bool {
	return withLock(o.locks.ReadLock(), func() bool { return o.delegate.ContainsAxiom(a) })
}

func (o *concurrentOntology) Signature() []IRI {
	return withLock(o.locks.ReadLock(), o.delegate.Signature)
}

func (o *concurrentOntology) Imports() []IRI {
	return withLock(o.locks.ReadLock(), o.delegate.Imports)
}

func (o *concurrentOntology) Annotations() []Annotation {
	return withLock(o.locks.ReadLock(), o.delegate.Annotations)
}

func (o *concurrentOntology) Document() *Document {
	return withLock(o.locks.ReadLock(), o.delegate.Document)
}

func (o *concurrentOntology) AddAxioms(axioms ...Axiom) ([]Change, error) {
	if err := validateAxioms(axioms); err != nil {
		return nil, err
	}
	changes := withLock(o.locks.WriteLock(), func() []Change { return o.delegate.addAxioms(axioms) })
	o.delegate.manager.notify(o.ID(), changes)
	return changes, nil
}

func (o *concurrentOntology) RemoveAxioms(axioms ...Axiom) []Change {
	changes := withLock(o.locks.WriteLock(), func() []Change { return o.delegate.removeAxioms(axioms) })
	o.delegate.manager.notify(o.ID(), changes)
	return changes
}

func (o *concurrentOntology) AddImport(iri IRI) []Change {
	changes := withLock(o.locks.WriteLock(), func() []Change { return o.delegate.addImport(iri) })
	o.delegate.manager.notify(o.ID(), changes)
	return changes
}

func (o *concurrentOntology) RemoveImport(iri IRI) []Change {
	changes := withLock(o.locks.WriteLock(), func() []Change { return o.delegate.removeImport(iri) })
	o.delegate.manager.notify(o.ID(), changes)
	return changes
}

func (o *concurrentOntology) AddAnnotation(a Annotation) []Change {
	changes := withLock(o.locks.WriteLock(), func() []Change { return o.delegate.addAnnotation(a) })
	o.delegate.manager.notify(o.ID(), changes)
	return changes
}
