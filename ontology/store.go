package ontology

import (
	"iter"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// compactMinDead is the number of dead slots below which the store is
// never compacted.
const compactMinDead = 64

// axiomStore is the unsynchronized axiom storage behind every ontology.
//
// Axioms get a numeric id in insertion order. Removed axioms keep their
// slot until dead slots outnumber live ones, then the store is compacted
// and ids are reassigned in the same order. The live bitmap decides
// visibility, and posting lists per kind and per IRI make kind and
// reference lookups index intersections.
type axiomStore struct {
	axioms []Axiom
	live   *roaring.Bitmap
	byKey  map[string]uint32
	byKind map[AxiomKind]*roaring.Bitmap
	byIRI  map[IRI]*roaring.Bitmap
}

func newAxiomStore() *axiomStore {
	return &axiomStore{
		live:   roaring.New(),
		byKey:  make(map[string]uint32),
		byKind: make(map[AxiomKind]*roaring.Bitmap),
		byIRI:  make(map[IRI]*roaring.Bitmap),
	}
}

// add stores the axiom and reports whether it was new.
func (s *axiomStore) add(a Axiom) bool {
	key := a.Key()
	if _, exists := s.byKey[key]; exists {
		return false
	}

	id := uint32(len(s.axioms))
	s.axioms = append(s.axioms, a)
	s.byKey[key] = id
	s.live.Add(id)

	posting(s.byKind, a.Kind).Add(id)
	for _, iri := range a.IRIs() {
		posting(s.byIRI, iri).Add(id)
	}
	return true
}

// remove drops the axiom and reports whether it was present.
func (s *axiomStore) remove(a Axiom) bool {
	key := a.Key()
	id, exists := s.byKey[key]
	if !exists {
		return false
	}

	delete(s.byKey, key)
	s.live.Remove(id)

	stored := s.axioms[id]
	unpost(s.byKind, stored.Kind, id)
	for _, iri := range stored.IRIs() {
		unpost(s.byIRI, iri, id)
	}
	s.axioms[id] = Axiom{}

	if dead := len(s.axioms) - s.count(); dead >= compactMinDead && dead > s.count() {
		s.compact()
	}
	return true
}

// compact drops dead slots and rebuilds the indexes.
func (s *axiomStore) compact() {
	live := make([]Axiom, 0, s.count())
	for a := range s.all() {
		live = append(live, a)
	}

	fresh := newAxiomStore()
	fresh.axioms = make([]Axiom, 0, len(live))
	for _, a := range live {
		fresh.add(a)
	}
	*s = *fresh
}

func (s *axiomStore) contains(a Axiom) bool {
	_, ok := s.byKey[a.Key()]
	return ok
}

func (s *axiomStore) count() int {
	return int(s.live.GetCardinality())
}

// all yields live axioms in insertion order.
func (s *axiomStore) all() iter.Seq[Axiom] {
	return s.seq(s.live)
}

func (s *axiomStore) ofKind(kind AxiomKind) []Axiom {
	return s.collect(s.byKind[kind])
}

func (s *axiomStore) referencing(iri IRI) []Axiom {
	return s.collect(s.byIRI[iri])
}

func (s *axiomStore) kindCounts() map[AxiomKind]int {
	counts := make(map[AxiomKind]int, len(s.byKind))
	for kind, bm := range s.byKind {
		if n := bm.GetCardinality(); n > 0 {
			counts[kind] = int(n)
		}
	}
	return counts
}

// signature returns the entities referenced by live axioms, sorted.
func (s *axiomStore) signature() []IRI {
	seen := make(map[IRI]struct{})
	for a := range s.all() {
		for _, iri := range a.entities() {
			seen[iri] = struct{}{}
		}
	}
	out := make([]IRI, 0, len(seen))
	for iri := range seen {
		out = append(out, iri)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *axiomStore) seq(bm *roaring.Bitmap) iter.Seq[Axiom] {
	return func(yield func(Axiom) bool) {
		if bm == nil {
			return
		}
		it := bm.Iterator()
		for it.HasNext() {
			if !yield(s.axioms[it.Next()]) {
				return
			}
		}
	}
}

func (s *axiomStore) collect(bm *roaring.Bitmap) []Axiom {
	if bm == nil || bm.IsEmpty() {
		return nil
	}
	out := make([]Axiom, 0, bm.GetCardinality())
	for a := range s.seq(bm) {
		out = append(out, a)
	}
	return out
}

func posting[K comparable](index map[K]*roaring.Bitmap, key K) *roaring.Bitmap {
	bm, ok := index[key]
	if !ok {
		bm = roaring.New()
		index[key] = bm
	}
	return bm
}

func unpost[K comparable](index map[K]*roaring.Bitmap, key K, id uint32) {
	bm, ok := index[key]
	if !ok {
		return
	}
	bm.Remove(id)
	if bm.IsEmpty() {
		delete(index, key)
	}
}
