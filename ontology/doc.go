// Package ontology provides an ontology manager whose ontologies can share
// a single read/write synchronization domain.
//
// # Modes
//
// A Manager is created in one of two modes, fixed for its lifetime:
//
//	ModeConcurrent  every ontology delegates locking to the manager's LockPair
//	ModePlain       ontologies are unsynchronized and own private handles
//
// In concurrent mode a mutation of any ontology serializes against reads
// and writes of every other ontology of the same manager:
//
//	m := ontology.NewManager(ontology.WithMode(ontology.ModeConcurrent))
//	a, _ := m.CreateOntology()
//	b, _ := m.CreateOntology()
//	// a.WriteLock() == b.WriteLock()
//
// Handles are returned by identity. Holding a write handle and calling an
// operation of an ontology of the same manager deadlocks, as does mutating
// an ontology from inside an Axioms loop.
//
// # Loading
//
// Document loading is delegated to a DocumentLoader (see package loader).
// Loader failures surface as *LoadError, identity collisions as
// *CreationError. Neither is retried.
package ontology
