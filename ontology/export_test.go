package ontology

// ManagerLockPair exposes the manager's shared lock pair to external tests.
var ManagerLockPair = (*Manager).lockPair

// IsConcurrentOntology reports whether o is the concurrent variant.
func IsConcurrentOntology(o Ontology) bool {
	_, ok := o.(*concurrentOntology)
	return ok
}
