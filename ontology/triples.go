package ontology

import (
	"fmt"

	"github.com/c360studio/semonto/vocabulary/owl"
)

// Triple is one RDF statement. Blank node subjects start with "_:".
type Triple struct {
	Subject   IRI
	Predicate IRI
	Object    Term
}

// kindPredicates maps the binary axiom kinds to their RDF predicate.
var kindPredicates = map[AxiomKind]IRI{
	KindDeclaration:       owl.RDFType,
	KindSubClassOf:        owl.RDFSSubClassOf,
	KindEquivalentClasses: owl.EquivalentClass,
	KindDisjointClasses:   owl.DisjointWith,
	KindSubPropertyOf:     owl.RDFSSubPropertyOf,
	KindDomain:            owl.RDFSDomain,
	KindRange:             owl.RDFSRange,
	KindClassAssertion:    owl.RDFType,
}

// Triple renders the axiom as a single statement, without its annotations.
func (a Axiom) Triple() Triple {
	predicate := a.Property
	if p, ok := kindPredicates[a.Kind]; ok {
		predicate = p
	}
	return Triple{Subject: a.Subject, Predicate: predicate, Object: a.Object}
}

// Subject returns the node naming the ontology in its header.
func (id ID) Subject() IRI {
	switch {
	case !id.IsAnonymous():
		return id.OntologyIRI
	case id.Anonymous != "":
		return IRI(id.Anonymous)
	default:
		return "_:ontology"
	}
}

// Triples renders the document: the ontology header, its imports and
// annotations, then one statement per axiom. Annotated axioms are
// reified as owl:Axiom blank nodes.
func (d *Document) Triples() []Triple {
	subject := d.ID.Subject()
	triples := []Triple{{Subject: subject, Predicate: owl.RDFType, Object: IRITerm(owl.Ontology)}}
	if d.ID.VersionIRI != "" {
		triples = append(triples, Triple{Subject: subject, Predicate: owl.VersionIRI, Object: IRITerm(d.ID.VersionIRI)})
	}
	for _, imp := range d.Imports {
		triples = append(triples, Triple{Subject: subject, Predicate: owl.Imports, Object: IRITerm(imp)})
	}
	for _, ann := range d.Annotations {
		triples = append(triples, Triple{Subject: subject, Predicate: ann.Property, Object: ann.Value})
	}

	for i, a := range d.Axioms {
		t := a.Triple()
		triples = append(triples, t)
		if len(a.Annotations) == 0 {
			continue
		}

		node := IRI(fmt.Sprintf("_:axiom%d", i+1))
		triples = append(triples,
			Triple{Subject: node, Predicate: owl.RDFType, Object: IRITerm(owl.AxiomNode)},
			Triple{Subject: node, Predicate: owl.AnnotatedSource, Object: IRITerm(t.Subject)},
			Triple{Subject: node, Predicate: owl.AnnotatedProperty, Object: IRITerm(t.Predicate)},
			Triple{Subject: node, Predicate: owl.AnnotatedTarget, Object: t.Object},
		)
		for _, ann := range a.Annotations {
			triples = append(triples, Triple{Subject: node, Predicate: ann.Property, Object: ann.Value})
		}
	}
	return triples
}
