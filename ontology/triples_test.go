package ontology_test

import (
	"testing"

	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/vocabulary/owl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxiom_Triple(t *testing.T) {
	tests := []struct {
		axiom     ontology.Axiom
		predicate ontology.IRI
	}{
		{ontology.Declaration(ex+"Pizza", owl.EntityClass), owl.RDFType},
		{ontology.SubClassOf(ex+"Margherita", ex+"Pizza"), owl.RDFSSubClassOf},
		{ontology.ClassAssertion(ex+"myPizza", ex+"Pizza"), owl.RDFType},
		{ontology.ObjectPropertyAssertion(ex+"myPizza", ex+"hasTopping", ex+"mozzarella"), ex + "hasTopping"},
		{ontology.AnnotationAssertion(ex+"Pizza", owl.RDFSLabel, ontology.LiteralTerm("Pizza")), owl.RDFSLabel},
	}

	for _, tt := range tests {
		t.Run(string(tt.axiom.Kind), func(t *testing.T) {
			triple := tt.axiom.Triple()
			assert.Equal(t, tt.axiom.Subject, triple.Subject)
			assert.Equal(t, tt.predicate, triple.Predicate)
			assert.Equal(t, tt.axiom.Object, triple.Object)
		})
	}
}

func TestDocument_Triples(t *testing.T) {
	annotated := ontology.SubClassOf(ex+"Margherita", ex+"Pizza")
	annotated.Annotations = []ontology.Annotation{{Property: owl.RDFSComment, Value: ontology.LiteralTerm("classic")}}

	doc := &ontology.Document{
		ID:          ontology.NewVersionedID(ex+"pizza", ex+"pizza/1.0"),
		Imports:     []ontology.IRI{ex + "food"},
		Annotations: []ontology.Annotation{{Property: owl.RDFSLabel, Value: ontology.LiteralTerm("Pizza")}},
		Axioms:      []ontology.Axiom{ontology.Declaration(ex+"Pizza", owl.EntityClass), annotated},
	}

	triples := doc.Triples()
	require.Len(t, triples, 4+2+5)

	assert.Equal(t, ontology.Triple{Subject: ex + "pizza", Predicate: owl.RDFType, Object: ontology.IRITerm(owl.Ontology)}, triples[0])
	assert.Equal(t, ontology.IRI(owl.VersionIRI), triples[1].Predicate)
	assert.Equal(t, ontology.IRI(owl.Imports), triples[2].Predicate)
	assert.Equal(t, ontology.IRI(owl.RDFSLabel), triples[3].Predicate)

	reified := triples[6:]
	for _, tr := range reified {
		assert.Equal(t, ontology.IRI("_:axiom2"), tr.Subject)
	}
	assert.Equal(t, ontology.IRITerm(owl.AxiomNode), reified[0].Object)
	assert.Equal(t, ontology.IRITerm(ex+"Margherita"), reified[1].Object)
	assert.Equal(t, ontology.IRITerm(owl.RDFSSubClassOf), reified[2].Object)
	assert.Equal(t, ontology.IRITerm(ex+"Pizza"), reified[3].Object)
	assert.Equal(t, ontology.IRI(owl.RDFSComment), reified[4].Predicate)
}

func TestID_Subject(t *testing.T) {
	assert.Equal(t, ontology.IRI(ex+"pizza"), ontology.NewID(ex+"pizza").Subject())

	anon := ontology.NewAnonymousID()
	assert.Equal(t, ontology.IRI(anon.Anonymous), anon.Subject())
	assert.Equal(t, ontology.IRI("_:ontology"), ontology.ID{}.Subject())
}
