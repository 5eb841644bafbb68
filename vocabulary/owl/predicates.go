package owl

import "github.com/c360studio/semstreams/vocabulary"

// Axiom predicates in dotted notation. Each maps to the RDF predicate used
// when the axiom is rendered as a triple.
const (
	AxiomDeclaration       = "owl.axiom.declaration"
	AxiomSubClassOf        = "owl.axiom.subclassof"
	AxiomEquivalentClasses = "owl.axiom.equivalentclasses"
	AxiomDisjointClasses   = "owl.axiom.disjointclasses"
	AxiomSubPropertyOf     = "owl.axiom.subpropertyof"
	AxiomDomain            = "owl.axiom.domain"
	AxiomRange             = "owl.axiom.range"
	AxiomClassAssertion    = "owl.axiom.classassertion"
)

// Ontology header predicates.
const (
	OntologyImports    = "owl.ontology.imports"
	OntologyVersionIRI = "owl.ontology.versioniri"
)

// Annotation predicates for the built-in annotation properties.
const (
	AnnotationLabel       = "owl.annotation.label"
	AnnotationComment     = "owl.annotation.comment"
	AnnotationSeeAlso     = "owl.annotation.seealso"
	AnnotationDefinedBy   = "owl.annotation.isdefinedby"
	AnnotationDeprecated  = "owl.annotation.deprecated"
	AnnotationVersionInfo = "owl.annotation.versioninfo"
)

func init() {
	registerAxiomPredicates()
	registerAnnotationPredicates()
}

func registerAxiomPredicates() {
	vocabulary.Register(AxiomDeclaration,
		vocabulary.WithDescription("Entity declaration; object is the declaration type"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFType))

	vocabulary.Register(AxiomSubClassOf,
		vocabulary.WithDescription("Subject class is a subclass of the object class"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSSubClassOf))

	vocabulary.Register(AxiomEquivalentClasses,
		vocabulary.WithDescription("Subject and object classes have the same extension"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(EquivalentClass))

	vocabulary.Register(AxiomDisjointClasses,
		vocabulary.WithDescription("Subject and object classes share no individuals"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(DisjointWith))

	vocabulary.Register(AxiomSubPropertyOf,
		vocabulary.WithDescription("Subject property is a subproperty of the object property"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSSubPropertyOf))

	vocabulary.Register(AxiomDomain,
		vocabulary.WithDescription("Domain class of the subject property"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSDomain))

	vocabulary.Register(AxiomRange,
		vocabulary.WithDescription("Range class or datatype of the subject property"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSRange))

	vocabulary.Register(AxiomClassAssertion,
		vocabulary.WithDescription("Subject individual is an instance of the object class"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFType))

	vocabulary.Register(OntologyImports,
		vocabulary.WithDescription("Ontology imports the object ontology"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Imports))

	vocabulary.Register(OntologyVersionIRI,
		vocabulary.WithDescription("Version IRI of the ontology"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(VersionIRI))
}

func registerAnnotationPredicates() {
	vocabulary.Register(AnnotationLabel,
		vocabulary.WithDescription("Human-readable name of a resource"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSLabel))

	vocabulary.Register(AnnotationComment,
		vocabulary.WithDescription("Human-readable description of a resource"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSComment))

	vocabulary.Register(AnnotationSeeAlso,
		vocabulary.WithDescription("Resource providing additional information"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSSeeAlso))

	vocabulary.Register(AnnotationDefinedBy,
		vocabulary.WithDescription("Resource defining the subject"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSIsDefinedBy))

	vocabulary.Register(AnnotationDeprecated,
		vocabulary.WithDescription("Marks the subject as deprecated"),
		vocabulary.WithDataType("bool"),
		vocabulary.WithIRI(Deprecated))

	vocabulary.Register(AnnotationVersionInfo,
		vocabulary.WithDescription("Version information of the subject"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(VersionInfo))
}

// annotationPredicates maps built-in annotation property IRIs to their
// dotted predicate names.
var annotationPredicates = map[string]string{
	RDFSLabel:       AnnotationLabel,
	RDFSComment:     AnnotationComment,
	RDFSSeeAlso:     AnnotationSeeAlso,
	RDFSIsDefinedBy: AnnotationDefinedBy,
	Deprecated:      AnnotationDeprecated,
	VersionInfo:     AnnotationVersionInfo,
}

// Predicates returns every dotted predicate registered by this package,
// grouped as axiom, ontology and annotation predicates.
func Predicates() []string {
	return []string{
		AxiomDeclaration, AxiomSubClassOf, AxiomEquivalentClasses, AxiomDisjointClasses,
		AxiomSubPropertyOf, AxiomDomain, AxiomRange, AxiomClassAssertion,
		OntologyImports, OntologyVersionIRI,
		AnnotationLabel, AnnotationComment, AnnotationSeeAlso,
		AnnotationDefinedBy, AnnotationDeprecated, AnnotationVersionInfo,
	}
}

// PredicateForProperty returns the dotted predicate for a built-in
// annotation property IRI. Other IRIs are returned unchanged.
func PredicateForProperty(iri string) string {
	if p, ok := annotationPredicates[iri]; ok {
		return p
	}
	return iri
}

// PredicateIRI returns the standard IRI registered for a dotted predicate,
// falling back to the predicate itself.
func PredicateIRI(predicate string) string {
	if meta := vocabulary.GetPredicateMetadata(predicate); meta != nil && meta.StandardIRI != "" {
		return meta.StandardIRI
	}
	return predicate
}
