package owl

// Namespace IRIs of the standard vocabularies.
const (
	Namespace     = "http://www.w3.org/2002/07/owl#"
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// Built-in classes.
const (
	Thing   = Namespace + "Thing"
	Nothing = Namespace + "Nothing"
)

// Built-in object and data properties.
const (
	TopObjectProperty    = Namespace + "topObjectProperty"
	BottomObjectProperty = Namespace + "bottomObjectProperty"
	TopDataProperty      = Namespace + "topDataProperty"
	BottomDataProperty   = Namespace + "bottomDataProperty"
)

// Built-in annotation properties.
const (
	RDFSLabel              = RDFSNamespace + "label"
	RDFSComment            = RDFSNamespace + "comment"
	RDFSSeeAlso            = RDFSNamespace + "seeAlso"
	RDFSIsDefinedBy        = RDFSNamespace + "isDefinedBy"
	Deprecated             = Namespace + "deprecated"
	VersionInfo            = Namespace + "versionInfo"
	PriorVersion           = Namespace + "priorVersion"
	BackwardCompatibleWith = Namespace + "backwardCompatibleWith"
	IncompatibleWith       = Namespace + "incompatibleWith"
)

// Built-in datatypes.
const (
	RDFSLiteral      = RDFSNamespace + "Literal"
	RDFPlainLiteral  = RDFNamespace + "PlainLiteral"
	RDFLangString    = RDFNamespace + "langString"
	XSDString        = XSDNamespace + "string"
	XSDBoolean       = XSDNamespace + "boolean"
	XSDInteger       = XSDNamespace + "integer"
	XSDDecimal       = XSDNamespace + "decimal"
	XSDDouble        = XSDNamespace + "double"
	XSDFloat         = XSDNamespace + "float"
	XSDDateTime      = XSDNamespace + "dateTime"
	XSDAnyURI        = XSDNamespace + "anyURI"
	XSDNonNegInteger = XSDNamespace + "nonNegativeInteger"
)

// Declaration types are the objects of rdf:type triples that declare an
// entity. They are vocabulary terms, not entities of an ontology signature.
const (
	Class              = Namespace + "Class"
	ObjectProperty     = Namespace + "ObjectProperty"
	DatatypeProperty   = Namespace + "DatatypeProperty"
	AnnotationProperty = Namespace + "AnnotationProperty"
	NamedIndividual    = Namespace + "NamedIndividual"
	RDFSDatatype       = RDFSNamespace + "Datatype"
	Ontology           = Namespace + "Ontology"
)

// Structural predicates used when axioms are rendered as triples.
const (
	RDFType           = RDFNamespace + "type"
	RDFSSubClassOf    = RDFSNamespace + "subClassOf"
	RDFSSubPropertyOf = RDFSNamespace + "subPropertyOf"
	RDFSDomain        = RDFSNamespace + "domain"
	RDFSRange         = RDFSNamespace + "range"
	EquivalentClass   = Namespace + "equivalentClass"
	DisjointWith      = Namespace + "disjointWith"
	Imports           = Namespace + "imports"
	VersionIRI        = Namespace + "versionIRI"
)

// Reification vocabulary for annotated axioms.
const (
	AxiomNode         = Namespace + "Axiom"
	AnnotatedSource   = Namespace + "annotatedSource"
	AnnotatedProperty = Namespace + "annotatedProperty"
	AnnotatedTarget   = Namespace + "annotatedTarget"
)
