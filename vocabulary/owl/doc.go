// Package owl provides the frozen table of well-known OWL 2, RDF, RDFS and
// XSD vocabulary entities.
//
// The table is built once at package initialization and never mutated
// afterwards. Lookups return values, and Entities returns a fresh slice, so
// callers cannot alter the shared data.
//
// # Built-in Entities
//
// The built-in entities are the ones every OWL 2 ontology may reference
// without declaring them:
//
//	Class              owl:Thing, owl:Nothing
//	ObjectProperty     owl:topObjectProperty, owl:bottomObjectProperty
//	DataProperty       owl:topDataProperty, owl:bottomDataProperty
//	AnnotationProperty rdfs:label, rdfs:comment, owl:versionInfo, ...
//	Datatype           rdfs:Literal, xsd:string, xsd:integer, ...
//
// Ontology signatures exclude built-ins (see IsBuiltIn).
//
// # Semstreams Integration
//
// Axiom predicates are registered in init() with vocabulary.Register using
// three-level dotted notation (owl.axiom.*, owl.annotation.*) and mapped to
// their standard IRIs with vocabulary.WithIRI, so graph publication can use
// the dotted names and RDF export can use the IRIs.
package owl
