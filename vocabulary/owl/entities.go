package owl

import (
	"sort"
	"strings"
)

// EntityType classifies a built-in entity.
type EntityType string

const (
	EntityClass              EntityType = "class"
	EntityObjectProperty     EntityType = "object_property"
	EntityDataProperty       EntityType = "data_property"
	EntityAnnotationProperty EntityType = "annotation_property"
	EntityDatatype           EntityType = "datatype"
	EntityNamedIndividual    EntityType = "named_individual"
)

// DeclarationIRI returns the rdf:type object used to declare an entity of
// this type, or "" for an unknown type.
func (t EntityType) DeclarationIRI() string {
	switch t {
	case EntityClass:
		return Class
	case EntityObjectProperty:
		return ObjectProperty
	case EntityDataProperty:
		return DatatypeProperty
	case EntityAnnotationProperty:
		return AnnotationProperty
	case EntityDatatype:
		return RDFSDatatype
	case EntityNamedIndividual:
		return NamedIndividual
	default:
		return ""
	}
}

// EntityTypeForDeclaration is the inverse of EntityType.DeclarationIRI.
func EntityTypeForDeclaration(iri string) (EntityType, bool) {
	for _, t := range []EntityType{
		EntityClass, EntityObjectProperty, EntityDataProperty,
		EntityAnnotationProperty, EntityDatatype, EntityNamedIndividual,
	} {
		if t.DeclarationIRI() == iri {
			return t, true
		}
	}
	return "", false
}

// Entity is a built-in vocabulary entity.
type Entity struct {
	IRI  string
	Type EntityType
	// CURIE is the prefixed short form, e.g. "owl:Thing".
	CURIE string
}

// builtins is populated once at init and read-only afterwards.
var builtins = buildTable()

func buildTable() map[string]Entity {
	table := make(map[string]Entity)
	add := func(t EntityType, iris ...string) {
		for _, iri := range iris {
			table[iri] = Entity{IRI: iri, Type: t, CURIE: Compact(iri)}
		}
	}

	add(EntityClass, Thing, Nothing)
	add(EntityObjectProperty, TopObjectProperty, BottomObjectProperty)
	add(EntityDataProperty, TopDataProperty, BottomDataProperty)
	add(EntityAnnotationProperty,
		RDFSLabel, RDFSComment, RDFSSeeAlso, RDFSIsDefinedBy,
		Deprecated, VersionInfo, PriorVersion, BackwardCompatibleWith, IncompatibleWith)
	add(EntityDatatype,
		RDFSLiteral, RDFPlainLiteral, RDFLangString,
		XSDString, XSDBoolean, XSDInteger, XSDDecimal, XSDDouble, XSDFloat,
		XSDDateTime, XSDAnyURI, XSDNonNegInteger)

	return table
}

// Lookup returns the built-in entity for an IRI.
func Lookup(iri string) (Entity, bool) {
	e, ok := builtins[iri]
	return e, ok
}

// IsBuiltIn reports whether the IRI names a built-in entity.
func IsBuiltIn(iri string) bool {
	_, ok := builtins[iri]
	return ok
}

// Entities returns all built-in entities sorted by IRI.
// The returned slice is a copy.
func Entities() []Entity {
	out := make([]Entity, 0, len(builtins))
	for _, e := range builtins {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IRI < out[j].IRI })
	return out
}

// EntitiesOfType returns the built-in entities of one type sorted by IRI.
func EntitiesOfType(t EntityType) []Entity {
	var out []Entity
	for _, e := range Entities() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Prefixes returns the standard namespace prefixes. The map is a copy.
func Prefixes() map[string]string {
	return map[string]string{
		"owl":  Namespace,
		"rdf":  RDFNamespace,
		"rdfs": RDFSNamespace,
		"xsd":  XSDNamespace,
	}
}

// Compact returns the prefixed form of an IRI in one of the standard
// namespaces, or the IRI unchanged.
func Compact(iri string) string {
	for prefix, ns := range Prefixes() {
		if strings.HasPrefix(iri, ns) && len(iri) > len(ns) {
			return prefix + ":" + iri[len(ns):]
		}
	}
	return iri
}
