package ontology

import (
	"fmt"
	"strings"

	"github.com/c360studio/semonto/vocabulary/owl"
)

// AxiomKind classifies an axiom.
type AxiomKind string

const (
	KindDeclaration             AxiomKind = "declaration"
	KindSubClassOf              AxiomKind = "subclass_of"
	KindEquivalentClasses       AxiomKind = "equivalent_classes"
	KindDisjointClasses         AxiomKind = "disjoint_classes"
	KindSubPropertyOf           AxiomKind = "subproperty_of"
	KindDomain                  AxiomKind = "domain"
	KindRange                   AxiomKind = "range"
	KindClassAssertion          AxiomKind = "class_assertion"
	KindObjectPropertyAssertion AxiomKind = "object_property_assertion"
	KindDataPropertyAssertion   AxiomKind = "data_property_assertion"
	KindAnnotationAssertion     AxiomKind = "annotation_assertion"
)

// AxiomKinds lists every kind in a stable order.
var AxiomKinds = []AxiomKind{
	KindDeclaration,
	KindSubClassOf,
	KindEquivalentClasses,
	KindDisjointClasses,
	KindSubPropertyOf,
	KindDomain,
	KindRange,
	KindClassAssertion,
	KindObjectPropertyAssertion,
	KindDataPropertyAssertion,
	KindAnnotationAssertion,
}

// IsValid reports whether k is a known kind.
func (k AxiomKind) IsValid() bool {
	for _, known := range AxiomKinds {
		if k == known {
			return true
		}
	}
	return false
}

// hasProperty reports whether axioms of this kind carry a property.
func (k AxiomKind) hasProperty() bool {
	switch k {
	case KindObjectPropertyAssertion, KindDataPropertyAssertion, KindAnnotationAssertion:
		return true
	default:
		return false
	}
}

// Literal is a data value with a datatype or language tag.
type Literal struct {
	Lexical  string `json:"lexical"`
	Datatype IRI    `json:"datatype,omitempty"`
	Lang     string `json:"lang,omitempty"`
}

// String renders the literal in Turtle-like notation.
func (l Literal) String() string {
	switch {
	case l.Lang != "":
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	case l.Datatype != "" && l.Datatype != owl.XSDString:
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype)
	default:
		return fmt.Sprintf("%q", l.Lexical)
	}
}

// Term is the object position of an axiom: either an IRI or a literal.
type Term struct {
	IRI     IRI      `json:"iri,omitempty"`
	Literal *Literal `json:"literal,omitempty"`
}

// IRITerm returns a term naming an entity.
func IRITerm(iri IRI) Term {
	return Term{IRI: iri}
}

// LiteralTerm returns a plain string literal term.
func LiteralTerm(lexical string) Term {
	return Term{Literal: &Literal{Lexical: lexical, Datatype: owl.XSDString}}
}

// TypedLiteral returns a literal term with the given datatype.
func TypedLiteral(lexical string, datatype IRI) Term {
	return Term{Literal: &Literal{Lexical: lexical, Datatype: datatype}}
}

// LangLiteral returns a language-tagged literal term.
func LangLiteral(lexical, lang string) Term {
	return Term{Literal: &Literal{Lexical: lexical, Datatype: owl.RDFLangString, Lang: lang}}
}

// IsLiteral reports whether the term holds a literal.
func (t Term) IsLiteral() bool {
	return t.Literal != nil
}

// IsZero reports whether the term is empty.
func (t Term) IsZero() bool {
	return t.IRI == "" && t.Literal == nil
}

// String renders the term.
func (t Term) String() string {
	if t.Literal != nil {
		return t.Literal.String()
	}
	return "<" + string(t.IRI) + ">"
}

// Annotation attaches a value to an ontology or an axiom.
type Annotation struct {
	Property IRI  `json:"property"`
	Value    Term `json:"value"`
}

func (a Annotation) key() string {
	return string(a.Property) + " " + a.Value.String()
}

// Axiom is a single logical or annotation statement.
//
// Binary class and property axioms use Subject and Object. Assertions and
// annotation assertions also use Property. Declarations carry the
// declaration type (owl.Class, owl.ObjectProperty, ...) as Object.
type Axiom struct {
	Kind        AxiomKind    `json:"kind"`
	Subject     IRI          `json:"subject"`
	Property    IRI          `json:"property,omitempty"`
	Object      Term         `json:"object"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Declaration returns a declaration axiom for an entity.
func Declaration(entity IRI, t owl.EntityType) Axiom {
	return Axiom{Kind: KindDeclaration, Subject: entity, Object: IRITerm(IRI(t.DeclarationIRI()))}
}

// SubClassOf states that every instance of sub is an instance of super.
func SubClassOf(sub, super IRI) Axiom {
	return Axiom{Kind: KindSubClassOf, Subject: sub, Object: IRITerm(super)}
}

// ClassAssertion states that individual is an instance of class.
func ClassAssertion(individual, class IRI) Axiom {
	return Axiom{Kind: KindClassAssertion, Subject: individual, Object: IRITerm(class)}
}

// ObjectPropertyAssertion relates two individuals.
func ObjectPropertyAssertion(subject, property, object IRI) Axiom {
	return Axiom{Kind: KindObjectPropertyAssertion, Subject: subject, Property: property, Object: IRITerm(object)}
}

// DataPropertyAssertion relates an individual to a literal.
func DataPropertyAssertion(subject, property IRI, value Term) Axiom {
	return Axiom{Kind: KindDataPropertyAssertion, Subject: subject, Property: property, Object: value}
}

// AnnotationAssertion annotates a subject.
func AnnotationAssertion(subject, property IRI, value Term) Axiom {
	return Axiom{Kind: KindAnnotationAssertion, Subject: subject, Property: property, Object: value}
}

// Validate checks the axiom is structurally complete for its kind.
func (a Axiom) Validate() error {
	if !a.Kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidAxiom, a.Kind)
	}
	if a.Subject == "" {
		return fmt.Errorf("%w: %s without subject", ErrInvalidAxiom, a.Kind)
	}
	if a.Object.IsZero() {
		return fmt.Errorf("%w: %s without object", ErrInvalidAxiom, a.Kind)
	}
	if a.Kind.hasProperty() && a.Property == "" {
		return fmt.Errorf("%w: %s without property", ErrInvalidAxiom, a.Kind)
	}
	if !a.Kind.hasProperty() && a.Property != "" {
		return fmt.Errorf("%w: %s does not take a property", ErrInvalidAxiom, a.Kind)
	}

	switch a.Kind {
	case KindDataPropertyAssertion:
		if !a.Object.IsLiteral() {
			return fmt.Errorf("%w: data property assertion needs a literal", ErrInvalidAxiom)
		}
	case KindAnnotationAssertion:
		// IRI or literal
	default:
		if a.Object.IsLiteral() {
			return fmt.Errorf("%w: %s needs an IRI object", ErrInvalidAxiom, a.Kind)
		}
	}

	if a.Kind == KindDeclaration {
		if _, ok := owl.EntityTypeForDeclaration(string(a.Object.IRI)); !ok {
			return fmt.Errorf("%w: unknown declaration type %s", ErrInvalidAxiom, a.Object.IRI)
		}
	}
	return nil
}

// IRIs returns every IRI the axiom mentions, including built-ins and the
// declaration type of declarations.
func (a Axiom) IRIs() []IRI {
	iris := []IRI{a.Subject}
	if a.Property != "" {
		iris = append(iris, a.Property)
	}
	if a.Object.IRI != "" {
		iris = append(iris, a.Object.IRI)
	}
	if a.Object.Literal != nil && a.Object.Literal.Datatype != "" {
		iris = append(iris, a.Object.Literal.Datatype)
	}
	return iris
}

// entities returns the IRIs that belong to the ontology signature.
func (a Axiom) entities() []IRI {
	all := a.IRIs()
	out := all[:0:0]
	for _, iri := range all {
		if a.Kind == KindDeclaration && iri == a.Object.IRI {
			continue
		}
		if owl.IsBuiltIn(string(iri)) {
			continue
		}
		out = append(out, iri)
	}
	return out
}

// Key returns a canonical string identifying the axiom. Axioms with equal
// keys are the same axiom.
func (a Axiom) Key() string {
	var sb strings.Builder
	sb.WriteString(string(a.Kind))
	sb.WriteString(" <")
	sb.WriteString(string(a.Subject))
	sb.WriteString("> ")
	if a.Property != "" {
		sb.WriteString("<")
		sb.WriteString(string(a.Property))
		sb.WriteString("> ")
	}
	sb.WriteString(a.Object.String())
	for _, ann := range a.Annotations {
		sb.WriteString(" @")
		sb.WriteString(ann.key())
	}
	return sb.String()
}

// String returns the canonical key.
func (a Axiom) String() string {
	return a.Key()
}
