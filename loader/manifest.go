package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/vocabulary/owl"
	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk ontology document. JSON documents use the same
// field names.
//
//	ontology: http://example.org/pizza
//	prefixes:
//	  pizza: http://example.org/pizza#
//	declarations:
//	  class: [pizza:Pizza, pizza:Margherita]
//	axioms:
//	  - kind: subclass_of
//	    subject: pizza:Margherita
//	    object: pizza:Pizza
type Manifest struct {
	Ontology     string              `yaml:"ontology" json:"ontology"`
	Version      string              `yaml:"version,omitempty" json:"version,omitempty"`
	Prefixes     map[string]string   `yaml:"prefixes,omitempty" json:"prefixes,omitempty"`
	Imports      []string            `yaml:"imports,omitempty" json:"imports,omitempty"`
	Annotations  []ManifestValue     `yaml:"annotations,omitempty" json:"annotations,omitempty"`
	Declarations map[string][]string `yaml:"declarations,omitempty" json:"declarations,omitempty"`
	Axioms       []ManifestAxiom     `yaml:"axioms,omitempty" json:"axioms,omitempty"`
}

// ManifestValue is an annotation: a property with an IRI or literal value.
type ManifestValue struct {
	Property string `yaml:"property" json:"property"`
	Object   string `yaml:"object,omitempty" json:"object,omitempty"`
	Value    string `yaml:"value,omitempty" json:"value,omitempty"`
	Datatype string `yaml:"datatype,omitempty" json:"datatype,omitempty"`
	Lang     string `yaml:"lang,omitempty" json:"lang,omitempty"`
}

// ManifestAxiom is one axiom. Object names an entity; Value, Datatype and
// Lang describe a literal object.
type ManifestAxiom struct {
	Kind        string          `yaml:"kind" json:"kind"`
	Subject     string          `yaml:"subject" json:"subject"`
	Property    string          `yaml:"property,omitempty" json:"property,omitempty"`
	Object      string          `yaml:"object,omitempty" json:"object,omitempty"`
	Value       *string         `yaml:"value,omitempty" json:"value,omitempty"`
	Datatype    string          `yaml:"datatype,omitempty" json:"datatype,omitempty"`
	Lang        string          `yaml:"lang,omitempty" json:"lang,omitempty"`
	Annotations []ManifestValue `yaml:"annotations,omitempty" json:"annotations,omitempty"`
}

// ParseManifest decodes YAML or JSON manifest content.
func ParseManifest(content []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// Document converts the manifest into an ontology document.
func (m *Manifest) Document() (*ontology.Document, error) {
	prefixes := owl.Prefixes()
	for p, ns := range m.Prefixes {
		prefixes[p] = ns
	}
	r := resolver{prefixes: prefixes}

	doc := &ontology.Document{}
	if m.Ontology != "" {
		doc.ID = ontology.NewVersionedID(r.iri(m.Ontology), r.iri(m.Version))
	} else if m.Version != "" {
		return nil, fmt.Errorf("version %q without ontology IRI", m.Version)
	}

	for _, imp := range m.Imports {
		doc.Imports = append(doc.Imports, r.iri(imp))
	}
	for i, a := range m.Annotations {
		ann, err := r.annotation(a)
		if err != nil {
			return nil, fmt.Errorf("annotation %d: %w", i, err)
		}
		doc.Annotations = append(doc.Annotations, ann)
	}

	// Declarations in a stable order regardless of map iteration.
	types := make([]string, 0, len(m.Declarations))
	for t := range m.Declarations {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		et := owl.EntityType(t)
		if et.DeclarationIRI() == "" {
			return nil, fmt.Errorf("unknown declaration type %q", t)
		}
		for _, entity := range m.Declarations[t] {
			doc.Axioms = append(doc.Axioms, ontology.Declaration(r.iri(entity), et))
		}
	}

	for i, a := range m.Axioms {
		axiom, err := r.axiom(a)
		if err != nil {
			return nil, fmt.Errorf("axiom %d: %w", i, err)
		}
		doc.Axioms = append(doc.Axioms, axiom)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

type resolver struct {
	prefixes map[string]string
}

// iri expands a CURIE against the known prefixes. Absolute IRIs and
// unknown prefixes are returned unchanged.
func (r resolver) iri(s string) ontology.IRI {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "://") {
		return ontology.IRI(s)
	}
	prefix, local, ok := strings.Cut(s, ":")
	if !ok {
		return ontology.IRI(s)
	}
	if ns, known := r.prefixes[prefix]; known {
		return ontology.IRI(ns + local)
	}
	return ontology.IRI(s)
}

func (r resolver) literal(value, datatype, lang string) ontology.Term {
	switch {
	case lang != "":
		return ontology.LangLiteral(value, lang)
	case datatype != "":
		return ontology.TypedLiteral(value, r.iri(datatype))
	default:
		return ontology.LiteralTerm(value)
	}
}

func (r resolver) annotation(v ManifestValue) (ontology.Annotation, error) {
	if v.Property == "" {
		return ontology.Annotation{}, fmt.Errorf("annotation without property")
	}
	ann := ontology.Annotation{Property: r.iri(v.Property)}
	switch {
	case v.Object != "":
		ann.Value = ontology.IRITerm(r.iri(v.Object))
	default:
		ann.Value = r.literal(v.Value, v.Datatype, v.Lang)
	}
	return ann, nil
}

func (r resolver) axiom(a ManifestAxiom) (ontology.Axiom, error) {
	axiom := ontology.Axiom{
		Kind:     ontology.AxiomKind(a.Kind),
		Subject:  r.iri(a.Subject),
		Property: r.iri(a.Property),
	}

	switch {
	case a.Object != "" && a.Value != nil:
		return ontology.Axiom{}, fmt.Errorf("both object and value given")
	case a.Object != "":
		axiom.Object = ontology.IRITerm(r.iri(a.Object))
	case a.Value != nil:
		axiom.Object = r.literal(*a.Value, a.Datatype, a.Lang)
	}

	for i, v := range a.Annotations {
		ann, err := r.annotation(v)
		if err != nil {
			return ontology.Axiom{}, fmt.Errorf("annotation %d: %w", i, err)
		}
		axiom.Annotations = append(axiom.Annotations, ann)
	}
	return axiom, nil
}
