package export

import (
	"sort"

	"github.com/c360studio/semonto/ontology"
)

// Profile determines which statements of an ontology are exported.
type Profile string

const (
	// ProfileFull exports the header, annotations and every axiom, with
	// axiom annotations reified.
	ProfileFull Profile = "full"

	// ProfileLogical exports the header and the logical axioms only.
	ProfileLogical Profile = "logical"

	// ProfileSignature exports the header and the declarations.
	ProfileSignature Profile = "signature"
)

// ProfileConfig contains configuration for an export profile.
type ProfileConfig struct {
	// Name is the profile identifier.
	Name Profile

	// Description describes the profile.
	Description string

	// IncludeAnnotations keeps ontology annotations and annotation assertions.
	IncludeAnnotations bool

	// IncludeAxiomAnnotations reifies annotated axioms.
	IncludeAxiomAnnotations bool

	// Kinds restricts the exported axiom kinds. Empty means all.
	Kinds []ontology.AxiomKind
}

// Profiles contains the configuration for all available export profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileFull: {
		Name:                    ProfileFull,
		Description:             "Header, annotations and all axioms",
		IncludeAnnotations:      true,
		IncludeAxiomAnnotations: true,
	},
	ProfileLogical: {
		Name:        ProfileLogical,
		Description: "Header, declarations and logical axioms without annotations",
		Kinds: []ontology.AxiomKind{
			ontology.KindDeclaration,
			ontology.KindSubClassOf,
			ontology.KindEquivalentClasses,
			ontology.KindDisjointClasses,
			ontology.KindSubPropertyOf,
			ontology.KindDomain,
			ontology.KindRange,
			ontology.KindClassAssertion,
			ontology.KindObjectPropertyAssertion,
			ontology.KindDataPropertyAssertion,
		},
	},
	ProfileSignature: {
		Name:        ProfileSignature,
		Description: "Header and entity declarations",
		Kinds:       []ontology.AxiomKind{ontology.KindDeclaration},
	},
}

// GetProfileConfig returns the configuration for a profile.
func GetProfileConfig(p Profile) (ProfileConfig, bool) {
	cfg, ok := Profiles[p]
	return cfg, ok
}

// ListProfiles returns all available profile names, sorted.
func ListProfiles() []Profile {
	profiles := make([]Profile, 0, len(Profiles))
	for p := range Profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i] < profiles[j] })
	return profiles
}

// allows reports whether axioms of kind are exported.
func (c ProfileConfig) allows(kind ontology.AxiomKind) bool {
	if len(c.Kinds) == 0 {
		return true
	}
	for _, k := range c.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// filter returns the statements of doc exported under this profile.
func (c ProfileConfig) filter(doc *ontology.Document) []ontology.Triple {
	filtered := ontology.Document{ID: doc.ID, Imports: doc.Imports}
	if c.IncludeAnnotations {
		filtered.Annotations = doc.Annotations
	}
	for _, a := range doc.Axioms {
		if !c.allows(a.Kind) {
			continue
		}
		if !c.IncludeAnnotations && a.Kind == ontology.KindAnnotationAssertion {
			continue
		}
		if !c.IncludeAxiomAnnotations && len(a.Annotations) > 0 {
			a.Annotations = nil
		}
		filtered.Axioms = append(filtered.Axioms, a)
	}
	return filtered.Triples()
}
