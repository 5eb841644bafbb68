package ontology

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IRI is an internationalized resource identifier.
type IRI string

// String returns the IRI as a string.
func (i IRI) String() string {
	return string(i)
}

// IsEmpty reports whether the IRI is the zero value.
func (i IRI) IsEmpty() bool {
	return i == ""
}

// ShortForm returns the fragment or last path segment of the IRI.
// Example: "http://example.org/pizza#Margherita" -> "Margherita"
func (i IRI) ShortForm() string {
	s := string(i)
	if idx := strings.LastIndexAny(s, "#/"); idx >= 0 && idx < len(s)-1 {
		return s[idx+1:]
	}
	return s
}

// anonymousPrefix marks generated identities of ontologies without an IRI.
const anonymousPrefix = "_:anon-"

// ID identifies an ontology within a manager.
// Two IDs are equal when all fields are equal, so ID is usable as a map key.
type ID struct {
	OntologyIRI IRI    `json:"ontology_iri,omitempty"`
	VersionIRI  IRI    `json:"version_iri,omitempty"`
	Anonymous   string `json:"anonymous,omitempty"`
}

// NewID returns the identity of a named ontology.
func NewID(ontologyIRI IRI) ID {
	return ID{OntologyIRI: ontologyIRI}
}

// NewVersionedID returns the identity of a named, versioned ontology.
func NewVersionedID(ontologyIRI, versionIRI IRI) ID {
	return ID{OntologyIRI: ontologyIRI, VersionIRI: versionIRI}
}

// NewAnonymousID generates a fresh identity for an ontology without an IRI.
func NewAnonymousID() ID {
	return ID{Anonymous: anonymousPrefix + uuid.New().String()}
}

// IsAnonymous reports whether the ontology has no ontology IRI.
func (id ID) IsAnonymous() bool {
	return id.OntologyIRI == ""
}

// IsZero reports whether the ID carries no identity at all.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Validate checks that the identity is well formed.
func (id ID) Validate() error {
	if id.IsZero() {
		return fmt.Errorf("%w: empty identity", ErrInvalidID)
	}
	if id.IsAnonymous() && id.VersionIRI != "" {
		return fmt.Errorf("%w: version IRI %s without ontology IRI", ErrInvalidID, id.VersionIRI)
	}
	if !id.IsAnonymous() && id.Anonymous != "" {
		return fmt.Errorf("%w: named ontology %s carries anonymous id", ErrInvalidID, id.OntologyIRI)
	}
	return nil
}

// String returns a readable form of the identity.
func (id ID) String() string {
	switch {
	case id.IsAnonymous():
		return id.Anonymous
	case id.VersionIRI != "":
		return fmt.Sprintf("<%s> <%s>", id.OntologyIRI, id.VersionIRI)
	default:
		return fmt.Sprintf("<%s>", id.OntologyIRI)
	}
}
