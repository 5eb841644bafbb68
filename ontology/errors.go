package ontology

import (
	"errors"
	"fmt"
)

// Common ontology errors.
var (
	// ErrCreation matches every CreationError.
	ErrCreation = errors.New("ontology creation failed")

	// ErrOntologyExists is the cause of a CreationError for a colliding identity.
	ErrOntologyExists = errors.New("ontology already exists")

	// ErrInvalidID is returned for malformed ontology identities.
	ErrInvalidID = errors.New("invalid ontology id")

	// ErrLoad matches every LoadError.
	ErrLoad = errors.New("ontology load failed")

	// ErrNoLoader is the cause of a LoadError when the manager has no loader.
	ErrNoLoader = errors.New("no document loader configured")

	// ErrInvalidAxiom is returned when an axiom is incomplete for its kind.
	ErrInvalidAxiom = errors.New("invalid axiom")
)

// CreationError reports a failed ontology creation. It is surfaced to the
// caller and never retried.
type CreationError struct {
	ID  ID
	Err error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("create ontology %s: %v", e.ID, e.Err)
}

// Unwrap exposes both ErrCreation and the cause to errors.Is and errors.As.
func (e *CreationError) Unwrap() []error {
	return []error{ErrCreation, e.Err}
}

// LoadError reports a failure of the document loader or of applying the
// loaded document. It is surfaced to the caller and never retried.
type LoadError struct {
	Locator string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load ontology %s: %v", e.Locator, e.Err)
}

// Unwrap exposes both ErrLoad and the cause to errors.Is and errors.As.
func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Err}
}

// asLoadError wraps err in a LoadError unless it already is one.
func asLoadError(locator string, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}
	return &LoadError{Locator: locator, Err: err}
}
