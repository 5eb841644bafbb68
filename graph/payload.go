package graph

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "ontology",
		Category:    "change",
		Version:     "v1",
		Description: "Ontology change payload for graph ingestion with asserted and retracted triples",
		Factory:     func() any { return &EntityPayload{} },
	})
	if err != nil {
		panic("failed to register EntityPayload: " + err.Error())
	}
}

// ChangeType is the message type for ontology change payloads.
var ChangeType = message.Type{Domain: "ontology", Category: "change", Version: "v1"}

// EntityPayload implements message.Payload for ontology change ingestion.
type EntityPayload struct {
	EntityID_     string           `json:"id"`
	TripleData    []message.Triple `json:"triples"`
	RetractedData []message.Triple `json:"retracted,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (e *EntityPayload) EntityID() string            { return e.EntityID_ }
func (e *EntityPayload) Triples() []message.Triple   { return e.TripleData }
func (e *EntityPayload) Retracted() []message.Triple { return e.RetractedData }
func (e *EntityPayload) Schema() message.Type        { return ChangeType }

func (e *EntityPayload) Validate() error {
	if e.EntityID_ == "" {
		return errors.New("entity ID is required")
	}
	for _, set := range [][]message.Triple{e.TripleData, e.RetractedData} {
		for _, t := range set {
			if t.Subject == "" || t.Predicate == "" {
				return errors.New("triple subject and predicate are required")
			}
		}
	}
	return nil
}

func (e *EntityPayload) MarshalJSON() ([]byte, error) {
	type Alias EntityPayload
	return json.Marshal((*Alias)(e))
}

func (e *EntityPayload) UnmarshalJSON(data []byte) error {
	type Alias EntityPayload
	return json.Unmarshal(data, (*Alias)(e))
}
