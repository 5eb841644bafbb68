// Package graph publishes ontology changes to the knowledge graph.
package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/storage"
	"github.com/c360studio/semonto/vocabulary/owl"
	"github.com/c360studio/semstreams/message"
	"github.com/nats-io/nats.go/jetstream"
)

// Subject for graph ingestion.
const GraphIngestSubject = "graph.ingest.entity"

// DefaultSource tags triples published by this package.
const DefaultSource = "semonto.manager"

// DefaultStream is created by EnsureStream when no stream captures the
// ingest subject.
const DefaultStream = "SEMONTO_GRAPH"

// StreamPublisher publishes a message to a JetStream subject.
// *natsclient.Client satisfies it, as does JetStreamPublisher.
type StreamPublisher interface {
	PublishToStream(ctx context.Context, subject string, data []byte) error
}

// JetStreamPublisher adapts a JetStream context to StreamPublisher.
type JetStreamPublisher struct {
	JS jetstream.JetStream
}

// PublishToStream publishes data and waits for the stream acknowledgement.
func (p JetStreamPublisher) PublishToStream(ctx context.Context, subject string, data []byte) error {
	_, err := p.JS.Publish(ctx, subject, data)
	return err
}

// EnsureStream makes sure a JetStream stream captures subject, creating
// DefaultStream if none does.
func EnsureStream(ctx context.Context, js jetstream.JetStream, subject string) error {
	if _, err := js.StreamNameBySubject(ctx, subject); err == nil {
		return nil
	} else if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("lookup stream for %s: %w", subject, err)
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        DefaultStream,
		Description: "Ontology changes for graph ingestion",
		Subjects:    []string{subject},
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", DefaultStream, err)
	}
	return nil
}

// EntityIngestMessage is the message format for graph ingestion.
// Retracted carries the statements of removed axioms and imports.
type EntityIngestMessage struct {
	ID        string           `json:"id"`
	Triples   []message.Triple `json:"triples"`
	Retracted []message.Triple `json:"retracted,omitempty"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Publisher turns ontology changes into ingest messages.
type Publisher struct {
	client  StreamPublisher
	subject string
	source  string
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithSubject overrides GraphIngestSubject.
func WithSubject(subject string) Option {
	return func(p *Publisher) {
		p.subject = subject
	}
}

// WithSource overrides DefaultSource.
func WithSource(source string) Option {
	return func(p *Publisher) {
		p.source = source
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher creates a publisher. A nil client disables publishing.
func NewPublisher(client StreamPublisher, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		subject: GraphIngestSubject,
		source:  DefaultSource,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishChanges publishes the applied changes of one ontology.
func (p *Publisher) PublishChanges(ctx context.Context, id ontology.ID, changes []ontology.Change) error {
	if p.client == nil || len(changes) == 0 {
		return nil // Skip publishing if no client (graceful degradation)
	}

	now := p.now()
	msg := EntityIngestMessage{ID: EntityID(id), UpdatedAt: now}
	for _, c := range changes {
		t, retract, ok := p.changeTriple(id, c, now)
		if !ok {
			continue
		}
		if retract {
			msg.Retracted = append(msg.Retracted, t)
		} else {
			msg.Triples = append(msg.Triples, t)
		}
	}
	return p.publish(ctx, msg)
}

// PublishOntology publishes the full content of an ontology.
func (p *Publisher) PublishOntology(ctx context.Context, o ontology.Ontology) error {
	if p.client == nil {
		return nil
	}

	doc := o.Document()
	now := p.now()
	msg := EntityIngestMessage{ID: EntityID(doc.ID), UpdatedAt: now}
	for _, t := range doc.Triples() {
		msg.Triples = append(msg.Triples, p.triple(t.Subject, predicateName(t.Predicate), t.Object, now))
	}
	return p.publish(ctx, msg)
}

func (p *Publisher) publish(ctx context.Context, msg EntityIngestMessage) error {
	payload := &EntityPayload{EntityID_: msg.ID, TripleData: msg.Triples, RetractedData: msg.Retracted, UpdatedAt: msg.UpdatedAt}
	if err := payload.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal ontology entity: %w", err)
	}
	if err := p.client.PublishToStream(ctx, p.subject, data); err != nil {
		return fmt.Errorf("publish ontology entity: %w", err)
	}

	p.logger.Debug("Published ontology changes",
		"entity", msg.ID,
		"triples", len(msg.Triples),
		"retracted", len(msg.Retracted))
	return nil
}

// changeTriple renders one change. retract is set for removals.
func (p *Publisher) changeTriple(id ontology.ID, c ontology.Change, now time.Time) (t message.Triple, retract, ok bool) {
	switch c.Kind {
	case ontology.ChangeAddAxiom, ontology.ChangeRemoveAxiom:
		return p.triple(c.Axiom.Subject, AxiomPredicate(c.Axiom), c.Axiom.Object, now),
			c.Kind == ontology.ChangeRemoveAxiom, true
	case ontology.ChangeAddImport, ontology.ChangeRemoveImport:
		return p.triple(id.Subject(), owl.OntologyImports, ontology.IRITerm(c.Import), now),
			c.Kind == ontology.ChangeRemoveImport, true
	case ontology.ChangeAddAnnotation:
		return p.triple(id.Subject(), owl.PredicateForProperty(string(c.Annotation.Property)), c.Annotation.Value, now),
			false, true
	default:
		return message.Triple{}, false, false
	}
}

func (p *Publisher) triple(subject ontology.IRI, predicate string, object ontology.Term, now time.Time) message.Triple {
	return message.Triple{
		Subject:    string(subject),
		Predicate:  predicate,
		Object:     ObjectValue(object),
		Source:     p.source,
		Timestamp:  now,
		Confidence: 1.0,
	}
}

// axiomPredicates maps axiom kinds without a property to dotted predicates.
var axiomPredicates = map[ontology.AxiomKind]string{
	ontology.KindDeclaration:       owl.AxiomDeclaration,
	ontology.KindSubClassOf:        owl.AxiomSubClassOf,
	ontology.KindEquivalentClasses: owl.AxiomEquivalentClasses,
	ontology.KindDisjointClasses:   owl.AxiomDisjointClasses,
	ontology.KindSubPropertyOf:     owl.AxiomSubPropertyOf,
	ontology.KindDomain:            owl.AxiomDomain,
	ontology.KindRange:             owl.AxiomRange,
	ontology.KindClassAssertion:    owl.AxiomClassAssertion,
}

// AxiomPredicate returns the graph predicate of an axiom: a registered
// dotted predicate for structural axioms, otherwise the property itself.
func AxiomPredicate(a ontology.Axiom) string {
	if p, ok := axiomPredicates[a.Kind]; ok {
		return p
	}
	return owl.PredicateForProperty(string(a.Property))
}

// headerPredicates maps header RDF predicates to dotted predicates.
var headerPredicates = map[ontology.IRI]string{
	owl.Imports:    owl.OntologyImports,
	owl.VersionIRI: owl.OntologyVersionIRI,
}

// predicateName maps an RDF predicate of a rendered document to a graph
// predicate.
func predicateName(iri ontology.IRI) string {
	if p, ok := headerPredicates[iri]; ok {
		return p
	}
	return owl.PredicateForProperty(string(iri))
}

// ObjectValue converts a term to a triple object. IRIs become strings;
// numeric and boolean literals become Go values when they parse.
func ObjectValue(t ontology.Term) any {
	if t.Literal == nil {
		return string(t.IRI)
	}
	l := t.Literal
	switch l.Datatype {
	case owl.XSDInteger, owl.XSDNonNegInteger:
		if v, err := strconv.ParseInt(l.Lexical, 10, 64); err == nil {
			return v
		}
	case owl.XSDDecimal, owl.XSDDouble, owl.XSDFloat:
		if v, err := strconv.ParseFloat(l.Lexical, 64); err == nil {
			return v
		}
	case owl.XSDBoolean:
		if v, err := strconv.ParseBool(l.Lexical); err == nil {
			return v
		}
	}
	return l.Lexical
}

// EntityID generates a consistent entity ID for an ontology.
// Format: semonto.local.ontology.document.ontology.<key>
func EntityID(id ontology.ID) string {
	return "semonto.local.ontology.document.ontology." + strings.ReplaceAll(storage.KeyFor(id), ".", "-")
}

// Listener returns a change listener publishing every applied change.
// Publish failures are logged; the ontology change itself stands.
func Listener(ctx context.Context, p *Publisher) ontology.ChangeListener {
	return func(id ontology.ID, changes []ontology.Change) {
		if err := p.PublishChanges(ctx, id, changes); err != nil {
			p.logger.Warn("Failed to publish ontology changes",
				"id", id.String(),
				"changes", len(changes),
				"error", err)
		}
	}
}
