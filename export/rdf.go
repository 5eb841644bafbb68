// Package export serializes ontologies to RDF.
package export

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/vocabulary/owl"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// RDFExporter writes ontologies as RDF.
type RDFExporter struct {
	format      Format
	profile     Profile
	compression Compression
	prefixes    map[string]string
}

// Option configures an RDFExporter.
type Option func(*RDFExporter)

// WithProfile selects which statements are exported. The default is ProfileFull.
func WithProfile(p Profile) Option {
	return func(e *RDFExporter) {
		e.profile = p
	}
}

// WithCompression compresses the output stream.
func WithCompression(c Compression) Option {
	return func(e *RDFExporter) {
		e.compression = c
	}
}

// WithPrefix adds a namespace prefix used to compact IRIs.
func WithPrefix(prefix, iri string) Option {
	return func(e *RDFExporter) {
		e.prefixes[prefix] = iri
	}
}

// NewRDFExporter creates an exporter for format.
func NewRDFExporter(format Format, opts ...Option) (*RDFExporter, error) {
	if _, ok := GetFormatInfo(format); !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	e := &RDFExporter{
		format:   format,
		profile:  ProfileFull,
		prefixes: owl.Prefixes(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if _, ok := Profiles[e.profile]; !ok {
		return nil, fmt.Errorf("unsupported profile: %s", e.profile)
	}
	if err := e.compression.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Export writes the ontology to w. The ontology is read through a single
// snapshot, so a concurrent ontology is read-locked once.
func (e *RDFExporter) Export(w io.Writer, o ontology.Ontology) error {
	return e.ExportDocument(w, o.Document())
}

// ExportDocument writes a document to w.
func (e *RDFExporter) ExportDocument(w io.Writer, doc *ontology.Document) error {
	cw, err := e.compression.writer(w)
	if err != nil {
		return err
	}

	triples := Profiles[e.profile].filter(doc)
	bw := bufio.NewWriter(cw)
	switch e.format {
	case FormatTurtle:
		err = e.writeTurtle(bw, triples)
	case FormatNTriples:
		err = writeNTriples(bw, triples)
	case FormatJSONLD:
		err = e.writeJSONLD(bw, triples)
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := cw.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s stream: %w", e.compression, cerr)
	}
	return err
}

// ExportString renders a document uncompressed.
func (e *RDFExporter) ExportString(doc *ontology.Document) (string, error) {
	var sb strings.Builder
	plain := *e
	plain.compression = CompressionNone
	if err := plain.ExportDocument(&sb, doc); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// subjectGroup is a subject with its statements in document order.
type subjectGroup struct {
	subject ontology.IRI
	triples []ontology.Triple
}

// groupBySubject groups triples by subject, ordered by first appearance.
func groupBySubject(triples []ontology.Triple) []subjectGroup {
	index := make(map[ontology.IRI]int)
	var groups []subjectGroup
	for _, t := range triples {
		i, ok := index[t.Subject]
		if !ok {
			i = len(groups)
			index[t.Subject] = i
			groups = append(groups, subjectGroup{subject: t.Subject})
		}
		groups[i].triples = append(groups[i].triples, t)
	}
	return groups
}

// sortedPrefixes returns the prefix names in a stable order.
func (e *RDFExporter) sortedPrefixes() []string {
	keys := make([]string, 0, len(e.prefixes))
	for k := range e.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeTurtle serializes to Turtle.
func (e *RDFExporter) writeTurtle(w *bufio.Writer, triples []ontology.Triple) error {
	for _, prefix := range e.sortedPrefixes() {
		fmt.Fprintf(w, "@prefix %s: <%s> .\n", prefix, e.prefixes[prefix])
	}

	for _, g := range groupBySubject(triples) {
		w.WriteString("\n")
		w.WriteString(e.turtleNode(g.subject))
		w.WriteString("\n")
		for i, t := range g.triples {
			predicate := "a"
			if t.Predicate != owl.RDFType {
				predicate = e.turtleNode(t.Predicate)
			}
			terminator := " ;"
			if i == len(g.triples)-1 {
				terminator = " ."
			}
			fmt.Fprintf(w, "    %s %s%s\n", predicate, e.turtleTerm(t.Object), terminator)
		}
	}
	return nil
}

// turtleNode renders an IRI or blank node, compacted when a prefix matches.
func (e *RDFExporter) turtleNode(iri ontology.IRI) string {
	s := string(iri)
	if strings.HasPrefix(s, "_:") {
		return s
	}
	if curie, ok := e.compact(s); ok {
		return curie
	}
	return "<" + s + ">"
}

func (e *RDFExporter) turtleTerm(t ontology.Term) string {
	if t.Literal == nil {
		return e.turtleNode(t.IRI)
	}
	l := t.Literal
	lexical := `"` + escapeString(l.Lexical) + `"`
	switch {
	case l.Lang != "":
		return lexical + "@" + l.Lang
	case l.Datatype == "" || l.Datatype == owl.XSDString:
		return lexical
	default:
		return lexical + "^^" + e.turtleNode(l.Datatype)
	}
}

// compact returns prefix:local when the local part is a safe name.
func (e *RDFExporter) compact(iri string) (string, bool) {
	best, bestNS := "", ""
	for prefix, ns := range e.prefixes {
		if strings.HasPrefix(iri, ns) && len(ns) > len(bestNS) {
			best, bestNS = prefix, ns
		}
	}
	if bestNS == "" {
		return "", false
	}
	local := iri[len(bestNS):]
	if !isLocalName(local) {
		return "", false
	}
	return best + ":" + local, true
}

func isLocalName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case i > 0 && (c >= '0' && c <= '9' || c == '-'):
		default:
			return false
		}
	}
	return true
}

// writeNTriples serializes to N-Triples, one statement per line.
func writeNTriples(w *bufio.Writer, triples []ontology.Triple) error {
	for _, t := range triples {
		fmt.Fprintf(w, "%s %s %s .\n", ntriplesNode(t.Subject), ntriplesNode(t.Predicate), ntriplesTerm(t.Object))
	}
	return nil
}

func ntriplesNode(iri ontology.IRI) string {
	if strings.HasPrefix(string(iri), "_:") {
		return string(iri)
	}
	return "<" + string(iri) + ">"
}

func ntriplesTerm(t ontology.Term) string {
	if t.Literal == nil {
		return ntriplesNode(t.IRI)
	}
	l := t.Literal
	lexical := `"` + escapeString(l.Lexical) + `"`
	switch {
	case l.Lang != "":
		return lexical + "@" + l.Lang
	case l.Datatype == "" || l.Datatype == owl.XSDString:
		return lexical
	default:
		return lexical + "^^<" + string(l.Datatype) + ">"
	}
}

// writeJSONLD serializes to JSON-LD with one node per subject.
func (e *RDFExporter) writeJSONLD(w *bufio.Writer, triples []ontology.Triple) error {
	jw := NewJSONLDWriter()
	jw.SetContext(e.prefixes)

	for _, g := range groupBySubject(triples) {
		var types []string
		props := make(map[string]any)
		for _, t := range g.triples {
			if t.Predicate == owl.RDFType && t.Object.Literal == nil {
				types = append(types, e.jsonldNode(t.Object.IRI))
				continue
			}
			key := e.jsonldNode(t.Predicate)
			values, _ := props[key].([]any)
			props[key] = append(values, e.jsonldValue(t.Object))
		}
		jw.AddNode(e.jsonldNode(g.subject), types, props)
	}

	data, err := jw.Marshal()
	if err != nil {
		return fmt.Errorf("marshal JSON-LD: %w", err)
	}
	w.Write(data)
	w.WriteString("\n")
	return nil
}

func (e *RDFExporter) jsonldNode(iri ontology.IRI) string {
	if curie, ok := e.compact(string(iri)); ok {
		return curie
	}
	return string(iri)
}

func (e *RDFExporter) jsonldValue(t ontology.Term) any {
	if t.Literal == nil {
		return map[string]string{"@id": e.jsonldNode(t.IRI)}
	}
	l := t.Literal
	switch {
	case l.Lang != "":
		return map[string]string{"@value": l.Lexical, "@language": l.Lang}
	case l.Datatype == "" || l.Datatype == owl.XSDString:
		return l.Lexical
	default:
		return map[string]string{"@value": l.Lexical, "@type": e.jsonldNode(l.Datatype)}
	}
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
