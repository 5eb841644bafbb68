package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Aliases are alternative names accepted by ParseFormat.
	Aliases []string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Aliases:     []string{"ttl"},
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Aliases:     []string{"nt", "n-triples"},
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Aliases:     []string{"json-ld"},
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// Formats returns the supported formats, sorted.
func Formats() []Format {
	formats := make([]Format, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// ParseFormat resolves a format name or alias.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, info := range FormatRegistry {
		if string(f) == name {
			return f, nil
		}
		for _, alias := range info.Aliases {
			if alias == name {
				return f, nil
			}
		}
	}
	return "", fmt.Errorf("unsupported format: %q", name)
}

// FormatFromFilename infers the format and compression of an output file,
// e.g. "pizza.ttl.gz" is gzip-compressed Turtle.
func FormatFromFilename(name string) (Format, Compression, bool) {
	compression := CompressionNone
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		compression = CompressionGzip
	case ".zst":
		compression = CompressionZstd
	}
	if compression != CompressionNone {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	ext := strings.ToLower(filepath.Ext(name))
	for f, info := range FormatRegistry {
		if info.Extension == ext {
			return f, compression, true
		}
	}
	return "", compression, false
}

// Compression selects the output stream encoding.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// ParseCompression parses a compression name; "none" and "" disable it.
func ParseCompression(name string) (Compression, error) {
	c := Compression(strings.ToLower(strings.TrimSpace(name)))
	if c == "none" {
		c = CompressionNone
	}
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate checks the compression is supported.
func (c Compression) Validate() error {
	switch c {
	case CompressionNone, CompressionGzip, CompressionZstd:
		return nil
	default:
		return fmt.Errorf("unsupported compression: %q", string(c))
	}
}

// String returns the compression name.
func (c Compression) String() string {
	if c == CompressionNone {
		return "none"
	}
	return string(c)
}

// writer wraps w in an encoder. Closing the result flushes the encoder but
// leaves w open.
func (c Compression) writer(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("create zstd writer: %w", err)
		}
		return zw, nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// JSONLDDocument represents a JSON-LD document structure.
type JSONLDDocument struct {
	Context map[string]any `json:"@context"`
	Graph   []JSONLDNode   `json:"@graph"`
}

// JSONLDNode represents a node in a JSON-LD graph.
type JSONLDNode struct {
	ID         string         `json:"@id"`
	Type       []string       `json:"@type,omitempty"`
	Properties map[string]any `json:"-"`
}

// MarshalJSON implements custom JSON marshaling for JSONLDNode.
func (n JSONLDNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+2)
	m["@id"] = n.ID
	if len(n.Type) > 0 {
		m["@type"] = n.Type
	}
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

// JSONLDWriter builds a JSON-LD document.
type JSONLDWriter struct {
	doc JSONLDDocument
}

// NewJSONLDWriter creates a new JSON-LD writer.
func NewJSONLDWriter() *JSONLDWriter {
	return &JSONLDWriter{
		doc: JSONLDDocument{
			Context: make(map[string]any),
			Graph:   make([]JSONLDNode, 0),
		},
	}
}

// SetContext sets the @context with prefixes.
func (w *JSONLDWriter) SetContext(prefixes map[string]string) {
	for k, v := range prefixes {
		w.doc.Context[k] = v
	}
}

// AddNode adds a node to the graph.
func (w *JSONLDWriter) AddNode(id string, types []string, properties map[string]any) {
	w.doc.Graph = append(w.doc.Graph, JSONLDNode{
		ID:         id,
		Type:       types,
		Properties: properties,
	})
}

// Marshal returns the indented JSON-LD document.
func (w *JSONLDWriter) Marshal() ([]byte, error) {
	return json.MarshalIndent(w.doc, "", "  ")
}

// ParseJSONLD decodes a JSON-LD document produced by JSONLDWriter.
func ParseJSONLD(data []byte) (*JSONLDDocument, error) {
	var raw struct {
		Context map[string]any   `json:"@context"`
		Graph   []map[string]any `json:"@graph"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	doc := &JSONLDDocument{Context: raw.Context}
	for _, n := range raw.Graph {
		node := JSONLDNode{Properties: make(map[string]any)}
		for k, v := range n {
			switch k {
			case "@id":
				node.ID, _ = v.(string)
			case "@type":
				types, _ := v.([]any)
				for _, t := range types {
					if s, ok := t.(string); ok {
						node.Type = append(node.Type, s)
					}
				}
			default:
				node.Properties[k] = v
			}
		}
		doc.Graph = append(doc.Graph, node)
	}
	return doc, nil
}
