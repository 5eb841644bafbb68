package loader

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/c360studio/semonto/ontology"
)

// Parser turns document content into an ontology document.
type Parser interface {
	// Parse parses content read from locator.
	Parse(locator string, content []byte) (*ontology.Document, error)

	// Format returns the format name this parser is registered under.
	Format() string

	// Extensions returns the file extensions, with leading dot, this parser handles.
	Extensions() []string
}

// Registry manages document parsers.
type Registry struct {
	mu          sync.RWMutex
	parsers     map[string]Parser // keyed by format
	byExtension map[string]string // extension -> format
}

// DefaultRegistry is the global parser registry with default parsers.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry with the YAML and JSON manifest parsers.
func NewRegistry() *Registry {
	r := &Registry{
		parsers:     make(map[string]Parser),
		byExtension: make(map[string]string),
	}
	r.Register(NewManifestParser(FormatYAML, ".yaml", ".yml"))
	r.Register(NewManifestParser(FormatJSON, ".json"))
	return r
}

// Register adds a parser, replacing any parser of the same format.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.Format()] = p
	for _, ext := range p.Extensions() {
		r.byExtension[strings.ToLower(ext)] = p.Format()
	}
}

// ByFormat returns the parser registered for format, or nil.
func (r *Registry) ByFormat(format string) Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.parsers[format]
}

// ByLocator returns the parser for a locator based on its extension.
// Compression extensions are ignored.
func (r *Registry) ByLocator(locator string) Parser {
	ext := strings.ToLower(path.Ext(stripCompression(locatorPath(locator))))

	r.mu.RLock()
	defer r.mu.RUnlock()
	format, ok := r.byExtension[ext]
	if !ok {
		return nil
	}
	return r.parsers[format]
}

// Parse parses content with the parser matching locator.
func (r *Registry) Parse(locator string, content []byte) (*ontology.Document, error) {
	p := r.ByLocator(locator)
	if p == nil {
		return nil, fmt.Errorf("no parser for document type: %q", path.Ext(stripCompression(locatorPath(locator))))
	}
	return p.Parse(locator, content)
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.parsers))
	for f := range r.parsers {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Manifest formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ManifestParser parses YAML or JSON manifests.
type ManifestParser struct {
	format     string
	extensions []string
}

// NewManifestParser creates a manifest parser registered under format.
func NewManifestParser(format string, extensions ...string) *ManifestParser {
	return &ManifestParser{format: format, extensions: extensions}
}

// Parse implements Parser.
func (p *ManifestParser) Parse(locator string, content []byte) (*ontology.Document, error) {
	m, err := ParseManifest(content)
	if err != nil {
		return nil, err
	}
	return m.Document()
}

// Format implements Parser.
func (p *ManifestParser) Format() string { return p.format }

// Extensions implements Parser.
func (p *ManifestParser) Extensions() []string { return p.extensions }
