package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/c360studio/semonto/ontology"
)

// DefaultMaxDocumentSize caps the decompressed size of one document.
const DefaultMaxDocumentSize = 64 << 20

// Config configures a Loader.
type Config struct {
	// BaseDir resolves relative file locators.
	BaseDir string `yaml:"base_dir,omitempty"`

	// Include lists glob patterns expanded by the CLI and the watcher.
	Include []string `yaml:"include,omitempty"`

	HTTPTimeout time.Duration `yaml:"http_timeout,omitempty"`

	// RateLimit is the number of HTTP requests per second. Zero disables it.
	RateLimit float64 `yaml:"rate_limit,omitempty"`
	RateBurst int     `yaml:"rate_burst,omitempty"`

	// MaxDocumentSize caps the decompressed document size in bytes.
	MaxDocumentSize int64 `yaml:"max_document_size,omitempty"`

	// S3 enables s3:// locators when an endpoint is set.
	S3 S3Config `yaml:"s3,omitempty"`
}

// DefaultConfig returns the loader defaults.
func DefaultConfig() Config {
	return Config{
		Include:         []string{"**/*.onto.yaml", "**/*.onto.json"},
		HTTPTimeout:     30 * time.Second,
		RateBurst:       1,
		MaxDocumentSize: DefaultMaxDocumentSize,
	}
}

// Loader resolves locators to ontology documents. It implements
// ontology.DocumentLoader.
type Loader struct {
	fetchers map[string]Fetcher // keyed by scheme, "" for plain paths
	registry *Registry
	maxSize  int64
	logger   *slog.Logger
}

var _ ontology.DocumentLoader = (*Loader)(nil)

// Option configures a Loader.
type Option func(*Loader)

// WithRegistry sets the parser registry. The default is DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(l *Loader) {
		l.registry = r
	}
}

// WithFetcher registers a fetcher for a URL scheme.
func WithFetcher(scheme string, f Fetcher) Option {
	return func(l *Loader) {
		l.fetchers[scheme] = f
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a loader for file, http(s) and, if configured, s3 locators.
func New(cfg Config, opts ...Option) (*Loader, error) {
	file := &FileFetcher{BaseDir: cfg.BaseDir}
	web := NewHTTPFetcher(cfg.HTTPTimeout, cfg.RateLimit, cfg.RateBurst)

	l := &Loader{
		fetchers: map[string]Fetcher{
			"":      file,
			"file":  file,
			"http":  web,
			"https": web,
		},
		registry: DefaultRegistry,
		maxSize:  cfg.MaxDocumentSize,
		logger:   slog.Default(),
	}
	if l.maxSize <= 0 {
		l.maxSize = DefaultMaxDocumentSize
	}

	if cfg.S3.Endpoint != "" {
		s3, err := NewS3Fetcher(cfg.S3)
		if err != nil {
			return nil, err
		}
		l.fetchers["s3"] = s3
	}

	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// LoadDocument fetches, decompresses and parses the document at locator.
// Every failure is a *ontology.LoadError.
func (l *Loader) LoadDocument(ctx context.Context, locator string) (*ontology.Document, error) {
	doc, err := l.load(ctx, locator)
	if err != nil {
		return nil, &ontology.LoadError{Locator: locator, Err: err}
	}
	return doc, nil
}

func (l *Loader) load(ctx context.Context, locator string) (*ontology.Document, error) {
	content, err := l.Read(ctx, locator)
	if err != nil {
		return nil, err
	}

	doc, err := l.Parse(locator, content)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("Loaded ontology document",
		"locator", locator,
		"id", doc.ID.String(),
		"axioms", len(doc.Axioms))
	return doc, nil
}

// Parse decodes content read from locator with the parser registered for
// its extension.
func (l *Loader) Parse(locator string, content []byte) (*ontology.Document, error) {
	doc, err := l.registry.Parse(locator, content)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return doc, nil
}

// Read returns the decompressed content at locator.
func (l *Loader) Read(ctx context.Context, locator string) ([]byte, error) {
	s := scheme(locator)
	fetcher, ok := l.fetchers[s]
	if !ok {
		return nil, fmt.Errorf("unsupported locator scheme %q", s)
	}

	rc, err := fetcher.Fetch(ctx, locator)
	if err != nil {
		return nil, err
	}
	rc, err = decompress(locator, rc)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, l.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if int64(len(content)) > l.maxSize {
		return nil, fmt.Errorf("document exceeds %d bytes", l.maxSize)
	}
	return content, nil
}
