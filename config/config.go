// Package config provides configuration loading and management for Semonto.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/c360studio/semonto/export"
	"github.com/c360studio/semonto/graph"
	"github.com/c360studio/semonto/loader"
	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/storage"
	"gopkg.in/yaml.v3"
)

// Config represents the complete Semonto configuration
type Config struct {
	Manager ManagerConfig `yaml:"manager"`
	Loader  loader.Config `yaml:"loader"`
	NATS    NATSConfig    `yaml:"nats"`
	Export  ExportConfig  `yaml:"export"`
	Watch   WatchConfig   `yaml:"watch"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ManagerConfig configures the ontology manager
type ManagerConfig struct {
	// Mode is "concurrent" (one shared lock pair) or "plain"
	Mode string `yaml:"mode"`
	// LoadConcurrency bounds parallel document loads (0 = unbounded)
	LoadConcurrency int `yaml:"load_concurrency"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = snapshots and publishing disabled)
	URL string `yaml:"url"`
	// Bucket is the KV bucket holding ontology snapshots
	Bucket string `yaml:"bucket"`
	// Subject is the graph ingest subject for change publication
	Subject string `yaml:"subject"`
	// Timeout bounds connection and request time
	Timeout time.Duration `yaml:"timeout"`
}

// ExportConfig configures default export settings
type ExportConfig struct {
	// Format is turtle, ntriples or jsonld
	Format string `yaml:"format"`
	// Compression is empty, gzip or zstd
	Compression string `yaml:"compression"`
	// Profile is full, logical or signature
	Profile string `yaml:"profile"`
}

// WatchConfig configures the document watcher
type WatchConfig struct {
	// Root is the directory to watch (empty = loader base dir or cwd)
	Root string `yaml:"root"`
	// Debounce is how long to wait for more changes before reloading
	Debounce time.Duration `yaml:"debounce"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address of /metrics (empty = disabled)
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Manager: ManagerConfig{
			Mode: ontology.ModeConcurrent.String(),
		},
		Loader: loader.DefaultConfig(),
		NATS: NATSConfig{
			URL:     "",
			Bucket:  storage.DefaultBucket,
			Subject: graph.GraphIngestSubject,
			Timeout: 10 * time.Second,
		},
		Export: ExportConfig{
			Format:  string(export.FormatTurtle),
			Profile: string(export.ProfileFull),
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := ontology.ParseMode(c.Manager.Mode); err != nil {
		return fmt.Errorf("manager.mode: %w", err)
	}
	if c.Manager.LoadConcurrency < 0 {
		return fmt.Errorf("manager.load_concurrency must not be negative")
	}
	if len(c.Loader.Include) == 0 {
		return fmt.Errorf("loader.include is required")
	}
	if c.Loader.RateLimit < 0 {
		return fmt.Errorf("loader.rate_limit must not be negative")
	}
	if c.Loader.MaxDocumentSize <= 0 {
		return fmt.Errorf("loader.max_document_size must be positive")
	}
	if c.NATS.URL != "" && c.NATS.Bucket == "" {
		return fmt.Errorf("nats.bucket is required when nats.url is set")
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	if _, err := export.ParseCompression(c.Export.Compression); err != nil {
		return fmt.Errorf("export.compression: %w", err)
	}
	if _, ok := export.GetProfileConfig(export.Profile(c.Export.Profile)); !ok {
		return fmt.Errorf("export.profile: unknown profile %q", c.Export.Profile)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. Fields the file
// does not set stay zero so the result can be merged over defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Manager
	if other.Manager.Mode != "" {
		c.Manager.Mode = other.Manager.Mode
	}
	if other.Manager.LoadConcurrency != 0 {
		c.Manager.LoadConcurrency = other.Manager.LoadConcurrency
	}

	// Loader
	if other.Loader.BaseDir != "" {
		c.Loader.BaseDir = other.Loader.BaseDir
	}
	if len(other.Loader.Include) > 0 {
		c.Loader.Include = other.Loader.Include
	}
	if other.Loader.HTTPTimeout != 0 {
		c.Loader.HTTPTimeout = other.Loader.HTTPTimeout
	}
	if other.Loader.RateLimit != 0 {
		c.Loader.RateLimit = other.Loader.RateLimit
	}
	if other.Loader.RateBurst != 0 {
		c.Loader.RateBurst = other.Loader.RateBurst
	}
	if other.Loader.MaxDocumentSize != 0 {
		c.Loader.MaxDocumentSize = other.Loader.MaxDocumentSize
	}
	if other.Loader.S3.Endpoint != "" {
		c.Loader.S3 = other.Loader.S3
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Bucket != "" {
		c.NATS.Bucket = other.NATS.Bucket
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}
	if other.NATS.Timeout != 0 {
		c.NATS.Timeout = other.NATS.Timeout
	}

	// Export
	if other.Export.Format != "" {
		c.Export.Format = other.Export.Format
	}
	if other.Export.Compression != "" {
		c.Export.Compression = other.Export.Compression
	}
	if other.Export.Profile != "" {
		c.Export.Profile = other.Export.Profile
	}

	// Watch
	if other.Watch.Root != "" {
		c.Watch.Root = other.Watch.Root
	}
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}

	// Metrics
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
}

// ManagerOptions returns the manager options described by the config.
func (c *Config) ManagerOptions() ([]ontology.Option, error) {
	mode, err := ontology.ParseMode(c.Manager.Mode)
	if err != nil {
		return nil, err
	}
	return []ontology.Option{
		ontology.WithMode(mode),
		ontology.WithLoadConcurrency(c.Manager.LoadConcurrency),
	}, nil
}
