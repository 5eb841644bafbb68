package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/c360studio/semonto/config"
	"github.com/c360studio/semonto/graph"
	"github.com/c360studio/semonto/loader"
	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/storage"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App wires configuration, loader, manager and the optional NATS
// backends together.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	registry *prometheus.Registry
	metrics  *ontology.Metrics
	loader   *loader.Loader
	manager  *ontology.Manager

	// NATS
	natsClient *natsclient.Client
	store      *storage.Store
}

// NewApp creates the loader and the manager described by cfg.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Expanded locators and relative locators resolve against the same
	// absolute base directory.
	if cfg.Loader.BaseDir != "" {
		abs, err := filepath.Abs(cfg.Loader.BaseDir)
		if err != nil {
			return nil, fmt.Errorf("resolve base dir: %w", err)
		}
		cfg.Loader.BaseDir = abs
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := ontology.NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	l, err := loader.New(cfg.Loader, loader.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create loader: %w", err)
	}

	opts, err := cfg.ManagerOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts,
		ontology.WithLoader(l),
		ontology.WithLogger(logger),
		ontology.WithMetrics(metrics),
	)

	return &App{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  metrics,
		loader:   l,
		manager:  ontology.NewManager(opts...),
	}, nil
}

// Manager returns the application manager.
func (a *App) Manager() *ontology.Manager {
	return a.manager
}

// Locators expands args, or the configured include patterns when args is
// empty, into document locators.
func (a *App) Locators(args []string) ([]string, error) {
	patterns := args
	if len(patterns) == 0 {
		patterns = a.cfg.Loader.Include
	}
	locators, err := loader.Expand(a.cfg.Loader.BaseDir, patterns)
	if err != nil {
		return nil, err
	}
	if len(locators) == 0 {
		return nil, fmt.Errorf("no documents match %s", strings.Join(patterns, ", "))
	}
	return locators, nil
}

// LoadAll loads the documents selected by args into the manager.
func (a *App) LoadAll(ctx context.Context, args []string) ([]ontology.Ontology, error) {
	locators, err := a.Locators(args)
	if err != nil {
		return nil, err
	}
	return a.manager.LoadOntologies(ctx, locators...)
}

// ConnectNATS connects to the configured NATS server and opens the
// snapshot store.
func (a *App) ConnectNATS(ctx context.Context) error {
	if a.natsClient != nil {
		return nil
	}
	url := a.cfg.NATS.URL
	if url == "" {
		return fmt.Errorf("NATS is not configured: set nats.url, --nats-url or SEMONTO_NATS_URL")
	}

	a.logger.Info("Connecting to NATS", "url", url)
	client, err := natsclient.NewClient(url,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
		natsclient.WithTimeout(a.cfg.NATS.Timeout),
	)
	if err != nil {
		return fmt.Errorf("create NATS client: %w", err)
	}
	if err := client.Connect(ctx); err != nil {
		return wrapNATSError(err, url)
	}

	connCtx, cancel := context.WithTimeout(ctx, a.cfg.NATS.Timeout)
	defer cancel()
	if err := client.WaitForConnection(connCtx); err != nil {
		_ = client.Close(ctx)
		return wrapNATSError(err, url)
	}

	js, err := client.JetStream()
	if err != nil {
		_ = client.Close(ctx)
		return fmt.Errorf("create JetStream context: %w", err)
	}
	store, err := storage.NewStore(ctx, js, a.cfg.NATS.Bucket, a.logger)
	if err != nil {
		_ = client.Close(ctx)
		return fmt.Errorf("initialize storage: %w", err)
	}

	a.natsClient = client
	a.store = store
	a.logger.Info("Connected to NATS", "url", url, "bucket", a.cfg.NATS.Bucket)
	return nil
}

// Store returns the snapshot store, connecting on first use.
func (a *App) Store(ctx context.Context) (*storage.Store, error) {
	if err := a.ConnectNATS(ctx); err != nil {
		return nil, err
	}
	return a.store, nil
}

// Publisher returns a graph publisher on the configured subject.
func (a *App) Publisher(ctx context.Context) (*graph.Publisher, error) {
	if err := a.ConnectNATS(ctx); err != nil {
		return nil, err
	}
	js, err := a.natsClient.JetStream()
	if err != nil {
		return nil, err
	}
	if err := graph.EnsureStream(ctx, js, a.cfg.NATS.Subject); err != nil {
		return nil, err
	}
	return graph.NewPublisher(a.natsClient,
		graph.WithSubject(a.cfg.NATS.Subject),
		graph.WithLogger(a.logger),
	), nil
}

// Close releases the NATS connection.
func (a *App) Close() {
	if a.natsClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.natsClient.Close(ctx); err != nil {
		a.logger.Warn("Failed to close NATS connection", "error", err)
	}
	a.natsClient = nil
	a.store = nil
}

func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

Start a JetStream-enabled server, for example:
  docker run -p 4222:4222 nats -js

Or set SEMONTO_NATS_URL to point to your NATS server.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}
