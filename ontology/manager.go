package ontology

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Mode selects how a manager builds ontologies. It is fixed at construction.
type Mode int

const (
	// ModeConcurrent makes every ontology share the manager's lock pair.
	ModeConcurrent Mode = iota
	// ModePlain creates unsynchronized ontologies with private locks.
	ModePlain
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeConcurrent:
		return "concurrent"
	case ModePlain:
		return "plain"
	default:
		return "unknown"
	}
}

// ParseMode parses a configuration name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "concurrent", "":
		return ModeConcurrent, nil
	case "plain":
		return ModePlain, nil
	default:
		return 0, fmt.Errorf("unknown manager mode: %q", s)
	}
}

// Option configures a Manager.
type Option func(*Manager)

// WithMode sets the manager mode. The default is ModeConcurrent.
func WithMode(mode Mode) Option {
	return func(m *Manager) {
		m.mode = mode
	}
}

// WithLoader sets the document loader used by LoadOntology.
func WithLoader(l DocumentLoader) Option {
	return func(m *Manager) {
		m.loader = l
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithLoadConcurrency bounds the parallel loads of LoadOntologies.
// Zero or less means no bound.
func WithLoadConcurrency(n int) Option {
	return func(m *Manager) {
		m.loadConcurrency = n
	}
}

// Manager creates ontologies and keeps a registry of them.
//
// In concurrent mode the manager owns exactly one LockPair and every
// ontology it creates delegates its locking to that pair. The registry has
// its own mutex, separate from the ontology lock.
type Manager struct {
	mode            Mode
	locks           *LockPair
	wrap            func(*plainOntology) Ontology
	loader          DocumentLoader
	logger          *slog.Logger
	metrics         *Metrics
	loadConcurrency int

	mu         sync.RWMutex
	ontologies map[ID]Ontology

	listenersMu sync.RWMutex
	listeners   []ChangeListener
}

// NewManager creates a manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		mode:       ModeConcurrent,
		ontologies: make(map[ID]Ontology),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}

	switch m.mode {
	case ModePlain:
		m.wrap = func(o *plainOntology) Ontology { return o }
	default:
		m.mode = ModeConcurrent
		m.locks = NewLockPair()
		m.wrap = func(o *plainOntology) Ontology { return newConcurrentOntology(o, m.locks) }
	}
	return m
}

// Mode returns the mode fixed at construction.
func (m *Manager) Mode() Mode {
	return m.mode
}

// lockPair is the backward reference ontology wrappers delegate to.
// It is nil in plain mode and deliberately not exported.
func (m *Manager) lockPair() *LockPair {
	return m.locks
}

// CreateOntology creates an empty anonymous ontology.
func (m *Manager) CreateOntology() (Ontology, error) {
	return m.CreateOntologyWithID(NewAnonymousID())
}

// CreateOntologyWithID creates an empty ontology with the given identity.
// It fails with a *CreationError if the identity is invalid or already
// registered.
func (m *Manager) CreateOntologyWithID(id ID) (Ontology, error) {
	return m.register(newPlainOntology(m, id))
}

// register wraps a delegate for the manager mode and makes it visible in
// the registry. The delegate must not be reachable by anyone else yet.
func (m *Manager) register(delegate *plainOntology) (Ontology, error) {
	id := delegate.id
	if err := id.Validate(); err != nil {
		return nil, &CreationError{ID: id, Err: err}
	}

	m.mu.Lock()
	if _, exists := m.ontologies[id]; exists {
		m.mu.Unlock()
		return nil, &CreationError{ID: id, Err: ErrOntologyExists}
	}
	o := m.wrap(delegate)
	m.ontologies[id] = o
	m.mu.Unlock()

	m.metrics.recordCreated(m.mode)
	m.logger.Debug("Created ontology", "id", id.String(), "mode", m.mode.String())
	return o, nil
}

// Ontology returns the registered ontology with the given identity.
func (m *Manager) Ontology(id ID) (Ontology, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.ontologies[id]
	return o, ok
}

// Contains reports whether an ontology with the identity is registered.
func (m *Manager) Contains(id ID) bool {
	_, ok := m.Ontology(id)
	return ok
}

// Ontologies returns all registered ontologies ordered by identity.
func (m *Manager) Ontologies() []Ontology {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Ontology, 0, len(m.ontologies))
	for _, o := range m.ontologies {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID().String() < out[j].ID().String() })
	return out
}

// RemoveOntology drops the ontology from the registry and reports whether
// it was registered.
func (m *Manager) RemoveOntology(id ID) bool {
	m.mu.Lock()
	_, ok := m.ontologies[id]
	delete(m.ontologies, id)
	m.mu.Unlock()

	if ok {
		m.metrics.recordRemoved()
		m.logger.Debug("Removed ontology", "id", id.String())
	}
	return ok
}

// AddChangeListener registers a listener for applied changes of every
// ontology of this manager.
func (m *Manager) AddChangeListener(l ChangeListener) {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()
	m.listeners = append(m.listeners, l)
}

func (m *Manager) notify(id ID, changes []Change) {
	if len(changes) == 0 {
		return
	}
	m.metrics.recordChanges(changes)

	m.listenersMu.RLock()
	listeners := make([]ChangeListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.listenersMu.RUnlock()

	for _, l := range listeners {
		l(id, changes)
	}
}

// LoadOntology loads a document through the configured loader and creates
// an ontology from it. Loader failures are returned as *LoadError, identity
// collisions as *CreationError.
func (m *Manager) LoadOntology(ctx context.Context, locator string) (Ontology, error) {
	start := time.Now()
	o, err := m.loadOntology(ctx, locator)
	m.metrics.recordLoad(start, err)
	if err != nil {
		m.logger.Warn("Failed to load ontology", "locator", locator, "error", err)
		return nil, err
	}

	m.logger.Info("Loaded ontology",
		"locator", locator,
		"id", o.ID().String(),
		"axioms", o.AxiomCount(),
		"duration", time.Since(start))
	return o, nil
}

func (m *Manager) loadOntology(ctx context.Context, locator string) (Ontology, error) {
	if m.loader == nil {
		return nil, &LoadError{Locator: locator, Err: ErrNoLoader}
	}

	doc, err := m.loader.LoadDocument(ctx, locator)
	if err != nil {
		return nil, asLoadError(locator, err)
	}
	return m.CreateFromDocument(doc, locator)
}

// CreateFromDocument creates an ontology holding the document content.
// Documents without identity become anonymous ontologies. source names the
// document origin in errors.
//
// The ontology is filled before it is registered, so it is never visible
// half-filled, and listeners receive the whole content as one batch.
func (m *Manager) CreateFromDocument(doc *Document, source string) (Ontology, error) {
	if err := doc.Validate(); err != nil {
		return nil, &LoadError{Locator: source, Err: err}
	}

	id := doc.ID
	if id.IsZero() {
		id = NewAnonymousID()
	}

	delegate := newPlainOntology(m, id)
	changes := delegate.fill(doc)

	o, err := m.register(delegate)
	if err != nil {
		return nil, err
	}
	m.notify(id, changes)
	return o, nil
}

// LoadOntologies loads documents in parallel and returns the ontologies in
// locator order. On the first failure the ontologies created by this call
// are removed again and the error is returned.
func (m *Manager) LoadOntologies(ctx context.Context, locators ...string) ([]Ontology, error) {
	results := make([]Ontology, len(locators))

	g, gctx := errgroup.WithContext(ctx)
	if m.loadConcurrency > 0 {
		g.SetLimit(m.loadConcurrency)
	}
	for i, locator := range locators {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &LoadError{Locator: locator, Err: err}
			}
			o, err := m.LoadOntology(gctx, locator)
			if err != nil {
				return err
			}
			results[i] = o
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, o := range results {
			if o != nil {
				m.RemoveOntology(o.ID())
			}
		}
		return nil, err
	}
	return results, nil
}
