// Package watch keeps a manager in sync with ontology documents on disk.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/c360studio/semonto/loader"
	"github.com/c360studio/semonto/ontology"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceDelay is used when Config.DebounceDelay is zero.
const DefaultDebounceDelay = 100 * time.Millisecond

// Source reads and decodes ontology documents. *loader.Loader satisfies it.
type Source interface {
	Read(ctx context.Context, locator string) ([]byte, error)
	Parse(locator string, content []byte) (*ontology.Document, error)
}

// Config configures the watcher
type Config struct {
	// Root is the directory to watch
	Root string

	// Include holds doublestar patterns relative to Root selecting the
	// documents to load
	Include []string

	// DebounceDelay is how long to wait for more changes before processing
	DebounceDelay time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// Operation indicates the type of document change
type Operation string

const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Event reports one processed document change.
type Event struct {
	// Path is the document path relative to Root
	Path string

	Operation Operation

	// ID is the identity of the ontology created or removed
	ID ontology.ID

	// Axioms is the axiom count of the reloaded ontology
	Axioms int

	// Error if reading, parsing or creating failed
	Error error
}

// tracked is the state of a loaded document.
type tracked struct {
	hash string
	id   ontology.ID
}

// Watcher watches document directories and reloads changed documents
// into a manager.
type Watcher struct {
	config  Config
	manager *ontology.Manager
	source  Source
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op // path → most recent operation

	// Loaded documents keyed by relative path
	filesMu sync.Mutex
	files   map[string]tracked

	events chan Event
	wg     sync.WaitGroup

	stopOnce sync.Once
	stopErr  error
}

// NewWatcher creates a watcher feeding manager from source.
func NewWatcher(config Config, manager *ontology.Manager, source Source) (*Watcher, error) {
	if manager == nil || source == nil {
		return nil, errors.New("watcher requires a manager and a source")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if config.Root == "" {
		config.Root = "."
	}
	root, err := filepath.Abs(config.Root)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	config.Root = root

	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.DebounceDelay == 0 {
		config.DebounceDelay = DefaultDebounceDelay
	}
	if len(config.Include) == 0 {
		config.Include = loader.DefaultConfig().Include
	}

	return &Watcher{
		config:  config,
		manager: manager,
		source:  source,
		watcher: fsw,
		logger:  config.Logger,
		pending: make(map[string]fsnotify.Op),
		files:   make(map[string]tracked),
		events:  make(chan Event, 100),
	}, nil
}

// Events returns the channel of processed changes. It is closed by Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// LoadAll loads every document matching the include patterns and records
// its content hash. Failures are reported per document.
func (w *Watcher) LoadAll(ctx context.Context) ([]Event, error) {
	paths, err := loader.Expand(w.config.Root, w.config.Include)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return events, err
		}
		if event, ok := w.reload(ctx, path); ok {
			events = append(events, event)
		}
	}
	return events, nil
}

// Start begins watching Root for changes
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.config.Root); err != nil {
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.processEvents(ctx)
	}()

	w.logger.Info("Document watcher started",
		"root", w.config.Root,
		"include", w.config.Include,
		"debounce", w.config.DebounceDelay)
	return nil
}

// Stop stops the watcher and closes the event channel. Calls after the
// first return the first result.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		w.stopErr = w.watcher.Close()
		w.wg.Wait()
		close(w.events)
	})
	return w.stopErr
}

// Loaded returns the ontology loaded from a path relative to Root.
func (w *Watcher) Loaded(relPath string) (ontology.ID, bool) {
	w.filesMu.Lock()
	defer w.filesMu.Unlock()
	t, ok := w.files[filepath.ToSlash(relPath)]
	return t.id, ok
}

func skipDir(path string) bool {
	base := filepath.Base(path)
	return base != "." && strings.HasPrefix(base, ".")
}

// addWatchesRecursive adds watches to all directories
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}
		return nil
	})
}

// processEvents handles fsnotify events with debouncing
func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent records a single fsnotify event
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.handleNewDirectory(path)
			return
		}
	}

	if !loader.Match(w.config.Root, w.config.Include, path) {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Document change detected", "path", path, "op", event.Op.String())
}

// handleNewDirectory watches a new directory and queues the documents
// already written into it.
func (w *Watcher) handleNewDirectory(path string) {
	if skipDir(path) {
		return
	}
	if err := w.addWatchesRecursive(path); err != nil {
		w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
		return
	}

	_ = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() && loader.Match(w.config.Root, w.config.Include, p) {
			w.pendingMu.Lock()
			w.pending[p] = fsnotify.Create
			w.pendingMu.Unlock()
		}
		return nil
	})
}

// flushPending processes accumulated changes in path order
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	paths := make([]string, 0, len(toProcess))
	for path := range toProcess {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}

		op := toProcess[path]
		_, statErr := os.Stat(path)
		var (
			event Event
			ok    bool
		)
		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) || os.IsNotExist(statErr) {
			event, ok = w.remove(path)
		} else {
			event, ok = w.reload(ctx, path)
		}
		if ok {
			w.sendEvent(event)
		}
	}
}

func (w *Watcher) relPath(path string) string {
	rel, err := filepath.Rel(w.config.Root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// reload reads path and replaces its ontology in the manager. Unchanged
// content is skipped. A document that fails to read or parse leaves the
// previously loaded ontology in place.
func (w *Watcher) reload(ctx context.Context, path string) (Event, bool) {
	rel := w.relPath(path)

	content, err := w.source.Read(ctx, path)
	if errors.Is(err, os.ErrNotExist) {
		return w.remove(path)
	}

	w.filesMu.Lock()
	defer w.filesMu.Unlock()

	prev, had := w.files[rel]
	event := Event{Path: rel, Operation: OpCreate}
	if had {
		event.Operation = OpModify
	}
	if err != nil {
		event.Error = &ontology.LoadError{Locator: path, Err: err}
		return event, true
	}

	hash := computeHash(content)
	if had && prev.hash == hash {
		return Event{}, false
	}

	doc, err := w.source.Parse(path, content)
	if err != nil {
		event.Error = &ontology.LoadError{Locator: path, Err: err}
		return event, true
	}

	if had {
		w.manager.RemoveOntology(prev.id)
		delete(w.files, rel)
	}
	o, err := w.manager.CreateFromDocument(doc, path)
	if err != nil {
		event.Error = err
		return event, true
	}

	w.files[rel] = tracked{hash: hash, id: o.ID()}
	event.ID = o.ID()
	event.Axioms = o.AxiomCount()

	w.logger.Info("Reloaded ontology document",
		"path", rel,
		"op", event.Operation,
		"id", event.ID.String(),
		"axioms", event.Axioms)
	return event, true
}

// remove drops the ontology loaded from path. Untracked paths are ignored.
func (w *Watcher) remove(path string) (Event, bool) {
	rel := w.relPath(path)

	w.filesMu.Lock()
	defer w.filesMu.Unlock()

	prev, had := w.files[rel]
	if !had {
		return Event{}, false
	}
	delete(w.files, rel)
	w.manager.RemoveOntology(prev.id)

	w.logger.Info("Removed ontology document", "path", rel, "id", prev.id.String())
	return Event{Path: rel, Operation: OpDelete, ID: prev.id}, true
}

// sendEvent sends an event to the output channel
func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent watch event", "path", event.Path, "op", event.Operation)
	default:
		w.logger.Warn("Event channel full, dropping event", "path", event.Path)
	}
}

func computeHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:8])
}
