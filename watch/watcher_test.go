package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/c360studio/semonto/loader"
	"github.com/c360studio/semonto/ontology"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pizzaV1 = `
ontology: http://example.org/pizza
prefixes:
  pizza: http://example.org/pizza#
declarations:
  class: [pizza:Pizza, pizza:Margherita]
axioms:
  - kind: subclass_of
    subject: pizza:Margherita
    object: pizza:Pizza
`

const pizzaV2 = `
ontology: http://example.org/pizza
prefixes:
  pizza: http://example.org/pizza#
declarations:
  class: [pizza:Pizza, pizza:Margherita, pizza:Calzone]
axioms:
  - kind: subclass_of
    subject: pizza:Margherita
    object: pizza:Pizza
  - kind: subclass_of
    subject: pizza:Calzone
    object: pizza:Pizza
`

var pizzaID = ontology.NewID("http://example.org/pizza")

func writeDoc(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newWatcher(t *testing.T, root string) (*Watcher, *ontology.Manager) {
	t.Helper()
	l, err := loader.New(loader.DefaultConfig())
	require.NoError(t, err)

	m := ontology.NewManager()
	w, err := NewWatcher(Config{Root: root, DebounceDelay: 20 * time.Millisecond}, m, l)
	require.NoError(t, err)
	return w, m
}

// queue simulates a debounced fsnotify event.
func queue(w *Watcher, path string, op fsnotify.Op) {
	w.pendingMu.Lock()
	w.pending[path] = op
	w.pendingMu.Unlock()
}

func drain(w *Watcher) []Event {
	var events []Event
	for {
		select {
		case e := <-w.events:
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestNewWatcher_RequiresManagerAndSource(t *testing.T) {
	_, err := NewWatcher(Config{}, nil, nil)
	assert.Error(t, err)
}

func TestWatcher_LoadAll(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, filepath.Join(root, "pizza.onto.yaml"), pizzaV1)
	writeDoc(t, filepath.Join(root, "nested", "anon.onto.yaml"), "axioms: []\n")
	writeDoc(t, filepath.Join(root, "notes.yaml"), "not: an ontology\n")

	w, m := newWatcher(t, root)
	events, err := w.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)

	for _, e := range events {
		assert.NoError(t, e.Error)
		assert.Equal(t, OpCreate, e.Operation)
	}
	assert.Len(t, m.Ontologies(), 2)

	id, ok := w.Loaded("pizza.onto.yaml")
	require.True(t, ok)
	assert.Equal(t, pizzaID, id)

	anon, ok := w.Loaded("nested/anon.onto.yaml")
	require.True(t, ok)
	assert.True(t, anon.IsAnonymous())

	// Loading again sees unchanged hashes.
	events, err = w.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestWatcher_FlushPending(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	path := filepath.Join(root, "pizza.onto.yaml")
	w, m := newWatcher(t, root)

	t.Run("create", func(t *testing.T) {
		writeDoc(t, path, pizzaV1)
		queue(w, path, fsnotify.Create)
		w.flushPending(ctx)

		events := drain(w)
		require.Len(t, events, 1)
		assert.Equal(t, OpCreate, events[0].Operation)
		assert.Equal(t, "pizza.onto.yaml", events[0].Path)
		assert.Equal(t, pizzaID, events[0].ID)
		assert.Equal(t, 3, events[0].Axioms)
	})

	t.Run("unchanged content is skipped", func(t *testing.T) {
		queue(w, path, fsnotify.Write)
		w.flushPending(ctx)
		assert.Empty(t, drain(w))
	})

	t.Run("modify replaces the ontology", func(t *testing.T) {
		before, ok := m.Ontology(pizzaID)
		require.True(t, ok)

		writeDoc(t, path, pizzaV2)
		queue(w, path, fsnotify.Write)
		w.flushPending(ctx)

		events := drain(w)
		require.Len(t, events, 1)
		assert.Equal(t, OpModify, events[0].Operation)
		assert.Equal(t, 5, events[0].Axioms)

		after, ok := m.Ontology(pizzaID)
		require.True(t, ok)
		assert.NotSame(t, before, after)
		assert.Equal(t, 5, after.AxiomCount())
	})

	t.Run("parse failure keeps the loaded ontology", func(t *testing.T) {
		writeDoc(t, path, "axioms: [{kind: nonsense}]\n")
		queue(w, path, fsnotify.Write)
		w.flushPending(ctx)

		events := drain(w)
		require.Len(t, events, 1)
		assert.Error(t, events[0].Error)
		var loadErr *ontology.LoadError
		assert.ErrorAs(t, events[0].Error, &loadErr)
		assert.True(t, m.Contains(pizzaID))
	})

	t.Run("delete removes the ontology", func(t *testing.T) {
		require.NoError(t, os.Remove(path))
		queue(w, path, fsnotify.Remove)
		w.flushPending(ctx)

		events := drain(w)
		require.Len(t, events, 1)
		assert.Equal(t, OpDelete, events[0].Operation)
		assert.Equal(t, pizzaID, events[0].ID)
		assert.False(t, m.Contains(pizzaID))

		_, ok := w.Loaded("pizza.onto.yaml")
		assert.False(t, ok)
	})

	t.Run("delete of unknown document is ignored", func(t *testing.T) {
		queue(w, filepath.Join(root, "other.onto.yaml"), fsnotify.Remove)
		w.flushPending(ctx)
		assert.Empty(t, drain(w))
	})
}

func TestWatcher_IdentityCollision(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	w, m := newWatcher(t, root)

	first := filepath.Join(root, "a.onto.yaml")
	second := filepath.Join(root, "b.onto.yaml")
	writeDoc(t, first, pizzaV1)
	writeDoc(t, second, pizzaV2)
	queue(w, first, fsnotify.Create)
	queue(w, second, fsnotify.Create)
	w.flushPending(ctx)

	events := drain(w)
	require.Len(t, events, 2)
	assert.NoError(t, events[0].Error)
	assert.ErrorIs(t, events[1].Error, ontology.ErrOntologyExists)

	o, ok := m.Ontology(pizzaID)
	require.True(t, ok)
	assert.Equal(t, 3, o.AxiomCount())
}

func TestWatcher_HandleFSEvent(t *testing.T) {
	root := t.TempDir()
	w, _ := newWatcher(t, root)

	w.handleFSEvent(fsnotify.Event{Name: filepath.Join(root, "pizza.onto.yaml"), Op: fsnotify.Write})
	w.handleFSEvent(fsnotify.Event{Name: filepath.Join(root, "README.md"), Op: fsnotify.Write})

	sub := filepath.Join(root, "sub")
	writeDoc(t, filepath.Join(sub, "food.onto.json"), `{"ontology": "http://example.org/food"}`)
	w.handleFSEvent(fsnotify.Event{Name: sub, Op: fsnotify.Create})

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	assert.Len(t, w.pending, 2)
	assert.Contains(t, w.pending, filepath.Join(root, "pizza.onto.yaml"))
	assert.Equal(t, fsnotify.Create, w.pending[filepath.Join(sub, "food.onto.json")])
}

func TestWatcher_StartStop(t *testing.T) {
	root := t.TempDir()
	w, m := newWatcher(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	writeDoc(t, filepath.Join(root, "pizza.onto.yaml"), pizzaV1)

	require.Eventually(t, func() bool {
		return m.Contains(pizzaID)
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, w.Stop())
	var events []Event
	for e := range w.Events() {
		events = append(events, e)
	}
	require.NotEmpty(t, events)
	assert.Equal(t, OpCreate, events[0].Operation)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	root := t.TempDir()
	w, _ := newWatcher(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, w.Stop())
	assert.NotPanics(t, func() {
		assert.NoError(t, w.Stop())
	})

	_, open := <-w.Events()
	assert.False(t, open)
}
