package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/vocabulary/owl"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ex = "http://example.org/pizza#"

// memKV is an in-memory stand-in for the KV operations the store uses.
type memKV struct {
	jetstream.KeyValue

	mu      sync.Mutex
	rev     uint64
	entries map[string]memEntry
}

type memEntry struct {
	jetstream.KeyValueEntry
	key   string
	value []byte
	rev   uint64
}

func (e memEntry) Key() string      { return e.key }
func (e memEntry) Value() []byte    { return e.value }
func (e memEntry) Revision() uint64 { return e.rev }

func newMemKV() *memKV {
	return &memKV{entries: make(map[string]memEntry)}
}

func (kv *memKV) Get(_ context.Context, key string) (jetstream.KeyValueEntry, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	e, ok := kv.entries[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return e, nil
}

func (kv *memKV) Put(_ context.Context, key string, value []byte) (uint64, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.rev++
	kv.entries[key] = memEntry{key: key, value: append([]byte(nil), value...), rev: kv.rev}
	return kv.rev, nil
}

func (kv *memKV) Keys(_ context.Context, _ ...jetstream.WatchOpt) ([]string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if len(kv.entries) == 0 {
		return nil, jetstream.ErrNoKeysFound
	}
	keys := make([]string, 0, len(kv.entries))
	for k := range kv.entries {
		keys = append(keys, k)
	}
	return keys, nil
}

func (kv *memKV) Delete(_ context.Context, key string, _ ...jetstream.KVDeleteOpt) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.entries, key)
	return nil
}

func pizza(t *testing.T, m *ontology.Manager) ontology.Ontology {
	t.Helper()
	o, err := m.CreateOntologyWithID(ontology.NewVersionedID(ex+"pizza", ex+"pizza/1.0"))
	require.NoError(t, err)
	o.AddImport(ex + "food")
	o.AddAnnotation(ontology.Annotation{Property: owl.RDFSLabel, Value: ontology.LangLiteral("Pizza", "en")})
	_, err = o.AddAxioms(
		ontology.Declaration(ex+"Pizza", owl.EntityClass),
		ontology.SubClassOf(ex+"Margherita", ex+"Pizza"),
		ontology.DataPropertyAssertion(ex+"myPizza", ex+"price", ontology.TypedLiteral("9.5", owl.XSDDecimal)),
	)
	require.NoError(t, err)
	return o
}

func TestKeyFor(t *testing.T) {
	key := KeyFor(ontology.NewID("http://example.org/pizza"))
	assert.Regexp(t, `^example-org-pizza\.[0-9a-f]{8}$`, key)
	assert.Equal(t, key, KeyFor(ontology.NewID("http://example.org/pizza")))

	versioned := KeyFor(ontology.NewVersionedID("http://example.org/pizza", "http://example.org/pizza/2"))
	assert.NotEqual(t, key, versioned)

	anon := KeyFor(ontology.NewAnonymousID())
	assert.Regexp(t, `^anon-[0-9a-f-]+\.[0-9a-f]{8}$`, anon)

	long := KeyFor(ontology.NewID(ontology.IRI("http://example.org/" + strings.Repeat("long-name/", 20))))
	assert.LessOrEqual(t, len(long), maxSlugLength+9)
	assert.True(t, keyPattern.MatchString(long))
}

func TestStore_SaveGetRestore(t *testing.T) {
	ctx := context.Background()
	store := NewStoreWithKV(newMemKV(), nil)
	src := ontology.NewManager()
	o := pizza(t, src)

	snap, err := store.Save(ctx, o)
	require.NoError(t, err)
	assert.Equal(t, KeyFor(o.ID()), snap.Key)
	assert.NotEmpty(t, snap.SnapshotID)
	assert.Equal(t, "concurrent", snap.Mode)
	assert.Equal(t, 3, snap.AxiomCount)
	assert.Equal(t, uint64(1), snap.Revision)

	got, err := store.Get(ctx, snap.Key)
	require.NoError(t, err)
	assert.Equal(t, snap.SnapshotID, got.SnapshotID)
	assert.Equal(t, o.ID(), got.Document.ID)
	assert.Equal(t, uint64(1), got.Revision)

	t.Run("restore into another manager", func(t *testing.T) {
		dst := ontology.NewManager(ontology.WithMode(ontology.ModePlain))
		restored, err := store.Restore(ctx, dst, snap.Key)
		require.NoError(t, err)

		assert.Equal(t, o.ID(), restored.ID())
		assert.Equal(t, o.AxiomCount(), restored.AxiomCount())
		assert.Equal(t, o.Imports(), restored.Imports())
		assert.Equal(t, o.Annotations(), restored.Annotations())
		for a := range o.Axioms() {
			assert.True(t, restored.ContainsAxiom(a), a.String())
		}

		_, err = store.Restore(ctx, dst, snap.Key)
		assert.ErrorIs(t, err, ontology.ErrOntologyExists)
	})

	t.Run("resave keeps creation time", func(t *testing.T) {
		_, err := o.AddAxioms(ontology.SubClassOf(ex+"Calzone", ex+"Pizza"))
		require.NoError(t, err)

		again, err := store.Save(ctx, o)
		require.NoError(t, err)
		assert.Equal(t, snap.Key, again.Key)
		assert.NotEqual(t, snap.SnapshotID, again.SnapshotID)
		assert.True(t, again.CreatedAt.Equal(snap.CreatedAt))
		assert.Equal(t, 4, again.AxiomCount)
		assert.Equal(t, uint64(2), again.Revision)
	})
}

func TestStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStoreWithKV(newMemKV(), nil)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	m := ontology.NewManager()
	a, err := m.CreateOntologyWithID(ontology.NewID("http://example.org/a"))
	require.NoError(t, err)
	b, err := m.CreateOntologyWithID(ontology.NewID("http://example.org/b"))
	require.NoError(t, err)

	for _, o := range []ontology.Ontology{b, a} {
		_, err := store.Save(ctx, o)
		require.NoError(t, err)
	}

	list, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID(), list[0].Document.ID)
	assert.Equal(t, b.ID(), list[1].Document.ID)

	require.NoError(t, store.Delete(ctx, KeyFor(a.ID())))
	assert.ErrorIs(t, store.Delete(ctx, KeyFor(a.ID())), ErrNotFound)

	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	store := NewStoreWithKV(kv, nil)

	_, err := store.Get(ctx, "missing.00000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, "bad key*")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = store.Restore(ctx, ontology.NewManager(), "missing.00000000")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = kv.Put(ctx, "corrupt.00000000", []byte("{not json"))
	require.NoError(t, err)
	_, err = store.Get(ctx, "corrupt.00000000")
	assert.ErrorContains(t, err, "unmarshal snapshot")

	// Unreadable entries are skipped by List.
	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
