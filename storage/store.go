// Package storage keeps ontology snapshots in NATS KV.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/c360studio/semonto/ontology"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
)

// DefaultBucket is the KV bucket holding ontology snapshots.
const DefaultBucket = "SEMONTO_ONTOLOGIES"

// maxSlugLength bounds the readable part of a key.
const maxSlugLength = 64

var (
	nonKeyChars = regexp.MustCompile(`[^a-z0-9]+`)
	keyPattern  = regexp.MustCompile(`^[-/_=.a-zA-Z0-9]+$`)
)

// Snapshot is a stored copy of an ontology.
type Snapshot struct {
	Key        string             `json:"key"`
	SnapshotID string             `json:"snapshot_id"`
	Mode       string             `json:"mode,omitempty"`
	Document   *ontology.Document `json:"document"`
	AxiomCount int                `json:"axiom_count"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`

	// Revision is the KV revision the snapshot was read at or written as.
	Revision uint64 `json:"-"`
}

// KeyFor derives the KV key of an ontology identity. Keys are readable,
// deterministic and distinct for distinct identities.
//
//	<http://example.org/pizza> → example-org-pizza.1a2b3c4d
func KeyFor(id ontology.ID) string {
	source := string(id.OntologyIRI)
	if id.IsAnonymous() {
		source = strings.TrimPrefix(id.Anonymous, "_:")
	}
	source = strings.TrimPrefix(strings.TrimPrefix(source, "https://"), "http://")

	slug := strings.Trim(nonKeyChars.ReplaceAllString(strings.ToLower(source), "-"), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		slug = "ontology"
	}

	sum := sha256.Sum256([]byte(id.String()))
	return slug + "." + hex.EncodeToString(sum[:4])
}

// Store provides snapshot operations backed by NATS KV.
type Store struct {
	kv     jetstream.KeyValue
	logger *slog.Logger
}

// NewStore opens the bucket, creating it if it doesn't exist.
func NewStore(ctx context.Context, js jetstream.JetStream, bucket string, logger *slog.Logger) (*Store, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	kv, err := getOrCreateBucket(ctx, js, bucket)
	if err != nil {
		return nil, fmt.Errorf("create %s bucket: %w", bucket, err)
	}
	return NewStoreWithKV(kv, logger), nil
}

// NewStoreWithKV wraps an open KV bucket.
func NewStoreWithKV(kv jetstream.KeyValue, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "Semonto ontology snapshots",
		History:     5, // Keep last 5 revisions
	})
}

// Save stores a snapshot of the ontology under KeyFor(o.ID()). The
// ontology is read through one Document call. An existing snapshot keeps
// its creation time.
func (s *Store) Save(ctx context.Context, o ontology.Ontology) (*Snapshot, error) {
	doc := o.Document()
	key := KeyFor(doc.ID)

	now := time.Now().UTC()
	snap := &Snapshot{
		Key:        key,
		SnapshotID: uuid.New().String(),
		Mode:       o.Manager().Mode().String(),
		Document:   doc,
		AxiomCount: len(doc.Axioms),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if prev, err := s.Get(ctx, key); err == nil {
		snap.CreatedAt = prev.CreatedAt
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	rev, err := s.kv.Put(ctx, key, data)
	if err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}
	snap.Revision = rev

	s.logger.Debug("Saved ontology snapshot",
		"key", key,
		"id", doc.ID.String(),
		"snapshot_id", snap.SnapshotID,
		"revision", rev)
	return snap, nil
}

// Get retrieves the snapshot stored under key.
func (s *Store) Get(ctx context.Context, key string) (*Snapshot, error) {
	if !keyPattern.MatchString(key) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	entry, err := s.kv.Get(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(entry.Value(), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	snap.Revision = entry.Revision()
	return &snap, nil
}

// List returns every stored snapshot ordered by key. Entries that fail to
// load are skipped.
func (s *Store) List(ctx context.Context) ([]*Snapshot, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list snapshot keys: %w", err)
	}
	sort.Strings(keys)

	snapshots := make([]*Snapshot, 0, len(keys))
	for _, key := range keys {
		snap, err := s.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Skipping unreadable snapshot", "key", key, "error", err)
			continue
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// Delete removes the snapshot stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.Get(ctx, key); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Restore re-creates the snapshot stored under key in the manager. It
// fails with a *ontology.CreationError if the identity is already
// registered there.
func (s *Store) Restore(ctx context.Context, m *ontology.Manager, key string) (ontology.Ontology, error) {
	snap, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if snap.Document == nil {
		return nil, fmt.Errorf("snapshot %s has no document", key)
	}
	return m.CreateFromDocument(snap.Document, "kv://"+key)
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "key not found")
}
