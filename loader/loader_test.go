package loader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/vocabulary/owl"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ex = "http://example.org/pizza#"

const pizzaYAML = `
ontology: http://example.org/pizza
version: http://example.org/pizza/1.0
prefixes:
  pizza: http://example.org/pizza#
imports:
  - http://example.org/food
annotations:
  - property: rdfs:label
    value: Pizza ontology
    lang: en
declarations:
  object_property: [pizza:hasTopping]
  class: [pizza:Pizza, pizza:Margherita]
axioms:
  - kind: subclass_of
    subject: pizza:Margherita
    object: pizza:Pizza
  - kind: data_property_assertion
    subject: pizza:myPizza
    property: pizza:price
    value: "9.5"
    datatype: xsd:decimal
  - kind: class_assertion
    subject: pizza:myPizza
    object: pizza:Margherita
    annotations:
      - property: rdfs:comment
        value: example individual
`

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func newLoader(t *testing.T, cfg Config) *Loader {
	t.Helper()
	l, err := New(cfg)
	require.NoError(t, err)
	return l
}

func TestManifest_Document(t *testing.T) {
	m, err := ParseManifest([]byte(pizzaYAML))
	require.NoError(t, err)

	doc, err := m.Document()
	require.NoError(t, err)

	assert.Equal(t, ontology.NewVersionedID("http://example.org/pizza", "http://example.org/pizza/1.0"), doc.ID)
	assert.Equal(t, []ontology.IRI{"http://example.org/food"}, doc.Imports)
	require.Len(t, doc.Annotations, 1)
	assert.Equal(t, ontology.IRI(owl.RDFSLabel), doc.Annotations[0].Property)
	assert.Equal(t, ontology.LangLiteral("Pizza ontology", "en"), doc.Annotations[0].Value)

	require.Len(t, doc.Axioms, 6)
	// Declarations come first, grouped by sorted entity type.
	assert.Equal(t, ontology.Declaration(ex+"Pizza", owl.EntityClass), doc.Axioms[0])
	assert.Equal(t, ontology.Declaration(ex+"Margherita", owl.EntityClass), doc.Axioms[1])
	assert.Equal(t, ontology.Declaration(ex+"hasTopping", owl.EntityObjectProperty), doc.Axioms[2])
	assert.Equal(t, ontology.SubClassOf(ex+"Margherita", ex+"Pizza"), doc.Axioms[3])
	assert.Equal(t,
		ontology.DataPropertyAssertion(ex+"myPizza", ex+"price", ontology.TypedLiteral("9.5", owl.XSDDecimal)),
		doc.Axioms[4])
	require.Len(t, doc.Axioms[5].Annotations, 1)
	assert.Equal(t, ontology.IRI(owl.RDFSComment), doc.Axioms[5].Annotations[0].Property)
}

func TestManifest_DocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"version without ontology", "version: http://example.org/v1\n"},
		{"unknown declaration type", "declarations:\n  widget: [http://example.org/w]\n"},
		{"object and value", "axioms:\n  - kind: subclass_of\n    subject: http://example.org/a\n    object: http://example.org/b\n    value: b\n"},
		{"invalid axiom", "axioms:\n  - kind: subclass_of\n    subject: http://example.org/a\n"},
		{"annotation without property", "annotations:\n  - value: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseManifest([]byte(tt.content))
			require.NoError(t, err)
			_, err = m.Document()
			assert.Error(t, err)
		})
	}
}

func TestManifest_AnonymousDocument(t *testing.T) {
	m, err := ParseManifest([]byte("axioms:\n  - kind: subclass_of\n    subject: http://example.org/a\n    object: http://example.org/b\n"))
	require.NoError(t, err)
	doc, err := m.Document()
	require.NoError(t, err)
	assert.True(t, doc.ID.IsZero())
	assert.Len(t, doc.Axioms, 1)
}

func TestResolver_IRI(t *testing.T) {
	r := resolver{prefixes: map[string]string{"pizza": ex, "owl": owl.Namespace}}

	assert.Equal(t, ontology.IRI(ex+"Pizza"), r.iri("pizza:Pizza"))
	assert.Equal(t, ontology.IRI(owl.Thing), r.iri("owl:Thing"))
	assert.Equal(t, ontology.IRI("http://other.org/x"), r.iri("http://other.org/x"))
	assert.Equal(t, ontology.IRI("urn:isbn:123"), r.iri("urn:isbn:123"))
	assert.Equal(t, ontology.IRI("plain"), r.iri(" plain "))
}

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pizza.onto.yaml", []byte(pizzaYAML))
	l := newLoader(t, Config{BaseDir: dir})

	t.Run("absolute path", func(t *testing.T) {
		doc, err := l.LoadDocument(context.Background(), path)
		require.NoError(t, err)
		assert.Len(t, doc.Axioms, 6)
	})

	t.Run("relative to base dir", func(t *testing.T) {
		doc, err := l.LoadDocument(context.Background(), "pizza.onto.yaml")
		require.NoError(t, err)
		assert.Len(t, doc.Axioms, 6)
	})

	t.Run("file URL", func(t *testing.T) {
		doc, err := l.LoadDocument(context.Background(), "file://"+path)
		require.NoError(t, err)
		assert.Len(t, doc.Axioms, 6)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := l.LoadDocument(context.Background(), "missing.onto.yaml")
		require.Error(t, err)

		var le *ontology.LoadError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, "missing.onto.yaml", le.Locator)
		assert.ErrorIs(t, err, ontology.ErrLoad)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoader_JSON(t *testing.T) {
	dir := t.TempDir()
	content := `{"ontology": "http://example.org/o", "declarations": {"class": ["http://example.org/o#A"]}}`
	writeFile(t, dir, "o.json", []byte(content))

	doc, err := newLoader(t, Config{BaseDir: dir}).LoadDocument(context.Background(), "o.json")
	require.NoError(t, err)
	assert.Equal(t, ontology.NewID("http://example.org/o"), doc.ID)
	assert.Equal(t, []ontology.Axiom{ontology.Declaration("http://example.org/o#A", owl.EntityClass)}, doc.Axioms)
}

func TestLoader_Compressed(t *testing.T) {
	dir := t.TempDir()

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write([]byte(pizzaYAML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	writeFile(t, dir, "pizza.onto.yaml.gz", gz.Bytes())

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	writeFile(t, dir, "pizza.onto.yaml.zst", enc.EncodeAll([]byte(pizzaYAML), nil))
	require.NoError(t, enc.Close())

	l := newLoader(t, Config{BaseDir: dir})
	for _, name := range []string{"pizza.onto.yaml.gz", "pizza.onto.yaml.zst"} {
		t.Run(name, func(t *testing.T) {
			doc, err := l.LoadDocument(context.Background(), name)
			require.NoError(t, err)
			assert.Len(t, doc.Axioms, 6)
		})
	}

	t.Run("corrupt gzip", func(t *testing.T) {
		writeFile(t, dir, "broken.yaml.gz", []byte("not gzip"))
		_, err := l.LoadDocument(context.Background(), "broken.yaml.gz")
		assert.ErrorIs(t, err, ontology.ErrLoad)
	})
}

func TestLoader_MaxDocumentSize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "big.yaml", []byte(pizzaYAML))

	l := newLoader(t, Config{BaseDir: dir, MaxDocumentSize: 16})
	_, err := l.LoadDocument(context.Background(), "big.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 16 bytes")
}

func TestLoader_UnknownFormatAndScheme(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pizza.owl", []byte("<rdf:RDF/>"))
	l := newLoader(t, Config{BaseDir: dir})

	_, err := l.LoadDocument(context.Background(), "pizza.owl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parser")

	_, err = l.LoadDocument(context.Background(), "ftp://example.org/pizza.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported locator scheme")

	// s3 is only available with an endpoint.
	_, err = l.LoadDocument(context.Background(), "s3://bucket/pizza.yaml")
	assert.ErrorIs(t, err, ontology.ErrLoad)
}

func TestLoader_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pizza.onto.yaml":
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write([]byte(pizzaYAML))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := newLoader(t, Config{HTTPTimeout: DefaultConfig().HTTPTimeout, RateLimit: 100, RateBurst: 2})

	doc, err := l.LoadDocument(context.Background(), srv.URL+"/pizza.onto.yaml")
	require.NoError(t, err)
	assert.Len(t, doc.Axioms, 6)

	_, err = l.LoadDocument(context.Background(), srv.URL+"/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestLoader_HTTPRateLimitHonoursContext(t *testing.T) {
	f := NewHTTPFetcher(0, 0.001, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, "http://127.0.0.1:1/x.yaml")
	assert.Error(t, err)
}

func TestLoader_ManagerIntegration(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pizza.onto.yaml", []byte(pizzaYAML))

	m := ontology.NewManager(ontology.WithLoader(newLoader(t, Config{BaseDir: dir})))
	o, err := m.LoadOntology(context.Background(), "pizza.onto.yaml")
	require.NoError(t, err)

	assert.Equal(t, 6, o.AxiomCount())
	assert.Equal(t, []ontology.IRI{"http://example.org/food"}, o.Imports())
	assert.True(t, m.Contains(o.ID()))

	other, err := m.CreateOntology()
	require.NoError(t, err)
	assert.True(t, o.WriteLock() == other.WriteLock())
}

func TestLoader_CustomFetcher(t *testing.T) {
	fetcher := FetcherFunc(func(ctx context.Context, locator string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(pizzaYAML)), nil
	})
	l, err := New(Config{}, WithFetcher("mem", fetcher))
	require.NoError(t, err)

	doc, err := l.LoadDocument(context.Background(), "mem://pizza.yaml")
	require.NoError(t, err)
	assert.Len(t, doc.Axioms, 6)
}

func TestParseS3Locator(t *testing.T) {
	bucket, key, err := parseS3Locator("s3://ontologies/food/pizza.onto.yaml.gz")
	require.NoError(t, err)
	assert.Equal(t, "ontologies", bucket)
	assert.Equal(t, "food/pizza.onto.yaml.gz", key)

	for _, bad := range []string{"s3://bucket", "s3:///key", "http://bucket/key"} {
		_, _, err := parseS3Locator(bad)
		assert.Error(t, err, bad)
	}
}

func TestNew_S3(t *testing.T) {
	l, err := New(Config{S3: S3Config{Endpoint: "localhost:9000", AccessKeyID: "k", SecretAccessKey: "s"}})
	require.NoError(t, err)
	assert.Contains(t, l.fetchers, "s3")
}
