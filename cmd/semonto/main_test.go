package main

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/semonto/config"
	"github.com/c360studio/semonto/ontology"
)

const pizzaDoc = `
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

const foodDoc = `{"ontology": "http://example.org/food", "imports": ["http://example.org/pizza"]}`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// run executes the CLI with an isolated home directory and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SEMONTO_NATS_URL", "")

	cmd := rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "pizza.onto.yaml", pizzaDoc)
	writeFixture(t, dir, "nested/food.onto.json", foodDoc)
	return dir
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "semonto version "+Version) {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestLoadCommand(t *testing.T) {
	dir := fixtureDir(t)

	out, err := run(t, "load", "--base-dir", dir, "--counts")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, want := range []string{"<http://example.org/pizza>", "<http://example.org/food>", "concurrent", "subclass_of"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "load", "--base-dir", dir, "--mode", "plain", "pizza.onto.yaml")
	if err != nil {
		t.Fatalf("load single: %v", err)
	}
	if strings.Contains(out, "food") || !strings.Contains(out, "plain") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestLoadCommand_Errors(t *testing.T) {
	dir := fixtureDir(t)

	if _, err := run(t, "load", "--base-dir", dir, "missing.onto.yaml"); err == nil {
		t.Error("expected error for missing document")
	}
	if _, err := run(t, "load", "--base-dir", dir, "**/*.owl"); err == nil {
		t.Error("expected error when nothing matches")
	}
	if _, err := run(t, "load", "--mode", "sharded"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestExportCommand(t *testing.T) {
	dir := fixtureDir(t)

	out, err := run(t, "export", "--base-dir", dir, "--format", "nt", "pizza.onto.yaml")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "<http://example.org/pizza#Margherita> <http://www.w3.org/2000/01/rdf-schema#subClassOf> <http://example.org/pizza#Pizza> .") {
		t.Errorf("missing subclass triple:\n%s", out)
	}

	t.Run("output file infers format", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "pizza.ttl.gz")
		if _, err := run(t, "export", "--base-dir", dir, "-o", target, "pizza.onto.yaml"); err != nil {
			t.Fatalf("export: %v", err)
		}

		f, err := os.Open(target)
		if err != nil {
			t.Fatalf("open output: %v", err)
		}
		defer f.Close()
		zr, err := gzip.NewReader(f)
		if err != nil {
			t.Fatalf("gzip reader: %v", err)
		}
		data, err := io.ReadAll(zr)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		if !strings.Contains(string(data), "@prefix") {
			t.Errorf("expected turtle output, got:\n%s", data)
		}
	})

	t.Run("output file needs one ontology", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "all.ttl")
		if _, err := run(t, "export", "--base-dir", dir, "-o", target); err == nil {
			t.Error("expected error for multiple ontologies")
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		if _, err := run(t, "export", "--base-dir", dir, "--profile", "everything"); err == nil {
			t.Error("expected error for unknown profile")
		}
	})
}

func TestBenchCommand(t *testing.T) {
	dir := fixtureDir(t)

	out, err := run(t, "bench", "--base-dir", dir, "-n", "2")
	if err != nil {
		t.Fatalf("bench: %v", err)
	}
	if !strings.Contains(out, "plain") || !strings.Contains(out, "concurrent") {
		t.Errorf("expected both modes:\n%s", out)
	}

	if _, err := run(t, "bench", "--base-dir", dir, "-n", "0"); err == nil {
		t.Error("expected error for zero iterations")
	}
}

func TestVocabCommand(t *testing.T) {
	out, err := run(t, "vocab", "--type", "class")
	if err != nil {
		t.Fatalf("vocab: %v", err)
	}
	if !strings.Contains(out, "owl:Thing") || strings.Contains(out, "rdfs:label") {
		t.Errorf("unexpected vocab output:\n%s", out)
	}

	out, err = run(t, "vocab", "predicates")
	if err != nil {
		t.Fatalf("vocab predicates: %v", err)
	}
	if !strings.Contains(out, "owl.axiom.subclassof") {
		t.Errorf("missing predicate:\n%s", out)
	}

	if _, err := run(t, "vocab", "--type", "widget"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestSnapshotCommand_RequiresNATS(t *testing.T) {
	_, err := run(t, "snapshot", "list")
	if err == nil || !strings.Contains(err.Error(), "NATS is not configured") {
		t.Errorf("expected NATS configuration error, got %v", err)
	}
}

func TestNewApp(t *testing.T) {
	dir := fixtureDir(t)
	cfg := config.DefaultConfig()
	cfg.Loader.BaseDir = dir
	cfg.Manager.Mode = "plain"

	app, err := NewApp(cfg, nil)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	if app.Manager().Mode() != ontology.ModePlain {
		t.Errorf("expected plain manager, got %s", app.Manager().Mode())
	}

	locators, err := app.Locators(nil)
	if err != nil {
		t.Fatalf("Locators: %v", err)
	}
	if len(locators) != 2 {
		t.Fatalf("expected 2 locators, got %v", locators)
	}
	for _, l := range locators {
		if !filepath.IsAbs(l) {
			t.Errorf("expected absolute locator, got %s", l)
		}
	}

	onts, err := app.LoadAll(t.Context(), nil)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(onts) != 2 {
		t.Errorf("expected 2 ontologies, got %d", len(onts))
	}

	families, err := app.registry.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "semonto_manager_ontologies_created_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected manager metrics in the registry")
	}
}
