package export_test

import (
	"strings"
	"testing"

	"github.com/c360studio/semonto/export"
)

func TestGetProfileConfig(t *testing.T) {
	tests := []struct {
		profile         export.Profile
		wantAnnotations bool
		wantReified     bool
	}{
		{export.ProfileFull, true, true},
		{export.ProfileLogical, false, false},
		{export.ProfileSignature, false, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.profile), func(t *testing.T) {
			config, ok := export.GetProfileConfig(tc.profile)
			if !ok {
				t.Fatalf("profile %s not registered", tc.profile)
			}
			if config.IncludeAnnotations != tc.wantAnnotations {
				t.Errorf("IncludeAnnotations = %v, want %v", config.IncludeAnnotations, tc.wantAnnotations)
			}
			if config.IncludeAxiomAnnotations != tc.wantReified {
				t.Errorf("IncludeAxiomAnnotations = %v, want %v", config.IncludeAxiomAnnotations, tc.wantReified)
			}
		})
	}

	if _, ok := export.GetProfileConfig("unknown"); ok {
		t.Error("unknown profile should not be found")
	}
}

func TestListProfiles(t *testing.T) {
	profiles := export.ListProfiles()
	if len(profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(profiles))
	}
	if profiles[0] != export.ProfileFull {
		t.Errorf("profiles should be sorted, got %v", profiles)
	}
}

func TestExportProfileLogical(t *testing.T) {
	output := render(t, export.FormatNTriples, export.WithProfile(export.ProfileLogical))

	if strings.Contains(output, "rdf-schema#comment") {
		t.Error("logical profile should drop annotation assertions and axiom annotations")
	}
	if strings.Contains(output, "rdf-schema#label") {
		t.Error("logical profile should drop ontology annotations")
	}
	if strings.Contains(output, "owl#Axiom") {
		t.Error("logical profile should not reify axioms")
	}
	if !strings.Contains(output, "rdf-schema#subClassOf") {
		t.Error("logical profile should keep subclass axioms")
	}
	if !strings.Contains(output, "owl#imports") {
		t.Error("logical profile should keep the imports")
	}
}

func TestExportProfileSignature(t *testing.T) {
	output := render(t, export.FormatNTriples, export.WithProfile(export.ProfileSignature))

	lines := strings.Split(strings.TrimSpace(output), "\n")
	// type, version, import, one declaration
	if len(lines) != 4 {
		t.Errorf("expected 4 triples, got %d:\n%s", len(lines), output)
	}
	if !strings.Contains(output, "<http://example.org/pizza#Pizza> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Class> .") {
		t.Error("signature profile should keep declarations")
	}
}
