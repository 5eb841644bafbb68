package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand turns patterns into document locators. Remote locators and plain
// paths pass through unchanged; glob patterns, including ** for recursive
// matching, are expanded against baseDir. Duplicates are dropped and the
// pattern order is kept.
//
// Examples:
//   - "ontologies/*.onto.yaml" → ["ontologies/pizza.onto.yaml", ...]
//   - "**/*.onto.json" → every JSON document below baseDir
//   - "https://example.org/pizza.onto.yaml" → unchanged
func Expand(baseDir string, patterns []string) ([]string, error) {
	if baseDir == "" {
		baseDir = "."
	}

	var locators []string
	seen := make(map[string]bool)
	add := func(l string) {
		if !seen[l] {
			seen[l] = true
			locators = append(locators, l)
		}
	}

	for _, pattern := range patterns {
		if scheme(pattern) != "" || !containsGlob(pattern) {
			add(pattern)
			continue
		}

		matches, err := expandPattern(baseDir, pattern)
		if err != nil {
			return nil, fmt.Errorf("expand pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return locators, nil
}

func expandPattern(baseDir, pattern string) ([]string, error) {
	if filepath.IsAbs(pattern) {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		return matches, nil
	}

	matches, err := doublestar.Glob(os.DirFS(baseDir), filepath.ToSlash(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	for i, m := range matches {
		matches[i] = filepath.Join(baseDir, filepath.FromSlash(m))
	}
	return matches, nil
}

// Match reports whether path, relative to baseDir, matches any pattern.
func Match(baseDir string, patterns []string, path string) bool {
	rel := path
	if filepath.IsAbs(path) && baseDir != "" {
		if r, err := filepath.Rel(baseDir, path); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(filepath.ToSlash(pattern), rel); ok {
			return true
		}
	}
	return false
}

func containsGlob(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
