// Package loader resolves ontology document locators and parses them into
// ontology.Document values for the manager.
//
// # Locators
//
// A locator is a local path, a file:// URL, an http(s):// URL or, when an
// S3 endpoint is configured, s3://bucket/key. A trailing .gz or .zst
// extension is decompressed transparently before parsing.
//
// # Documents
//
// Documents are YAML or JSON manifests, selected by extension through the
// parser Registry. CURIEs are expanded against the manifest prefixes and
// the well-known owl, rdf, rdfs and xsd prefixes.
//
// # Usage
//
//	l, err := loader.New(loader.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	m := ontology.NewManager(ontology.WithLoader(l))
//	o, err := m.LoadOntology(ctx, "ontologies/pizza.onto.yaml")
package loader
