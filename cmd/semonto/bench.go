package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/c360studio/semonto/ontology"
	"github.com/spf13/cobra"
)

func benchCmd(opts *globalOptions) *cobra.Command {
	var iterations int

	cmd := &cobra.Command{
		Use:   "bench [locator|pattern...]",
		Short: "Compare load and read times of plain and concurrent managers",
		Long: `Read the documents once, then build them into fresh plain and
concurrent managers repeatedly and report load and full-read times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if iterations < 1 {
				return fmt.Errorf("--iterations must be at least 1")
			}

			app, err := opts.newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			docs, err := app.readDocuments(cmd.Context(), args)
			if err != nil {
				return err
			}

			var results []benchResult
			for _, mode := range []ontology.Mode{ontology.ModePlain, ontology.ModeConcurrent} {
				r, err := runBench(mode, docs, iterations)
				if err != nil {
					return err
				}
				results = append(results, r)
			}
			return printBench(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().IntVarP(&iterations, "iterations", "n", 10, "Iterations per mode")
	return cmd
}

// readDocuments loads the documents without creating ontologies.
func (a *App) readDocuments(ctx context.Context, args []string) ([]*ontology.Document, error) {
	locators, err := a.Locators(args)
	if err != nil {
		return nil, err
	}
	docs := make([]*ontology.Document, 0, len(locators))
	for _, locator := range locators {
		doc, err := a.loader.LoadDocument(ctx, locator)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

type benchResult struct {
	mode       ontology.Mode
	iterations int
	axioms     int
	load       time.Duration
	loadMin    time.Duration
	read       time.Duration
}

func runBench(mode ontology.Mode, docs []*ontology.Document, iterations int) (benchResult, error) {
	r := benchResult{mode: mode, iterations: iterations}
	for i := 0; i < iterations; i++ {
		m := ontology.NewManager(ontology.WithMode(mode))

		start := time.Now()
		onts := make([]ontology.Ontology, 0, len(docs))
		for _, doc := range docs {
			o, err := m.CreateFromDocument(doc, "bench")
			if err != nil {
				return r, err
			}
			onts = append(onts, o)
		}
		elapsed := time.Since(start)
		r.load += elapsed
		if r.loadMin == 0 || elapsed < r.loadMin {
			r.loadMin = elapsed
		}

		start = time.Now()
		axioms := 0
		for _, o := range onts {
			for range o.Axioms() {
				axioms++
			}
		}
		r.read += time.Since(start)
		r.axioms = axioms
	}
	return r, nil
}

func printBench(w io.Writer, results []benchResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tITERATIONS\tAXIOMS\tLOAD MEAN\tLOAD MIN\tREAD MEAN")
	for _, r := range results {
		n := time.Duration(r.iterations)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\n",
			r.mode, r.iterations, r.axioms, r.load/n, r.loadMin, r.read/n)
	}
	return tw.Flush()
}
