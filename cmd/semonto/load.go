package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/c360studio/semonto/ontology"
	"github.com/spf13/cobra"
)

func loadCmd(opts *globalOptions) *cobra.Command {
	var counts bool

	cmd := &cobra.Command{
		Use:   "load [locator|pattern...]",
		Short: "Load ontology documents and print a summary",
		Long: `Load ontology documents in parallel and print one line per ontology.

Arguments are file paths, doublestar patterns, http(s):// or s3:// locators.
Without arguments the configured include patterns are loaded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			onts, err := app.LoadAll(cmd.Context(), args)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), onts, counts)
		},
	}

	cmd.Flags().BoolVar(&counts, "counts", false, "Print axiom counts per kind")
	return cmd
}

func printSummary(w io.Writer, onts []ontology.Ontology, counts bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ONTOLOGY\tMODE\tAXIOMS\tIMPORTS\tSIGNATURE")
	for _, o := range onts {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n",
			o.ID(), o.Manager().Mode(), o.AxiomCount(), len(o.Imports()), len(o.Signature()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !counts {
		return nil
	}
	for _, o := range onts {
		fmt.Fprintf(w, "\n%s\n", o.ID())
		byKind := o.AxiomCounts()
		kinds := make([]string, 0, len(byKind))
		for k := range byKind {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(w, "  %-28s %d\n", k, byKind[ontology.AxiomKind(k)])
		}
	}
	return nil
}
