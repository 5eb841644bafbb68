package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/c360studio/semonto/vocabulary/owl"
	"github.com/spf13/cobra"
)

func vocabCmd() *cobra.Command {
	var entityType string

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "List the built-in OWL vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			entities := owl.Entities()
			if entityType != "" {
				t := owl.EntityType(entityType)
				if t.DeclarationIRI() == "" {
					return fmt.Errorf("unknown entity type %q", entityType)
				}
				entities = owl.EntitiesOfType(t)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CURIE\tTYPE\tIRI")
			for _, e := range entities {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.CURIE, e.Type, e.IRI)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&entityType, "type", "t", "",
		"Entity type (class, object_property, data_property, annotation_property, datatype, named_individual)")

	cmd.AddCommand(&cobra.Command{
		Use:   "predicates",
		Short: "List the graph predicates and their RDF IRIs",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PREDICATE\tIRI")
			for _, p := range owl.Predicates() {
				fmt.Fprintf(tw, "%s\t%s\n", p, owl.PredicateIRI(p))
			}
			return tw.Flush()
		},
	})
	return cmd
}
