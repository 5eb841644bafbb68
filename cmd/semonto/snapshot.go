package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/c360studio/semonto/ontology"
	"github.com/spf13/cobra"
)

func snapshotCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage ontology snapshots in NATS KV",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "save [locator|pattern...]",
			Short: "Load documents and store a snapshot of each ontology",
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := opts.newApp()
				if err != nil {
					return err
				}
				defer app.Close()

				store, err := app.Store(cmd.Context())
				if err != nil {
					return err
				}
				onts, err := app.LoadAll(cmd.Context(), args)
				if err != nil {
					return err
				}
				for _, o := range onts {
					snap, err := store.Save(cmd.Context(), o)
					if err != nil {
						return fmt.Errorf("save %s: %w", o.ID(), err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\trevision %d\n", snap.Key, o.ID(), snap.Revision)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored snapshots",
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := opts.newApp()
				if err != nil {
					return err
				}
				defer app.Close()

				store, err := app.Store(cmd.Context())
				if err != nil {
					return err
				}
				snaps, err := store.List(cmd.Context())
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "KEY\tONTOLOGY\tAXIOMS\tMODE\tUPDATED")
				for _, s := range snaps {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
						s.Key, s.Document.ID, s.AxiomCount, s.Mode, s.UpdatedAt.Format(time.RFC3339))
				}
				return tw.Flush()
			},
		},
		snapshotGetCmd(opts),
		&cobra.Command{
			Use:   "delete KEY",
			Short: "Delete a snapshot",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := opts.newApp()
				if err != nil {
					return err
				}
				defer app.Close()

				store, err := app.Store(cmd.Context())
				if err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "restore KEY",
			Short: "Restore a snapshot into a manager and print its summary",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := opts.newApp()
				if err != nil {
					return err
				}
				defer app.Close()

				store, err := app.Store(cmd.Context())
				if err != nil {
					return err
				}
				o, err := store.Restore(cmd.Context(), app.Manager(), args[0])
				if err != nil {
					return err
				}
				return printSummary(cmd.OutOrStdout(), []ontology.Ontology{o}, true)
			},
		},
	)
	return cmd
}

func snapshotGetCmd(opts *globalOptions) *cobra.Command {
	eo := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Print a stored snapshot as RDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			exporter, err := eo.exporter(app.cfg)
			if err != nil {
				return err
			}
			store, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}
			snap, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "# %s snapshot %s (revision %d, %s)\n",
				snap.Key, snap.SnapshotID, snap.Revision, snap.UpdatedAt.Format(time.RFC3339))
			return exporter.ExportDocument(cmd.OutOrStdout(), snap.Document)
		},
	}

	cmd.Flags().StringVarP(&eo.format, "format", "f", "", "Output format (turtle, ntriples, jsonld)")
	cmd.Flags().StringVarP(&eo.profile, "profile", "p", "", "Export profile (full, logical, signature)")
	return cmd
}
