package main

import (
	"fmt"
	"os"

	"github.com/c360studio/semonto/config"
	"github.com/c360studio/semonto/export"
	"github.com/spf13/cobra"
)

type exportOptions struct {
	format      string
	compression string
	profile     string
	output      string
}

func exportCmd(opts *globalOptions) *cobra.Command {
	eo := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export [locator|pattern...]",
		Short: "Export ontologies as RDF",
		Long: `Load ontology documents and write them as Turtle, N-Triples or JSON-LD.

With --output the format and compression are inferred from the file name
(e.g. pizza.ttl.gz) unless given explicitly; only one ontology can be
written to a file.

Profiles: full (default), logical, signature.`,
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

			onts, err := app.LoadAll(cmd.Context(), args)
			if err != nil {
				return err
			}

			if eo.output == "" {
				for _, o := range onts {
					if err := exporter.Export(cmd.OutOrStdout(), o); err != nil {
						return fmt.Errorf("export %s: %w", o.ID(), err)
					}
				}
				return nil
			}

			if len(onts) != 1 {
				return fmt.Errorf("--output needs exactly one ontology, got %d", len(onts))
			}
			f, err := os.Create(eo.output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := exporter.Export(f, onts[0]); err != nil {
				f.Close()
				return fmt.Errorf("export %s: %w", onts[0].ID(), err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", eo.output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&eo.format, "format", "f", "", "Output format (turtle, ntriples, jsonld)")
	flags.StringVar(&eo.compression, "compression", "", "Output compression (none, gzip, zstd)")
	flags.StringVarP(&eo.profile, "profile", "p", "", "Export profile (full, logical, signature)")
	flags.StringVarP(&eo.output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

// exporter resolves flags over the file name over the config defaults.
func (eo *exportOptions) exporter(cfg *config.Config) (*export.RDFExporter, error) {
	formatName := cfg.Export.Format
	compressionName := cfg.Export.Compression
	if eo.output != "" {
		if f, c, ok := export.FormatFromFilename(eo.output); ok {
			formatName = string(f)
			compressionName = string(c)
		}
	}
	if eo.format != "" {
		formatName = eo.format
	}
	if eo.compression != "" {
		compressionName = eo.compression
	}
	profile := cfg.Export.Profile
	if eo.profile != "" {
		profile = eo.profile
	}

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	compression, err := export.ParseCompression(compressionName)
	if err != nil {
		return nil, err
	}
	return export.NewRDFExporter(format,
		export.WithProfile(export.Profile(profile)),
		export.WithCompression(compression),
	)
}
