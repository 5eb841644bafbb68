// Package main provides the semonto binary entry point.
// Semonto loads ontology documents into a concurrent ontology manager and
// exports, snapshots and watches them.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/c360studio/semonto/config"
	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semonto"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	mode       string
	baseDir    string
	natsURL    string

	// logOutput receives log records; stderr when nil.
	logOutput io.Writer
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Concurrent ontology manager",
		Long: `Semonto loads ontology documents into an ontology manager.

In concurrent mode every ontology created by a manager shares the
manager's read/write lock pair; plain mode gives each ontology private,
unsynchronized locks.

Documents are YAML or JSON manifests read from files, HTTP(S) or S3,
optionally gzip or zstd compressed.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.mode, "mode", "", "Manager mode (concurrent, plain)")
	flags.StringVar(&opts.baseDir, "base-dir", "", "Base directory for relative document locators")
	flags.StringVar(&opts.natsURL, "nats-url", "", "NATS server URL")

	cmd.AddCommand(
		loadCmd(opts),
		exportCmd(opts),
		benchCmd(opts),
		vocabCmd(),
		snapshotCmd(opts),
		watchCmd(opts),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

// newLogger configures the text handler used by every command.
func newLogger(level string, w io.Writer) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// loadConfig resolves configuration layers and applies flag overrides.
func (o *globalOptions) loadConfig(logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.NewLoader(logger).Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if o.mode != "" {
		cfg.Manager.Mode = o.mode
	}
	if o.baseDir != "" {
		cfg.Loader.BaseDir = o.baseDir
	}
	// Flag, then environment, then config file
	if o.natsURL != "" {
		cfg.NATS.URL = o.natsURL
	} else if envURL := os.Getenv("SEMONTO_NATS_URL"); envURL != "" {
		cfg.NATS.URL = envURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newApp builds the application for one command invocation.
func (o *globalOptions) newApp() (*App, error) {
	logger := newLogger(o.logLevel, o.logOutput)
	slog.SetDefault(logger)

	cfg, err := o.loadConfig(logger)
	if err != nil {
		return nil, err
	}
	return NewApp(cfg, logger)
}
