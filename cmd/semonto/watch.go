package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/c360studio/semonto/graph"
	"github.com/c360studio/semonto/watch"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func watchCmd(opts *globalOptions) *cobra.Command {
	var (
		metricsAddr string
		publish     bool
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Keep a manager in sync with ontology documents on disk",
		Long: `Load every document under dir matching the include patterns, then
reload documents as they change. Deleted documents remove their ontology.

With --publish, applied changes are published to the graph ingest subject.
With --metrics-addr, Prometheus metrics are served on /metrics.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			root := app.cfg.Watch.Root
			if len(args) == 1 {
				root = args[0]
			}
			if root == "" {
				root = app.cfg.Loader.BaseDir
			}
			if metricsAddr == "" {
				metricsAddr = app.cfg.Metrics.Addr
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if publish {
				p, err := app.Publisher(ctx)
				if err != nil {
					return err
				}
				app.Manager().AddChangeListener(graph.Listener(ctx, p))
			}

			if metricsAddr != "" {
				stop := app.serveMetrics(metricsAddr)
				defer stop()
			}

			w, err := watch.NewWatcher(watch.Config{
				Root:          root,
				Include:       app.cfg.Loader.Include,
				DebounceDelay: app.cfg.Watch.Debounce,
				Logger:        app.logger,
			}, app.Manager(), app.loader)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}

			out := cmd.OutOrStdout()
			initial, err := w.LoadAll(ctx)
			if err != nil {
				return err
			}
			for _, e := range initial {
				printEvent(out, e)
			}

			if err := w.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer w.Stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (%d ontologies loaded)\n", root, len(app.Manager().Ontologies()))
			for {
				select {
				case <-ctx.Done():
					return nil
				case e, ok := <-w.Events():
					if !ok {
						return nil
					}
					printEvent(out, e)
				}
			}
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish changes to the graph ingest subject")
	return cmd
}

func printEvent(w io.Writer, e watch.Event) {
	if e.Error != nil {
		fmt.Fprintf(w, "%-7s %s: %v\n", e.Operation, e.Path, e.Error)
		return
	}
	if e.Operation == watch.OpDelete {
		fmt.Fprintf(w, "%-7s %s %s\n", e.Operation, e.Path, e.ID)
		return
	}
	fmt.Fprintf(w, "%-7s %s %s (%d axioms)\n", e.Operation, e.Path, e.ID, e.Axioms)
}

// serveMetrics serves the app registry on /metrics until the returned
// function is called.
func (a *App) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
