package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/outlet/internal/config"
	"github.com/vango-dev/outlet/pkg/history"
	"github.com/vango-dev/outlet/pkg/inspect"
	"github.com/vango-dev/outlet/pkg/loop"
	"github.com/vango-dev/outlet/pkg/resolver"
	"github.com/vango-dev/outlet/pkg/route"
	"github.com/vango-dev/outlet/pkg/router"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(configPath *string) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a router behind the inspector server",
		Long: `Build a router from outlet.json and serve the inspector.

The inspector lists and matches routes, accepts navigations over
HTTP, bridges a browser's history over a websocket when history is
enabled, and exposes Prometheus metrics.

Examples:
  outlet serve
  outlet serve --port=8080
  outlet serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject(*configPath)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Inspector.Port = port
			}
			if host != "" {
				cfg.Inspector.Host = host
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from outlet.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from outlet.json)")

	return cmd
}

func runServe(cfg *config.Config) error {
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defs, err := loadRoutes(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	relay := history.NewRelay()
	rc := resolver.Config{
		Routes:     defs,
		UseHistory: cfg.History,
		UseMemory:  cfg.Memory,
		UseLocal:   cfg.Local,
		Logger:     logger,
		Metrics: resolver.NewMetrics(
			resolver.WithNamespace(cfg.Metrics.Namespace),
			resolver.WithRegistry(reg),
		),
	}
	if cfg.History {
		rc.History = relay
	}
	if cfg.Memory {
		rc.Storage = store
	}
	if cfg.Entry != "" {
		entry := route.URL(cfg.Entry)
		rc.Entry = &entry
	}

	r, err := router.New(router.Config{Config: rc})
	if err != nil {
		return err
	}
	defer r.Close()

	l := loop.New()
	opts := []inspect.Option{
		inspect.WithDispatcher(l),
		inspect.WithLogger(logger),
		inspect.WithGatherer(reg),
	}
	if cfg.History {
		opts = append(opts, inspect.WithRelay(relay))
	}

	srv := &http.Server{
		Addr:              cfg.InspectorAddress(),
		Handler:           inspect.New(r, opts...),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go l.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	fmt.Println()
	success("Inspector listening on http://%s", srv.Addr)
	info("%d routes from %s", route.MustCompile(defs).Len(), cfg.RoutesPath())
	if !cfg.History {
		warn("history is disabled; /history is not served")
	}
	if cur := r.Route(); cur != nil {
		info("current route: %s", cur.URL)
	}
	fmt.Println()

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Println("\n  Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
