package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nainya/proptree/internal/config"
	"github.com/nainya/proptree/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve FILE...",
		Short: "Serve the versions built from FILE... over read-only HTTP",
		Long: `Load each FILE as a version (see history) and serve them with metrics,
health and pprof endpoints:

  /tree[?version=ID&format=json|yaml|proto]   latest or selected tree
  /tree/{path}                                one property
  /versions, /versions/{id}                   version list and trees
  /versions/{from}/diff/{to}                  structural diff
  /metrics, /health, /ready, /debug/pprof/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.buildStore(args)
			if err != nil {
				return err
			}
			if latest, err := store.Latest(); err == nil {
				a.metrics.UpdateTreeStats(latest.Tree())
			}

			srv := server.NewObservabilityServer(a.cfg.Serve.Addr, store, a.metrics, a.log)

			stop := make(chan struct{})
			defer close(stop)
			if a.cfg.Serve.UptimeInterval > 0 {
				go a.metrics.RunUptime(a.cfg.Serve.UptimeInterval, stop)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.cfg.Serve.ShutdownTimeout)
			defer cancelShutdown()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return <-errCh
		},
	}
	cmd.Flags().String("addr", ":9090", "listen address")
	_ = a.v.BindPFlag(config.KeyServeAddr, cmd.Flags().Lookup("addr"))
	return cmd
}
