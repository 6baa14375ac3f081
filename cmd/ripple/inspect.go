package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ripple-dev/ripple/internal/scenario"
	"github.com/ripple-dev/ripple/pkg/inspect"
	"github.com/ripple-dev/ripple/pkg/ripple"
)

func inspectCmd() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve runtime counters over HTTP",
		Long: `Run a demo reactive graph and serve its counters: /stats for a JSON
snapshot, /metrics for Prometheus, /live for a WebSocket stream. The
graph keeps propagating in the background so the counters move.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := scenario.Default()
			if configPath != "" {
				loaded, err := scenario.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			rt := ripple.New()
			g, err := scenario.Build(rt, cfg.Scenarios[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			// The graph stays on this goroutine; the server only reads
			// Stats.
			go func() {
				ticker := time.NewTicker(100 * time.Millisecond)
				defer ticker.Stop()
				for i := 0; ; i++ {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						g.Mutate(i)
					}
				}
			}()

			srv := inspect.NewServer(rt, &inspect.Config{
				Address: addr,
				Logger:  slog.Default(),
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":6390", "Listen address")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Scenario YAML file for the demo graph")

	return cmd
}
