package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ripple-dev/ripple/internal/scenario"
	"github.com/ripple-dev/ripple/pkg/ripple"
)

func benchCmd() *cobra.Command {
	var (
		configPath string
		iterations int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Build and time reactive graph scenarios",
		Long: `Build the dependency graphs described by a scenario file (or the
built-in defaults), drive writes through them, and report propagation
latency percentiles per scenario.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := scenario.Default()
			if configPath != "" {
				loaded, err := scenario.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if iterations > 0 {
				cfg.Iterations = iterations
			}
			return runBench(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Scenario YAML file (default: built-in scenarios)")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "Override timed writes per scenario")

	return cmd
}

func runBench(cfg *scenario.Config) error {
	tbl := table.NewWriter()
	tbl.SetTitle("Ripple Propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"scenario", "writes", "reactions", "avg", "p75", "p99", "max"})

	for _, s := range cfg.Scenarios {
		rt := ripple.New()
		g, err := scenario.Build(rt, s)
		if err != nil {
			return err
		}

		// Untimed warmup settles one full propagation.
		g.Mutate(-1)
		warmup := g.Reactions

		tach := tachymeter.New(&tachymeter.Config{Size: cfg.Iterations})
		for i := 0; i < cfg.Iterations; i++ {
			start := time.Now()
			g.Mutate(i)
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRow(table.Row{
			s.Name,
			humanize.Comma(int64(cfg.Iterations)),
			humanize.Comma(int64(g.Reactions - warmup)),
			calc.Time.Avg,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		})
	}

	tbl.Render()
	fmt.Println()
	return nil
}
