package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ripple",
		Short: "Tooling for the ripple reactive runtime",
		Long: `Ripple is a dependency-tracking change propagation runtime for Go.

State lives in reactive containers; computations record what they read
and re-run, batched and deduplicated, when it changes. This CLI bundles
the development tooling:

  • bench    build and time reactive graph scenarios
  • inspect  serve runtime counters over HTTP
  • version  print build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		benchCmd(),
		inspectCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}
