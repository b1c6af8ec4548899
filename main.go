// Package main provides the engage CLI entry point.
// engage tallies per-participant engagement from Zoom-style session
// artifacts and serves the results over an HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hackdook/engage/cmd"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "engage",
	Short: "Zoom engagement tallying service and CLI",
	Long: `engage ingests Zoom-style session artifacts (a transcript and a chat
log) for a given week, tallies per-participant engagement, and stores the
results in PostgreSQL.

COMMON WORKFLOWS:
  Run the API server:    engage serve
  Check files offline:   engage parse --transcript t.vtt --chat c.txt
  Provision a database:  engage db set-password  →  engage db init
  Verify connectivity:   engage db ping

DISCOVERY:
  engage <command> --help   Subcommands, flags, and examples for any command`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(cmd.NewServeCommand(nil))
	rootCmd.AddCommand(cmd.NewParseCommand())
	rootCmd.AddCommand(cmd.NewDbCommand())
	rootCmd.AddCommand(cmd.NewVersionCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
