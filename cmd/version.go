package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hackdook/engage/pkg/buildinfo"
)

var versionOutputJSON bool

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildinfo.Get("engage")

			if versionOutputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "engage %s\n", buildinfo.String())
			fmt.Fprintf(cmd.OutOrStdout(), "  go: %s\n", info.GoVersion)
			return nil
		},
	}

	cmd.Flags().BoolVar(&versionOutputJSON, "output-json", false, "Output as JSON")

	return cmd
}
