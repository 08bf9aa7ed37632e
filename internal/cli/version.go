package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/flo/internal/ir"
)

// version is the toolchain version; release builds override it with
// -ldflags "-X github.com/roach88/flo/internal/cli.version=...".
var version = ir.Version

// VersionInfo is the JSON payload of the version command.
type VersionInfo struct {
	Version   string `json:"version"`
	IRVersion string `json:"ir_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print version information",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{Version: version, IRVersion: ir.IRVersion}
			if rootOpts.Format == "json" {
				return rootOpts.formatter(cmd).Success(info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "flo %s (ir v%s)\n", info.Version, info.IRVersion)
			return nil
		},
	}
}
