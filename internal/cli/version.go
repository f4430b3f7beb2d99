package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/pcleckler/UmlConversion/pkg/buildinfo"
)

// versionCommand creates the version command.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printKeyValue("Version", buildinfo.Version)
			printKeyValue("Commit", buildinfo.Commit)
			printKeyValue("Built", buildinfo.Date)
			printKeyValue("Go", runtime.Version())
		},
	}
}
