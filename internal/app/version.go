package app

import (
	"fmt"

	"github.com/blackwell-systems/cratecheck/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
