package cli

import (
	"fmt"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/common"

	"github.com/spf13/cobra"
)

func (a *App) newVersionCmd() *cobra.Command {
	return exemptCmd(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", common.AppName, common.Version)
		},
	})
}
