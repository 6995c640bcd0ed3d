package cli

import (
	"fmt"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/common"

	"github.com/spf13/cobra"
)

func (a *App) newWhoamiCmd() *cobra.Command {
	return exemptCmd(&cobra.Command{
		Use:   "whoami",
		Short: "Report the current authenticated identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.requireIdentity(cmd.Context())
			if err != nil {
				if common.IsAuthError(err) {
					fmt.Fprintln(cmd.OutOrStdout(), "not authenticated")
					return &exitCodeError{code: ExitAuth}
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id.Username)
			return nil
		},
	})
}
