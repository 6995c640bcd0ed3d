package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) newLogoutCmd() *cobra.Command {
	return exemptCmd(&cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.session.Read()
			if err != nil {
				return err
			}
			if h == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}

			// Logout is idempotent: a session that is already gone, expired,
			// or half torn down still logs out cleanly.
			if err := a.gate.Logout(cmd.Context(), h.SessionID); err != nil {
				return err
			}
			if err := a.session.Clear(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	})
}
