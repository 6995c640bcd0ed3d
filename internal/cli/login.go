package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/common"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/sessionfile"

	"github.com/spf13/cobra"
)

func (a *App) newLoginCmd() *cobra.Command {
	return exemptCmd(&cobra.Command{
		Use:   "login [username]",
		Short: "Authenticate and start a session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var username string
			var err error
			if len(args) == 1 {
				username = args[0]
			} else {
				username, err = GetSimpleText(a.reader, "Enter username", cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}
			if username == "" {
				return errors.New("username must not be empty")
			}

			password, err := GetPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			session, err := a.gate.Login(cmd.Context(), username, password)
			if err != nil {
				if errors.Is(err, common.ErrNotAuthenticated) {
					fmt.Fprintln(cmd.OutOrStdout(), "login failed: invalid credentials")
					return &exitCodeError{code: ExitAuth}
				}
				return err
			}

			h := &sessionfile.Handle{SessionID: session.ID, Username: username}
			if err := a.session.Write(h); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (session valid until %s)\n",
				username, session.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	})
}
