package cli

import (
	"fmt"
	"runtime"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/auth"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/common"

	"github.com/spf13/cobra"
)

// newInfoCmd reports tool and environment details. It is gated: the output
// includes the authenticated identity.
func (a *App) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show tool and environment details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := auth.IdentityFromContext(cmd.Context())
			if !ok {
				return common.ErrNotAuthenticated
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s v%s\n", common.AppName, common.Version)
			fmt.Fprintf(w, "User:        %s (id %d)\n", id.Username, id.UserID)
			fmt.Fprintf(w, "Session:     %d\n", id.SessionID)
			fmt.Fprintf(w, "Store:       %s\n", a.cfg.StorePath)
			fmt.Fprintf(w, "Vault:       %s\n", a.cfg.VaultBackend)
			fmt.Fprintf(w, "Plugin dir:  %s\n", a.cfg.PluginDir)
			fmt.Fprintf(w, "Session TTL: %s\n", a.cfg.SessionTTL)
			fmt.Fprintf(w, "Runtime:     %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
