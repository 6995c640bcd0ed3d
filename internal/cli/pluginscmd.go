package cli

import (
	"fmt"
	"strings"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/plugins"

	"github.com/spf13/cobra"
)

// newPluginsCmd lists every plugin descriptor from the startup scan with
// its load outcome. It is exempt so a broken plugin can be diagnosed
// without logging in first.
func (a *App) newPluginsCmd() *cobra.Command {
	return exemptCmd(&cobra.Command{
		Use:   "plugins",
		Short: "List discovered plugins and their load status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			descriptors := a.registry.Descriptors()
			if len(descriptors) == 0 {
				fmt.Fprintln(w, "no plugins found")
				return nil
			}

			for _, d := range descriptors {
				switch d.Status {
				case plugins.StatusRegistered:
					fmt.Fprintf(w, "%-20s %-10s commands: %s\n",
						d.Name, d.Status, strings.Join(d.Registered, ", "))
				case plugins.StatusRejected:
					fmt.Fprintf(w, "%-20s %-10s %s\n", d.Name, d.Status, d.Reason)
				default:
					fmt.Fprintf(w, "%-20s %-10s\n", d.Name, d.Status)
				}
			}
			return nil
		},
	})
}
