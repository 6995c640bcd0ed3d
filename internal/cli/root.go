package cli

import (
	"context"
	"fmt"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/auth"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/common"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/plugins"

	"github.com/spf13/cobra"
)

// exemptAnnotation marks a command as runnable without authentication. The
// host sets it on the few built-ins that must work logged out and on plugin
// commands whose exemption survived the allow-list check; plugins cannot
// set it themselves.
const exemptAnnotation = "auth-exempt"

// builtinNames is the set of command names plugins may never shadow.
func builtinNames() map[string]struct{} {
	return map[string]struct{}{
		"login":      {},
		"logout":     {},
		"whoami":     {},
		"info":       {},
		"plugins":    {},
		"version":    {},
		"help":       {},
		"completion": {},
	}
}

func exemptCmd(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[exemptAnnotation] = "true"
	return cmd
}

func isExempt(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return cmd.Annotations[exemptAnnotation] == "true"
}

// buildRoot assembles the full command tree: built-ins first, then every
// plugin command the registry accepted. The authentication gate runs in
// PersistentPreRunE, so no command body executes without a validated
// identity unless the command is exempt.
func (a *App) buildRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "clibuddy",
		Short:         fmt.Sprintf("%s — a small authenticated command runner", common.AppName),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if isExempt(cmd) {
				return nil
			}
			id, err := a.requireIdentity(cmd.Context())
			if err != nil {
				return err
			}
			cmd.SetContext(auth.WithIdentity(cmd.Context(), id))
			return nil
		},
	}

	// The config layer consumes these before dispatch; they are declared
	// here only so help output lists them.
	root.PersistentFlags().StringP("config", "c", "", "path to a JSON config file")
	root.PersistentFlags().String("store", "", "path to the session store database")
	root.PersistentFlags().String("plugin-dir", "", "path to the plugin directory")
	root.PersistentFlags().Bool("no-splash", false, "skip the startup banner")

	root.AddCommand(
		a.newLoginCmd(),
		a.newLogoutCmd(),
		a.newWhoamiCmd(),
		a.newInfoCmd(),
		a.newPluginsCmd(),
		a.newVersionCmd(),
	)

	for _, pc := range a.registry.Commands() {
		root.AddCommand(a.newPluginCommand(pc))
	}

	return root
}

// requireIdentity resolves the session handle file and validates the
// session it points to. Any authentication failure clears the stale handle
// so the next invocation starts from a clean "not authenticated" state.
func (a *App) requireIdentity(ctx context.Context) (*auth.Identity, error) {
	h, err := a.session.Read()
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, common.ErrNotAuthenticated
	}

	id, err := a.gate.Validate(ctx, h.SessionID)
	if err != nil {
		if common.IsAuthError(err) {
			if clearErr := a.session.Clear(); clearErr != nil {
				a.log.Warn(ctx, "clearing stale session file failed", "error", clearErr)
			}
		}
		return nil, err
	}
	return id, nil
}

// newPluginCommand bridges one registered plugin command into cobra. Flag
// parsing is disabled so the plugin receives its arguments untouched; a
// nonzero handler exit status becomes the process exit code.
func (a *App) newPluginCommand(pc *plugins.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:                pc.Name,
		Short:              pc.Help,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := auth.IdentityFromContext(cmd.Context())

			code, output, err := pc.Run(cmd.Context(), id, args)
			if output != "" {
				fmt.Fprintln(cmd.OutOrStdout(), output)
			}
			if err != nil {
				return fmt.Errorf("plugin %s: %w", pc.Plugin, err)
			}
			if code != 0 {
				return &exitCodeError{code: code}
			}
			return nil
		},
	}
	if pc.Exempt {
		exemptCmd(cmd)
	}
	return cmd
}
