// Package cli is the command surface of the tool: cobra dispatch, the
// authentication gate in front of every protected command, and the bridge
// that turns registered plugin commands into cobra commands.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/auth"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/banner"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/common"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/config"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/logging"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/plugins"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/sessionfile"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/store"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/vault"
)

// Process exit codes. Authentication failures are distinguished from
// ordinary command failures so scripts can tell "log in again" apart from
// "the command did not work".
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitAuth    = 2
)

// exitCodeError carries a specific process exit code out of a cobra RunE.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return "exit status " + strconv.Itoa(e.code)
}

// App owns everything a single CLI invocation needs: the open store, the
// vault, the gatekeeper, the plugin registry, and the session handle file.
type App struct {
	cfg      *config.Config
	log      logging.Logger
	db       *sql.DB
	vault    vault.Vault
	gate     *auth.Gatekeeper
	registry *plugins.Registry
	session  *sessionfile.File

	reader *bufio.Reader
	out    io.Writer
	errOut io.Writer

	scanned bool
}

// NewApp opens the store, selects the vault backend, and wires the
// gatekeeper and plugin registry from the resolved configuration.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := store.Open(ctx, cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	v, err := newVault(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	gate := auth.NewGatekeeper(db, v, log, auth.Options{
		SessionTTL:    cfg.SessionTTL,
		BootstrapUser: cfg.BootstrapUser,
	})

	registry := plugins.NewRegistry(cfg.PluginDir, cfg.PluginLoadTimeout, log, cfg.ExemptCommands)

	return &App{
		cfg:      cfg,
		log:      log,
		db:       db,
		vault:    v,
		gate:     gate,
		registry: registry,
		session:  sessionfile.New(cfg.SessionFile),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		errOut:   os.Stderr,
	}, nil
}

func newVault(cfg *config.Config) (vault.Vault, error) {
	switch cfg.VaultBackend {
	case config.VaultKeyring:
		return vault.NewKeyringVault(), nil
	case config.VaultFile:
		return vault.NewAgeFileVault(cfg.VaultDir)
	default:
		return nil, fmt.Errorf("unknown vault backend %q", cfg.VaultBackend)
	}
}

// Close releases the store connection.
func (a *App) Close() error {
	return a.db.Close()
}

// Run scans the plugin directory, builds the command tree, and dispatches
// args. The returned value is the process exit code. Plugin load failures
// are warnings on the error stream; they never become the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if !a.cfg.NoSplash {
		banner.Render(a.out)
	}

	if !a.scanned {
		a.scanned = true
		if err := a.registry.Scan(ctx, builtinNames()); err != nil {
			fmt.Fprintf(a.errOut, "warning: plugin scan failed: %v\n", err)
		}
		for _, d := range a.registry.Rejected() {
			fmt.Fprintf(a.errOut, "warning: plugin %q rejected: %s\n", d.Name, d.Reason)
		}
	}

	root := a.buildRoot()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		var ec *exitCodeError
		if errors.As(err, &ec) {
			return ec.code
		}
		fmt.Fprintf(a.errOut, "error: %v\n", err)
		if common.IsAuthError(err) {
			return ExitAuth
		}
		return ExitFailure
	}
	return ExitOK
}
