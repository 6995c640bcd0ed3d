package config

import (
	"flag"
	"os"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/flagx"
)

// OwnedFlags lists the global flags consumed by the config layer, split by
// whether the flag takes a value. Callers handing the remaining arguments to
// another parser strip these first with flagx.StripArgs.
func OwnedFlags() (valueFlags, boolFlags []string) {
	valueFlags = []string{
		"-c", "-config", "--config",
		"-store", "--store",
		"-plugin-dir", "--plugin-dir",
	}
	boolFlags = []string{"-no-splash", "--no-splash"}
	return valueFlags, boolFlags
}

// parseFlags overlays cfg with the global flags the config layer owns.
// os.Args is filtered down to exactly these flags first, so cobra's command
// flags and the -c/-config flag pass through untouched. The same names are
// declared on the cobra root for help output; the values applied here win
// because this runs before dispatch.
//
//	-store string        path to the session store database
//	-plugin-dir string   path to the plugin directory
//	-no-splash           skip the startup banner
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-store", "--store",
		"-plugin-dir", "--plugin-dir",
		"-no-splash", "--no-splash",
	})

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&cfg.StorePath, "store", cfg.StorePath, "path to the session store database")
	fs.StringVar(&cfg.PluginDir, "plugin-dir", cfg.PluginDir, "path to the plugin directory")
	fs.BoolVar(&cfg.NoSplash, "no-splash", cfg.NoSplash, "skip the startup banner")

	return fs.Parse(args)
}
