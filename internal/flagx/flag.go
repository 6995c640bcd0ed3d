// Package flagx contains helpers for cooperative command-line flag parsing:
// several components can each parse only the flags they own without tripping
// over flags defined elsewhere (cobra's, or another component's).
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args that belongs to the allowed flags,
// including their values.
//
// Supported forms:
//  1. flag and value as separate arguments:  -c conf.json
//  2. flag and value combined with '=':      --config=conf.json
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			// a following non-flag argument is this flag's value
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// StripArgs is the counterpart of FilterArgs: it returns args with the
// named flags removed so the remainder can be handed to another parser.
// valueFlags consume a following argument as their value; boolFlags do not.
// Both accept the combined "-flag=value" form.
func StripArgs(args []string, valueFlags, boolFlags []string) []string {
	value := make(map[string]struct{}, len(valueFlags))
	for _, f := range valueFlags {
		value[f] = struct{}{}
	}
	boolean := make(map[string]struct{}, len(boolFlags))
	for _, f := range boolFlags {
		boolean[f] = struct{}{}
	}

	stripped := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := value[name]; ok {
				continue
			}
			if _, ok := boolean[name]; ok {
				continue
			}
			stripped = append(stripped, arg)
			continue
		}

		if _, ok := value[arg]; ok {
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}
		if _, ok := boolean[arg]; ok {
			continue
		}

		stripped = append(stripped, arg)
	}

	return stripped
}

// JSONConfigPath extracts the config file path given via -c or -config.
// Only those flags are parsed; everything else in os.Args is ignored, so the
// call is safe regardless of what other flags the process defines. Returns
// an empty string when neither flag is present.
func JSONConfigPath() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config", "--config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "path to config file")
	fs.StringVar(&config, "c", "", "path to config file (short)")
	_ = fs.Parse(args)

	return config
}
