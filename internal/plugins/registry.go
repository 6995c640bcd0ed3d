package plugins

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/auth"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/logging"
)

// DefaultLoadTimeout bounds a single plugin load. A plugin that hangs the
// interpreter is rejected instead of stalling dispatch.
const DefaultLoadTimeout = 5 * time.Second

// Registry builds the plugin part of the process-wide command table from a
// scan of the plugin directory. Loading is sequential and deterministic:
// candidates are visited in lexicographic file-name order, and within a
// plugin commands register in name order.
type Registry struct {
	dir           string
	timeout       time.Duration
	log           logging.Logger
	allowedExempt map[string]struct{}

	descriptors []*Descriptor
	commands    map[string]*Command
	order       []string
}

// NewRegistry creates a registry for the given plugin directory.
// allowedExempt is the host-controlled list of command names that may opt
// out of authentication; a plugin marking any other command exempt is
// overridden, not trusted.
func NewRegistry(dir string, timeout time.Duration, log logging.Logger, allowedExempt []string) *Registry {
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	exempt := make(map[string]struct{}, len(allowedExempt))
	for _, name := range allowedExempt {
		exempt[name] = struct{}{}
	}
	return &Registry{
		dir:           dir,
		timeout:       timeout,
		log:           log,
		allowedExempt: exempt,
		commands:      map[string]*Command{},
	}
}

// Scan walks the plugin directory and loads every *.lua candidate. builtins
// is the set of names plugins may never shadow. Scan only fails when the
// directory exists but cannot be read; individual plugin failures are
// recorded on their descriptors and logged as warnings.
func (r *Registry) Scan(ctx context.Context, builtins map[string]struct{}) error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read plugin dir: %w", err)
	}

	// os.ReadDir sorts by file name, which fixes registration order.
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		r.loadCandidate(ctx, entry.Name(), builtins)
	}
	return nil
}

func (r *Registry) loadCandidate(ctx context.Context, fileName string, builtins map[string]struct{}) {
	desc := &Descriptor{
		Name:   strings.TrimSuffix(fileName, ".lua"),
		Path:   filepath.Join(r.dir, fileName),
		Status: StatusDiscovered,
	}
	r.descriptors = append(r.descriptors, desc)

	plugin, err := LoadLuaPlugin(desc.Path, r.timeout)
	if err != nil {
		desc.Status = StatusRejected
		desc.Reason = err.Error()
		r.log.Warn(ctx, "plugin rejected", "plugin", desc.Name, "reason", desc.Reason)
		return
	}

	desc.Status = StatusValidated
	for _, cmd := range plugin.commands {
		desc.Commands = append(desc.Commands, cmd.name)
	}

	var collisions []string
	for _, cmd := range plugin.commands {
		if _, ok := builtins[cmd.name]; ok {
			collisions = append(collisions, cmd.name+" (built-in)")
			r.log.Warn(ctx, "plugin command shadows a built-in, skipped",
				"plugin", desc.Name, "command", cmd.name)
			continue
		}
		if earlier, ok := r.commands[cmd.name]; ok {
			collisions = append(collisions, cmd.name+" (plugin "+earlier.Plugin+")")
			r.log.Warn(ctx, "plugin command already registered by an earlier plugin, skipped",
				"plugin", desc.Name, "command", cmd.name, "registered_by", earlier.Plugin)
			continue
		}

		exempt := cmd.exempt
		if exempt {
			if _, ok := r.allowedExempt[cmd.name]; !ok {
				exempt = false
				r.log.Warn(ctx, "plugin requested exemption not on the host allow-list, command stays gated",
					"plugin", desc.Name, "command", cmd.name)
			}
		}

		name := cmd.name
		r.commands[name] = &Command{
			Name:   name,
			Help:   cmd.help,
			Exempt: exempt,
			Plugin: desc.Name,
			Run: func(ctx context.Context, identity *auth.Identity, args []string) (int, string, error) {
				return plugin.run(ctx, name, identity, args)
			},
		}
		r.order = append(r.order, name)
		desc.Registered = append(desc.Registered, name)
	}

	if len(desc.Registered) > 0 {
		desc.Status = StatusRegistered
	} else if len(collisions) > 0 {
		desc.Status = StatusRejected
		desc.Reason = "all commands collide: " + strings.Join(collisions, ", ")
	}
}

// Commands returns the registered plugin commands in registration order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// Descriptors returns every scanned candidate, in scan order, for the
// diagnostic listing.
func (r *Registry) Descriptors() []*Descriptor {
	return r.descriptors
}

// Rejected returns the descriptors that did not register, sorted by name.
func (r *Registry) Rejected() []*Descriptor {
	var out []*Descriptor
	for _, d := range r.descriptors {
		if d.Status == StatusRejected {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
