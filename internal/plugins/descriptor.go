// Package plugins discovers, validates, and registers externally supplied
// Lua command plugins. A broken or hostile plugin is recorded and excluded;
// it never aborts the scan or crashes the host process.
package plugins

import (
	"context"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/auth"
)

// Status is a plugin's position in the load pipeline.
type Status string

const (
	StatusDiscovered Status = "discovered"
	StatusValidated  Status = "validated"
	StatusRejected   Status = "rejected"
	StatusRegistered Status = "registered"
)

// Descriptor is the in-memory, process-lifetime record of one plugin
// candidate. It is rebuilt on every startup scan and never persisted.
type Descriptor struct {
	// Name is derived from the source file, e.g. "greet" for greet.lua.
	Name string
	// Path is the plugin source location.
	Path string
	// Commands is the ordered list of command names the manifest exposes.
	Commands []string
	// Registered is the subset of Commands that made it into the command
	// table; collisions with built-ins or earlier plugins are excluded.
	Registered []string
	// Status is the load outcome.
	Status Status
	// Reason explains a rejection; empty otherwise.
	Reason string
}

// Handler runs a plugin command. Identity is nil only for commands the host
// allowed to be exempt from authentication. It returns the exit status and
// optional output text.
type Handler func(ctx context.Context, identity *auth.Identity, args []string) (int, string, error)

// Command is one registered plugin command.
type Command struct {
	Name   string
	Help   string
	Exempt bool
	Plugin string
	Run    Handler
}
