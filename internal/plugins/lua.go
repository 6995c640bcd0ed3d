package plugins

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/auth"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/common"

	"github.com/Shopify/go-lua"
)

// manifestGlobal is where the validated manifest table is parked inside the
// plugin's Lua state between load and invocation.
const manifestGlobal = "__clibuddy_manifest"

var commandNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// luaCommand is one manifest entry as declared by the plugin.
type luaCommand struct {
	name   string
	help   string
	exempt bool
}

// LuaPlugin is a loaded plugin: its own Lua state plus the validated
// manifest. States are never shared between plugins, so one plugin cannot
// reach into another's globals.
type LuaPlugin struct {
	state    *lua.State
	commands []luaCommand
}

// LoadLuaPlugin runs the script at path in a fresh Lua state and validates
// the manifest it returns. The load happens behind a recoverable failure
// boundary: a script error, a panic, or exceeding the timeout all surface as
// an error here and leave the host untouched. A timed-out load is abandoned
// together with its state.
func LoadLuaPlugin(path string, timeout time.Duration) (*LuaPlugin, error) {
	type outcome struct {
		plugin *LuaPlugin
		err    error
	}

	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{nil, fmt.Errorf("%w: panic during load: %v", common.ErrPluginLoad, r)}
			}
		}()
		p, err := loadLuaPlugin(path)
		ch <- outcome{p, err}
	}()

	select {
	case res := <-ch:
		return res.plugin, res.err
	case <-time.After(timeout):
		return nil, fmt.Errorf("%w: load exceeded %s", common.ErrPluginLoad, timeout)
	}
}

func loadLuaPlugin(path string) (*LuaPlugin, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPluginLoad, err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPluginLoad, err)
	}

	if state.TypeOf(-1) != lua.TypeTable {
		state.Pop(1)
		return nil, fmt.Errorf("%w: script must return a manifest table", common.ErrPluginSchema)
	}

	commands, err := readManifest(state)
	if err != nil {
		state.Pop(1)
		return nil, err
	}
	state.SetGlobal(manifestGlobal)

	return &LuaPlugin{state: state, commands: commands}, nil
}

// readManifest validates the manifest table at the top of the stack and
// collects its commands, sorted by name for reproducible registration order.
// The table stays on the stack.
func readManifest(state *lua.State) ([]luaCommand, error) {
	idx := state.AbsIndex(-1)
	var cmds []luaCommand

	state.PushNil()
	for state.Next(idx) {
		if state.TypeOf(-2) != lua.TypeString {
			state.Pop(2)
			return nil, fmt.Errorf("%w: manifest keys must be command name strings", common.ErrPluginSchema)
		}
		name, _ := state.ToString(-2)
		if !commandNameRe.MatchString(name) {
			state.Pop(2)
			return nil, fmt.Errorf("%w: invalid command name %q", common.ErrPluginSchema, name)
		}

		cmd := luaCommand{name: name}

		switch state.TypeOf(-1) {
		case lua.TypeFunction:
			// bare handler, defaults apply
		case lua.TypeTable:
			state.Field(-1, "run")
			isFunc := state.TypeOf(-1) == lua.TypeFunction
			state.Pop(1)
			if !isFunc {
				state.Pop(2)
				return nil, fmt.Errorf("%w: command %q has no run function", common.ErrPluginSchema, name)
			}

			state.Field(-1, "help")
			if state.TypeOf(-1) == lua.TypeString {
				cmd.help, _ = state.ToString(-1)
			}
			state.Pop(1)

			state.Field(-1, "exempt")
			cmd.exempt = state.ToBoolean(-1)
			state.Pop(1)
		default:
			state.Pop(2)
			return nil, fmt.Errorf("%w: command %q must map to a function or a table", common.ErrPluginSchema, name)
		}

		cmds = append(cmds, cmd)
		state.Pop(1)
	}

	sort.Slice(cmds, func(i, j int) bool { return cmds[i].name < cmds[j].name })
	return cmds, nil
}

// run invokes a manifest command. The handler receives the identity (a table
// with user_id, username, session_id, or nil for exempt commands) and the
// argument list, and may return an exit code and an output string.
func (p *LuaPlugin) run(_ context.Context, name string, identity *auth.Identity, args []string) (int, string, error) {
	state := p.state
	defer state.SetTop(0)

	state.Global(manifestGlobal)
	state.Field(-1, name)
	if state.TypeOf(-1) == lua.TypeTable {
		state.Field(-1, "run")
	}
	if state.TypeOf(-1) != lua.TypeFunction {
		return 1, "", fmt.Errorf("command %q is missing from the plugin manifest", name)
	}

	if identity != nil {
		state.NewTable()
		state.PushInteger(int(identity.UserID))
		state.SetField(-2, "user_id")
		state.PushString(identity.Username)
		state.SetField(-2, "username")
		state.PushInteger(int(identity.SessionID))
		state.SetField(-2, "session_id")
	} else {
		state.PushNil()
	}

	state.NewTable()
	for i, arg := range args {
		state.PushString(arg)
		state.RawSetInt(-2, i+1)
	}

	if err := state.ProtectedCall(2, 2, 0); err != nil {
		return 1, "", fmt.Errorf("plugin command %q: %v", name, err)
	}

	code := 0
	if n, ok := state.ToInteger(-2); ok {
		code = n
	}
	output := ""
	if state.TypeOf(-1) == lua.TypeString {
		output, _ = state.ToString(-1)
	}
	return code, output, nil
}
