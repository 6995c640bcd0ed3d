package plugins

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/auth"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlugin(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
}

func newRegistry(t *testing.T, dir string, allowedExempt []string) *Registry {
	t.Helper()
	log := logging.NewTextLogger(io.Discard, slog.LevelError)
	return NewRegistry(dir, time.Second, log, allowedExempt)
}

func scan(t *testing.T, r *Registry, builtins ...string) {
	t.Helper()
	set := make(map[string]struct{}, len(builtins))
	for _, b := range builtins {
		set[b] = struct{}{}
	}
	require.NoError(t, r.Scan(context.Background(), set))
}

const greetPlugin = `
return {
    greet = function(identity, args)
        if identity == nil then
            return 0, "hello, stranger"
        end
        return 0, "hello, " .. identity.username
    end,
}
`

func TestScan_WellFormedPlugin(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "greet.lua", greetPlugin)

	r := newRegistry(t, dir, nil)
	scan(t, r)

	cmds := r.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "greet", cmds[0].Name)
	assert.Equal(t, "greet", cmds[0].Plugin)
	assert.False(t, cmds[0].Exempt)

	descs := r.Descriptors()
	require.Len(t, descs, 1)
	assert.Equal(t, StatusRegistered, descs[0].Status)
	assert.Equal(t, []string{"greet"}, descs[0].Registered)
}

func TestScan_HandlerReceivesIdentityAndArgs(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "echo.lua", `
return {
    echo = function(identity, args)
        return #args, identity.username .. ":" .. (args[1] or "")
    end,
}
`)

	r := newRegistry(t, dir, nil)
	scan(t, r)

	cmds := r.Commands()
	require.Len(t, cmds, 1)

	id := &auth.Identity{UserID: 1, Username: "alice", SessionID: 2}
	code, out, err := cmds[0].Run(context.Background(), id, []string{"hi", "there"})
	require.NoError(t, err)
	assert.Equal(t, 2, code)
	assert.Equal(t, "alice:hi", out)
}

func TestScan_BrokenPluginDoesNotAbortScan(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "broken.lua", `error("import-time explosion")`)
	writePlugin(t, dir, "greet.lua", greetPlugin)

	r := newRegistry(t, dir, nil)
	scan(t, r)

	cmds := r.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "greet", cmds[0].Name)

	descs := r.Descriptors()
	require.Len(t, descs, 2)
	assert.Equal(t, "broken", descs[0].Name)
	assert.Equal(t, StatusRejected, descs[0].Status)
	assert.Contains(t, descs[0].Reason, "import-time explosion")
	assert.Equal(t, StatusRegistered, descs[1].Status)
}

func TestScan_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"not a table":        `return 42`,
		"no return":          `local x = 1`,
		"numeric key":        `return { [1] = function() end }`,
		"non-function value": `return { greet = "hello" }`,
		"table without run":  `return { greet = { help = "hi" } }`,
		"bad command name":   `return { ["has space"] = function() end }`,
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writePlugin(t, dir, "bad.lua", src)

			r := newRegistry(t, dir, nil)
			scan(t, r)

			assert.Empty(t, r.Commands())
			descs := r.Descriptors()
			require.Len(t, descs, 1)
			assert.Equal(t, StatusRejected, descs[0].Status)
			assert.NotEmpty(t, descs[0].Reason)
		})
	}
}

func TestScan_BuiltinCollisionRejected(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "shadow.lua", `
return {
    whoami = function() return 0, "fake" end,
    extra = function() return 0, "fine" end,
}
`)

	r := newRegistry(t, dir, nil)
	scan(t, r, "whoami", "login")

	cmds := r.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "extra", cmds[0].Name)

	descs := r.Descriptors()
	require.Len(t, descs, 1)
	assert.Equal(t, StatusRegistered, descs[0].Status)
	assert.Equal(t, []string{"extra", "whoami"}, descs[0].Commands)
	assert.Equal(t, []string{"extra"}, descs[0].Registered)
}

func TestScan_AllCommandsCollideRejectsDescriptor(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "shadow.lua", `return { whoami = function() end }`)

	r := newRegistry(t, dir, nil)
	scan(t, r, "whoami")

	assert.Empty(t, r.Commands())
	descs := r.Descriptors()
	require.Len(t, descs, 1)
	assert.Equal(t, StatusRejected, descs[0].Status)
	assert.Contains(t, descs[0].Reason, "built-in")
}

func TestScan_EarlierPluginWinsCollision(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "aaa.lua", `return { dup = function() return 0, "from aaa" end }`)
	writePlugin(t, dir, "bbb.lua", `return { dup = function() return 0, "from bbb" end }`)

	r := newRegistry(t, dir, nil)
	scan(t, r)

	cmds := r.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "aaa", cmds[0].Plugin)

	_, out, err := cmds[0].Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "from aaa", out)
}

func TestScan_ExemptionRequiresHostAllowList(t *testing.T) {
	src := `
return {
    status = { run = function() return 0, "ok" end, exempt = true },
}
`
	t.Run("not allow-listed", func(t *testing.T) {
		dir := t.TempDir()
		writePlugin(t, dir, "p.lua", src)
		r := newRegistry(t, dir, nil)
		scan(t, r)

		cmds := r.Commands()
		require.Len(t, cmds, 1)
		assert.False(t, cmds[0].Exempt, "exemption must not be honored without the host allow-list")
	})

	t.Run("allow-listed", func(t *testing.T) {
		dir := t.TempDir()
		writePlugin(t, dir, "p.lua", src)
		r := newRegistry(t, dir, []string{"status"})
		scan(t, r)

		cmds := r.Commands()
		require.Len(t, cmds, 1)
		assert.True(t, cmds[0].Exempt)
	})
}

func TestScan_CommandMetadata(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "p.lua", `
return {
    hello = { run = function() return 0 end, help = "says hello" },
}
`)

	r := newRegistry(t, dir, nil)
	scan(t, r)

	cmds := r.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "says hello", cmds[0].Help)
}

func TestScan_MissingDirectoryIsEmptyRegistry(t *testing.T) {
	r := newRegistry(t, filepath.Join(t.TempDir(), "nope"), nil)
	scan(t, r)
	assert.Empty(t, r.Commands())
	assert.Empty(t, r.Descriptors())
}

func TestScan_IgnoresNonLuaFiles(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "README.txt", "not a plugin")
	writePlugin(t, dir, "greet.lua", greetPlugin)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub.lua"), 0o755))

	r := newRegistry(t, dir, nil)
	scan(t, r)

	require.Len(t, r.Descriptors(), 1)
	assert.Equal(t, "greet", r.Descriptors()[0].Name)
}

func TestScan_HangingLoadTimesOut(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "spin.lua", `while true do end`)

	log := logging.NewTextLogger(io.Discard, slog.LevelError)
	r := NewRegistry(dir, 100*time.Millisecond, log, nil)
	scan(t, r)

	descs := r.Descriptors()
	require.Len(t, descs, 1)
	assert.Equal(t, StatusRejected, descs[0].Status)
	assert.Contains(t, descs[0].Reason, "exceeded")
}

func TestRejected_Listing(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "zz-bad.lua", `return 1`)
	writePlugin(t, dir, "aa-bad.lua", `error("nope")`)
	writePlugin(t, dir, "ok.lua", greetPlugin)

	r := newRegistry(t, dir, nil)
	scan(t, r)

	rejected := r.Rejected()
	require.Len(t, rejected, 2)
	assert.Equal(t, "aa-bad", rejected[0].Name)
	assert.Equal(t, "zz-bad", rejected[1].Name)
}

func TestRun_ErrorInsideHandler(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "p.lua", `return { boom = function() error("at runtime") end }`)

	r := newRegistry(t, dir, nil)
	scan(t, r)

	cmds := r.Commands()
	require.Len(t, cmds, 1)

	code, _, err := cmds[0].Run(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, err.Error(), "at runtime")
}

func TestRun_DefaultExitCodeZero(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "p.lua", `return { quiet = function() end }`)

	r := newRegistry(t, dir, nil)
	scan(t, r)

	code, out, err := r.Commands()[0].Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, code)
	assert.Empty(t, out)
}
