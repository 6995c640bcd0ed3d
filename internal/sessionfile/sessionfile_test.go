package sessionfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	f := New(path)

	h, err := f.Read()
	require.NoError(t, err)
	assert.Nil(t, h, "missing file should read as no session")

	require.NoError(t, f.Write(&Handle{SessionID: 7, Username: "alice"}))

	h, err = f.Read()
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, int64(7), h.SessionID)
	assert.Equal(t, "alice", h.Username)

	require.NoError(t, f.Clear())
	require.NoError(t, f.Clear()) // idempotent

	h, err = f.Read()
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestWrite_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	f := New(path)
	require.NoError(t, f.Write(&Handle{SessionID: 1, Username: "alice"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRead_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := New(path).Read()
	assert.Error(t, err)
}
