// Package sessionfile persists the current session handle between CLI
// invocations. The file holds the session row id and the username for
// prompts — never the token identifier and never the secret.
package sessionfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Handle is the on-disk pointer to the active session.
type Handle struct {
	SessionID int64  `json:"session_id"`
	Username  string `json:"username"`
}

// File reads and writes a session handle at a fixed path.
type File struct {
	path string
}

// New returns a File at the given path. The parent directory is created on
// the first Write.
func New(path string) *File {
	return &File{path: path}
}

// Read returns the stored handle, or (nil, nil) if no session file exists.
func (f *File) Read() (*Handle, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var h Handle
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	return &h, nil
}

// Write stores the handle with owner-only permissions.
func (f *File) Write(h *Handle) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("session dir: %w", err)
	}

	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent file succeeds.
func (f *File) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
