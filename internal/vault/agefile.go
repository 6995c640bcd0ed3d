package vault

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/common"

	"filippo.io/age"
)

const identityFileName = "identity.key"

// AgeFileVault is the fallback backend for hosts without a usable OS
// credential store. Each secret is an age-encrypted file under dir, named by
// the SHA-256 of its key so arbitrary keys stay filesystem-safe. A single
// X25519 identity, generated on first use and kept next to the secrets with
// 0600 permissions, encrypts and decrypts all entries.
type AgeFileVault struct {
	dir      string
	identity *age.X25519Identity
}

// NewAgeFileVault opens (creating if necessary) the vault directory and its
// identity.
func NewAgeFileVault(dir string) (*AgeFileVault, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("vault dir: %w: %w", common.ErrVaultUnavailable, err)
	}

	identity, err := loadOrCreateIdentity(filepath.Join(dir, identityFileName))
	if err != nil {
		return nil, err
	}

	return &AgeFileVault{dir: dir, identity: identity}, nil
}

func loadOrCreateIdentity(path string) (*age.X25519Identity, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		identity, parseErr := age.ParseX25519Identity(strings.TrimSpace(string(data)))
		if parseErr != nil {
			return nil, fmt.Errorf("vault identity: %w: %w", common.ErrVaultUnavailable, parseErr)
		}
		return identity, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("vault identity: %w: %w", common.ErrVaultUnavailable, err)
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generate vault identity: %w: %w", common.ErrVaultUnavailable, err)
	}
	if err := os.WriteFile(path, []byte(identity.String()+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("write vault identity: %w: %w", common.ErrVaultUnavailable, err)
	}
	return identity, nil
}

func (v *AgeFileVault) entryPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(v.dir, hex.EncodeToString(sum[:])+".age")
}

func (v *AgeFileVault) Put(key, secret string) error {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, v.identity.Recipient())
	if err != nil {
		return fmt.Errorf("vault encrypt: %w: %w", common.ErrVaultUnavailable, err)
	}
	if _, err := io.WriteString(w, secret); err != nil {
		return fmt.Errorf("vault encrypt: %w: %w", common.ErrVaultUnavailable, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("vault encrypt: %w: %w", common.ErrVaultUnavailable, err)
	}

	if err := os.WriteFile(v.entryPath(key), buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("vault write: %w: %w", common.ErrVaultUnavailable, err)
	}
	return nil
}

func (v *AgeFileVault) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(v.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("vault read: %w: %w", common.ErrVaultUnavailable, err)
	}

	r, err := age.Decrypt(bytes.NewReader(data), v.identity)
	if err != nil {
		return "", false, fmt.Errorf("vault decrypt: %w: %w", common.ErrVaultUnavailable, err)
	}
	secret, err := io.ReadAll(r)
	if err != nil {
		return "", false, fmt.Errorf("vault decrypt: %w: %w", common.ErrVaultUnavailable, err)
	}
	return string(secret), true, nil
}

func (v *AgeFileVault) Delete(key string) error {
	if err := os.Remove(v.entryPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("vault delete: %w: %w", common.ErrVaultUnavailable, err)
	}
	return nil
}
