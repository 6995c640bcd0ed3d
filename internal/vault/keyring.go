package vault

import (
	"errors"
	"fmt"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/common"

	"github.com/zalando/go-keyring"
)

// ServiceName is the service under which all CLI Buddy entries are filed in
// the OS credential store.
const ServiceName = "clibuddy"

// KeyringVault stores secrets in the operating system's credential store
// (Keychain on macOS, Secret Service/kwallet on Linux, Credential Manager on
// Windows) via the go-keyring library.
type KeyringVault struct {
	service string
}

// NewKeyringVault returns a vault filing entries under ServiceName.
func NewKeyringVault() *KeyringVault {
	return &KeyringVault{service: ServiceName}
}

func (v *KeyringVault) Put(key, secret string) error {
	if err := keyring.Set(v.service, key, secret); err != nil {
		return fmt.Errorf("keyring set: %w: %w", common.ErrVaultUnavailable, err)
	}
	return nil
}

func (v *KeyringVault) Get(key string) (string, bool, error) {
	secret, err := keyring.Get(v.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("keyring get: %w: %w", common.ErrVaultUnavailable, err)
	}
	return secret, true, nil
}

func (v *KeyringVault) Delete(key string) error {
	if err := keyring.Delete(v.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("keyring delete: %w: %w", common.ErrVaultUnavailable, err)
	}
	return nil
}
