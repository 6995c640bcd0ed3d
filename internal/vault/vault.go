// Package vault adapts OS-level secure secret storage to the narrow contract
// the gatekeeper needs: put, get, delete by opaque key. Secret values must
// never be logged, printed, or persisted by anything outside this package.
package vault

// Vault is the secret storage contract. Put overwrites an existing entry.
// Get reports absence via the boolean, not an error. Delete is idempotent:
// deleting an absent key succeeds.
//
// Infrastructure failures wrap common.ErrVaultUnavailable so callers can
// distinguish them from authentication failures.
type Vault interface {
	Put(key, secret string) error
	Get(key string) (secret string, found bool, err error)
	Delete(key string) error
}
