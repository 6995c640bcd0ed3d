// Package common defines shared constants and sentinel errors used across
// CLI Buddy components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("unique constraint violation")

	// Authentication errors. ErrNotAuthenticated deliberately covers unknown
	// user, inactive user, and bad password so the message cannot be used to
	// enumerate usernames.
	ErrNotAuthenticated = errors.New("authentication failed")
	ErrSessionExpired   = errors.New("session expired")
	ErrSessionRevoked   = errors.New("session revoked")
	ErrSecretMissing    = errors.New("session secret missing")
	ErrUserInactive     = errors.New("user is inactive")

	// Infrastructure errors.
	ErrStoreUnavailable = errors.New("session store unavailable")
	ErrVaultUnavailable = errors.New("secret vault unavailable")

	// Plugin errors, recorded per descriptor, never fatal.
	ErrPluginLoad   = errors.New("plugin load error")
	ErrPluginSchema = errors.New("plugin manifest schema error")
)

// IsAuthError reports whether err is one of the authentication-kind errors
// that should abort a command with an authentication exit status rather than
// a generic failure.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrSessionRevoked) ||
		errors.Is(err, ErrSecretMissing) ||
		errors.Is(err, ErrUserInactive)
}
