// Package auth implements the authentication gatekeeper: the component that
// decides whether a command may run, based on a session row in the local
// store and its secret in the OS vault. Login and logout are coordinated
// two-store writes with compensating actions; validation self-heals any
// desync it discovers.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/common"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/cryptox"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/dbx"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/logging"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/models"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/repositories/sessions"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/repositories/users"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/store"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/vault"

	"github.com/google/uuid"
)

// signingKeyName is the reserved vault key holding the per-install secret
// signing key. It must never collide with a token identifier; token
// identifiers are UUIDs.
const signingKeyName = "clibuddy/signing-key"

// maxTokenAttempts bounds regeneration when a freshly generated token
// identifier collides with an existing one. With UUIDv4 identifiers a single
// collision is already extraordinary.
const maxTokenAttempts = 3

// Options configures session policy.
type Options struct {
	// SessionTTL is how long a new session stays valid after login.
	SessionTTL time.Duration

	// BootstrapUser makes login create an unknown user on first use instead
	// of failing. Intended for single-user local setups.
	BootstrapUser bool
}

// Gatekeeper coordinates the session store and the secret vault.
type Gatekeeper struct {
	db    *sql.DB
	vault vault.Vault
	log   logging.Logger
	opts  Options

	keyMu sync.Mutex
	key   []byte

	// test seams
	now        func() time.Time
	newTokenID func() string
}

// NewGatekeeper wires a gatekeeper over an open store and vault.
func NewGatekeeper(db *sql.DB, v vault.Vault, log logging.Logger, opts Options) *Gatekeeper {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	return &Gatekeeper{
		db:         db,
		vault:      v,
		log:        log,
		opts:       opts,
		now:        time.Now,
		newTokenID: uuid.NewString,
	}
}

// Login verifies the credentials and creates a session: secret into the
// vault first, then the row into the store. If the row insert fails, the
// orphaned vault entry is deleted before the error is returned. Unknown
// user, inactive user, and wrong password all fail with the same
// ErrNotAuthenticated.
func (g *Gatekeeper) Login(ctx context.Context, username string, password []byte) (*models.Session, error) {
	user, err := g.lookupLoginUser(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if !user.IsActive || !cryptox.CheckPassword(user.Verifier, password, user.Salt) {
		return nil, common.ErrNotAuthenticated
	}

	key, err := g.signingKey()
	if err != nil {
		return nil, err
	}

	loginAt := g.now()
	expiresAt := loginAt.Add(g.opts.SessionTTL)

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		tokenID := g.newTokenID()

		secret, err := MintSecret(key, tokenID, user.ID, loginAt, expiresAt)
		if err != nil {
			return nil, err
		}

		if err := g.vault.Put(tokenID, secret); err != nil {
			return nil, err
		}

		session := &models.Session{
			UserID:    user.ID,
			TokenID:   tokenID,
			LoginAt:   loginAt,
			ExpiresAt: expiresAt,
		}

		err = dbx.WithTxRetry(ctx, g.db, nil, store.IsBusy, func(ctx context.Context, tx dbx.DBTX) error {
			_, err := sessions.NewSQLiteRepository(tx).Create(ctx, session)
			return err
		})
		if err == nil {
			g.log.Info(ctx, "session created", "session_id", session.ID, "user", user.Username)
			return session, nil
		}

		// Compensating action: the vault entry must not outlive a failed
		// row insert.
		if delErr := g.vault.Delete(tokenID); delErr != nil {
			g.log.Warn(ctx, "orphaned vault entry left behind", "token_id", tokenID, "error", delErr)
		}

		if errors.Is(err, common.ErrConflict) {
			g.log.Warn(ctx, "token identifier collision, regenerating", "attempt", attempt+1)
			continue
		}
		return nil, g.storeError(err)
	}

	return nil, fmt.Errorf("%w: token identifier collisions exhausted retries", common.ErrStoreUnavailable)
}

// Validate checks that the session exists, is not expired, that its vault
// secret is present and verifies, and that the owning user is still active.
// Expired or desynced sessions are cleaned up as a side effect.
func (g *Gatekeeper) Validate(ctx context.Context, sessionID int64) (*Identity, error) {
	key, err := g.signingKey()
	if err != nil {
		return nil, err
	}

	var (
		identity     *Identity
		authErr      error
		cleanupToken string
	)

	err = dbx.WithTxRetry(ctx, g.db, nil, store.IsBusy, func(ctx context.Context, tx dbx.DBTX) error {
		identity, authErr, cleanupToken = nil, nil, ""

		sessionRepo := sessions.NewSQLiteRepository(tx)

		session, err := sessionRepo.GetByID(ctx, sessionID)
		if errors.Is(err, common.ErrNotFound) {
			authErr = common.ErrSessionRevoked
			return nil
		}
		if err != nil {
			return err
		}

		if session.Expired(g.now()) {
			if err := sessionRepo.DeleteByID(ctx, sessionID); err != nil {
				return err
			}
			cleanupToken = session.TokenID
			authErr = common.ErrSessionExpired
			return nil
		}

		secret, found, err := g.vault.Get(session.TokenID)
		if err != nil {
			return err
		}
		if !found || !g.secretMatches(key, secret, session) {
			// Vault cleared out-of-band or secret tampered with: the row is
			// no longer trustworthy, remove it.
			if err := sessionRepo.DeleteByID(ctx, sessionID); err != nil {
				return err
			}
			cleanupToken = session.TokenID
			authErr = common.ErrSecretMissing
			return nil
		}

		user, err := users.NewSQLiteRepository(tx).GetByID(ctx, session.UserID)
		if errors.Is(err, common.ErrNotFound) {
			authErr = common.ErrSessionRevoked
			return nil
		}
		if err != nil {
			return err
		}
		if !user.IsActive {
			authErr = common.ErrUserInactive
			return nil
		}

		identity = &Identity{UserID: user.ID, Username: user.Username, SessionID: session.ID}
		return nil
	})
	if err != nil {
		return nil, g.storeError(err)
	}

	// Row deletion is committed; clearing the vault entry afterwards keeps
	// the "row without vault entry" window closed for other processes.
	if cleanupToken != "" {
		if err := g.vault.Delete(cleanupToken); err != nil {
			g.log.Warn(ctx, "vault cleanup failed", "token_id", cleanupToken, "error", err)
		}
	}

	if authErr != nil {
		return nil, authErr
	}
	return identity, nil
}

// Logout revokes a session: vault entry first, row second. It is idempotent
// and only fails when a store or the vault is unreachable.
func (g *Gatekeeper) Logout(ctx context.Context, sessionID int64) error {
	session, err := sessions.NewSQLiteRepository(g.db).GetByID(ctx, sessionID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return g.storeError(err)
	}

	if err := g.vault.Delete(session.TokenID); err != nil {
		return err
	}

	err = dbx.WithTxRetry(ctx, g.db, nil, store.IsBusy, func(ctx context.Context, tx dbx.DBTX) error {
		return sessions.NewSQLiteRepository(tx).DeleteByID(ctx, sessionID)
	})
	if err != nil {
		return g.storeError(err)
	}

	g.log.Info(ctx, "session revoked", "session_id", sessionID)
	return nil
}

// lookupLoginUser finds the user for a login attempt, optionally creating it
// when bootstrap is enabled. For an unknown user it still burns a verifier
// derivation so the response time does not reveal whether the name exists.
func (g *Gatekeeper) lookupLoginUser(ctx context.Context, username string, password []byte) (*models.User, error) {
	repo := users.NewSQLiteRepository(g.db)

	user, err := repo.GetByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, g.storeError(err)
	}

	if !g.opts.BootstrapUser {
		cryptox.CheckPassword(nil, password, cryptox.NewSalt())
		return nil, common.ErrNotAuthenticated
	}

	salt := cryptox.NewSalt()
	user = &models.User{
		Username:  username,
		Salt:      salt,
		Verifier:  cryptox.DeriveVerifier(password, salt),
		CreatedAt: g.now(),
		IsActive:  true,
	}

	created, err := repo.Create(ctx, user)
	if errors.Is(err, common.ErrConflict) {
		// Another invocation bootstrapped the same name first; use its record.
		existing, getErr := repo.GetByUsername(ctx, username)
		if getErr != nil {
			return nil, g.storeError(getErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, g.storeError(err)
	}

	g.log.Info(ctx, "bootstrapped user on first login", "user", username)
	return created, nil
}

func (g *Gatekeeper) secretMatches(key []byte, secret string, session *models.Session) bool {
	claims, err := ParseSecret(key, secret)
	if err != nil {
		return false
	}
	return claims.TokenID == session.TokenID && claims.UserID == session.UserID
}

// signingKey returns the per-install secret signing key, creating it in the
// vault on first use.
func (g *Gatekeeper) signingKey() ([]byte, error) {
	g.keyMu.Lock()
	defer g.keyMu.Unlock()

	if g.key != nil {
		return g.key, nil
	}

	value, found, err := g.vault.Get(signingKeyName)
	if err != nil {
		return nil, err
	}
	if !found {
		value, err = common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
		if err := g.vault.Put(signingKeyName, value); err != nil {
			return nil, err
		}
	}

	g.key = []byte(value)
	return g.key, nil
}

// storeError wraps unexpected database failures so the CLI can tell
// infrastructure trouble apart from authentication failures. Errors that are
// already classified pass through.
func (g *Gatekeeper) storeError(err error) error {
	if err == nil ||
		common.IsAuthError(err) ||
		errors.Is(err, common.ErrVaultUnavailable) ||
		errors.Is(err, common.ErrStoreUnavailable) ||
		errors.Is(err, common.ErrConflict) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
}
