package models

import "time"

// Session is a single authenticated login instance. TokenID is the opaque
// key under which the actual secret lives in the vault; it is unique across
// all sessions to prevent vault-key collisions and is never the secret
// itself.
type Session struct {
	ID        int64
	UserID    int64
	TokenID   string
	LoginAt   time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
