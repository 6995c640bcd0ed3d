// Package models holds the persistent entities of the session store.
package models

import "time"

// User is an identity record. Verifier is the argon2id output over Salt,
// never the raw password. An inactive user never passes authentication,
// even with a valid session row.
type User struct {
	ID        int64
	Username  string
	Email     string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
	IsActive  bool
}
