// Package cryptox derives and checks password verifiers. The store never
// holds a raw password, only the argon2id output over a per-user salt.
package cryptox

import (
	"crypto/subtle"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/common"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Fixed until a concrete policy requires tuning them.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	verifierLen  = 32

	saltLen = 32
)

// NewSalt returns a fresh random salt for a new user record.
func NewSalt() []byte {
	return common.GenerateRandByteArray(saltLen)
}

// DeriveVerifier computes the stored password verifier for the given
// password and salt.
func DeriveVerifier(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, verifierLen)
}

// CheckPassword derives a candidate verifier from password and salt and
// compares it against the stored verifier in constant time.
func CheckPassword(verifier, password, salt []byte) bool {
	candidate := DeriveVerifier(password, salt)
	defer common.WipeByteArray(candidate)
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}
