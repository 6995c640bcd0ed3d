package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The vault-held secret is an HS256 JWT binding the token identifier and the
// owning user to the session expiry. Validate cross-checks the parsed claims
// against the session row, so a secret that was swapped, truncated, or
// re-keyed out-of-band fails verification even though the vault returned
// something for the key.

// SecretClaims is the claim set carried by a session secret.
type SecretClaims struct {
	jwt.RegisteredClaims
	UserID  int64  `json:"uid"`
	TokenID string `json:"tid"`
}

// MintSecret produces a signed session secret.
func MintSecret(key []byte, tokenID string, userID int64, issuedAt, expiresAt time.Time) (string, error) {
	claims := SecretClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:  userID,
		TokenID: tokenID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign session secret: %w", err)
	}
	return signed, nil
}

// ParseSecret verifies the signature and returns the claims. Expiry is
// deliberately not checked here: the session row is the authority on expiry,
// and lazy cleanup needs to distinguish "expired" from "tampered".
func ParseSecret(key []byte, secret string) (*SecretClaims, error) {
	claims := &SecretClaims{}

	token, err := jwt.ParseWithClaims(secret, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("parse session secret: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session secret")
	}

	return claims, nil
}
