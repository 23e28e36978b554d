// Package service provides technical services for authentication operations.
//
// This package implements the self-describing API token credential: a signed
// JWT carrying organization and capability ids, verifiable without a store
// lookup, hashed with SHA-256 before persistence.
package service

import (
	"time"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
)

// TokenClaims holds the verified contents of a self-describing API token.
type TokenClaims struct {
	Organization string
	Capabilities []authDomain.CapabilityID
	ExpiresAt    *time.Time
}

// TokenService defines operations for API token generation, verification and hashing.
type TokenService interface {
	// GenerateToken creates a new signed token for the organization and
	// capability set. Returns both the plain token (shared with the caller
	// once during issuance) and its hash (stored in the database).
	GenerateToken(
		organization string,
		capabilities []authDomain.CapabilityID,
		expiresAt *time.Time,
	) (plainToken string, tokenHash string, err error)

	// VerifyToken checks the token signature and shape independently of any
	// store lookup. Returns errors.ErrInvalidToken on verification failure and
	// errors.ErrExpiredToken when the embedded expiry has passed.
	VerifyToken(plainToken string) (*TokenClaims, error)

	// HashToken hashes a plain text token using SHA-256.
	// Used for token lookup by comparing hashes.
	HashToken(plainToken string) string
}
