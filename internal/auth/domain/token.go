package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenStatus tracks the activation lifecycle of an API token.
type TokenStatus string

const (
	// TokenStatusCreated marks a token that was issued but not yet activated.
	TokenStatusCreated TokenStatus = "created"

	// TokenStatusActivated marks a token that may call its authorized capabilities.
	TokenStatusActivated TokenStatus = "activated"
)

// APIToken represents a caller identity. The plain credential is a signed,
// self-describing token carrying organization and capability ids; only its
// SHA-256 hash is persisted. The gateway never mutates token records.
type APIToken struct {
	ID           uuid.UUID
	TokenHash    string
	Organization string
	Email        *string
	Status       TokenStatus
	Capabilities CapabilitySet
	ExpiresAt    *time.Time
	ActivatedAt  *time.Time
	CreatedAt    time.Time
}

// Expired reports whether the token expiry is strictly before now.
// A nil expiry never expires.
func (t *APIToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}

// Authorizes reports whether the token's capability set includes the given id.
func (t *APIToken) Authorizes(capID CapabilityID) bool {
	return t.Capabilities.Contains(capID)
}

// IssueTokenInput contains the parameters for issuing a new API token.
type IssueTokenInput struct {
	Organization string
	Email        *string
	Capabilities []CapabilityID
	Activated    bool
}

// IssueTokenOutput contains the result of issuing a token.
// The plain token is only returned once and must be transmitted securely.
type IssueTokenOutput struct {
	ID         uuid.UUID
	PlainToken string
	ExpiresAt  *time.Time
}
