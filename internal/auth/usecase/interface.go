// Package usecase defines business logic interfaces for the access-control gateway.
package usecase

import (
	"context"
	"time"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
)

// TokenRepository defines persistence operations for API tokens.
// Implementations must support transaction-aware operations via context propagation.
type TokenRepository interface {
	// Create stores a new token in the repository.
	Create(ctx context.Context, token *authDomain.APIToken) error

	// Update modifies an existing token in the repository.
	Update(ctx context.Context, token *authDomain.APIToken) error

	// GetByTokenHash retrieves a token by its hash. Returns ErrTokenNotFound if not found.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.APIToken, error)

	// DeleteExpired removes tokens whose expiry passed more than the given number
	// of days ago. When dryRun is true, only the count is returned.
	DeleteExpired(ctx context.Context, days int, dryRun bool) (int64, error)
}

// CapabilityRepository defines read access to the capability reference data.
type CapabilityRepository interface {
	// Get retrieves a capability definition by id. Returns ErrCapabilityNotFound if not found.
	Get(ctx context.Context, id authDomain.CapabilityID) (*authDomain.Capability, error)

	// List retrieves all capability definitions ordered by id.
	List(ctx context.Context) ([]*authDomain.Capability, error)
}

// AuditLogRepository defines persistence operations for audit log entries.
type AuditLogRepository interface {
	// Create appends an audit log entry and returns its store-assigned request number.
	Create(ctx context.Context, auditLog *authDomain.AuditLog) (int64, error)

	// List retrieves audit logs ordered by request number descending with pagination.
	List(ctx context.Context, offset, limit int) ([]*authDomain.AuditLog, error)

	// DeleteOlderThan removes audit logs older than the given number of days.
	// When dryRun is true, only the count is returned.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)
}

// Decision is the output of a successful authorization: the resolved token plus
// derived facts the rest of the pipeline needs.
type Decision struct {
	Token        *authDomain.APIToken
	Organization string
	// Trusted marks the designated internal organization, which bypasses
	// rate limiting but not authorization.
	Trusted bool
}

// Authorizer classifies a presented token against a requested capability.
type Authorizer interface {
	// Authorize validates the plain token and checks capability membership.
	// Pure classification; no side effects. Returns one of the sentinel errors
	// ErrMissingToken, ErrInvalidToken, ErrExpiredToken or ErrNotAuthorized,
	// or an internal error when the token store is unavailable (callers must
	// not conflate store failures with invalid credentials).
	Authorize(
		ctx context.Context,
		plainToken string,
		capability authDomain.CapabilityID,
	) (*Decision, error)
}

// TokenUseCase defines the administrative token lifecycle operations.
type TokenUseCase interface {
	// Issue creates a new API token for an organization. The plain token is
	// only returned once and must be transmitted securely.
	Issue(ctx context.Context, input *authDomain.IssueTokenInput) (*authDomain.IssueTokenOutput, error)

	// Activate flips a created token to activated status.
	// Returns ErrInvalidToken if the token is unknown or fails verification.
	Activate(ctx context.Context, plainToken string) error

	// CleanupExpired removes tokens whose expiry passed more than days ago.
	CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error)
}

// AuditLogUseCase records the audit trail of authorized gateway calls.
type AuditLogUseCase interface {
	// Record appends an audit log entry, best effort: any failure is logged
	// locally and swallowed, returning nil so the request proceeds without a
	// request number.
	Record(ctx context.Context, entry *authDomain.AuditLog) *int64

	// List retrieves audit logs ordered by request number descending.
	List(ctx context.Context, offset, limit int) ([]*authDomain.AuditLog, error)

	// CleanupOlderThan removes audit logs older than the given number of days.
	CleanupOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)
}

// clockFunc returns the current time; injectable for tests.
type clockFunc func() time.Time
