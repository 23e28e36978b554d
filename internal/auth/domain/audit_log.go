package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records one authorized gateway call. Append-only; RequestNo is a
// monotonically increasing identifier assigned by the store and echoed back to
// the caller for support and traceability.
type AuditLog struct {
	RequestNo    int64
	Organization string
	CapabilityID CapabilityID
	Endpoint     string
	Method       string
	Params       map[string]string
	TokenID      uuid.UUID
	CreatedAt    time.Time
}
