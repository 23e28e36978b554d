package usecase

import (
	"context"
	"log/slog"
	"time"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

// auditLogUseCase implements AuditLogUseCase for recording the gateway audit trail.
type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
	timeout      time.Duration
	logger       *slog.Logger
}

// Record appends an audit log entry and returns the store-assigned request number.
//
// The write is best effort by contract: it runs under its own bounded timeout,
// and any failure is logged locally and swallowed. A nil return means "logging
// unavailable"; the calling handler continues serving the request without a
// request number rather than failing it.
func (a *auditLogUseCase) Record(ctx context.Context, entry *authDomain.AuditLog) *int64 {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	requestNo, err := a.auditLogRepo.Create(writeCtx, entry)
	if err != nil {
		a.logger.Error("failed to record audit log",
			slog.String("organization", entry.Organization),
			slog.Int("capability_id", int(entry.CapabilityID)),
			slog.String("endpoint", entry.Endpoint),
			slog.Any("error", err),
		)
		return nil
	}

	return &requestNo
}

// List retrieves audit logs ordered by request number descending (newest first)
// with pagination. Returns empty slice if no audit logs found.
func (a *auditLogUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.AuditLog, error) {
	auditLogs, err := a.auditLogRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}

	return auditLogs, nil
}

// CleanupOlderThan removes audit logs older than the given number of days.
func (a *auditLogUseCase) CleanupOlderThan(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	count, err := a.auditLogRepo.DeleteOlderThan(ctx, days, dryRun)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to cleanup audit logs")
	}
	return count, nil
}

// NewAuditLogUseCase creates a new AuditLogUseCase with the provided dependencies.
func NewAuditLogUseCase(
	auditLogRepo AuditLogRepository,
	timeout time.Duration,
	logger *slog.Logger,
) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo: auditLogRepo,
		timeout:      timeout,
		logger:       logger,
	}
}
