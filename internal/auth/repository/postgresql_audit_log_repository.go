package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	"github.com/cuacalab/forecast-api/internal/database"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

// PostgreSQLAuditLogRepository implements AuditLog persistence for PostgreSQL.
// request_no is a BIGSERIAL, so the store assigns the monotonically increasing
// request number on insert.
type PostgreSQLAuditLogRepository struct {
	db *sql.DB
}

// Create appends an audit log entry and returns the store-assigned request
// number via RETURNING. Handles nil params as database NULL.
func (p *PostgreSQLAuditLogRepository) Create(
	ctx context.Context,
	auditLog *authDomain.AuditLog,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	paramsJSON, err := marshalParams(auditLog.Params)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO audit_logs
			  (organization, capability_id, endpoint, method, params, token_id, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING request_no`

	var requestNo int64
	err = querier.QueryRowContext(
		ctx,
		query,
		auditLog.Organization,
		int(auditLog.CapabilityID),
		auditLog.Endpoint,
		auditLog.Method,
		paramsJSON,
		auditLog.TokenID,
		auditLog.CreatedAt,
	).Scan(&requestNo)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to create audit log")
	}

	return requestNo, nil
}

// List retrieves audit logs ordered by request number descending (newest
// first) with pagination. Returns an empty slice if no audit logs exist.
func (p *PostgreSQLAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.AuditLog, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT request_no, organization, capability_id, endpoint, method,
			  	     params, token_id, created_at
			  FROM audit_logs
			  ORDER BY request_no DESC LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer func() {
		_ = rows.Close()
	}()

	auditLogs := make([]*authDomain.AuditLog, 0)
	for rows.Next() {
		var auditLog authDomain.AuditLog
		var paramsJSON []byte

		err := rows.Scan(
			&auditLog.RequestNo,
			&auditLog.Organization,
			&auditLog.CapabilityID,
			&auditLog.Endpoint,
			&auditLog.Method,
			&paramsJSON,
			&auditLog.TokenID,
			&auditLog.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log")
		}

		if paramsJSON != nil {
			if err := json.Unmarshal(paramsJSON, &auditLog.Params); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit log params")
			}
		}

		auditLogs = append(auditLogs, &auditLog)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit logs")
	}

	return auditLogs, nil
}

// DeleteOlderThan removes audit logs older than the given number of days.
// When dryRun is true only the count of matching rows is returned.
func (p *PostgreSQLAuditLogRepository) DeleteOlderThan(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	condition := fmt.Sprintf("created_at < NOW() - INTERVAL '%d days'", days)

	if dryRun {
		var count int64
		query := "SELECT COUNT(*) FROM audit_logs WHERE " + condition
		if err := querier.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count old audit logs")
		}
		return count, nil
	}

	query := "DELETE FROM audit_logs WHERE " + condition
	result, err := querier.ExecContext(ctx, query)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete old audit logs")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted audit logs")
	}
	return count, nil
}

// NewPostgreSQLAuditLogRepository creates a new PostgreSQL AuditLog repository.
func NewPostgreSQLAuditLogRepository(db *sql.DB) *PostgreSQLAuditLogRepository {
	return &PostgreSQLAuditLogRepository{db: db}
}

// marshalParams serializes request params, keeping nil as database NULL.
func marshalParams(params map[string]string) ([]byte, error) {
	if params == nil {
		return nil, nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal audit log params")
	}
	return data, nil
}
