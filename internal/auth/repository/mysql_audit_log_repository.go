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

// MySQLAuditLogRepository implements AuditLog persistence for MySQL.
// request_no is an AUTO_INCREMENT BIGINT; the store-assigned request number is
// read back via LastInsertId. Token UUIDs are stored as BINARY(16).
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// Create appends an audit log entry and returns the store-assigned request
// number. Handles nil params as database NULL.
func (m *MySQLAuditLogRepository) Create(
	ctx context.Context,
	auditLog *authDomain.AuditLog,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	paramsJSON, err := marshalParams(auditLog.Params)
	if err != nil {
		return 0, err
	}

	tokenID, err := auditLog.TokenID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal audit log token_id")
	}

	query := `INSERT INTO audit_logs
			  (organization, capability_id, endpoint, method, params, token_id, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		auditLog.Organization,
		int(auditLog.CapabilityID),
		auditLog.Endpoint,
		auditLog.Method,
		paramsJSON,
		tokenID,
		auditLog.CreatedAt,
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to create audit log")
	}

	requestNo, err := result.LastInsertId()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read audit log request_no")
	}

	return requestNo, nil
}

// List retrieves audit logs ordered by request number descending (newest
// first) with pagination. Returns an empty slice if no audit logs exist.
func (m *MySQLAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.AuditLog, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT request_no, organization, capability_id, endpoint, method,
			  	     params, token_id, created_at
			  FROM audit_logs
			  ORDER BY request_no DESC LIMIT ? OFFSET ?`

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
		var tokenIDBinary []byte
		var paramsJSON []byte

		err := rows.Scan(
			&auditLog.RequestNo,
			&auditLog.Organization,
			&auditLog.CapabilityID,
			&auditLog.Endpoint,
			&auditLog.Method,
			&paramsJSON,
			&tokenIDBinary,
			&auditLog.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log")
		}

		if err := auditLog.TokenID.UnmarshalBinary(tokenIDBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit log token_id")
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
func (m *MySQLAuditLogRepository) DeleteOlderThan(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	condition := fmt.Sprintf("created_at < DATE_SUB(NOW(), INTERVAL %d DAY)", days)

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

// NewMySQLAuditLogRepository creates a new MySQL AuditLog repository.
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{db: db}
}
