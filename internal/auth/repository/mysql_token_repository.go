package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	"github.com/cuacalab/forecast-api/internal/database"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

// MySQLTokenRepository implements APIToken persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new APIToken into the MySQL database using BINARY(16) for
// the UUID and a JSON array for capability ids.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *authDomain.APIToken) error {
	querier := database.GetTx(ctx, m.db)

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api token id")
	}

	capabilityIDs, err := marshalCapabilityIDs(token.Capabilities)
	if err != nil {
		return err
	}

	query := `INSERT INTO api_tokens
			  (id, token_hash, organization, email, status, capability_ids,
			   expires_at, activated_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.TokenHash,
		token.Organization,
		token.Email,
		string(token.Status),
		capabilityIDs,
		token.ExpiresAt,
		token.ActivatedAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create api token")
	}
	return nil
}

// Update modifies an existing APIToken in the MySQL database.
func (m *MySQLTokenRepository) Update(ctx context.Context, token *authDomain.APIToken) error {
	querier := database.GetTx(ctx, m.db)

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api token id")
	}

	capabilityIDs, err := marshalCapabilityIDs(token.Capabilities)
	if err != nil {
		return err
	}

	query := `UPDATE api_tokens
			  SET token_hash = ?,
			  	  organization = ?,
				  email = ?,
				  status = ?,
				  capability_ids = ?,
				  expires_at = ?,
				  activated_at = ?
			  WHERE id = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		token.TokenHash,
		token.Organization,
		token.Email,
		string(token.Status),
		capabilityIDs,
		token.ExpiresAt,
		token.ActivatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update api token")
	}

	return nil
}

// GetByTokenHash retrieves an APIToken by its hash from the MySQL database.
// Returns ErrTokenNotFound if no token carries the hash. The UUID is stored
// as BINARY(16) and must be unmarshaled.
func (m *MySQLTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.APIToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, organization, email, status, capability_ids,
			  	     expires_at, activated_at, created_at
			  FROM api_tokens WHERE token_hash = ?`

	var token authDomain.APIToken
	var idBinary []byte
	var status string
	var capabilityIDs []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&idBinary,
		&token.TokenHash,
		&token.Organization,
		&token.Email,
		&status,
		&capabilityIDs,
		&token.ExpiresAt,
		&token.ActivatedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api token")
	}

	if err := token.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal api token id")
	}

	token.Status = authDomain.TokenStatus(status)
	token.Capabilities, err = unmarshalCapabilityIDs(capabilityIDs)
	if err != nil {
		return nil, err
	}

	return &token, nil
}

// DeleteExpired removes tokens whose expiry passed more than days ago.
// When dryRun is true only the count of matching rows is returned.
func (m *MySQLTokenRepository) DeleteExpired(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	condition := fmt.Sprintf(
		"expires_at IS NOT NULL AND expires_at < DATE_SUB(NOW(), INTERVAL %d DAY)",
		days,
	)

	if dryRun {
		var count int64
		query := "SELECT COUNT(*) FROM api_tokens WHERE " + condition
		if err := querier.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count expired api tokens")
		}
		return count, nil
	}

	query := "DELETE FROM api_tokens WHERE " + condition
	result, err := querier.ExecContext(ctx, query)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired api tokens")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted api tokens")
	}
	return count, nil
}

// NewMySQLTokenRepository creates a new MySQL APIToken repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}
