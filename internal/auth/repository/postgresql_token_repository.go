// Package repository implements persistence for the access-control gateway
// against PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	"github.com/cuacalab/forecast-api/internal/database"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

// PostgreSQLTokenRepository implements APIToken persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new APIToken into the PostgreSQL database. Capability ids
// are stored as a JSONB array. Returns an error if database insertion fails.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *authDomain.APIToken) error {
	querier := database.GetTx(ctx, p.db)

	capabilityIDs, err := marshalCapabilityIDs(token.Capabilities)
	if err != nil {
		return err
	}

	query := `INSERT INTO api_tokens
			  (id, token_hash, organization, email, status, capability_ids,
			   expires_at, activated_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = querier.ExecContext(
		ctx,
		query,
		token.ID,
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

// Update modifies an existing APIToken in the PostgreSQL database.
func (p *PostgreSQLTokenRepository) Update(ctx context.Context, token *authDomain.APIToken) error {
	querier := database.GetTx(ctx, p.db)

	capabilityIDs, err := marshalCapabilityIDs(token.Capabilities)
	if err != nil {
		return err
	}

	query := `UPDATE api_tokens
			  SET token_hash = $1,
			  	  organization = $2,
				  email = $3,
				  status = $4,
				  capability_ids = $5,
				  expires_at = $6,
				  activated_at = $7
			  WHERE id = $8`

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
		token.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update api token")
	}

	return nil
}

// GetByTokenHash retrieves an APIToken by its hash from the PostgreSQL
// database. Returns ErrTokenNotFound if no token carries the hash.
func (p *PostgreSQLTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.APIToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_hash, organization, email, status, capability_ids,
			  	     expires_at, activated_at, created_at
			  FROM api_tokens WHERE token_hash = $1`

	var token authDomain.APIToken
	var status string
	var capabilityIDs []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
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

	token.Status = authDomain.TokenStatus(status)
	token.Capabilities, err = unmarshalCapabilityIDs(capabilityIDs)
	if err != nil {
		return nil, err
	}

	return &token, nil
}

// DeleteExpired removes tokens whose expiry passed more than days ago.
// When dryRun is true only the count of matching rows is returned.
func (p *PostgreSQLTokenRepository) DeleteExpired(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	condition := fmt.Sprintf("expires_at IS NOT NULL AND expires_at < NOW() - INTERVAL '%d days'", days)

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

// NewPostgreSQLTokenRepository creates a new PostgreSQL APIToken repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

// marshalCapabilityIDs serializes a capability set as a sorted JSON array.
func marshalCapabilityIDs(set authDomain.CapabilitySet) ([]byte, error) {
	data, err := json.Marshal(set.IDs())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal capability ids")
	}
	return data, nil
}

// unmarshalCapabilityIDs deserializes a JSON array into a capability set.
func unmarshalCapabilityIDs(data []byte) (authDomain.CapabilitySet, error) {
	var ids []authDomain.CapabilityID
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal capability ids")
	}
	return authDomain.NewCapabilitySet(ids...), nil
}
