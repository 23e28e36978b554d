package repository

import (
	"context"
	"database/sql"
	"errors"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	"github.com/cuacalab/forecast-api/internal/database"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

// PostgreSQLCapabilityRepository reads the capability reference data from
// PostgreSQL. The api_definitions table is seeded by migrations and only ever
// changed administratively.
type PostgreSQLCapabilityRepository struct {
	db *sql.DB
}

// Get retrieves a capability definition by id.
// Returns ErrCapabilityNotFound if the id is unknown.
func (p *PostgreSQLCapabilityRepository) Get(
	ctx context.Context,
	id authDomain.CapabilityID,
) (*authDomain.Capability, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, label, endpoint, description
			  FROM api_definitions WHERE id = $1`

	var capability authDomain.Capability

	err := querier.QueryRowContext(ctx, query, int(id)).Scan(
		&capability.ID,
		&capability.Name,
		&capability.Label,
		&capability.Endpoint,
		&capability.Description,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrCapabilityNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get capability")
	}

	return &capability, nil
}

// List retrieves all capability definitions ordered by id.
func (p *PostgreSQLCapabilityRepository) List(ctx context.Context) ([]*authDomain.Capability, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, label, endpoint, description
			  FROM api_definitions ORDER BY id`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list capabilities")
	}
	defer func() {
		_ = rows.Close()
	}()

	capabilities := make([]*authDomain.Capability, 0)
	for rows.Next() {
		var capability authDomain.Capability
		err := rows.Scan(
			&capability.ID,
			&capability.Name,
			&capability.Label,
			&capability.Endpoint,
			&capability.Description,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan capability")
		}
		capabilities = append(capabilities, &capability)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate capabilities")
	}

	return capabilities, nil
}

// NewPostgreSQLCapabilityRepository creates a new PostgreSQL capability repository.
func NewPostgreSQLCapabilityRepository(db *sql.DB) *PostgreSQLCapabilityRepository {
	return &PostgreSQLCapabilityRepository{db: db}
}
