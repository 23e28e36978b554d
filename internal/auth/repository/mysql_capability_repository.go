package repository

import (
	"context"
	"database/sql"
	"errors"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	"github.com/cuacalab/forecast-api/internal/database"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

// MySQLCapabilityRepository reads the capability reference data from MySQL.
type MySQLCapabilityRepository struct {
	db *sql.DB
}

// Get retrieves a capability definition by id.
// Returns ErrCapabilityNotFound if the id is unknown.
func (m *MySQLCapabilityRepository) Get(
	ctx context.Context,
	id authDomain.CapabilityID,
) (*authDomain.Capability, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, label, endpoint, description
			  FROM api_definitions WHERE id = ?`

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
func (m *MySQLCapabilityRepository) List(ctx context.Context) ([]*authDomain.Capability, error) {
	querier := database.GetTx(ctx, m.db)

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

// NewMySQLCapabilityRepository creates a new MySQL capability repository.
func NewMySQLCapabilityRepository(db *sql.DB) *MySQLCapabilityRepository {
	return &MySQLCapabilityRepository{db: db}
}
