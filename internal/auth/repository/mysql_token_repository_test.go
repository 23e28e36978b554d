package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
)

func TestMySQLTokenRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	token := newTestToken()
	id, err := token.ID.MarshalBinary()
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO api_tokens").
		WithArgs(
			id,
			token.TokenHash,
			token.Organization,
			nil,
			"activated",
			[]byte("[1,2]"),
			token.ExpiresAt,
			nil,
			token.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewMySQLTokenRepository(db)
	require.NoError(t, repo.Create(context.Background(), token))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLTokenRepository_GetByTokenHash(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		token := newTestToken()
		id, err := token.ID.MarshalBinary()
		require.NoError(t, err)

		rows := sqlmock.NewRows([]string{
			"id", "token_hash", "organization", "email", "status",
			"capability_ids", "expires_at", "activated_at", "created_at",
		}).AddRow(
			id, token.TokenHash, token.Organization, nil, "activated",
			[]byte("[1,2]"), token.ExpiresAt, nil, token.CreatedAt,
		)

		mock.ExpectQuery("SELECT (.+) FROM api_tokens WHERE token_hash").
			WithArgs(token.TokenHash).
			WillReturnRows(rows)

		repo := NewMySQLTokenRepository(db)
		got, err := repo.GetByTokenHash(context.Background(), token.TokenHash)

		require.NoError(t, err)
		assert.Equal(t, token.ID, got.ID)
		assert.True(t, got.Authorizes(authDomain.CapabilityTendayDate))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT (.+) FROM api_tokens WHERE token_hash").
			WithArgs("unknown").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		repo := NewMySQLTokenRepository(db)
		_, err = repo.GetByTokenHash(context.Background(), "unknown")

		assert.ErrorIs(t, err, authDomain.ErrTokenNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMySQLAuditLogRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	entry := newTestAuditLog()
	tokenID, err := entry.TokenID.MarshalBinary()
	require.NoError(t, err)

	// AUTO_INCREMENT assigns the request number, read back via LastInsertId
	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(
			entry.Organization,
			int(entry.CapabilityID),
			entry.Endpoint,
			entry.Method,
			[]byte(`{"province_id":"81"}`),
			tokenID,
			entry.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(42, 1))

	repo := NewMySQLAuditLogRepository(db)
	requestNo, err := repo.Create(context.Background(), entry)

	require.NoError(t, err)
	assert.Equal(t, int64(42), requestNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}
