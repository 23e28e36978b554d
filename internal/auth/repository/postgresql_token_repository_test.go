package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
)

func newTestToken() *authDomain.APIToken {
	expiresAt := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return &authDomain.APIToken{
		ID:           uuid.Must(uuid.NewV7()),
		TokenHash:    "a1b2c3",
		Organization: "weather-portal",
		Status:       authDomain.TokenStatusActivated,
		Capabilities: authDomain.NewCapabilitySet(
			authDomain.CapabilityTendayCurrent,
			authDomain.CapabilityTendayDate,
		),
		ExpiresAt: &expiresAt,
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPostgreSQLTokenRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	token := newTestToken()

	mock.ExpectExec("INSERT INTO api_tokens").
		WithArgs(
			token.ID,
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

	repo := NewPostgreSQLTokenRepository(db)
	require.NoError(t, repo.Create(context.Background(), token))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLTokenRepository_GetByTokenHash(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		token := newTestToken()

		rows := sqlmock.NewRows([]string{
			"id", "token_hash", "organization", "email", "status",
			"capability_ids", "expires_at", "activated_at", "created_at",
		}).AddRow(
			token.ID, token.TokenHash, token.Organization, nil, "activated",
			[]byte("[1,2]"), token.ExpiresAt, nil, token.CreatedAt,
		)

		mock.ExpectQuery("SELECT (.+) FROM api_tokens WHERE token_hash").
			WithArgs(token.TokenHash).
			WillReturnRows(rows)

		repo := NewPostgreSQLTokenRepository(db)
		got, err := repo.GetByTokenHash(context.Background(), token.TokenHash)

		require.NoError(t, err)
		assert.Equal(t, token.ID, got.ID)
		assert.Equal(t, authDomain.TokenStatusActivated, got.Status)
		assert.True(t, got.Authorizes(authDomain.CapabilityTendayCurrent))
		assert.True(t, got.Authorizes(authDomain.CapabilityTendayDate))
		assert.False(t, got.Authorizes(authDomain.CapabilityCeram))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT (.+) FROM api_tokens WHERE token_hash").
			WithArgs("unknown").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		repo := NewPostgreSQLTokenRepository(db)
		_, err = repo.GetByTokenHash(context.Background(), "unknown")

		assert.ErrorIs(t, err, authDomain.ErrTokenNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLTokenRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	token := newTestToken()
	activatedAt := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	token.ActivatedAt = &activatedAt

	mock.ExpectExec("UPDATE api_tokens").
		WithArgs(
			token.TokenHash,
			token.Organization,
			nil,
			"activated",
			[]byte("[1,2]"),
			token.ExpiresAt,
			token.ActivatedAt,
			token.ID,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLTokenRepository(db)
	require.NoError(t, repo.Update(context.Background(), token))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLTokenRepository_DeleteExpired(t *testing.T) {
	t.Run("Delete", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("DELETE FROM api_tokens WHERE expires_at").
			WillReturnResult(sqlmock.NewResult(0, 3))

		repo := NewPostgreSQLTokenRepository(db)
		count, err := repo.DeleteExpired(context.Background(), 30, false)

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DryRun", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		repo := NewPostgreSQLTokenRepository(db)
		count, err := repo.DeleteExpired(context.Background(), 30, true)

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
