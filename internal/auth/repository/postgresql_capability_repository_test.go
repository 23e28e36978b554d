package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
)

func TestPostgreSQLCapabilityRepository_Get(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		rows := sqlmock.NewRows([]string{"id", "name", "label", "endpoint", "description"}).
			AddRow(1, "tenday_current", "Ten Day Forecast", "/tenday/current",
				"Ten-day forecast starting from today")

		mock.ExpectQuery("SELECT (.+) FROM api_definitions WHERE id").
			WithArgs(1).
			WillReturnRows(rows)

		repo := NewPostgreSQLCapabilityRepository(db)
		capability, err := repo.Get(context.Background(), authDomain.CapabilityTendayCurrent)

		require.NoError(t, err)
		assert.Equal(t, authDomain.CapabilityTendayCurrent, capability.ID)
		assert.Equal(t, "tenday_current", capability.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT (.+) FROM api_definitions WHERE id").
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		repo := NewPostgreSQLCapabilityRepository(db)
		_, err = repo.Get(context.Background(), authDomain.CapabilityID(99))

		assert.ErrorIs(t, err, authDomain.ErrCapabilityNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLCapabilityRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"id", "name", "label", "endpoint", "description"}).
		AddRow(1, "tenday_current", "Ten Day Forecast", "/tenday/current", "").
		AddRow(2, "tenday_date", "Ten Day Forecast By Date", "/tenday/date", "").
		AddRow(3, "ceram", "Ceram Island Forecast", "/ceram", "").
		AddRow(4, "province", "Province List", "/province", "").
		AddRow(5, "region", "Region List", "/region", "")

	mock.ExpectQuery("SELECT (.+) FROM api_definitions ORDER BY id").
		WillReturnRows(rows)

	repo := NewPostgreSQLCapabilityRepository(db)
	capabilities, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, capabilities, 5)
	assert.Equal(t, authDomain.CapabilityRegion, capabilities[4].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
