package usecase

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

func newAuditEntry() *authDomain.AuditLog {
	return &authDomain.AuditLog{
		Organization: "weather-portal",
		CapabilityID: authDomain.CapabilityTendayCurrent,
		Endpoint:     "/v1/tenday/current",
		Method:       "GET",
		Params:       map[string]string{"province_id": "81"},
		TokenID:      uuid.Must(uuid.NewV7()),
	}
}

func TestAuditLogUseCase_Record(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("Success_ReturnsRequestNumber", func(t *testing.T) {
		repo := new(mockAuditLogRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(entry *authDomain.AuditLog) bool {
			return !entry.CreatedAt.IsZero()
		})).Return(int64(42), nil)

		useCase := NewAuditLogUseCase(repo, 500*time.Millisecond, logger)
		requestNo := useCase.Record(ctx, newAuditEntry())

		require.NotNil(t, requestNo)
		assert.Equal(t, int64(42), *requestNo)
	})

	t.Run("Failure_SwallowedAndNilReturned", func(t *testing.T) {
		repo := new(mockAuditLogRepository)
		repo.On("Create", mock.Anything, mock.Anything).
			Return(int64(0), apperrors.New("connection refused"))

		useCase := NewAuditLogUseCase(repo, 500*time.Millisecond, logger)
		requestNo := useCase.Record(ctx, newAuditEntry())

		assert.Nil(t, requestNo)
	})

	t.Run("CanceledRequestContext_WriteStillAttempted", func(t *testing.T) {
		repo := new(mockAuditLogRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(int64(7), nil)

		canceled, cancel := context.WithCancel(context.Background())
		cancel()

		useCase := NewAuditLogUseCase(repo, 500*time.Millisecond, logger)
		requestNo := useCase.Record(canceled, newAuditEntry())

		require.NotNil(t, requestNo)
		assert.Equal(t, int64(7), *requestNo)
	})
}

func TestAuditLogUseCase_List(t *testing.T) {
	ctx := context.Background()

	repo := new(mockAuditLogRepository)
	expected := []*authDomain.AuditLog{{RequestNo: 2}, {RequestNo: 1}}
	repo.On("List", ctx, 0, 50).Return(expected, nil)

	useCase := NewAuditLogUseCase(repo, 500*time.Millisecond, slog.Default())
	logs, err := useCase.List(ctx, 0, 50)

	require.NoError(t, err)
	assert.Equal(t, expected, logs)
}

func TestAuditLogUseCase_CleanupOlderThan(t *testing.T) {
	ctx := context.Background()

	repo := new(mockAuditLogRepository)
	repo.On("DeleteOlderThan", ctx, 90, false).Return(int64(120), nil)

	useCase := NewAuditLogUseCase(repo, 500*time.Millisecond, slog.Default())
	count, err := useCase.CleanupOlderThan(ctx, 90, false)

	require.NoError(t, err)
	assert.Equal(t, int64(120), count)
}
