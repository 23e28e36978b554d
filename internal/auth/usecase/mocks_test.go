package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	authService "github.com/cuacalab/forecast-api/internal/auth/service"
)

// mockTokenRepository is a mock implementation of TokenRepository for testing.
type mockTokenRepository struct {
	mock.Mock
}

func (m *mockTokenRepository) Create(ctx context.Context, token *authDomain.APIToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepository) Update(ctx context.Context, token *authDomain.APIToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.APIToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.APIToken), args.Error(1)
}

func (m *mockTokenRepository) DeleteExpired(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// mockCapabilityRepository is a mock implementation of CapabilityRepository for testing.
type mockCapabilityRepository struct {
	mock.Mock
}

func (m *mockCapabilityRepository) Get(
	ctx context.Context,
	id authDomain.CapabilityID,
) (*authDomain.Capability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Capability), args.Error(1)
}

func (m *mockCapabilityRepository) List(ctx context.Context) ([]*authDomain.Capability, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.Capability), args.Error(1)
}

// mockAuditLogRepository is a mock implementation of AuditLogRepository for testing.
type mockAuditLogRepository struct {
	mock.Mock
}

func (m *mockAuditLogRepository) Create(
	ctx context.Context,
	auditLog *authDomain.AuditLog,
) (int64, error) {
	args := m.Called(ctx, auditLog)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.AuditLog, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.AuditLog), args.Error(1)
}

func (m *mockAuditLogRepository) DeleteOlderThan(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// mockTokenService is a mock implementation of the token service for testing.
type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateToken(
	organization string,
	capabilities []authDomain.CapabilityID,
	expiresAt *time.Time,
) (string, string, error) {
	args := m.Called(organization, capabilities, expiresAt)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) VerifyToken(plainToken string) (*authService.TokenClaims, error) {
	args := m.Called(plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authService.TokenClaims), args.Error(1)
}

func (m *mockTokenService) HashToken(plainToken string) string {
	args := m.Called(plainToken)
	return args.String(0)
}
