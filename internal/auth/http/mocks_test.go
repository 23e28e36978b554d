package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	authUseCase "github.com/cuacalab/forecast-api/internal/auth/usecase"
	"github.com/cuacalab/forecast-api/internal/ratelimit"
)

type mockAuthorizer struct {
	mock.Mock
}

func (m *mockAuthorizer) Authorize(
	ctx context.Context,
	plainToken string,
	capability authDomain.CapabilityID,
) (*authUseCase.Decision, error) {
	args := m.Called(ctx, plainToken, capability)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authUseCase.Decision), args.Error(1)
}

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Allow(
	ctx context.Context,
	tokenHash string,
	capability authDomain.CapabilityID,
	policy ratelimit.Policy,
) (*ratelimit.Result, error) {
	args := m.Called(ctx, tokenHash, capability, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ratelimit.Result), args.Error(1)
}

type mockAuditLogUseCase struct {
	mock.Mock
}

func (m *mockAuditLogUseCase) Record(ctx context.Context, entry *authDomain.AuditLog) *int64 {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*int64)
}

func (m *mockAuditLogUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.AuditLog, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.AuditLog), args.Error(1)
}

func (m *mockAuditLogUseCase) CleanupOlderThan(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

type mockTokenUseCase struct {
	mock.Mock
}

func (m *mockTokenUseCase) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.IssueTokenOutput), args.Error(1)
}

func (m *mockTokenUseCase) Activate(ctx context.Context, plainToken string) error {
	args := m.Called(ctx, plainToken)
	return args.Error(0)
}

func (m *mockTokenUseCase) CleanupExpired(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
