package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	authService "github.com/cuacalab/forecast-api/internal/auth/service"
	"github.com/cuacalab/forecast-api/internal/config"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

// tokenUseCase implements TokenUseCase for managing the API token lifecycle.
type tokenUseCase struct {
	config       *config.Config
	tokenRepo    TokenRepository
	capRepo      CapabilityRepository
	tokenService authService.TokenService
}

// Issue creates a new API token for an organization.
//
// This method:
// 1. Validates every requested capability id against the reference data
// 2. Generates a signed token embedding organization and capability ids
// 3. Stores the token hash with created or activated status
// 4. Returns the plain token to the caller (only shown once)
//
// Token expiration is set from Config.TokenExpiration; zero means no expiry.
func (t *tokenUseCase) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	if input.Organization == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "organization is required")
	}
	if len(input.Capabilities) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "at least one capability is required")
	}

	// Reject unknown capability ids before signing anything
	for _, capID := range input.Capabilities {
		if _, err := t.capRepo.Get(ctx, capID); err != nil {
			if apperrors.Is(err, authDomain.ErrCapabilityNotFound) {
				return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown capability id %d", capID)
			}
			return nil, err
		}
	}

	var expiresAt *time.Time
	if t.config.TokenExpiration > 0 {
		expiry := time.Now().UTC().Add(t.config.TokenExpiration)
		expiresAt = &expiry
	}

	plainToken, tokenHash, err := t.tokenService.GenerateToken(
		input.Organization,
		input.Capabilities,
		expiresAt,
	)
	if err != nil {
		return nil, err
	}

	status := authDomain.TokenStatusCreated
	var activatedAt *time.Time
	if input.Activated {
		status = authDomain.TokenStatusActivated
		now := time.Now().UTC()
		activatedAt = &now
	}

	token := &authDomain.APIToken{
		ID:           uuid.Must(uuid.NewV7()),
		TokenHash:    tokenHash,
		Organization: input.Organization,
		Email:        input.Email,
		Status:       status,
		Capabilities: authDomain.NewCapabilitySet(input.Capabilities...),
		ExpiresAt:    expiresAt,
		ActivatedAt:  activatedAt,
		CreatedAt:    time.Now().UTC(),
	}

	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &authDomain.IssueTokenOutput{
		ID:         token.ID,
		PlainToken: plainToken,
		ExpiresAt:  expiresAt,
	}, nil
}

// Activate flips a created token to activated status. Activating an already
// activated token is a no-op so the activation link can be followed twice.
func (t *tokenUseCase) Activate(ctx context.Context, plainToken string) error {
	if plainToken == "" {
		return apperrors.ErrMissingToken
	}

	if _, err := t.tokenService.VerifyToken(plainToken); err != nil {
		return err
	}

	token, err := t.tokenRepo.GetByTokenHash(ctx, t.tokenService.HashToken(plainToken))
	if err != nil {
		if apperrors.Is(err, authDomain.ErrTokenNotFound) {
			return apperrors.Wrap(apperrors.ErrInvalidToken, "token not registered")
		}
		return err
	}

	if token.Status == authDomain.TokenStatusActivated {
		return nil
	}

	now := time.Now().UTC()
	token.Status = authDomain.TokenStatusActivated
	token.ActivatedAt = &now

	return t.tokenRepo.Update(ctx, token)
}

// CleanupExpired removes tokens whose expiry passed more than days ago.
func (t *tokenUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	count, err := t.tokenRepo.DeleteExpired(ctx, days, dryRun)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to cleanup expired tokens")
	}
	return count, nil
}

// NewTokenUseCase creates a new TokenUseCase with the provided dependencies.
func NewTokenUseCase(
	config *config.Config,
	tokenRepo TokenRepository,
	capRepo CapabilityRepository,
	tokenService authService.TokenService,
) TokenUseCase {
	return &tokenUseCase{
		config:       config,
		tokenRepo:    tokenRepo,
		capRepo:      capRepo,
		tokenService: tokenService,
	}
}
