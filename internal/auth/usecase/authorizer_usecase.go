// Package usecase implements business logic orchestration for the access-control gateway.
package usecase

import (
	"context"
	"time"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	authService "github.com/cuacalab/forecast-api/internal/auth/service"
	"github.com/cuacalab/forecast-api/internal/config"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

// authorizer implements Authorizer against the token store and token service.
type authorizer struct {
	config       *config.Config
	tokenRepo    TokenRepository
	tokenService authService.TokenService
	now          clockFunc
}

// Authorize classifies the presented token against the requested capability.
//
// Classification order:
//  1. No token presented → ErrMissingToken.
//  2. Independent verification of the self-describing credential → ErrInvalidToken
//     on signature/shape failure, ErrExpiredToken when the embedded expiry passed.
//  3. Token store lookup by hash → ErrInvalidToken when no record exists. Store
//     failures propagate unwrapped into the sentinel taxonomy so "store
//     unavailable" is never reported as "token invalid".
//  4. Tokens not yet activated are treated as invalid credentials.
//  5. Record expiry strictly before now → ErrExpiredToken, regardless of
//     capability membership.
//  6. Capability membership → ErrNotAuthorized when absent.
//
// The trusted organization passes every step above; it is only exempt from
// rate limiting, which the caller decides from Decision.Trusted.
func (a *authorizer) Authorize(
	ctx context.Context,
	plainToken string,
	capability authDomain.CapabilityID,
) (*Decision, error) {
	if plainToken == "" {
		return nil, apperrors.ErrMissingToken
	}

	if _, err := a.tokenService.VerifyToken(plainToken); err != nil {
		return nil, err
	}

	token, err := a.tokenRepo.GetByTokenHash(ctx, a.tokenService.HashToken(plainToken))
	if err != nil {
		if apperrors.Is(err, authDomain.ErrTokenNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInvalidToken, "token not registered")
		}
		return nil, apperrors.Wrap(err, "failed to resolve token")
	}

	if token.Status != authDomain.TokenStatusActivated {
		return nil, apperrors.Wrap(apperrors.ErrInvalidToken, "token not activated")
	}

	if token.Expired(a.now()) {
		return nil, apperrors.ErrExpiredToken
	}

	if !token.Authorizes(capability) {
		return nil, apperrors.ErrNotAuthorized
	}

	return &Decision{
		Token:        token,
		Organization: token.Organization,
		Trusted: a.config.TrustedOrganization != "" &&
			token.Organization == a.config.TrustedOrganization,
	}, nil
}

// NewAuthorizer creates a new Authorizer with the provided dependencies.
func NewAuthorizer(
	config *config.Config,
	tokenRepo TokenRepository,
	tokenService authService.TokenService,
) Authorizer {
	return &authorizer{
		config:       config,
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
		now:          func() time.Time { return time.Now().UTC() },
	}
}
