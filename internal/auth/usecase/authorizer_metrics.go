package usecase

import (
	"context"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
	"github.com/cuacalab/forecast-api/internal/metrics"
)

// authorizerWithMetrics decorates an Authorizer and counts every decision.
type authorizerWithMetrics struct {
	next            Authorizer
	businessMetrics *metrics.GatewayMetrics
}

// Authorize delegates to the wrapped authorizer and records the outcome.
func (a *authorizerWithMetrics) Authorize(
	ctx context.Context,
	plainToken string,
	capability authDomain.CapabilityID,
) (*Decision, error) {
	decision, err := a.next.Authorize(ctx, plainToken, capability)

	name := "unknown"
	if definition, ok := authDomain.DefinitionOf(capability); ok {
		name = definition.Name
	}
	a.businessMetrics.RecordAuthorization(ctx, name, authorizationOutcome(err))

	return decision, err
}

// authorizationOutcome maps an authorization error to a bounded label set.
func authorizationOutcome(err error) string {
	switch {
	case err == nil:
		return "authorized"
	case apperrors.Is(err, apperrors.ErrMissingToken):
		return "missing_token"
	case apperrors.Is(err, apperrors.ErrInvalidToken):
		return "invalid_token"
	case apperrors.Is(err, apperrors.ErrExpiredToken):
		return "expired_token"
	case apperrors.Is(err, apperrors.ErrNotAuthorized):
		return "not_authorized"
	default:
		return "error"
	}
}

// NewAuthorizerWithMetrics wraps an Authorizer with decision metrics.
func NewAuthorizerWithMetrics(
	next Authorizer,
	businessMetrics *metrics.GatewayMetrics,
) Authorizer {
	return &authorizerWithMetrics{next: next, businessMetrics: businessMetrics}
}
