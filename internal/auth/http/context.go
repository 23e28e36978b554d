// Package http provides the gateway middleware chain and token endpoints.
package http

import (
	"context"

	authUseCase "github.com/cuacalab/forecast-api/internal/auth/usecase"
)

// decisionKey is a context key type for storing authorization decisions.
type decisionKey struct{}

// requestNoKey is a context key type for storing audit request numbers.
type requestNoKey struct{}

// WithDecision stores an authorization decision in the context.
// Called by the token auth middleware after successful classification.
func WithDecision(ctx context.Context, decision *authUseCase.Decision) context.Context {
	return context.WithValue(ctx, decisionKey{}, decision)
}

// GetDecision retrieves the authorization decision from the context.
// Returns (decision, true) if present, or (nil, false) if no decision was set.
func GetDecision(ctx context.Context) (*authUseCase.Decision, bool) {
	decision, ok := ctx.Value(decisionKey{}).(*authUseCase.Decision)
	return decision, ok
}

// WithRequestNo stores the audit-assigned request number in the context.
// Called by the audit log middleware; a nil value means logging was
// unavailable and the request proceeds without a number.
func WithRequestNo(ctx context.Context, requestNo *int64) context.Context {
	return context.WithValue(ctx, requestNoKey{}, requestNo)
}

// GetRequestNo retrieves the audit request number from the context.
// Returns nil when the audit trail could not be written for this request.
func GetRequestNo(ctx context.Context) *int64 {
	requestNo, ok := ctx.Value(requestNoKey{}).(*int64)
	if !ok {
		return nil
	}
	return requestNo
}
