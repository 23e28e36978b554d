package http

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	authUseCase "github.com/cuacalab/forecast-api/internal/auth/usecase"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
	"github.com/cuacalab/forecast-api/internal/httputil"
	"github.com/cuacalab/forecast-api/internal/ratelimit"
)

// TokenHeader carries the API token. Not a standard bearer scheme; the token
// value is sent bare.
const TokenHeader = "X-Api-Token"

// TokenAuthMiddleware authorizes the presented token against one capability.
//
// The middleware:
// 1. Extracts the token from the X-Api-Token header
// 2. Classifies it via the Authorizer (missing/invalid/expired/not authorized)
// 3. Stores the resulting Decision in the request context for later stages
//
// Rejections short-circuit with a full response envelope; downstream handlers
// only ever run for an authorized request.
func TokenAuthMiddleware(
	authorizer authUseCase.Authorizer,
	capability authDomain.Capability,
	writer *httputil.Writer,
	logger *slog.Logger,
) gin.HandlerFunc {
	metadata := httputil.Metadata{
		CapabilityName: capability.Name,
		ForecastLabel:  capability.Label,
	}

	return func(c *gin.Context) {
		plainToken := c.GetHeader(TokenHeader)

		decision, err := authorizer.Authorize(c.Request.Context(), plainToken, capability.ID)
		if err != nil {
			logger.Debug("authorization rejected",
				slog.String("capability", capability.Name),
				slog.String("error", err.Error()),
			)
			writer.Error(c, metadata, err)
			return
		}

		ctx := WithDecision(c.Request.Context(), decision)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authorization successful",
			slog.String("capability", capability.Name),
			slog.String("organization", decision.Organization),
		)

		c.Next()
	}
}

// RateLimitMiddleware enforces the capability's rate limit policy for the
// authorized token. Must run after TokenAuthMiddleware. The trusted internal
// organization bypasses rate limiting entirely; everyone else is throttled
// with a 429 envelope and a Retry-After header when either tier rejects.
func RateLimitMiddleware(
	limiter ratelimit.Limiter,
	capability authDomain.Capability,
	policy ratelimit.Policy,
	writer *httputil.Writer,
	logger *slog.Logger,
) gin.HandlerFunc {
	metadata := httputil.Metadata{
		CapabilityName: capability.Name,
		ForecastLabel:  capability.Label,
	}

	return func(c *gin.Context) {
		decision, ok := GetDecision(c.Request.Context())
		if !ok || decision == nil {
			writer.Error(c, metadata, apperrors.ErrMissingToken)
			return
		}

		if decision.Trusted {
			c.Next()
			return
		}

		result, err := limiter.Allow(
			c.Request.Context(),
			decision.Token.TokenHash,
			capability.ID,
			policy,
		)
		if err != nil {
			writer.Error(c, metadata, err)
			return
		}

		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			logger.Debug("rate limit exceeded",
				slog.String("capability", capability.Name),
				slog.String("organization", decision.Organization),
				slog.Int("retry_after", retryAfter),
			)

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			writer.Error(c, metadata, apperrors.ErrRateLimited)
			return
		}

		c.Next()
	}
}

// AuditLogMiddleware records the authorized call before the handler runs and
// stashes the assigned request number in the context so handlers can echo it
// back. Recording is best effort: a nil request number means the audit trail
// was unavailable and the request still proceeds.
func AuditLogMiddleware(
	auditLogUseCase authUseCase.AuditLogUseCase,
	capability authDomain.Capability,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, ok := GetDecision(c.Request.Context())
		if !ok || decision == nil {
			c.Next()
			return
		}

		params := make(map[string]string)
		for name, values := range c.Request.URL.Query() {
			if len(values) > 0 {
				params[name] = values[0]
			}
		}
		if len(params) == 0 {
			params = nil
		}

		requestNo := auditLogUseCase.Record(c.Request.Context(), &authDomain.AuditLog{
			Organization: decision.Organization,
			CapabilityID: capability.ID,
			Endpoint:     c.Request.URL.Path,
			Method:       c.Request.Method,
			Params:       params,
			TokenID:      decision.Token.ID,
		})

		ctx := WithRequestNo(c.Request.Context(), requestNo)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
