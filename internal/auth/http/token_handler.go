package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	"github.com/cuacalab/forecast-api/internal/auth/http/dto"
	authUseCase "github.com/cuacalab/forecast-api/internal/auth/usecase"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
	customValidation "github.com/cuacalab/forecast-api/internal/validation"
)

// TokenHandler handles the administrative token lifecycle endpoints.
type TokenHandler struct {
	tokenUseCase authUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	tokenUseCase authUseCase.TokenUseCase,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// IssueTokenHandler issues a new API token for an organization.
// POST /v1/tokens - Administrative endpoint, IP rate limited.
// Returns 201 Created with the plain token and its expiry.
func (h *TokenHandler) IssueTokenHandler(c *gin.Context) {
	var req dto.IssueTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := req.Validate(); err != nil {
		h.handleError(c, customValidation.WrapValidationError(err))
		return
	}

	input := &authDomain.IssueTokenInput{
		Organization: req.Organization,
		Email:        req.Email,
		Capabilities: req.CapabilityIDs(),
		Activated:    req.Activated,
	}

	output, err := h.tokenUseCase.Issue(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response := dto.IssueTokenResponse{
		ID:        output.ID.String(),
		Token:     output.PlainToken,
		ExpiresAt: output.ExpiresAt,
	}

	c.JSON(http.StatusCreated, response)
}

// ActivateTokenHandler flips an issued token to activated status.
// POST /v1/tokens/activate - Administrative endpoint, IP rate limited.
// Returns 204 No Content; activation is idempotent.
func (h *TokenHandler) ActivateTokenHandler(c *gin.Context) {
	var req dto.ActivateTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := req.Validate(); err != nil {
		h.handleError(c, customValidation.WrapValidationError(err))
		return
	}

	if err := h.tokenUseCase.Activate(c.Request.Context(), req.Token); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// handleError maps domain errors onto plain JSON error responses. The
// administrative endpoints are not gated capabilities, so they do not use the
// envelope shape.
func (h *TokenHandler) handleError(c *gin.Context, err error) {
	var statusCode int
	var message string

	switch {
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case apperrors.Is(err, apperrors.ErrInvalidToken):
		statusCode = http.StatusUnauthorized
		message = "token is invalid"
	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "resource not found"
	default:
		statusCode = http.StatusInternalServerError
		message = "an internal error occurred"
		h.logger.Error("token endpoint failed", slog.Any("error", err))
	}

	c.JSON(statusCode, gin.H{"error": message})
}
