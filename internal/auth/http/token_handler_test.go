package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

func newTokenRouter(tokenUseCase *mockTokenUseCase) *gin.Engine {
	handler := NewTokenHandler(tokenUseCase, slog.Default())
	router := gin.New()
	router.POST("/v1/tokens", handler.IssueTokenHandler)
	router.POST("/v1/tokens/activate", handler.ActivateTokenHandler)
	return router
}

func TestTokenHandler_IssueTokenHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		expiresAt := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		output := &authDomain.IssueTokenOutput{
			ID:         uuid.Must(uuid.NewV7()),
			PlainToken: "plain-token",
			ExpiresAt:  &expiresAt,
		}

		tokenUseCase := new(mockTokenUseCase)
		tokenUseCase.On("Issue", mock.Anything, mock.MatchedBy(func(input *authDomain.IssueTokenInput) bool {
			return input.Organization == "weather-portal" &&
				len(input.Capabilities) == 2 &&
				input.Activated
		})).Return(output, nil)

		body, err := json.Marshal(map[string]any{
			"organization": "weather-portal",
			"capabilities": []int{1, 2},
			"activated":    true,
		})
		require.NoError(t, err)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/v1/tokens", bytes.NewReader(body))
		newTokenRouter(tokenUseCase).ServeHTTP(recorder, request)

		require.Equal(t, http.StatusCreated, recorder.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "plain-token", response["token"])
		tokenUseCase.AssertExpectations(t)
	})

	t.Run("MissingOrganization", func(t *testing.T) {
		tokenUseCase := new(mockTokenUseCase)

		body := []byte(`{"capabilities": [1]}`)
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/v1/tokens", bytes.NewReader(body))
		newTokenRouter(tokenUseCase).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		tokenUseCase.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		tokenUseCase := new(mockTokenUseCase)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/v1/tokens", bytes.NewReader([]byte("{")))
		newTokenRouter(tokenUseCase).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("UnknownCapability", func(t *testing.T) {
		tokenUseCase := new(mockTokenUseCase)
		tokenUseCase.On("Issue", mock.Anything, mock.Anything).
			Return(nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unknown capability id 99"))

		body := []byte(`{"organization": "weather-portal", "capabilities": [99]}`)
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/v1/tokens", bytes.NewReader(body))
		newTokenRouter(tokenUseCase).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestTokenHandler_ActivateTokenHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		tokenUseCase := new(mockTokenUseCase)
		tokenUseCase.On("Activate", mock.Anything, "plain-token").Return(nil)

		body := []byte(`{"token": "plain-token"}`)
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/v1/tokens/activate", bytes.NewReader(body))
		newTokenRouter(tokenUseCase).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		tokenUseCase.AssertExpectations(t)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		tokenUseCase := new(mockTokenUseCase)
		tokenUseCase.On("Activate", mock.Anything, "bad-token").
			Return(apperrors.ErrInvalidToken)

		body := []byte(`{"token": "bad-token"}`)
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/v1/tokens/activate", bytes.NewReader(body))
		newTokenRouter(tokenUseCase).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("BlankToken", func(t *testing.T) {
		tokenUseCase := new(mockTokenUseCase)

		body := []byte(`{"token": "  "}`)
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/v1/tokens/activate", bytes.NewReader(body))
		newTokenRouter(tokenUseCase).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		tokenUseCase.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything)
	})
}
