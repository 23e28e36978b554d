package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateCORSMiddleware(t *testing.T) {
	t.Run("DisabledReturnsNil", func(t *testing.T) {
		middleware := createCORSMiddleware(false, "https://example.com", discardLogger())
		assert.Nil(t, middleware)
	})

	t.Run("EnabledWithoutOriginsReturnsNil", func(t *testing.T) {
		middleware := createCORSMiddleware(true, "", discardLogger())
		assert.Nil(t, middleware)
	})

	t.Run("EnabledWithOriginsAppliesHeaders", func(t *testing.T) {
		middleware := createCORSMiddleware(true, "https://example.com", discardLogger())
		require.NotNil(t, middleware)

		router := gin.New()
		router.Use(middleware)
		router.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("DisallowedOriginRejected", func(t *testing.T) {
		middleware := createCORSMiddleware(true, "https://example.com", discardLogger())
		require.NotNil(t, middleware)

		router := gin.New()
		router.Use(middleware)
		router.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://evil.example.org")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t,
		[]string{"https://a.example.com", "https://b.example.com"},
		parseOrigins(" https://a.example.com , https://b.example.com "),
	)
	assert.Empty(t, parseOrigins(" , ,"))
}
